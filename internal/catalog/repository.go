package catalog

import "context"

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
}

type staticRepo struct {
	products []Product
	byID     map[string]int
}

// NewStaticRepository serves a read-only, in-memory product list.
func NewStaticRepository(products []Product) Repository {
	r := &staticRepo{
		products: make([]Product, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for i, p := range products {
		r.products[i] = clone(p)
		r.byID[p.ID] = i
	}
	return r
}

func (r *staticRepo) List(ctx context.Context) ([]Product, error) {
	out := make([]Product, len(r.products))
	for i, p := range r.products {
		out[i] = clone(p)
	}
	return out, nil
}

func (r *staticRepo) Get(ctx context.Context, id string) (Product, error) {
	i, ok := r.byID[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return clone(r.products[i]), nil
}

func clone(p Product) Product {
	out := p
	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		out.OriginalPrice = &op
	}
	out.Images = make(map[string][]string, len(p.Images))
	for color, refs := range p.Images {
		out.Images[color] = append([]string(nil), refs...)
	}
	out.Colors = append([]Color(nil), p.Colors...)
	out.Sizes = append([]string(nil), p.Sizes...)
	out.Features = append([]string(nil), p.Features...)
	return out
}
