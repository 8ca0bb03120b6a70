package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

type SortOrder string

const (
	SortName      SortOrder = "name"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	SortNewest    SortOrder = "newest"
)

func (s SortOrder) Valid() bool {
	switch s {
	case SortName, SortPriceLow, SortPriceHigh, SortNewest:
		return true
	}
	return false
}

// CategoryAll disables the category filter.
const CategoryAll Category = "all"

var (
	DefaultMinPrice = decimal.Zero
	DefaultMaxPrice = decimal.NewFromInt(500)
)

// Query mirrors the product listing filters: free-text search, category,
// inclusive price range and sort order.
type Query struct {
	Search   string
	Category Category
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	Sort     SortOrder
}

func DefaultQuery() Query {
	return Query{
		Category: CategoryAll,
		MinPrice: DefaultMinPrice,
		MaxPrice: DefaultMaxPrice,
		Sort:     SortNewest,
	}
}

// Search filters and sorts products. The input slice is not modified.
func Search(products []Product, q Query) []Product {
	term := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			continue
		}
		if q.Category != "" && q.Category != CategoryAll && p.Category != q.Category {
			continue
		}
		if p.Price.LessThan(q.MinPrice) || p.Price.GreaterThan(q.MaxPrice) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortName:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].IsNew && !out[j].IsNew })
	}
	return out
}

func Featured(products []Product) []Product {
	return filter(products, func(p Product) bool { return p.IsFeatured })
}

func New(products []Product) []Product {
	return filter(products, func(p Product) bool { return p.IsNew })
}

// Related returns up to limit other products in the same category.
func Related(products []Product, of Product, limit int) []Product {
	out := filter(products, func(p Product) bool {
		return p.ID != of.ID && p.Category == of.Category
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func filter(products []Product, keep func(Product) bool) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
