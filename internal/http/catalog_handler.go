package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/riteshrajpandit/shikhar-shoe/internal/catalog"
)

const relatedLimit = 3

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	products, err := h.catalog.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductList(catalog.Search(products, q)))
}

func (h *Handler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductList(catalog.Featured(products)))
}

func (h *Handler) NewProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductList(catalog.New(products)))
}

type productDetailResponse struct {
	Product productResponse   `json:"product"`
	Related []productResponse `json:"related"`
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Get(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	all, err := h.catalog.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, productDetailResponse{
		Product: toProductResponse(p),
		Related: toProductList(catalog.Related(all, p, relatedLimit)),
	})
}

func parseQuery(r *http.Request) (catalog.Query, error) {
	q := catalog.DefaultQuery()
	params := r.URL.Query()

	q.Search = strings.TrimSpace(params.Get("q"))

	if v := params.Get("category"); v != "" {
		c := catalog.Category(strings.ToLower(v))
		if c != catalog.CategoryAll && !c.Valid() {
			return q, fmt.Errorf("unknown category %q", v)
		}
		q.Category = c
	}

	if v := params.Get("sort"); v != "" {
		s := catalog.SortOrder(strings.ToLower(v))
		if !s.Valid() {
			return q, fmt.Errorf("unknown sort %q", v)
		}
		q.Sort = s
	}

	var err error
	if q.MinPrice, err = parsePrice(params.Get("minPrice"), q.MinPrice); err != nil {
		return q, fmt.Errorf("invalid minPrice: %w", err)
	}
	if q.MaxPrice, err = parsePrice(params.Get("maxPrice"), q.MaxPrice); err != nil {
		return q, fmt.Errorf("invalid maxPrice: %w", err)
	}
	if q.MinPrice.GreaterThan(q.MaxPrice) {
		return q, fmt.Errorf("minPrice must not exceed maxPrice")
	}

	return q, nil
}

func parsePrice(v string, def decimal.Decimal) (decimal.Decimal, error) {
	if v == "" {
		return def, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return def, err
	}
	if d.IsNegative() {
		return def, fmt.Errorf("must not be negative")
	}
	return d, nil
}
