package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/riteshrajpandit/shikhar-shoe/internal/cart"
	"github.com/riteshrajpandit/shikhar-shoe/internal/catalog"
	"github.com/riteshrajpandit/shikhar-shoe/internal/checkout"
	"github.com/riteshrajpandit/shikhar-shoe/internal/logger"
)

type ErrorResponse struct {
	Error         string            `json:"error"`
	CorrelationID string            `json:"correlationId,omitempty"`
	Fields        map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:         msg,
		CorrelationID: GetCorrelationID(r.Context()),
	})
}

// writeServiceError maps domain errors to status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:         checkout.ErrInvalidDetails.Error(),
			CorrelationID: GetCorrelationID(r.Context()),
			Fields:        verr.Fields,
		})
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, r, http.StatusNotFound, catalog.ErrNotFound.Error())
	case errors.Is(err, catalog.ErrInvalidSelection):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, r, http.StatusConflict, checkout.ErrEmptyCart.Error())
	case errors.Is(err, checkout.ErrCheckoutInProgress):
		writeError(w, r, http.StatusConflict, checkout.ErrCheckoutInProgress.Error())
	case errors.Is(err, checkout.ErrSubmissionFailed):
		logger.FromContext(r.Context()).Error("order submission failed", zap.Error(err))
		writeError(w, r, http.StatusBadGateway, checkout.ErrSubmissionFailed.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.FromContext(r.Context()).Info("request abandoned", zap.Error(err))
		writeError(w, r, http.StatusServiceUnavailable, "request cancelled")
	default:
		logger.FromContext(r.Context()).Error("request failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a request body into v, bounded by limit bytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	return json.NewDecoder(r.Body).Decode(v)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type productResponse struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Price         string              `json:"price"`
	OriginalPrice *string             `json:"originalPrice,omitempty"`
	Images        map[string][]string `json:"images"`
	Colors        []catalog.Color     `json:"colors"`
	Sizes         []string            `json:"sizes"`
	Description   string              `json:"description"`
	Features      []string            `json:"features"`
	Category      catalog.Category    `json:"category"`
	IsNew         bool                `json:"isNew"`
	IsFeatured    bool                `json:"isFeatured"`
}

func toProductResponse(p catalog.Product) productResponse {
	out := productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       money(p.Price),
		Images:      p.Images,
		Colors:      p.Colors,
		Sizes:       p.Sizes,
		Description: p.Description,
		Features:    p.Features,
		Category:    p.Category,
		IsNew:       p.IsNew,
		IsFeatured:  p.IsFeatured,
	}
	if p.OriginalPrice != nil {
		s := money(*p.OriginalPrice)
		out.OriginalPrice = &s
	}
	return out
}

func toProductList(products []catalog.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

type lineItemResponse struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	ImageRef  string `json:"imageRef"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

func toLineItems(items []cart.LineItem) []lineItemResponse {
	out := make([]lineItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, lineItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: money(it.UnitPrice),
			ImageRef:  it.ImageRef,
			Color:     it.Color,
			Size:      it.Size,
			Quantity:  it.Quantity,
			LineTotal: money(it.LineTotal()),
		})
	}
	return out
}

type totalsResponse struct {
	Subtotal              string `json:"subtotal"`
	Shipping              string `json:"shipping"`
	Tax                   string `json:"tax"`
	Total                 string `json:"total"`
	FreeShipping          bool   `json:"freeShipping"`
	FreeShippingRemaining string `json:"freeShippingRemaining"`
}

func toTotals(t checkout.Totals) totalsResponse {
	return totalsResponse{
		Subtotal:              money(t.Subtotal),
		Shipping:              money(t.Shipping),
		Tax:                   money(t.Tax),
		Total:                 money(t.Total),
		FreeShipping:          t.Shipping.IsZero(),
		FreeShippingRemaining: money(t.FreeShippingRemaining),
	}
}

type cartResponse struct {
	Items     []lineItemResponse `json:"items"`
	ItemCount int                `json:"itemCount"`
	Subtotal  string             `json:"subtotal"`
	Totals    totalsResponse     `json:"totals"`
	Empty     bool               `json:"empty"`
}

func toCartResponse(s cart.Snapshot) cartResponse {
	return cartResponse{
		Items:     toLineItems(s.Items),
		ItemCount: s.ItemCount,
		Subtotal:  money(s.Subtotal),
		Totals:    toTotals(checkout.ComputeTotals(s.Subtotal)),
		Empty:     s.Empty(),
	}
}

type orderResponse struct {
	OrderNumber string                   `json:"orderNumber"`
	Items       []lineItemResponse       `json:"items"`
	Totals      totalsResponse           `json:"totals"`
	Details     checkout.ShippingDetails `json:"details"`
	PlacedAt    time.Time                `json:"placedAt"`
}

func toOrderResponse(o checkout.Order) orderResponse {
	return orderResponse{
		OrderNumber: o.Number,
		Items:       toLineItems(o.Items),
		Totals:      toTotals(o.Totals),
		Details:     o.Details,
		PlacedAt:    o.PlacedAt,
	}
}
