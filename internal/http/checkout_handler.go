package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/riteshrajpandit/shikhar-shoe/internal/checkout"
)

type quoteResponse struct {
	Items     []lineItemResponse `json:"items"`
	ItemCount int                `json:"itemCount"`
	Totals    totalsResponse     `json:"totals"`
}

type stepResponse struct {
	Step  checkout.Step `json:"step"`
	Valid bool          `json:"valid"`
}

func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	c, ok := h.cartFor(w, r)
	if !ok {
		return
	}

	q, err := h.checkout.Quote(c)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, quoteResponse{
		Items:     toLineItems(q.Items),
		ItemCount: q.ItemCount,
		Totals:    toTotals(q.Totals),
	})
}

func (h *Handler) ValidateStep(w http.ResponseWriter, r *http.Request) {
	step, err := checkout.ParseStep(chi.URLParam(r, "step"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}

	var details checkout.ShippingDetails
	if err := decodeJSON(w, r, h.maxBody, &details); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	if err := details.WithDefaults().ValidateStep(step); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stepResponse{Step: step, Valid: true})
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	c, ok := h.cartFor(w, r)
	if !ok {
		return
	}
	s, _ := sessionFrom(r.Context())

	var details checkout.ShippingDetails
	if err := decodeJSON(w, r, h.maxBody, &details); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	order, err := h.checkout.PlaceOrder(r.Context(), c, checkout.PlaceOrderRequest{
		SessionID: s.ID,
		Details:   details,
		Meta: checkout.EventMetadata{
			CorrelationID: GetCorrelationID(r.Context()),
			CausationID:   middleware.GetReqID(r.Context()),
		},
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}
