package httpapi

import (
	"net/http"
	"strings"

	"github.com/riteshrajpandit/shikhar-shoe/internal/cart"
	"github.com/riteshrajpandit/shikhar-shoe/internal/catalog"
)

type addItemRequest struct {
	ProductID  string `json:"productId"`
	Color      string `json:"color"`
	Size       string `json:"size"`
	ImageIndex int    `json:"imageIndex"`
}

type updateItemRequest struct {
	ProductID string `json:"productId"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  *int   `json:"quantity"`
}

type removeItemRequest struct {
	ProductID string `json:"productId"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, ok := h.cartFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c.Snapshot()))
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	c, ok := h.cartFor(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		writeError(w, r, http.StatusBadRequest, "productId is required")
		return
	}

	p, err := h.catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	v, err := catalog.Resolve(p, req.Color, req.Size, req.ImageIndex)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	c.AddItem(cart.Candidate{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		ImageRef:  v.ImageRef,
		Color:     v.Color,
		Size:      v.Size,
	})
	h.cartMutation("add", true)

	writeJSON(w, http.StatusOK, toCartResponse(c.Snapshot()))
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	c, ok := h.cartFor(w, r)
	if !ok {
		return
	}

	var req updateItemRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		writeError(w, r, http.StatusBadRequest, "productId is required")
		return
	}
	if req.Quantity == nil {
		writeError(w, r, http.StatusBadRequest, "quantity is required")
		return
	}

	changed := c.UpdateQuantity(h.lineKey(r, req.ProductID, req.Color, req.Size), *req.Quantity)
	h.cartMutation("update", changed)

	writeJSON(w, http.StatusOK, toCartResponse(c.Snapshot()))
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, ok := h.cartFor(w, r)
	if !ok {
		return
	}

	var req removeItemRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		writeError(w, r, http.StatusBadRequest, "productId is required")
		return
	}

	changed := c.RemoveItem(h.lineKey(r, req.ProductID, req.Color, req.Size))
	h.cartMutation("remove", changed)

	writeJSON(w, http.StatusOK, toCartResponse(c.Snapshot()))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, ok := h.cartFor(w, r)
	if !ok {
		return
	}

	h.cartMutation("clear", c.Clear())

	writeJSON(w, http.StatusOK, toCartResponse(c.Snapshot()))
}

// lineKey spells the color the way the catalog does so it matches the key
// AddItem stored. Unknown products keep the color as given.
func (h *Handler) lineKey(r *http.Request, productID, color, size string) cart.Key {
	if p, err := h.catalog.Get(r.Context(), productID); err == nil {
		if canonical, ok := p.ColorName(color); ok {
			color = canonical
		}
	}
	return cart.Key{ProductID: productID, Color: color, Size: size}
}

func (h *Handler) cartFor(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	s, ok := sessionFrom(r.Context())
	if !ok || s.Cart == nil {
		writeError(w, r, http.StatusInternalServerError, "session unavailable")
		return nil, false
	}
	return s.Cart, true
}
