package cart

import "github.com/shopspring/decimal"

// Key identifies a line item. Two lines with the same product, color and size
// are the same line.
type Key struct {
	ProductID string `json:"productId"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

// Candidate is what a product view hands to AddItem.
type Candidate struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	ImageRef  string          `json:"imageRef"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
}

func (c Candidate) Key() Key {
	return Key{ProductID: c.ProductID, Color: c.Color, Size: c.Size}
}

// LineItem is one row in the cart. Name, price and image are copied from the
// catalog when the line is first added and never refreshed.
type LineItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	ImageRef  string          `json:"imageRef"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
}

func (it LineItem) Key() Key {
	return Key{ProductID: it.ProductID, Color: it.Color, Size: it.Size}
}

// LineTotal is unit price times quantity.
func (it LineItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Snapshot is a consistent read of the whole cart.
type Snapshot struct {
	Items     []LineItem      `json:"items"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func (s Snapshot) Empty() bool {
	return len(s.Items) == 0
}
