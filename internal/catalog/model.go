package catalog

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a product id has no catalog entry.
	ErrNotFound = errors.New("product not found")
	// ErrInvalidSelection is returned when a color or size is not offered.
	ErrInvalidSelection = errors.New("invalid product selection")
)

type Category string

const (
	CategorySneakers Category = "sneakers"
	CategoryBoots    Category = "boots"
	CategoryLoafers  Category = "loafers"
	CategorySandals  Category = "sandals"
)

func (c Category) Valid() bool {
	switch c {
	case CategorySneakers, CategoryBoots, CategoryLoafers, CategorySandals:
		return true
	}
	return false
}

type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

type Product struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Price         decimal.Decimal     `json:"price"`
	OriginalPrice *decimal.Decimal    `json:"originalPrice,omitempty"`
	Images        map[string][]string `json:"images"`
	Colors        []Color             `json:"colors"`
	Sizes         []string            `json:"sizes"`
	Description   string              `json:"description"`
	Features      []string            `json:"features"`
	Category      Category            `json:"category"`
	IsNew         bool                `json:"isNew"`
	IsFeatured    bool                `json:"isFeatured"`
}

// HasColor matches color names case-insensitively.
func (p Product) HasColor(name string) bool {
	_, ok := p.ColorName(name)
	return ok
}

// ColorName returns the catalog spelling of a color, so "white" and "White"
// resolve to the same cart line.
func (p Product) ColorName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, c := range p.Colors {
		if strings.EqualFold(c.Name, name) {
			return c.Name, true
		}
	}
	return "", false
}

func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}
