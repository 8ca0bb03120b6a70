package catalog

import (
	"fmt"
	"strings"
)

// Variant is a concrete color/size pick of a product plus the image shown for it.
type Variant struct {
	Color    string
	Size     string
	ImageRef string
}

// Resolve picks a variant the way the product page does: colors match without
// regard to case and come back in catalog spelling, a blank color means the
// first listed color, a blank size means the third listed size (or the first
// when fewer are offered). An out-of-range image index falls back to the first
// image.
func Resolve(p Product, color, size string, imageIndex int) (Variant, error) {
	if color == "" {
		if len(p.Colors) == 0 {
			return Variant{}, fmt.Errorf("%w: product %s has no colors", ErrInvalidSelection, p.ID)
		}
		color = p.Colors[0].Name
	}
	if size == "" {
		switch {
		case len(p.Sizes) > 2:
			size = p.Sizes[2]
		case len(p.Sizes) > 0:
			size = p.Sizes[0]
		default:
			return Variant{}, fmt.Errorf("%w: product %s has no sizes", ErrInvalidSelection, p.ID)
		}
	}

	canonical, ok := p.ColorName(color)
	if !ok {
		return Variant{}, fmt.Errorf("%w: color %q not offered for product %s", ErrInvalidSelection, color, p.ID)
	}
	color = canonical
	if !p.HasSize(size) {
		return Variant{}, fmt.Errorf("%w: size %q not offered for product %s", ErrInvalidSelection, size, p.ID)
	}

	images := imagesFor(p, color)
	ref := ""
	if len(images) > 0 {
		if imageIndex < 0 || imageIndex >= len(images) {
			imageIndex = 0
		}
		ref = images[imageIndex]
	}

	return Variant{Color: color, Size: size, ImageRef: ref}, nil
}

func imagesFor(p Product, color string) []string {
	if refs, ok := p.Images[strings.ToLower(color)]; ok && len(refs) > 0 {
		return refs
	}
	// Map order is random; fall back to the first listed color that has images.
	for _, c := range p.Colors {
		if refs := p.Images[strings.ToLower(c.Name)]; len(refs) > 0 {
			return refs
		}
	}
	return nil
}
