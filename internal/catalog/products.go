package catalog

import "github.com/shopspring/decimal"

const pexels = "https://images.pexels.com/photos/"

func photo(id string) string {
	return pexels + id + "/pexels-photo-" + id + ".jpeg?auto=compress&cs=tinysrgb&w=800"
}

func price(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func pricePtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

var standardSizes = []string{"7", "8", "9", "10", "11", "12"}

// Products is the storefront's fixed product list.
func Products() []Product {
	return []Product{
		{
			ID:            "1",
			Name:          "Urban Minimal",
			Price:         price(189),
			OriginalPrice: pricePtr(229),
			Images: map[string][]string{
				"white": {photo("2529148"), photo("1598505")},
				"black": {photo("1456706"), photo("2529157")},
				"gray":  {photo("2048548")},
			},
			Colors: []Color{
				{Name: "White", Hex: "#FFFFFF"},
				{Name: "Black", Hex: "#000000"},
				{Name: "Gray", Hex: "#6B7280"},
			},
			Sizes:       standardSizes,
			Description: "Clean lines meet comfort in our signature Urban Minimal sneaker. Crafted with premium materials for the modern minimalist.",
			Features: []string{
				"Premium leather upper",
				"Memory foam insole",
				"Durable rubber outsole",
				"Minimalist design",
			},
			Category:   CategorySneakers,
			IsNew:      true,
			IsFeatured: true,
		},
		{
			ID:    "2",
			Name:  "Classic Runner",
			Price: price(159),
			Images: map[string][]string{
				"white": {photo("1478442")},
				"navy":  {photo("1456705")},
			},
			Colors: []Color{
				{Name: "White", Hex: "#FFFFFF"},
				{Name: "Navy", Hex: "#1F2937"},
			},
			Sizes:       standardSizes,
			Description: "Timeless running shoe design with modern comfort technology. Perfect for both athletic performance and casual wear.",
			Features: []string{
				"Breathable mesh upper",
				"Cushioned midsole",
				"Flexible outsole",
				"Lightweight construction",
			},
			Category:   CategorySneakers,
			IsFeatured: true,
		},
		{
			ID:    "3",
			Name:  "Essential Boot",
			Price: price(249),
			Images: map[string][]string{
				"brown": {photo("1102776")},
				"black": {photo("1102777")},
			},
			Colors: []Color{
				{Name: "Brown", Hex: "#8B4513"},
				{Name: "Black", Hex: "#000000"},
			},
			Sizes:       standardSizes,
			Description: "Versatile ankle boot that transitions seamlessly from work to weekend. Crafted from premium leather with attention to detail.",
			Features: []string{
				"Full-grain leather",
				"Comfortable fit",
				"Durable construction",
				"Versatile styling",
			},
			Category: CategoryBoots,
		},
		{
			ID:    "4",
			Name:  "Comfort Loafer",
			Price: price(199),
			Images: map[string][]string{
				"tan":   {photo("298863")},
				"black": {photo("298864")},
			},
			Colors: []Color{
				{Name: "Tan", Hex: "#D2691E"},
				{Name: "Black", Hex: "#000000"},
			},
			Sizes:       standardSizes,
			Description: "Sophisticated slip-on loafer combining traditional craftsmanship with modern comfort features.",
			Features: []string{
				"Soft leather upper",
				"Padded insole",
				"Slip-resistant sole",
				"Easy slip-on design",
			},
			Category: CategoryLoafers,
		},
		{
			ID:    "5",
			Name:  "Street Walker",
			Price: price(139),
			Images: map[string][]string{
				"white": {photo("2562992")},
				"black": {photo("2562993")},
			},
			Colors: []Color{
				{Name: "White", Hex: "#FFFFFF"},
				{Name: "Black", Hex: "#000000"},
			},
			Sizes:       standardSizes,
			Description: "Casual sneaker designed for everyday wear. Combines style and comfort for the urban explorer.",
			Features: []string{
				"Canvas upper",
				"Rubber sole",
				"Comfortable fit",
				"Casual style",
			},
			Category: CategorySneakers,
			IsNew:    true,
		},
		{
			ID:    "6",
			Name:  "Summer Slide",
			Price: price(79),
			Images: map[string][]string{
				"white": {photo("267320")},
				"black": {photo("267321")},
			},
			Colors: []Color{
				{Name: "White", Hex: "#FFFFFF"},
				{Name: "Black", Hex: "#000000"},
			},
			Sizes:       standardSizes,
			Description: "Minimalist slide sandal perfect for warm weather. Simple design with maximum comfort.",
			Features: []string{
				"Soft footbed",
				"Adjustable strap",
				"Water-resistant",
				"Lightweight",
			},
			Category: CategorySandals,
		},
	}
}
