package checkout

import "github.com/shopspring/decimal"

var (
	FreeShippingThreshold = decimal.NewFromInt(100)
	FlatShippingCost      = decimal.NewFromInt(15)
	TaxRate               = decimal.RequireFromString("0.08")
)

// Totals are derived from the cart subtotal on every read.
type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
	// FreeShippingRemaining is how much more the shopper must add to ship for
	// free; zero once the threshold is met.
	FreeShippingRemaining decimal.Decimal
}

func ShippingCost(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShippingCost
}

func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate)
}

func ComputeTotals(subtotal decimal.Decimal) Totals {
	shipping := ShippingCost(subtotal)
	tax := Tax(subtotal)

	remaining := FreeShippingThreshold.Sub(subtotal)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return Totals{
		Subtotal:              subtotal,
		Shipping:              shipping,
		Tax:                   tax,
		Total:                 subtotal.Add(shipping).Add(tax),
		FreeShippingRemaining: remaining,
	}
}
