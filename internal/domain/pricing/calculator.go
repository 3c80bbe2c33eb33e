// Package pricing derives checkout totals from cart contents.
package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/session"
)

// RoundingEpsilon is added to every amount before rounding to cents so that a
// value sitting a hair below a half cent still rounds up.
var RoundingEpsilon = decimal.New(1, -9)

// Round2 rounds v to two decimal places, half up.
func Round2(v decimal.Decimal) decimal.Decimal {
	return v.Add(RoundingEpsilon).Round(2)
}

// Policy holds the shipping and tax rule.
type Policy struct {
	// Orders whose items price is strictly above this ship free.
	FreeShippingThreshold decimal.Decimal
	FlatShippingRate      decimal.Decimal
	TaxRate               decimal.Decimal
}

// DefaultPolicy is free shipping above 100, otherwise 10, and 15% tax.
func DefaultPolicy() Policy {
	return Policy{
		FreeShippingThreshold: decimal.NewFromInt(100),
		FlatShippingRate:      decimal.NewFromInt(10),
		TaxRate:               decimal.NewFromFloat(0.15),
	}
}

// Line is the part of a cart or order line the calculator needs.
type Line struct {
	Price    decimal.Decimal
	Quantity int
}

// Totals are the derived checkout amounts. They are never persisted with the cart.
type Totals struct {
	ItemsPrice    decimal.Decimal `json:"itemsPrice"`
	ShippingPrice decimal.Decimal `json:"shippingPrice"`
	TaxPrice      decimal.Decimal `json:"taxPrice"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
}

// Equal compares all four amounts numerically.
func (t Totals) Equal(o Totals) bool {
	return t.ItemsPrice.Equal(o.ItemsPrice) &&
		t.ShippingPrice.Equal(o.ShippingPrice) &&
		t.TaxPrice.Equal(o.TaxPrice) &&
		t.TotalPrice.Equal(o.TotalPrice)
}

// Compute derives totals for lines. Inputs are trusted and never modified.
func (p Policy) Compute(lines []Line) Totals {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	items := Round2(sum)

	shipping := Round2(p.FlatShippingRate)
	if items.GreaterThan(p.FreeShippingThreshold) {
		shipping = Round2(decimal.Zero)
	}

	tax := Round2(p.TaxRate.Mul(items))

	return Totals{
		ItemsPrice:    items,
		ShippingPrice: shipping,
		TaxPrice:      tax,
		TotalPrice:    items.Add(shipping).Add(tax),
	}
}

// ComputeCart derives totals for cart line items.
func (p Policy) ComputeCart(items []session.CartLineItem) Totals {
	return p.Compute(LinesFromCart(items))
}

// ComputeTotals applies DefaultPolicy to cart line items.
func ComputeTotals(items []session.CartLineItem) Totals {
	return DefaultPolicy().ComputeCart(items)
}

// LinesFromCart projects cart items onto calculator lines.
func LinesFromCart(items []session.CartLineItem) []Line {
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, Line{Price: item.Price, Quantity: item.Quantity})
	}
	return lines
}
