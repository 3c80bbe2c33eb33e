package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ParsePolicy overlays the non-empty decimal strings on DefaultPolicy.
func ParsePolicy(freeShippingThreshold, flatShippingRate, taxRate string) (Policy, error) {
	p := DefaultPolicy()

	fields := []struct {
		name  string
		raw   string
		field *decimal.Decimal
	}{
		{"free shipping threshold", freeShippingThreshold, &p.FreeShippingThreshold},
		{"flat shipping rate", flatShippingRate, &p.FlatShippingRate},
		{"tax rate", taxRate, &p.TaxRate},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return Policy{}, fmt.Errorf("parse %s %q: %w", f.name, f.raw, err)
		}
		if d.IsNegative() {
			return Policy{}, fmt.Errorf("%s cannot be negative", f.name)
		}
		*f.field = d
	}
	return p, nil
}
