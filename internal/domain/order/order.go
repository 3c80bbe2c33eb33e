// Package order models placed orders and their payment and delivery lifecycle.
package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
)

// Item is a product line frozen at order time
type Item struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Slug      string
	Name      string
	Image     string
	Quantity  int
	Price     decimal.Decimal
}

// ShippingAddress is where the order ships to
type ShippingAddress struct {
	FullName   string
	Address    string
	City       string
	PostalCode string
	Country    string
}

// PaymentResult is what the payment provider reported
type PaymentResult struct {
	ID           string
	Status       string
	UpdateTime   string
	EmailAddress string
}

// Order is the aggregate root for a placed order
type Order struct {
	shared.BaseEntity
	UserID          uuid.UUID
	Items           []Item
	ShippingAddress ShippingAddress
	PaymentMethod   string
	PaymentResult   *PaymentResult
	ItemsPrice      decimal.Decimal
	ShippingPrice   decimal.Decimal
	TaxPrice        decimal.Decimal
	TotalPrice      decimal.Decimal
	IsPaid          bool
	PaidAt          *time.Time
	IsDelivered     bool
	DeliveredAt     *time.Time
}

// NewOrder creates an order from already validated line items and totals
func NewOrder(userID uuid.UUID, items []Item, address ShippingAddress, paymentMethod string, totals pricing.Totals) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Order must belong to a user")
	}
	if len(items) == 0 {
		return nil, shared.ErrEmptyCart
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
		}
		if item.Price.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
		}
	}
	if err := address.validate(); err != nil {
		return nil, err
	}
	paymentMethod = strings.TrimSpace(paymentMethod)
	if paymentMethod == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is required")
	}

	lines := make([]Item, len(items))
	for i, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		lines[i] = item
	}

	return &Order{
		BaseEntity:      shared.NewBaseEntity(),
		UserID:          userID,
		Items:           lines,
		ShippingAddress: address,
		PaymentMethod:   paymentMethod,
		ItemsPrice:      totals.ItemsPrice,
		ShippingPrice:   totals.ShippingPrice,
		TaxPrice:        totals.TaxPrice,
		TotalPrice:      totals.TotalPrice,
	}, nil
}

// Lines returns the order items in calculator form
func (o *Order) Lines() []pricing.Line {
	lines := make([]pricing.Line, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, pricing.Line{Price: item.Price, Quantity: item.Quantity})
	}
	return lines
}

// Totals returns the stored totals
func (o *Order) Totals() pricing.Totals {
	return pricing.Totals{
		ItemsPrice:    o.ItemsPrice,
		ShippingPrice: o.ShippingPrice,
		TaxPrice:      o.TaxPrice,
		TotalPrice:    o.TotalPrice,
	}
}

// MarkPaid records the payment result
func (o *Order) MarkPaid(result PaymentResult) error {
	if o.IsPaid {
		return shared.NewDomainError("INVALID_STATE", "Order is already paid")
	}
	now := time.Now()
	o.IsPaid = true
	o.PaidAt = &now
	o.PaymentResult = &result
	o.Touch()
	return nil
}

// MarkDelivered records delivery of a paid order
func (o *Order) MarkDelivered() error {
	if !o.IsPaid {
		return shared.NewDomainError("INVALID_STATE", "Order must be paid before delivery")
	}
	if o.IsDelivered {
		return shared.NewDomainError("INVALID_STATE", "Order is already delivered")
	}
	now := time.Now()
	o.IsDelivered = true
	o.DeliveredAt = &now
	o.Touch()
	return nil
}

// OwnedBy reports whether userID placed the order
func (o *Order) OwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}

func (a ShippingAddress) validate() error {
	if strings.TrimSpace(a.FullName) == "" ||
		strings.TrimSpace(a.Address) == "" ||
		strings.TrimSpace(a.City) == "" ||
		strings.TrimSpace(a.PostalCode) == "" ||
		strings.TrimSpace(a.Country) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Shipping address is incomplete")
	}
	return nil
}
