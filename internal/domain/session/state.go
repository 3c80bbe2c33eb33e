// Package session holds the per-session shopping state: the signed-in identity and
// the cart, together with the closed set of actions that transform it.
package session

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// UserIdentity is the signed-in user as seen by the session.
// It is always replaced as a whole, never patched.
type UserIdentity struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	Token   string `json:"token"`
}

// CartLineItem is one distinct product in the cart together with its quantity.
type CartLineItem struct {
	ProductID    string          `json:"_id"`
	Slug         string          `json:"slug"`
	Name         string          `json:"name"`
	Image        string          `json:"image"`
	Price        decimal.Decimal `json:"price"`
	CountInStock int             `json:"countInStock"`
	Quantity     int             `json:"quantity"`
}

// Address is a shipping address. All fields are required once saved.
type Address struct {
	FullName   string `json:"fullName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Validate checks that every field is present.
func (a Address) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"fullName", a.FullName},
		{"address", a.Address},
		{"city", a.City},
		{"postalCode", a.PostalCode},
		{"country", a.Country},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return shared.NewDomainError("INVALID_INPUT", f.name+" is required")
		}
	}
	return nil
}

// CartState is the cart half of the session.
type CartState struct {
	Items           []CartLineItem `json:"cartItems"`
	ShippingAddress *Address       `json:"shippingAddress"`
	PaymentMethod   string         `json:"paymentMethod"`
}

// Find returns the line for productID, if any.
func (c CartState) Find(productID string) (CartLineItem, bool) {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return CartLineItem{}, false
}

// ItemCount is the sum of quantities over all lines.
func (c CartState) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// State is the full session snapshot.
type State struct {
	Identity *UserIdentity `json:"userInfo"`
	Cart     CartState     `json:"cart"`
}

// EmptyState is the state of a fresh or signed-out session.
func EmptyState() State {
	return State{Cart: CartState{Items: []CartLineItem{}}}
}

// SignedIn reports whether an identity is present.
func (s State) SignedIn() bool {
	return s.Identity != nil
}

// Clone returns a deep copy that shares no memory with s.
func (s State) Clone() State {
	out := State{
		Cart: CartState{
			Items:         append([]CartLineItem{}, s.Cart.Items...),
			PaymentMethod: s.Cart.PaymentMethod,
		},
	}
	if s.Identity != nil {
		id := *s.Identity
		out.Identity = &id
	}
	if s.Cart.ShippingAddress != nil {
		addr := *s.Cart.ShippingAddress
		out.Cart.ShippingAddress = &addr
	}
	return out
}
