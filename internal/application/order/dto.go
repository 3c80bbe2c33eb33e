package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/pricing"
)

// Requester is the authenticated caller of an order operation
type Requester struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// OrderItemInput is one submitted order line
type OrderItemInput struct {
	ProductID uuid.UUID       `json:"product" binding:"required"`
	Slug      string          `json:"slug" binding:"required"`
	Name      string          `json:"name" binding:"required"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	Price     decimal.Decimal `json:"price"`
}

// ShippingAddressInput is the submitted destination
type ShippingAddressInput struct {
	FullName   string `json:"fullName" binding:"required"`
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required"`
	Country    string `json:"country" binding:"required"`
}

// CreateOrderInput is a submitted order. Totals are checked against the server side calculation.
type CreateOrderInput struct {
	OrderItems      []OrderItemInput     `json:"orderItems" binding:"required,min=1,dive"`
	ShippingAddress ShippingAddressInput `json:"shippingAddress"`
	PaymentMethod   string               `json:"paymentMethod" binding:"required"`
	ItemsPrice      decimal.Decimal      `json:"itemsPrice"`
	ShippingPrice   decimal.Decimal      `json:"shippingPrice"`
	TaxPrice        decimal.Decimal      `json:"taxPrice"`
	TotalPrice      decimal.Decimal      `json:"totalPrice"`
}

// Totals returns the submitted totals
func (in CreateOrderInput) Totals() pricing.Totals {
	return pricing.Totals{
		ItemsPrice:    in.ItemsPrice,
		ShippingPrice: in.ShippingPrice,
		TaxPrice:      in.TaxPrice,
		TotalPrice:    in.TotalPrice,
	}
}

// PayOrderInput is the payment provider callback payload
type PayOrderInput struct {
	ID           string `json:"id" binding:"required"`
	Status       string `json:"status" binding:"required"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

// OrderItemResponse is an order line in API responses
type OrderItemResponse struct {
	ProductID uuid.UUID       `json:"product"`
	Slug      string          `json:"slug"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// PaymentResultResponse is the recorded payment
type PaymentResultResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

// OrderResponse is an order in API responses
type OrderResponse struct {
	ID              uuid.UUID              `json:"_id"`
	User            uuid.UUID              `json:"user"`
	OrderItems      []OrderItemResponse    `json:"orderItems"`
	ShippingAddress ShippingAddressInput   `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	PaymentResult   *PaymentResultResponse `json:"paymentResult,omitempty"`
	ItemsPrice      decimal.Decimal        `json:"itemsPrice"`
	ShippingPrice   decimal.Decimal        `json:"shippingPrice"`
	TaxPrice        decimal.Decimal        `json:"taxPrice"`
	TotalPrice      decimal.Decimal        `json:"totalPrice"`
	IsPaid          bool                   `json:"isPaid"`
	PaidAt          *time.Time             `json:"paidAt,omitempty"`
	IsDelivered     bool                   `json:"isDelivered"`
	DeliveredAt     *time.Time             `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

// ToOrderResponse converts a domain order to a response
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ProductID: item.ProductID,
			Slug:      item.Slug,
			Name:      item.Name,
			Image:     item.Image,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	resp := OrderResponse{
		ID:         o.ID,
		User:       o.UserID,
		OrderItems: items,
		ShippingAddress: ShippingAddressInput{
			FullName:   o.ShippingAddress.FullName,
			Address:    o.ShippingAddress.Address,
			City:       o.ShippingAddress.City,
			PostalCode: o.ShippingAddress.PostalCode,
			Country:    o.ShippingAddress.Country,
		},
		PaymentMethod: o.PaymentMethod,
		ItemsPrice:    o.ItemsPrice,
		ShippingPrice: o.ShippingPrice,
		TaxPrice:      o.TaxPrice,
		TotalPrice:    o.TotalPrice,
		IsPaid:        o.IsPaid,
		PaidAt:        o.PaidAt,
		IsDelivered:   o.IsDelivered,
		DeliveredAt:   o.DeliveredAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if o.PaymentResult != nil {
		resp.PaymentResult = &PaymentResultResponse{
			ID:           o.PaymentResult.ID,
			Status:       o.PaymentResult.Status,
			UpdateTime:   o.PaymentResult.UpdateTime,
			EmailAddress: o.PaymentResult.EmailAddress,
		}
	}
	return resp
}
