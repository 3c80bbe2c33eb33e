package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
)

// OrderModel is the persistence model for the Order aggregate.
type OrderModel struct {
	BaseModel
	UserID        uuid.UUID          `gorm:"type:uuid;not null;index"`
	Items         []OrderItemModel   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Shipping      ShippingAddressCol `gorm:"embedded;embeddedPrefix:shipping_"`
	PaymentMethod string             `gorm:"type:varchar(50);not null"`

	PaymentResultID     *string `gorm:"type:varchar(100)"`
	PaymentResultStatus *string `gorm:"type:varchar(50)"`
	PaymentResultUpdate *string `gorm:"column:payment_result_update_time;type:varchar(50)"`
	PaymentResultEmail  *string `gorm:"column:payment_result_email_address;type:varchar(200)"`

	ItemsPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ShippingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TaxPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	IsPaid        bool            `gorm:"not null;default:false"`
	PaidAt        *time.Time
	IsDelivered   bool `gorm:"not null;default:false"`
	DeliveredAt   *time.Time
}

// ShippingAddressCol holds the embedded shipping address columns
type ShippingAddressCol struct {
	FullName   string `gorm:"type:varchar(200);not null"`
	Address    string `gorm:"type:varchar(500);not null"`
	City       string `gorm:"type:varchar(100);not null"`
	PostalCode string `gorm:"type:varchar(20);not null"`
	Country    string `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the persistence model for an order line.
type OrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Slug      string          `gorm:"type:varchar(200);not null"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Image     string          `gorm:"type:varchar(500);not null;default:''"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Items:      make([]order.Item, 0, len(m.Items)),
		ShippingAddress: order.ShippingAddress{
			FullName:   m.Shipping.FullName,
			Address:    m.Shipping.Address,
			City:       m.Shipping.City,
			PostalCode: m.Shipping.PostalCode,
			Country:    m.Shipping.Country,
		},
		PaymentMethod: m.PaymentMethod,
		ItemsPrice:    m.ItemsPrice,
		ShippingPrice: m.ShippingPrice,
		TaxPrice:      m.TaxPrice,
		TotalPrice:    m.TotalPrice,
		IsPaid:        m.IsPaid,
		PaidAt:        m.PaidAt,
		IsDelivered:   m.IsDelivered,
		DeliveredAt:   m.DeliveredAt,
	}
	for _, item := range m.Items {
		o.Items = append(o.Items, order.Item{
			ID:        item.ID,
			ProductID: item.ProductID,
			Slug:      item.Slug,
			Name:      item.Name,
			Image:     item.Image,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	if m.PaymentResultID != nil {
		o.PaymentResult = &order.PaymentResult{
			ID:           *m.PaymentResultID,
			Status:       deref(m.PaymentResultStatus),
			UpdateTime:   deref(m.PaymentResultUpdate),
			EmailAddress: deref(m.PaymentResultEmail),
		}
	}
	return o
}

// FromDomain populates the persistence model from a domain Order aggregate.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.UserID = o.UserID
	m.Shipping = ShippingAddressCol{
		FullName:   o.ShippingAddress.FullName,
		Address:    o.ShippingAddress.Address,
		City:       o.ShippingAddress.City,
		PostalCode: o.ShippingAddress.PostalCode,
		Country:    o.ShippingAddress.Country,
	}
	m.PaymentMethod = o.PaymentMethod
	m.ItemsPrice = o.ItemsPrice
	m.ShippingPrice = o.ShippingPrice
	m.TaxPrice = o.TaxPrice
	m.TotalPrice = o.TotalPrice
	m.IsPaid = o.IsPaid
	m.PaidAt = o.PaidAt
	m.IsDelivered = o.IsDelivered
	m.DeliveredAt = o.DeliveredAt

	m.PaymentResultID, m.PaymentResultStatus, m.PaymentResultUpdate, m.PaymentResultEmail = nil, nil, nil, nil
	if r := o.PaymentResult; r != nil {
		m.PaymentResultID = &r.ID
		m.PaymentResultStatus = &r.Status
		m.PaymentResultUpdate = &r.UpdateTime
		m.PaymentResultEmail = &r.EmailAddress
	}

	m.Items = make([]OrderItemModel, 0, len(o.Items))
	for _, item := range o.Items {
		m.Items = append(m.Items, OrderItemModel{
			ID:        item.ID,
			OrderID:   o.ID,
			ProductID: item.ProductID,
			Slug:      item.Slug,
			Name:      item.Name,
			Image:     item.Image,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order aggregate.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
