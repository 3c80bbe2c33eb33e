package models

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	Name         string          `gorm:"type:varchar(200);not null"`
	Slug         string          `gorm:"type:varchar(200);not null;uniqueIndex"`
	Category     string          `gorm:"type:varchar(100);not null;default:'';index"`
	Brand        string          `gorm:"type:varchar(100);not null;default:''"`
	Image        string          `gorm:"type:varchar(500);not null;default:''"`
	Description  string          `gorm:"type:text"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CountInStock int             `gorm:"not null;default:0"`
	Rating       decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0"`
	NumReviews   int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity:   m.BaseModel.ToDomain(),
		Name:         m.Name,
		Slug:         m.Slug,
		Category:     m.Category,
		Brand:        m.Brand,
		Image:        m.Image,
		Description:  m.Description,
		Price:        m.Price,
		CountInStock: m.CountInStock,
		Rating:       m.Rating,
		NumReviews:   m.NumReviews,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.Slug = p.Slug
	m.Category = p.Category
	m.Brand = p.Brand
	m.Image = p.Image
	m.Description = p.Description
	m.Price = p.Price
	m.CountInStock = p.CountInStock
	m.Rating = p.Rating
	m.NumReviews = p.NumReviews
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
