package catalog

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var titleCaser = cases.Title(language.English)

// Product is a sellable item in the catalog
type Product struct {
	shared.BaseEntity
	Name         string
	Slug         string
	Category     string
	Brand        string
	Image        string
	Description  string
	Price        decimal.Decimal
	CountInStock int
	Rating       decimal.Decimal
	NumReviews   int
}

// NewProduct creates a product with the required fields
func NewProduct(name, slug string, price decimal.Decimal, countInStock int) (*Product, error) {
	name = strings.TrimSpace(name)
	slug = strings.ToLower(strings.TrimSpace(slug))

	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if !slugRegex.MatchString(slug) {
		return nil, shared.NewDomainError("INVALID_SLUG", "Slug must be lowercase words separated by hyphens")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if countInStock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock count cannot be negative")
	}

	return &Product{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         name,
		Slug:         slug,
		Price:        price,
		CountInStock: countInStock,
		Rating:       decimal.Zero,
	}, nil
}

// Classify sets brand and category, normalized to title case
func (p *Product) Classify(brand, category string) {
	p.Brand = titleCaser.String(strings.TrimSpace(brand))
	p.Category = titleCaser.String(strings.TrimSpace(category))
	p.Touch()
}

// Describe sets the image URL and description
func (p *Product) Describe(image, description string) {
	p.Image = strings.TrimSpace(image)
	p.Description = strings.TrimSpace(description)
	p.Touch()
}

// SetReviews sets the aggregate rating
func (p *Product) SetReviews(rating decimal.Decimal, numReviews int) error {
	if rating.IsNegative() || rating.GreaterThan(decimal.NewFromInt(5)) {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 0 and 5")
	}
	if numReviews < 0 {
		return shared.NewDomainError("INVALID_RATING", "Review count cannot be negative")
	}
	p.Rating = rating
	p.NumReviews = numReviews
	p.Touch()
	return nil
}

// HasStock reports whether quantity units can be sold
func (p *Product) HasStock(quantity int) bool {
	return quantity <= p.CountInStock
}
