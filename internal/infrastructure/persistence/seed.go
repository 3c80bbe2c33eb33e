package persistence

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"go.uber.org/zap"
)

//go:embed seed/products.toml
var defaultSeed []byte

// SeedData is the decoded seed file
type SeedData struct {
	Users    []SeedUser    `toml:"users"`
	Products []SeedProduct `toml:"products"`
}

// SeedUser is a user entry in the seed file
type SeedUser struct {
	Name     string `toml:"name"`
	Email    string `toml:"email"`
	Password string `toml:"password"`
	IsAdmin  bool   `toml:"is_admin"`
}

// SeedProduct is a product entry in the seed file
type SeedProduct struct {
	Name         string          `toml:"name"`
	Slug         string          `toml:"slug"`
	Category     string          `toml:"category"`
	Brand        string          `toml:"brand"`
	Image        string          `toml:"image"`
	Price        decimal.Decimal `toml:"price"`
	CountInStock int             `toml:"count_in_stock"`
	Rating       decimal.Decimal `toml:"rating"`
	NumReviews   int             `toml:"num_reviews"`
	Description  string          `toml:"description"`
}

// SeedResult counts what a seed run inserted
type SeedResult struct {
	Products int
	Users    int
}

// LoadSeedFile decodes a seed file. An empty path uses the built-in catalog.
func LoadSeedFile(path string) (*SeedData, error) {
	raw := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file: %w", err)
		}
		raw = b
	}

	var data SeedData
	if _, err := toml.Decode(string(raw), &data); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}
	return &data, nil
}

// Seeder inserts seed data that is not already present
type Seeder struct {
	products catalog.ProductRepository
	users    identity.UserRepository
	logger   *zap.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(products catalog.ProductRepository, users identity.UserRepository, logger *zap.Logger) *Seeder {
	return &Seeder{products: products, users: users, logger: logger}
}

// Seed inserts products by slug and users by email, skipping existing ones
func (s *Seeder) Seed(ctx context.Context, data *SeedData) (SeedResult, error) {
	var result SeedResult

	for _, sp := range data.Products {
		exists, err := s.products.ExistsBySlug(ctx, sp.Slug)
		if err != nil {
			return result, err
		}
		if exists {
			continue
		}

		p, err := catalog.NewProduct(sp.Name, sp.Slug, sp.Price, sp.CountInStock)
		if err != nil {
			return result, fmt.Errorf("seed product %q: %w", sp.Slug, err)
		}
		p.Classify(sp.Brand, sp.Category)
		p.Describe(sp.Image, sp.Description)
		if err := p.SetReviews(sp.Rating, sp.NumReviews); err != nil {
			return result, fmt.Errorf("seed product %q: %w", sp.Slug, err)
		}
		if err := s.products.Save(ctx, p); err != nil {
			return result, fmt.Errorf("seed product %q: %w", sp.Slug, err)
		}
		result.Products++
	}

	for _, su := range data.Users {
		exists, err := s.users.ExistsByEmail(ctx, su.Email)
		if err != nil {
			return result, err
		}
		if exists {
			continue
		}

		u, err := identity.NewUser(su.Name, su.Email, su.Password)
		if err != nil {
			return result, fmt.Errorf("seed user %q: %w", su.Email, err)
		}
		u.IsAdmin = su.IsAdmin
		if err := s.users.Create(ctx, u); err != nil {
			return result, fmt.Errorf("seed user %q: %w", su.Email, err)
		}
		result.Users++
	}

	s.logger.Info("seed complete",
		zap.Int("products_inserted", result.Products),
		zap.Int("users_inserted", result.Users),
	)
	return result, nil
}
