package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveProduct(t *testing.T, repo *GormProductRepository, name, slug, brand, category string, price int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, slug, decimal.NewFromInt(price), 10)
	require.NoError(t, err)
	p.Classify(brand, category)
	require.NoError(t, repo.Save(context.Background(), p))
	return p
}

func TestGormProductRepository_FindByIDAndSlug(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newSQLiteDB(t))
	p := saveProduct(t, repo, "Nike Slim shirt", "nike-slim-shirt", "Nike", "Shirts", 120)

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nike Slim shirt", got.Name)
	assert.True(t, decimal.NewFromInt(120).Equal(got.Price))
	assert.Equal(t, 10, got.CountInStock)

	got, err = repo.FindBySlug(ctx, "NIKE-SLIM-SHIRT")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.FindBySlug(ctx, "missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository_SaveUpdatesStock(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newSQLiteDB(t))
	p := saveProduct(t, repo, "Adidas Fit Pant", "adidas-fit-pant", "Puma", "Pants", 65)

	p.CountInStock = 0
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CountInStock)
	assert.False(t, got.HasStock(1))
}

func TestGormProductRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newSQLiteDB(t))
	saveProduct(t, repo, "Nike Slim shirt", "nike-slim-shirt", "Nike", "Shirts", 120)
	saveProduct(t, repo, "Adidas Fit Shirt", "adidas-fit-shirt", "Adidas", "Shirts", 250)
	saveProduct(t, repo, "Nike Slim Pant", "nike-slim-pant", "Nike", "Pants", 25)

	t.Run("all with total", func(t *testing.T) {
		products, total, err := repo.FindAll(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, products, 3)
	})

	t.Run("search by name or brand", func(t *testing.T) {
		f := shared.DefaultFilter()
		f.Search = "nike"
		products, total, err := repo.FindAll(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, products, 2)
	})

	t.Run("category filter", func(t *testing.T) {
		f := shared.DefaultFilter()
		f.Filters["category"] = "shirts"
		_, total, err := repo.FindAll(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("price ascending with paging", func(t *testing.T) {
		f := shared.DefaultFilter()
		f.OrderBy = "price"
		f.OrderDir = "asc"
		f.PageSize = 2
		products, total, err := repo.FindAll(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, products, 2)
		assert.Equal(t, "nike-slim-pant", products[0].Slug)
		assert.Equal(t, "nike-slim-shirt", products[1].Slug)

		f.Page = 2
		products, _, err = repo.FindAll(ctx, f)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "adidas-fit-shirt", products[0].Slug)
	})
}

func TestGormProductRepository_ExistsBySlug(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newSQLiteDB(t))
	saveProduct(t, repo, "Nike Slim shirt", "nike-slim-shirt", "Nike", "Shirts", 120)

	exists, err := repo.ExistsBySlug(ctx, "nike-slim-shirt")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsBySlug(ctx, "other")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormProductRepository_FindByID_QueryShape(t *testing.T) {
	db, mock, mockDB := newMockPostgresDB(t)
	defer mockDB.Close()
	repo := NewGormProductRepository(db)

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .*`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "price", "count_in_stock"}).
			AddRow(id.String(), "Nike Slim shirt", "nike-slim-shirt", "120.00", 10))

	p, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "nike-slim-shirt", p.Slug)
	assert.True(t, decimal.NewFromInt(120).Equal(p.Price))
	assert.NoError(t, mock.ExpectationsWereMet())
}
