package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, userID uuid.UUID, price int64, qty int) *order.Order {
	t.Helper()
	items := []order.Item{{
		ProductID: uuid.New(),
		Slug:      "nike-slim-shirt",
		Name:      "Nike Slim shirt",
		Image:     "/images/p1.jpg",
		Quantity:  qty,
		Price:     decimal.NewFromInt(price),
	}}
	o, err := order.NewOrder(userID, items,
		order.ShippingAddress{FullName: "Jane", Address: "1 Main St", City: "Lyon", PostalCode: "69001", Country: "FR"},
		"PayPal",
		pricing.DefaultPolicy().Compute([]pricing.Line{{Price: decimal.NewFromInt(price), Quantity: qty}}),
	)
	require.NoError(t, err)
	return o
}

func TestGormOrderRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newSQLiteDB(t))
	o := newTestOrder(t, uuid.New(), 120, 2)

	require.NoError(t, repo.Create(ctx, o))

	got, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, "Lyon", got.ShippingAddress.City)
	assert.True(t, o.Totals().Equal(got.Totals()))
	assert.False(t, got.IsPaid)
	assert.Nil(t, got.PaymentResult)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormOrderRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newSQLiteDB(t))
	o := newTestOrder(t, uuid.New(), 30, 1)
	require.NoError(t, repo.Create(ctx, o))

	require.NoError(t, o.MarkPaid(order.PaymentResult{ID: "PAY-9", Status: "COMPLETED", UpdateTime: "2024-01-01T00:00:00Z", EmailAddress: "payer@example.com"}))
	require.NoError(t, repo.Update(ctx, o))
	require.NoError(t, o.MarkDelivered())
	require.NoError(t, repo.Update(ctx, o))

	got, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPaid)
	assert.True(t, got.IsDelivered)
	require.NotNil(t, got.PaymentResult)
	assert.Equal(t, "PAY-9", got.PaymentResult.ID)
	assert.NotNil(t, got.PaidAt)
	assert.NotNil(t, got.DeliveredAt)

	ghost := newTestOrder(t, uuid.New(), 30, 1)
	assert.ErrorIs(t, repo.Update(ctx, ghost), shared.ErrNotFound)
}

func TestGormOrderRepository_FindByUser(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newSQLiteDB(t))
	mine, other := uuid.New(), uuid.New()

	require.NoError(t, repo.Create(ctx, newTestOrder(t, mine, 10, 1)))
	require.NoError(t, repo.Create(ctx, newTestOrder(t, mine, 20, 3)))
	require.NoError(t, repo.Create(ctx, newTestOrder(t, other, 99, 1)))

	orders, total, err := repo.FindByUser(ctx, mine, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, mine, o.UserID)
		assert.Len(t, o.Items, 1)
	}
}
