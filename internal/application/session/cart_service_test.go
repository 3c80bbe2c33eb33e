package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/session"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func newProduct(t *testing.T, slug string, price int64, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("Product "+slug, slug, decimal.NewFromInt(price), stock)
	require.NoError(t, err)
	return p
}

func newCartFixture(policy StockPolicy) (*CartService, *MockProductRepository, *Store) {
	repo := new(MockProductRepository)
	svc := NewCartService(repo, policy, zap.NewNop())
	store := NewStore("s1", cache.NewInMemoryKVStore(), nil, zap.NewNop())
	return svc, repo, store
}

func TestParseStockPolicy(t *testing.T) {
	p, err := ParseStockPolicy("")
	require.NoError(t, err)
	assert.Equal(t, StockRefresh, p)

	p, err = ParseStockPolicy(" Cached ")
	require.NoError(t, err)
	assert.Equal(t, StockCached, p)

	_, err = ParseStockPolicy("never")
	assert.Error(t, err)
}

func TestCartService_AddItemIncrements(t *testing.T) {
	svc, repo, store := newCartFixture(StockRefresh)
	product := newProduct(t, "nike-slim-shirt", 120, 2)
	repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	ctx := context.Background()
	state, err := svc.AddItem(ctx, store, product.ID.String())
	require.NoError(t, err)
	require.Len(t, state.Cart.Items, 1)
	assert.Equal(t, 1, state.Cart.Items[0].Quantity)
	assert.Equal(t, "nike-slim-shirt", state.Cart.Items[0].Slug)

	state, err = svc.AddItem(ctx, store, product.ID.String())
	require.NoError(t, err)
	require.Len(t, state.Cart.Items, 1)
	assert.Equal(t, 2, state.Cart.Items[0].Quantity)

	_, err = svc.AddItem(ctx, store, product.ID.String())
	assert.ErrorIs(t, err, shared.ErrOutOfStock)
	assert.Equal(t, 2, store.State().Cart.Items[0].Quantity)

	repo.AssertNumberOfCalls(t, "FindByID", 3)
}

func TestCartService_SetQuantity(t *testing.T) {
	svc, repo, store := newCartFixture(StockRefresh)
	product := newProduct(t, "adidas-fit-pant", 65, 5)
	repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	ctx := context.Background()

	state, err := svc.SetQuantity(ctx, store, product.ID.String(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, state.Cart.Items[0].Quantity)

	state, err = svc.SetQuantity(ctx, store, product.ID.String(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Cart.Items[0].Quantity)

	_, err = svc.SetQuantity(ctx, store, product.ID.String(), 0)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.SetQuantity(ctx, store, product.ID.String(), 6)
	assert.ErrorIs(t, err, shared.ErrOutOfStock)
}

func TestCartService_RefreshPicksUpNewStockAndPrice(t *testing.T) {
	svc, repo, store := newCartFixture(StockRefresh)
	product := newProduct(t, "nike-slim-pant", 25, 1)
	restocked := *product
	restocked.CountInStock = 10
	restocked.Price = decimal.NewFromInt(20)

	repo.On("FindByID", mock.Anything, product.ID).Return(product, nil).Once()
	repo.On("FindByID", mock.Anything, product.ID).Return(&restocked, nil).Once()

	ctx := context.Background()
	_, err := svc.AddItem(ctx, store, product.ID.String())
	require.NoError(t, err)

	state, err := svc.SetQuantity(ctx, store, product.ID.String(), 4)
	require.NoError(t, err)
	assert.Equal(t, 10, state.Cart.Items[0].CountInStock)
	assert.True(t, decimal.NewFromInt(20).Equal(state.Cart.Items[0].Price))
}

func TestCartService_CachedTrustsCartLine(t *testing.T) {
	svc, repo, store := newCartFixture(StockCached)
	product := newProduct(t, "nike-slim-pant", 25, 2)
	repo.On("FindByID", mock.Anything, product.ID).Return(product, nil).Once()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, store, product.ID.String())
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, store, product.ID.String())
	require.NoError(t, err)
	_, err = svc.SetQuantity(ctx, store, product.ID.String(), 3)
	assert.ErrorIs(t, err, shared.ErrOutOfStock)

	repo.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestCartService_UnknownOrInvalidProduct(t *testing.T) {
	svc, repo, store := newCartFixture(StockRefresh)
	missing := uuid.New()
	repo.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)

	_, err := svc.AddItem(context.Background(), store, missing.String())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.AddItem(context.Background(), store, "not-a-uuid")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Empty(t, store.State().Cart.Items)
}

func TestCartService_RemoveAndClear(t *testing.T) {
	svc, _, store := newCartFixture(StockRefresh)
	ctx := context.Background()
	store.Dispatch(ctx, session.AddItem{Item: cartLine("a", 1, 5), Quantity: 1})
	store.Dispatch(ctx, session.AddItem{Item: cartLine("b", 1, 5), Quantity: 1})

	state := svc.RemoveItem(ctx, store, "a")
	require.Len(t, state.Cart.Items, 1)
	assert.Equal(t, "b", state.Cart.Items[0].ProductID)

	state = svc.Clear(ctx, store)
	assert.Empty(t, state.Cart.Items)
}

func TestCartService_AddressAndPayment(t *testing.T) {
	svc, _, store := newCartFixture(StockRefresh)
	ctx := context.Background()

	_, err := svc.SaveShippingAddress(ctx, store, session.Address{FullName: "Jane"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	addr := session.Address{FullName: "Jane", Address: "1 Main", City: "Town", PostalCode: "1", Country: "US"}
	state, err := svc.SaveShippingAddress(ctx, store, addr)
	require.NoError(t, err)
	assert.Equal(t, addr, *state.Cart.ShippingAddress)

	_, err = svc.SavePaymentMethod(ctx, store, "  ")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	state, err = svc.SavePaymentMethod(ctx, store, " Stripe ")
	require.NoError(t, err)
	assert.Equal(t, "Stripe", state.Cart.PaymentMethod)
}

func TestCartService_ConcurrentAddsAreNotLost(t *testing.T) {
	svc, repo, store := newCartFixture(StockRefresh)
	product := newProduct(t, "nike-slim-shirt", 20, 100)
	repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddItem(ctx, store, product.ID.String())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state := store.State()
	require.Len(t, state.Cart.Items, 1)
	assert.Equal(t, 25, state.Cart.Items[0].Quantity)
}

func TestCartService_ConcurrentAddsNeverExceedStock(t *testing.T) {
	svc, repo, store := newCartFixture(StockRefresh)
	product := newProduct(t, "adidas-fit-pant", 65, 5)
	repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	ctx := context.Background()

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		outOfStock int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.AddItem(ctx, store, product.ID.String()); errors.Is(err, shared.ErrOutOfStock) {
				mu.Lock()
				outOfStock++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 15, outOfStock)
	assert.Equal(t, 5, store.State().Cart.Items[0].Quantity)
}
