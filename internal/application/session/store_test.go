package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/session"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// failingStorage rejects every call
type failingStorage struct{}

func (failingStorage) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("storage down")
}

func (failingStorage) Set(context.Context, string, string) error {
	return errors.New("storage down")
}

func (failingStorage) Delete(context.Context, ...string) error {
	return errors.New("storage down")
}

func cartLine(id string, price int64, stock int) session.CartLineItem {
	return session.CartLineItem{
		ProductID:    id,
		Slug:         "slug-" + id,
		Name:         "Product " + id,
		Price:        decimal.NewFromInt(price),
		CountInStock: stock,
	}
}

func TestStore_DispatchPersistsTouchedKeys(t *testing.T) {
	kv := cache.NewInMemoryKVStore()
	store := NewStore("s1", Scoped(kv, "s1"), nil, zap.NewNop())
	ctx := context.Background()

	state := store.Dispatch(ctx, session.AddItem{Item: cartLine("p1", 120, 3), Quantity: 2})
	require.Len(t, state.Cart.Items, 1)

	raw, found, err := kv.Get(ctx, "session:s1:cartItems")
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, raw, `"quantity":2`)

	store.Dispatch(ctx, session.SavePaymentMethod{Name: "PayPal"})
	raw, found, _ = kv.Get(ctx, "session:s1:paymentMethod")
	assert.True(t, found)
	assert.Equal(t, "PayPal", raw)

	store.Dispatch(ctx, session.SignIn{Identity: session.UserIdentity{ID: "u1", Token: "tok"}})
	_, found, _ = kv.Get(ctx, "session:s1:userInfo")
	assert.True(t, found)

	store.Dispatch(ctx, session.SignOut{})
	assert.Equal(t, 0, kv.Len())
	assert.Equal(t, session.EmptyState(), store.State())
}

func TestStore_UnknownActionWritesNothing(t *testing.T) {
	kv := cache.NewInMemoryKVStore()
	store := NewStore("s1", Scoped(kv, "s1"), nil, zap.NewNop())

	before := store.State()
	after := store.Dispatch(context.Background(), session.Unknown{Tag: "CART_APPLY_COUPON"})
	assert.Equal(t, before, after)
	assert.Equal(t, 0, kv.Len())
}

func TestStore_PersistFailureKeepsTransition(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	store := NewStore("s1", failingStorage{}, nil, zap.New(core))

	state := store.Dispatch(context.Background(), session.AddItem{Item: cartLine("p1", 10, 5), Quantity: 1})
	require.Len(t, state.Cart.Items, 1)
	assert.Len(t, store.State().Cart.Items, 1)

	entries := logs.FilterMessage("Failed to persist session key").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "cartItems", entries[0].ContextMap()["key"])
	assert.Equal(t, "s1", entries[0].ContextMap()["session_id"])
}

func TestStore_StateIsACopy(t *testing.T) {
	store := NewStore("s1", cache.NewInMemoryKVStore(), nil, zap.NewNop())
	store.Dispatch(context.Background(), session.AddItem{Item: cartLine("p1", 10, 5), Quantity: 1})

	snapshot := store.State()
	snapshot.Cart.Items[0].Quantity = 99
	assert.Equal(t, 1, store.State().Cart.Items[0].Quantity)
}

func TestStore_ConcurrentDispatchKeepsOneLinePerProduct(t *testing.T) {
	kv := cache.NewInMemoryKVStore()
	store := NewStore("s1", Scoped(kv, "s1"), nil, zap.NewNop())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := []string{"p1", "p2", "p3"}[i%3]
			store.Dispatch(ctx, session.AddItem{Item: cartLine(id, 10, 100), Quantity: i%5 + 1})
		}(i)
	}
	wg.Wait()

	state := store.State()
	assert.Len(t, state.Cart.Items, 3)

	raw, _, err := kv.Get(ctx, "session:s1:cartItems")
	require.NoError(t, err)
	loaded, err := session.DecodeSnapshot(map[string]string{session.KeyCartItems: raw})
	require.NoError(t, err)
	assert.Equal(t, state.Cart.Items, loaded.Cart.Items)
}

func TestLoadSnapshot(t *testing.T) {
	ctx := context.Background()
	kv := cache.NewInMemoryKVStore()
	scoped := Scoped(kv, "s1")
	require.NoError(t, scoped.Set(ctx, session.KeyPaymentMethod, "Stripe"))
	require.NoError(t, scoped.Set(ctx, session.KeyCartItems, "{broken"))
	require.NoError(t, kv.Set(ctx, "session:other:paymentMethod", "PayPal"))

	core, logs := observer.New(zapcore.WarnLevel)
	state := LoadSnapshot(ctx, scoped, zap.New(core))

	assert.Equal(t, "Stripe", state.Cart.PaymentMethod)
	assert.Empty(t, state.Cart.Items)
	assert.Nil(t, state.Identity)
	assert.Equal(t, 1, logs.FilterMessage("Discarded malformed session values").Len())
}

func TestLoadSnapshot_ReadFailuresGiveEmptyState(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	state := LoadSnapshot(context.Background(), failingStorage{}, zap.New(core))

	assert.Equal(t, session.EmptyState(), state)
	assert.Equal(t, len(session.PersistedKeys), logs.FilterMessage("Failed to read session key").Len())
}

func TestScopedStorage_DeleteIsNamespaced(t *testing.T) {
	ctx := context.Background()
	kv := cache.NewInMemoryKVStore()
	a, b := Scoped(kv, "a"), Scoped(kv, "b")

	require.NoError(t, a.Set(ctx, "k", "1"))
	require.NoError(t, b.Set(ctx, "k", "2"))
	require.NoError(t, a.Delete(ctx, "k"))

	_, found, _ := a.Get(ctx, "k")
	assert.False(t, found)
	v, found, _ := b.Get(ctx, "k")
	assert.True(t, found)
	assert.Equal(t, "2", v)
}
