package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormKVStore(t *testing.T) {
	ctx := context.Background()
	store := NewGormKVStore(newSQLiteDB(t))

	_, found, err := store.Get(ctx, "session:s1:cartItems")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "session:s1:cartItems", "[]"))
	require.NoError(t, store.Set(ctx, "session:s1:cartItems", `[{"_id":"p1","quantity":2}]`))

	v, found, err := store.Get(ctx, "session:s1:cartItems")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"_id":"p1","quantity":2}]`, v)

	require.NoError(t, store.Set(ctx, "session:s1:paymentMethod", "PayPal"))
	require.NoError(t, store.Delete(ctx, "session:s1:cartItems", "session:s1:paymentMethod"))

	_, found, err = store.Get(ctx, "session:s1:paymentMethod")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Delete(ctx))
}

func TestGormKVStore_PurgeBefore(t *testing.T) {
	ctx := context.Background()
	store := NewGormKVStore(newSQLiteDB(t))
	require.NoError(t, store.Set(ctx, "session:old:userInfo", "{}"))

	n, err := store.PurgeBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = store.PurgeBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGormKVStore_Set_PostgresUpsert(t *testing.T) {
	db, mock, mockDB := newMockPostgresDB(t)
	defer mockDB.Close()
	store := NewGormKVStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "session_entries" .* ON CONFLICT \("session_key"\) DO UPDATE SET`).
		WithArgs("session:s1:paymentMethod", "Stripe", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "session_entries" SET "updated_at"=\$1 WHERE session_key LIKE \$2 ESCAPE '!' AND session_key <> \$3`).
		WithArgs(sqlmock.AnyArg(), "session:s1:%", "session:s1:paymentMethod").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, store.Set(context.Background(), "session:s1:paymentMethod", "Stripe"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormKVStore_SetRefreshesWholeSession(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	store := NewGormKVStore(db)

	age := func(key string) {
		require.NoError(t, db.Model(&models.SessionEntryModel{}).
			Where("session_key = ?", key).
			UpdateColumn("updated_at", time.Now().Add(-2*time.Hour)).Error)
	}

	require.NoError(t, store.Set(ctx, "session:s1:shippingAddress", `{"city":"Town"}`))
	require.NoError(t, store.Set(ctx, "session:s2:userInfo", "{}"))
	require.NoError(t, store.Set(ctx, "session:axb:userInfo", "{}"))
	age("session:s1:shippingAddress")
	age("session:s2:userInfo")
	age("session:axb:userInfo")

	require.NoError(t, store.Set(ctx, "session:s1:cartItems", "[]"))
	// "_" must not act as a wildcard matching session axb
	require.NoError(t, store.Set(ctx, "session:a_b:cartItems", "[]"))

	n, err := store.PurgeBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, found, err := store.Get(ctx, "session:s1:shippingAddress")
	require.NoError(t, err)
	assert.True(t, found)
	for _, key := range []string{"session:s2:userInfo", "session:axb:userInfo"} {
		_, found, err = store.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, found, key)
	}
}
