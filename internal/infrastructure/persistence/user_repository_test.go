package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(newSQLiteDB(t))

	u, err := identity.NewUser("Jane", "Jane@Example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, u))

	t.Run("find by email is case-insensitive", func(t *testing.T) {
		got, err := repo.FindByEmail(ctx, "JANE@example.COM")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.True(t, got.VerifyPassword("secret1"))
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup, err := identity.NewUser("Other", "jane@example.com", "secret2")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("exists", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("update profile", func(t *testing.T) {
		require.NoError(t, u.UpdateProfile("Jane Roe", "jane.roe@example.com", ""))
		require.NoError(t, repo.Update(ctx, u))

		got, err := repo.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Jane Roe", got.Name)
		assert.Equal(t, "jane.roe@example.com", got.Email)
		assert.True(t, got.VerifyPassword("secret1"))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)

		ghost, err := identity.NewUser("Ghost", "ghost@example.com", "secret1")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Update(ctx, ghost), shared.ErrNotFound)
	})
}
