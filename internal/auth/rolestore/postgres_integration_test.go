//go:build integration

package rolestore_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kyckaro/internal/auth/rolestore"
	"kyckaro/pkg/domain"
	"kyckaro/pkg/platform/sentinel"
	"kyckaro/pkg/testutil/containers"
)

func TestPostgresRoles(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	pg := containers.NewPostgresContainer(t)
	store := rolestore.NewPostgres(pg.DB)
	require.NoError(t, store.Migrate(ctx))

	userID := domain.UserID(uuid.New())

	_, err := store.FindRole(ctx, userID)
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, store.Assign(ctx, userID, domain.RoleAdmin))
	role, err := store.FindRole(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)

	// Upsert semantics.
	require.NoError(t, store.Assign(ctx, userID, domain.RoleEndUser))
	role, err = store.FindRole(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEndUser, role)

	t.Run("unknown stored role degrades to end user", func(t *testing.T) {
		legacy := domain.UserID(uuid.New())
		_, err := pg.DB.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role) VALUES ($1, 'superuser')`,
			uuid.UUID(legacy))
		require.NoError(t, err)

		role, err := store.FindRole(ctx, legacy)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleEndUser, role)
	})
}
