package rolestore

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kyckaro/pkg/domain"
	"kyckaro/pkg/platform/sentinel"
)

func TestInMemoryRoles(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	userID := domain.UserID(uuid.New())

	_, err := store.FindRole(ctx, userID)
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, store.Assign(ctx, userID, domain.RoleAdmin))
	role, err := store.FindRole(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)

	// Reassignment overwrites.
	require.NoError(t, store.Assign(ctx, userID, domain.RoleEndUser))
	role, err = store.FindRole(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEndUser, role)
}
