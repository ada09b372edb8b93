package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "kyckaro/pkg/domain-errors"
)

func TestParseStatus(t *testing.T) {
	t.Run("accepts the three known statuses", func(t *testing.T) {
		for _, raw := range []string{"pending", "approved", "rejected"} {
			status, err := ParseStatus(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, status.String())
		}
	})

	t.Run("rejects empty status", func(t *testing.T) {
		_, err := ParseStatus("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidStatus))
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := ParseStatus("bogus")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidStatus))
	})
}

// TestTransitions verifies the unconstrained transition model: no status is
// terminal, and re-issuing the current status is allowed.
func TestTransitions(t *testing.T) {
	all := []Status{StatusPending, StatusApproved, StatusRejected}
	for _, from := range all {
		for _, to := range all {
			assert.True(t, from.CanTransitionTo(to), "%s -> %s should be allowed", from, to)
		}
	}

	assert.False(t, StatusPending.CanTransitionTo(Status("bogus")))
}

func TestStatusCategory(t *testing.T) {
	assert.Equal(t, CategoryApproved, StatusApproved.Category())
	assert.Equal(t, CategoryRejected, StatusRejected.Category())
	assert.Equal(t, CategoryPending, StatusPending.Category())
	assert.Equal(t, CategoryOther, Status("weird-legacy-value").Category())
}
