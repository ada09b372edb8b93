package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "kyckaro/pkg/domain-errors"
)

func TestParseUserID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseUserID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseUserID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseUserID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseUserID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, UserID(valid), id)
	})
}

func TestParseSubmissionID(t *testing.T) {
	_, err := ParseSubmissionID("not-a-uuid")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	id := NewSubmissionID()
	parsed, err := ParseSubmissionID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestIDJSONRoundTrip(t *testing.T) {
	id := NewSubmissionID()

	raw, err := json.Marshal(id)
	require.NoError(t, err)
	assert.JSONEq(t, `"`+id.String()+`"`, string(raw))

	var decoded SubmissionID
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, id, decoded)

	var bad SubmissionID
	require.Error(t, json.Unmarshal([]byte(`"garbage"`), &bad))
}

func TestIsNil(t *testing.T) {
	assert.True(t, UserID{}.IsNil())
	assert.False(t, UserID(uuid.New()).IsNil())
	assert.False(t, NewSubmissionID().IsNil())
}
