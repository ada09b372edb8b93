package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsPreservesOrder(t *testing.T) {
	payload := `{"zeta":1,"alpha":"low","fraud_score":42,"beta":99.5}`

	var m Metrics
	require.NoError(t, json.Unmarshal([]byte(payload), &m))

	var keys []string
	m.Range(func(key string, _ Value) bool {
		keys = append(keys, key)
		return true
	})
	assert.Equal(t, []string{"zeta", "alpha", "fraud_score", "beta"}, keys)

	// Round trip keeps the engine's emission order.
	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(out))
	assert.Equal(t, payload, string(out), "key order must survive the round trip")
}

func TestMetricsTaggedValues(t *testing.T) {
	var m Metrics
	require.NoError(t, json.Unmarshal([]byte(`{"fraud_score":12.5,"document_type":"passport"}`), &m))

	score, ok := m.Get("fraud_score")
	require.True(t, ok)
	num, isNum := score.Number()
	require.True(t, isNum)
	assert.Equal(t, 12.5, num)
	_, isText := score.Text()
	assert.False(t, isText)

	docType, ok := m.Get("document_type")
	require.True(t, ok)
	text, isText := docType.Text()
	require.True(t, isText)
	assert.Equal(t, "passport", text)
}

func TestMetricsRejectsNestedValues(t *testing.T) {
	var m Metrics
	err := json.Unmarshal([]byte(`{"nested":{"a":1}}`), &m)
	require.Error(t, err)
}

func TestFraudScoreAbsenceIsNotZero(t *testing.T) {
	t.Run("absent score reports not ok", func(t *testing.T) {
		var m Metrics
		m.Set("liveness", Number(0.93))
		_, ok := m.FraudScore()
		assert.False(t, ok)
	})

	t.Run("zero score is present and zero", func(t *testing.T) {
		var m Metrics
		m.Set(FraudScoreKey, Number(0))
		score, ok := m.FraudScore()
		require.True(t, ok)
		assert.Equal(t, 0.0, score)
	})

	t.Run("string-typed fraud score reports not ok", func(t *testing.T) {
		var m Metrics
		m.Set(FraudScoreKey, Text("high"))
		_, ok := m.FraudScore()
		assert.False(t, ok)
	})
}

func TestMetricsSetReplacesInPlace(t *testing.T) {
	var m Metrics
	m.Set("a", Number(1))
	m.Set("b", Number(2))
	m.Set("a", Number(3))

	require.Equal(t, 2, m.Len())
	var keys []string
	m.Range(func(key string, _ Value) bool {
		keys = append(keys, key)
		return true
	})
	assert.Equal(t, []string{"a", "b"}, keys)

	v, _ := m.Get("a")
	num, _ := v.Number()
	assert.Equal(t, 3.0, num)
}

func TestFieldsRoundTrip(t *testing.T) {
	payload := `{"full_name":"Jane Roe","document_number":"X123","dob":"1990-01-02"}`

	var f Fields
	require.NoError(t, json.Unmarshal([]byte(payload), &f))
	require.Equal(t, 3, f.Len())

	name, ok := f.Get("full_name")
	require.True(t, ok)
	assert.Equal(t, "Jane Roe", name)

	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, payload, string(out))
}
