package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a tagged metric value: either a number or a string. The scoring
// engine is free to mix both in one payload, so neither representation can be
// assumed.
type Value struct {
	num    float64
	text   string
	isText bool
}

// Number builds a numeric value.
func Number(f float64) Value {
	return Value{num: f}
}

// Text builds a string value.
func Text(s string) Value {
	return Value{text: s, isText: true}
}

// Number returns the numeric payload, reporting false for string values.
func (v Value) Number() (float64, bool) {
	if v.isText {
		return 0, false
	}
	return v.num, true
}

// Text returns the string payload, reporting false for numeric values.
func (v Value) Text() (string, bool) {
	if !v.isText {
		return "", false
	}
	return v.text, true
}

// Display renders the value for presentation regardless of its tag.
func (v Value) Display() string {
	if v.isText {
		return v.text
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.isText {
		return json.Marshal(v.text)
	}
	return json.Marshal(v.num)
}

// Metrics is an ordered mapping of metric name to tagged value. Iteration
// order is insertion order, which for store round-trips means the order the
// scoring engine emitted — the admin view renders metrics in that order.
//
// The distinguished key "fraud_score" carries the 0-100 risk signal. Its
// absence is distinct from zero: see FraudScore and RiskBand.
type Metrics struct {
	entries []metricEntry
}

type metricEntry struct {
	key   string
	value Value
}

// FraudScoreKey is the distinguished metric consumed by risk banding.
const FraudScoreKey = "fraud_score"

// Set inserts or replaces a metric, preserving the position of existing keys.
func (m *Metrics) Set(key string, value Value) {
	for i := range m.entries {
		if m.entries[i].key == key {
			m.entries[i].value = value
			return
		}
	}
	m.entries = append(m.entries, metricEntry{key: key, value: value})
}

// Get returns the value for key.
func (m Metrics) Get(key string) (Value, bool) {
	for _, e := range m.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return Value{}, false
}

// Len returns the number of metrics.
func (m Metrics) Len() int {
	return len(m.entries)
}

// Range calls fn for each metric in order; fn returning false stops early.
func (m Metrics) Range(fn func(key string, value Value) bool) {
	for _, e := range m.entries {
		if !fn(e.key, e.value) {
			return
		}
	}
}

// FraudScore returns the numeric fraud score when present. A missing key, or
// a fraud_score the engine emitted as a string, reports false.
func (m Metrics) FraudScore() (float64, bool) {
	v, ok := m.Get(FraudScoreKey)
	if !ok {
		return 0, false
	}
	return v.Number()
}

// MarshalJSON encodes the metrics as a JSON object in insertion order.
func (m Metrics) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := e.value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving key order. Values must be
// numbers or strings; null clears nothing and is tolerated as absent.
func (m *Metrics) UnmarshalJSON(data []byte) error {
	m.entries = nil
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode metrics: %w", err)
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode metrics: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode metrics key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("decode metrics: non-string key %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode metric %q: %w", key, err)
		}
		switch v := valTok.(type) {
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return fmt.Errorf("decode metric %q: %w", key, err)
			}
			m.entries = append(m.entries, metricEntry{key: key, value: Number(f)})
		case string:
			m.entries = append(m.entries, metricEntry{key: key, value: Text(v)})
		case bool:
			m.entries = append(m.entries, metricEntry{key: key, value: Text(strconv.FormatBool(v))})
		case nil:
			// null metric: treat as absent
		default:
			return fmt.Errorf("decode metric %q: values must be numbers or strings", key)
		}
	}

	// consume closing brace
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode metrics: %w", err)
	}
	return nil
}
