package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Fields is an ordered mapping of extracted document field name to string
// value, in the order the extraction collaborator emitted them. May be empty
// until extraction completes.
type Fields struct {
	entries []fieldEntry
}

type fieldEntry struct {
	key   string
	value string
}

// Set inserts or replaces a field, preserving the position of existing keys.
func (f *Fields) Set(key, value string) {
	for i := range f.entries {
		if f.entries[i].key == key {
			f.entries[i].value = value
			return
		}
	}
	f.entries = append(f.entries, fieldEntry{key: key, value: value})
}

// Get returns the value for key.
func (f Fields) Get(key string) (string, bool) {
	for _, e := range f.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return "", false
}

// Len returns the number of fields.
func (f Fields) Len() int {
	return len(f.entries)
}

// Range calls fn for each field in order; fn returning false stops early.
func (f Fields) Range(fn func(key, value string) bool) {
	for _, e := range f.entries {
		if !fn(e.key, e.value) {
			return
		}
	}
}

// MarshalJSON encodes the fields as a JSON object in insertion order.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range f.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(e.value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving key order. Non-string values
// are rendered to their literal form; extraction output is strings by
// contract but stored payloads are not trusted to honor it.
func (f *Fields) UnmarshalJSON(data []byte) error {
	f.entries = nil
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode fields: %w", err)
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode fields: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode field key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("decode fields: non-string key %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode field %q: %w", key, err)
		}
		switch v := valTok.(type) {
		case string:
			f.entries = append(f.entries, fieldEntry{key: key, value: v})
		case json.Number:
			f.entries = append(f.entries, fieldEntry{key: key, value: v.String()})
		case bool:
			f.entries = append(f.entries, fieldEntry{key: key, value: fmt.Sprintf("%t", v)})
		case nil:
			// null field: treat as absent
		default:
			return fmt.Errorf("decode field %q: values must be scalars", key)
		}
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode fields: %w", err)
	}
	return nil
}
