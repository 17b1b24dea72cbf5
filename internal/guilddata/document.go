package guilddata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Reserved field names used by stores to identify documents.
const (
	FieldObjectID = "_id"
	FieldGuildID  = "GUILD_ID"
)

// Document is the configuration of one guild: key to JSON-encoded value.
type Document map[string]json.RawMessage

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return Document{}
	}
	cloned := make(Document, len(d))
	for key, value := range d {
		cloned[key] = cloneRaw(value)
	}
	return cloned
}

// Snapshot is a read-only copy of a guild document.
// Changes must be written through the Manager.
type Snapshot struct {
	doc Document
}

// Get returns the raw value stored under key.
func (s Snapshot) Get(key string) (json.RawMessage, bool) {
	value, ok := s.doc[key]
	if !ok {
		return nil, false
	}
	return cloneRaw(value), true
}

// Decode unmarshals the value stored under key into dst.
// It reports false without touching dst when the key is absent.
func (s Snapshot) Decode(key string, dst any) (bool, error) {
	value, ok := s.doc[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(value, dst); err != nil {
		return true, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return true, nil
}

// Has reports whether key is present.
func (s Snapshot) Has(key string) bool {
	_, ok := s.doc[key]
	return ok
}

// Keys returns the document keys in sorted order.
func (s Snapshot) Keys() []string {
	return slices.Sorted(maps.Keys(s.doc))
}

// Len returns the number of keys.
func (s Snapshot) Len() int {
	return len(s.doc)
}

// Document returns a mutable copy of the snapshot contents.
func (s Snapshot) Document() Document {
	return s.doc.Clone()
}

// ValidateKey reports whether key can be stored by every backend.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	case key == FieldObjectID || key == FieldGuildID:
		return fmt.Errorf("%w: %q is reserved", ErrInvalidKey, key)
	case strings.HasPrefix(key, "$"):
		return fmt.Errorf("%w: %q starts with $", ErrInvalidKey, key)
	case strings.ContainsAny(key, ".\"\\\x00"):
		return fmt.Errorf("%w: %q contains a forbidden character", ErrInvalidKey, key)
	}
	return nil
}

// encodeValue turns a caller value into compact JSON.
func encodeValue(value any) (json.RawMessage, error) {
	if raw, ok := value.(json.RawMessage); ok {
		if !json.Valid(raw) {
			return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidValue)
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
		return buf.Bytes(), nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	return raw, nil
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	return slices.Clone(raw)
}
