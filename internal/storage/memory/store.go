// Package memory provides an in-process guild document store.
package memory

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/guildkeeper/internal/guilddata"
)

// Store keeps guild documents in memory. Contents are lost on restart.
type Store struct {
	mu   sync.RWMutex
	docs map[snowflake.ID]guilddata.Document
	err  error
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		docs: make(map[snowflake.ID]guilddata.Document),
	}
}

// FailWith makes every subsequent call return err until called with nil.
// It simulates an unreachable store.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// FindAll returns copies of all documents.
func (s *Store) FindAll(ctx context.Context) (map[snowflake.ID]guilddata.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check(ctx); err != nil {
		return nil, err
	}

	result := make(map[snowflake.ID]guilddata.Document, len(s.docs))
	for guildID, doc := range s.docs {
		result[guildID] = doc.Clone()
	}
	return result, nil
}

// Find returns a copy of the guild's document.
func (s *Store) Find(ctx context.Context, guildID snowflake.ID) (guilddata.Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check(ctx); err != nil {
		return nil, false, err
	}

	doc, ok := s.docs[guildID]
	if !ok {
		return nil, false, nil
	}
	return doc.Clone(), true, nil
}

// FindField returns a copy of one field.
func (s *Store) FindField(
	ctx context.Context,
	guildID snowflake.ID,
	key string,
) (json.RawMessage, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check(ctx); err != nil {
		return nil, false, err
	}

	value, ok := s.docs[guildID][key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(value), true, nil
}

// SetField sets one field, creating the document when needed.
func (s *Store) SetField(
	ctx context.Context,
	guildID snowflake.ID,
	key string,
	value json.RawMessage,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(ctx); err != nil {
		return err
	}

	doc, ok := s.docs[guildID]
	if !ok {
		doc = guilddata.Document{}
		s.docs[guildID] = doc
	}
	doc[key] = slices.Clone(value)
	return nil
}

// UnsetField removes one field if present.
func (s *Store) UnsetField(ctx context.Context, guildID snowflake.ID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(ctx); err != nil {
		return err
	}

	if doc, ok := s.docs[guildID]; ok {
		delete(doc, key)
	}
	return nil
}

// Len returns the number of stored documents (for testing/monitoring).
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.docs)
}

func (s *Store) check(ctx context.Context) error {
	if s.err != nil {
		return s.err
	}
	return ctx.Err()
}

// Ensure Store implements guilddata.Store.
var _ guilddata.Store = (*Store)(nil)
