package guilddata

import (
	"context"
	"encoding/json"

	"github.com/disgoorg/snowflake/v2"
)

// Store is the document store a Manager writes through to.
// Implementations report a missing document or field through the boolean
// result, never through an error.
type Store interface {
	// FindAll returns every document in the store.
	FindAll(ctx context.Context) (map[snowflake.ID]Document, error)

	// Find returns the full document of a guild.
	Find(ctx context.Context, guildID snowflake.ID) (Document, bool, error)

	// FindField returns a single field of a guild's document.
	FindField(ctx context.Context, guildID snowflake.ID, key string) (json.RawMessage, bool, error)

	// SetField creates the document if needed and sets one field.
	SetField(ctx context.Context, guildID snowflake.ID, key string, value json.RawMessage) error

	// UnsetField removes one field. Removing a missing field is not an error.
	UnsetField(ctx context.Context, guildID snowflake.ID, key string) error
}
