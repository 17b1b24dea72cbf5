package guilddata

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
)

// Lookup reads key and decodes it into a T.
func Lookup[T any](ctx context.Context, m *Manager, guildID snowflake.ID, key string) (T, bool, error) {
	var value T

	raw, ok, err := m.Get(ctx, guildID, key)
	if err != nil || !ok {
		return value, false, err
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, true, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return value, true, nil
}

// Modify decodes the current value of key, applies fn and writes the result
// through as one atomic step for the guild. The zero T is passed when the key
// does not exist. When fn fails nothing is written.
func Modify[T any](
	ctx context.Context,
	m *Manager,
	guildID snowflake.ID,
	key string,
	fn func(current T, found bool) (T, error),
) (T, error) {
	var result T

	err := m.Update(ctx, guildID, key, func(raw json.RawMessage, found bool) (any, error) {
		var current T
		if found {
			if err := json.Unmarshal(raw, &current); err != nil {
				return nil, fmt.Errorf("failed to decode %q: %w", key, err)
			}
		}

		next, err := fn(current, found)
		if err != nil {
			return nil, err
		}
		result = next
		return next, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
