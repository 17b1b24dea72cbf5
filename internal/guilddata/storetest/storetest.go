// Package storetest provides a conformance suite for guilddata.Store
// implementations.
package storetest

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sglre6355/guildkeeper/internal/guilddata"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) guilddata.Store

// Run exercises the behaviour every Store must share.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("find missing document", func(t *testing.T) {
		store := newStore(t)

		_, ok, err := store.Find(context.Background(), 1)
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = store.FindField(context.Background(), 1, "key")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("set field creates document", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		require.NoError(t, store.SetField(ctx, 1, "channels", raw(`["10","20"]`)))

		doc, ok, err := store.Find(ctx, 1)
		require.NoError(t, err)
		require.True(t, ok)
		requireDocument(t, map[string]string{"channels": `["10","20"]`}, doc)

		value, ok, err := store.FindField(ctx, 1, "channels")
		require.NoError(t, err)
		require.True(t, ok)
		assert.JSONEq(t, `["10","20"]`, string(value))
	})

	t.Run("set field merges and overwrites", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		require.NoError(t, store.SetField(ctx, 1, "a", raw(`1`)))
		require.NoError(t, store.SetField(ctx, 1, "b", raw(`{"x":true}`)))
		require.NoError(t, store.SetField(ctx, 1, "a", raw(`"replaced"`)))

		doc, ok, err := store.Find(ctx, 1)
		require.NoError(t, err)
		require.True(t, ok)
		requireDocument(t, map[string]string{"a": `"replaced"`, "b": `{"x":true}`}, doc)
	})

	t.Run("field projection returns only that field", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		require.NoError(t, store.SetField(ctx, 1, "a", raw(`"one"`)))
		require.NoError(t, store.SetField(ctx, 1, "b", raw(`"two"`)))

		value, ok, err := store.FindField(ctx, 1, "b")
		require.NoError(t, err)
		require.True(t, ok)
		assert.JSONEq(t, `"two"`, string(value))

		_, ok, err = store.FindField(ctx, 1, "c")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("falsy values are present", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		values := map[string]string{
			"false": `false`,
			"empty": `""`,
			"zero":  `0`,
			"null":  `null`,
			"list":  `[]`,
			"map":   `{}`,
		}
		for key, value := range values {
			require.NoError(t, store.SetField(ctx, 1, key, raw(value)))
		}

		for key, want := range values {
			value, ok, err := store.FindField(ctx, 1, key)
			require.NoError(t, err, key)
			require.True(t, ok, key)
			assert.JSONEq(t, want, string(value), key)
		}
	})

	t.Run("unset field", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		require.NoError(t, store.SetField(ctx, 1, "a", raw(`1`)))
		require.NoError(t, store.SetField(ctx, 1, "b", raw(`2`)))

		require.NoError(t, store.UnsetField(ctx, 1, "a"))
		require.NoError(t, store.UnsetField(ctx, 1, "a"))

		_, ok, err := store.FindField(ctx, 1, "a")
		require.NoError(t, err)
		assert.False(t, ok)

		doc, ok, err := store.Find(ctx, 1)
		require.NoError(t, err)
		require.True(t, ok)
		requireDocument(t, map[string]string{"b": `2`}, doc)
	})

	t.Run("unset on missing document does not create it", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		require.NoError(t, store.UnsetField(ctx, 1, "a"))

		_, ok, err := store.Find(ctx, 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("find all", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		docs, err := store.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, docs)

		large := snowflake.ID(1205571180521050152)
		require.NoError(t, store.SetField(ctx, 1, "a", raw(`"one"`)))
		require.NoError(t, store.SetField(ctx, large, "b", raw(`[1,2,3]`)))

		docs, err = store.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		requireDocument(t, map[string]string{"a": `"one"`}, docs[1])
		requireDocument(t, map[string]string{"b": `[1,2,3]`}, docs[large])
	})

	t.Run("guilds are isolated", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		require.NoError(t, store.SetField(ctx, 1, "k", raw(`"first"`)))
		require.NoError(t, store.SetField(ctx, 2, "k", raw(`"second"`)))
		require.NoError(t, store.UnsetField(ctx, 2, "k"))

		value, ok, err := store.FindField(ctx, 1, "k")
		require.NoError(t, err)
		require.True(t, ok)
		assert.JSONEq(t, `"first"`, string(value))
	})

	t.Run("unusual keys round trip", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		for _, key := range unusualKeys {
			require.NoError(t, store.SetField(ctx, 1, key, raw(`"v"`)), key)
		}
		for _, key := range unusualKeys {
			value, ok, err := store.FindField(ctx, 1, key)
			require.NoError(t, err, key)
			require.True(t, ok, key)
			assert.JSONEq(t, `"v"`, string(value), key)
		}
		for _, key := range unusualKeys {
			require.NoError(t, store.UnsetField(ctx, 1, key), key)
			_, ok, err := store.FindField(ctx, 1, key)
			require.NoError(t, err, key)
			assert.False(t, ok, key)
		}

		doc, ok, err := store.Find(ctx, 1)
		require.NoError(t, err)
		if ok {
			assert.Empty(t, doc)
		}
	})

	t.Run("deleted unusual key stays deleted after refresh", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		m := guilddata.NewManager(ctx, store)

		for _, key := range unusualKeys {
			require.NoError(t, m.Set(ctx, 7, key, "x"), key)
			require.NoError(t, m.Delete(ctx, 7, key), key)
		}
		require.NoError(t, m.Refresh(ctx, 7))

		for _, key := range unusualKeys {
			_, ok, err := m.Get(ctx, 7, key)
			require.NoError(t, err, key)
			assert.False(t, ok, key)
		}
	})

	t.Run("works behind a manager", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		m := guilddata.NewManager(ctx, store)
		require.NoError(t, m.Set(ctx, 42, "debug_mode", true))

		reloaded := guilddata.NewManager(ctx, store)
		value, ok, err := reloaded.Get(ctx, 42, "debug_mode")
		require.NoError(t, err)
		require.True(t, ok)
		assert.JSONEq(t, `true`, string(value))
	})
}

// unusualKeys pass guilddata.ValidateKey but need quoting in path syntaxes.
var unusualKeys = []string{
	"with space",
	"list[0]",
	"a]b",
	"ação",
	"🎧 room",
	"colon:key",
	"'single'",
}

func raw(s string) json.RawMessage {
	return json.RawMessage(s)
}

func requireDocument(t *testing.T, want map[string]string, doc guilddata.Document) {
	t.Helper()

	require.Len(t, doc, len(want))
	for key, value := range want {
		got, ok := doc[key]
		require.True(t, ok, "missing key %q", key)
		assert.JSONEq(t, value, string(got), key)
	}
}
