package guilddata

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/jellydator/ttlcache/v3"
)

// Manager caches guild documents in front of a Store.
//
// Each guild has its own lock which is held across the store round trip, so
// operations on one guild are serialized while different guilds proceed in
// parallel.
type Manager struct {
	store  Store
	logger *slog.Logger
	misses *ttlcache.Cache[missKey, struct{}]

	mu      sync.Mutex
	entries map[snowflake.ID]*entry
}

type entry struct {
	mu  sync.Mutex
	doc Document
	// complete is set once the whole document has been loaded.
	complete bool
}

type missKey struct {
	guildID snowflake.ID
	key     string
}

// NewManager creates a Manager and loads every document the store holds.
// A failing store is logged and leaves the cache empty; guilds are then
// loaded on demand.
func NewManager(ctx context.Context, store Store, opts ...Option) *Manager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "guilddata")
	if o.name != "" {
		logger = logger.With("module", o.name)
	}

	m := &Manager{
		store:   store,
		logger:  logger,
		entries: make(map[snowflake.ID]*entry),
	}

	if o.missTTL > 0 {
		m.misses = ttlcache.New(
			ttlcache.WithTTL[missKey, struct{}](o.missTTL),
			ttlcache.WithCapacity[missKey, struct{}](o.missCapacity),
			ttlcache.WithDisableTouchOnHit[missKey, struct{}](),
		)
	}

	m.loadAll(ctx)

	return m
}

func (m *Manager) loadAll(ctx context.Context) {
	docs, err := m.store.FindAll(ctx)
	if err != nil {
		m.logger.Error("failed to load guild documents, starting with empty cache", "error", err)
		return
	}

	m.mu.Lock()
	for guildID, doc := range docs {
		m.entries[guildID] = &entry{doc: doc.Clone(), complete: true}
	}
	m.mu.Unlock()

	m.logger.Debug("loaded guild documents", "guilds", len(docs))
}

// Get returns the value stored under key for the guild.
// The boolean is false when the key does not exist, which is distinct from a
// stored false, empty string or null.
func (m *Manager) Get(ctx context.Context, guildID snowflake.ID, key string) (json.RawMessage, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}

	e := m.entry(guildID)
	e.mu.Lock()
	defer e.mu.Unlock()

	value, ok, err := m.getLocked(ctx, e, guildID, key)
	if err != nil || !ok {
		return nil, false, err
	}
	return cloneRaw(value), true, nil
}

// Set persists value under key and then caches it.
// The cache is left unchanged when the store rejects the write.
func (m *Manager) Set(ctx context.Context, guildID snowflake.ID, key string, value any) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	raw, err := encodeValue(value)
	if err != nil {
		return err
	}

	e := m.entry(guildID)
	e.mu.Lock()
	defer e.mu.Unlock()

	return m.setLocked(ctx, e, guildID, key, raw)
}

// Delete removes key from the stored document and from the cache.
// Deleting a missing key succeeds.
func (m *Manager) Delete(ctx context.Context, guildID snowflake.ID, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	e := m.entry(guildID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := m.store.UnsetField(ctx, guildID, key); err != nil {
		return storeError("unset field", err)
	}

	delete(e.doc, key)
	if !e.complete {
		m.rememberMiss(guildID, key)
	}
	return nil
}

// Refresh replaces the cached document of the guild with the stored one.
// On failure the previous cache entry is kept.
func (m *Manager) Refresh(ctx context.Context, guildID snowflake.ID) error {
	e := m.entry(guildID)
	e.mu.Lock()
	defer e.mu.Unlock()

	return m.refreshLocked(ctx, e, guildID)
}

// ForGuild returns a copy of the guild's full document, loading it from the
// store first if it has not been fully loaded yet.
func (m *Manager) ForGuild(ctx context.Context, guildID snowflake.ID) (Snapshot, error) {
	e := m.entry(guildID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.complete {
		if err := m.refreshLocked(ctx, e, guildID); err != nil {
			return Snapshot{}, err
		}
	}
	return Snapshot{doc: e.doc.Clone()}, nil
}

// ReplaceCache overwrites the cached document without writing to the store.
// Use it only with documents that are already persisted.
func (m *Manager) ReplaceCache(guildID snowflake.ID, doc Document) {
	e := m.entry(guildID)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.doc = doc.Clone()
	e.complete = true
}

// UpdateFunc computes the new value of a key from its current value.
// Returning an error aborts the update.
type UpdateFunc func(current json.RawMessage, found bool) (any, error)

// Update reads key, passes it to fn and writes the result through, holding
// the guild lock for the whole sequence.
func (m *Manager) Update(ctx context.Context, guildID snowflake.ID, key string, fn UpdateFunc) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	e := m.entry(guildID)
	e.mu.Lock()
	defer e.mu.Unlock()

	current, found, err := m.getLocked(ctx, e, guildID, key)
	if err != nil {
		return err
	}

	next, err := fn(cloneRaw(current), found)
	if err != nil {
		return err
	}

	raw, err := encodeValue(next)
	if err != nil {
		return err
	}
	return m.setLocked(ctx, e, guildID, key, raw)
}

func (m *Manager) entry(guildID snowflake.ID) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[guildID]
	if !ok {
		e = &entry{doc: Document{}}
		m.entries[guildID] = e
	}
	return e
}

func (m *Manager) getLocked(
	ctx context.Context,
	e *entry,
	guildID snowflake.ID,
	key string,
) (json.RawMessage, bool, error) {
	if value, ok := e.doc[key]; ok {
		return value, true, nil
	}
	if e.complete || m.isMiss(guildID, key) {
		return nil, false, nil
	}

	value, ok, err := m.store.FindField(ctx, guildID, key)
	if err != nil {
		return nil, false, storeError("find field", err)
	}
	if !ok {
		m.rememberMiss(guildID, key)
		return nil, false, nil
	}

	value = cloneRaw(value)
	e.doc[key] = value
	return value, true, nil
}

func (m *Manager) setLocked(
	ctx context.Context,
	e *entry,
	guildID snowflake.ID,
	key string,
	raw json.RawMessage,
) error {
	if err := m.store.SetField(ctx, guildID, key, raw); err != nil {
		return storeError("set field", err)
	}

	e.doc[key] = raw
	m.forgetMiss(guildID, key)
	return nil
}

func (m *Manager) refreshLocked(ctx context.Context, e *entry, guildID snowflake.ID) error {
	doc, found, err := m.store.Find(ctx, guildID)
	if err != nil {
		return storeError("find", err)
	}
	if !found {
		doc = Document{}
	}

	e.doc = doc.Clone()
	e.complete = true
	return nil
}

func (m *Manager) isMiss(guildID snowflake.ID, key string) bool {
	if m.misses == nil {
		return false
	}
	return m.misses.Has(missKey{guildID: guildID, key: key})
}

func (m *Manager) rememberMiss(guildID snowflake.ID, key string) {
	if m.misses == nil {
		return
	}
	m.misses.Set(missKey{guildID: guildID, key: key}, struct{}{}, ttlcache.DefaultTTL)
}

func (m *Manager) forgetMiss(guildID snowflake.ID, key string) {
	if m.misses == nil {
		return
	}
	m.misses.Delete(missKey{guildID: guildID, key: key})
}
