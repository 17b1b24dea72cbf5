package guilddata

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// fakeStore is an in-memory Store that counts calls and can be made to fail.
type fakeStore struct {
	mu         sync.Mutex
	docs       map[snowflake.ID]Document
	calls      map[string]int
	err        error
	findAllErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs:  make(map[snowflake.ID]Document),
		calls: make(map[string]int),
	}
}

// put writes a document directly, bypassing any manager.
func (f *fakeStore) put(guildID snowflake.ID, doc Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[guildID] = doc.Clone()
}

func (f *fakeStore) stored(guildID snowflake.ID) (Document, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[guildID]
	return doc.Clone(), ok
}

func (f *fakeStore) failWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeStore) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeStore) resetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = make(map[string]int)
}

func (f *fakeStore) FindAll(_ context.Context) (map[snowflake.ID]Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["FindAll"]++

	if f.findAllErr != nil {
		return nil, f.findAllErr
	}
	if f.err != nil {
		return nil, f.err
	}
	result := make(map[snowflake.ID]Document, len(f.docs))
	for id, doc := range f.docs {
		result[id] = doc.Clone()
	}
	return result, nil
}

func (f *fakeStore) Find(_ context.Context, guildID snowflake.ID) (Document, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["Find"]++

	if f.err != nil {
		return nil, false, f.err
	}
	doc, ok := f.docs[guildID]
	if !ok {
		return nil, false, nil
	}
	return doc.Clone(), true, nil
}

func (f *fakeStore) FindField(_ context.Context, guildID snowflake.ID, key string) (json.RawMessage, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["FindField"]++

	if f.err != nil {
		return nil, false, f.err
	}
	value, ok := f.docs[guildID][key]
	if !ok {
		return nil, false, nil
	}
	return cloneRaw(value), true, nil
}

func (f *fakeStore) SetField(_ context.Context, guildID snowflake.ID, key string, value json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["SetField"]++

	if f.err != nil {
		return f.err
	}
	doc, ok := f.docs[guildID]
	if !ok {
		doc = Document{}
		f.docs[guildID] = doc
	}
	doc[key] = cloneRaw(value)
	return nil
}

func (f *fakeStore) UnsetField(_ context.Context, guildID snowflake.ID, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["UnsetField"]++

	if f.err != nil {
		return f.err
	}
	if doc, ok := f.docs[guildID]; ok {
		delete(doc, key)
	}
	return nil
}
