package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/redis/go-redis/v9"

	"github.com/sglre6355/guildkeeper/internal/guilddata"
)

const scanBatch = 100

// Backend shares one client between all collections.
type Backend struct {
	client  redis.UniversalClient
	prefix  string
	timeout time.Duration
}

// NewBackend wraps an existing client.
func NewBackend(client redis.UniversalClient, prefix string, timeout time.Duration) *Backend {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Backend{client: client, prefix: prefix, timeout: timeout}
}

// Collection returns the store for one namespace.
func (b *Backend) Collection(name string) guilddata.Store {
	return &Store{
		client:  b.client,
		keyBase: b.prefix + ":" + name + ":",
		timeout: b.timeout,
	}
}

// Ping sends PING.
func (b *Backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close closes the client.
func (b *Backend) Close(context.Context) error {
	return b.client.Close()
}

// Store maps each guild document to the hash <prefix>:<namespace>:<guild id>.
// Redis drops empty hashes, so a document whose last field is unset is gone.
type Store struct {
	client  redis.UniversalClient
	keyBase string
	timeout time.Duration
}

func (s *Store) FindAll(ctx context.Context) (map[snowflake.ID]guilddata.Document, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	docs := make(map[snowflake.ID]guilddata.Document)
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.keyBase+"*", scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("scan guild documents: %w", err)
		}

		for _, key := range keys {
			guildID, err := snowflake.Parse(strings.TrimPrefix(key, s.keyBase))
			if err != nil {
				continue
			}
			fields, err := s.client.HGetAll(ctx, key).Result()
			if err != nil {
				return nil, fmt.Errorf("get guild document: %w", err)
			}
			if len(fields) > 0 {
				docs[guildID] = toDocument(fields)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}
	return docs, nil
}

func (s *Store) Find(ctx context.Context, guildID snowflake.ID) (guilddata.Document, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	fields, err := s.client.HGetAll(ctx, s.key(guildID)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("get guild document: %w", err)
	}
	if len(fields) == 0 {
		return nil, false, nil
	}
	return toDocument(fields), true, nil
}

func (s *Store) FindField(
	ctx context.Context,
	guildID snowflake.ID,
	key string,
) (json.RawMessage, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	value, err := s.client.HGet(ctx, s.key(guildID), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get guild document field: %w", err)
	}
	return json.RawMessage(value), true, nil
}

func (s *Store) SetField(
	ctx context.Context,
	guildID snowflake.ID,
	key string,
	value json.RawMessage,
) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.client.HSet(ctx, s.key(guildID), key, string(value)).Err(); err != nil {
		return fmt.Errorf("set guild document field: %w", err)
	}
	return nil
}

func (s *Store) UnsetField(ctx context.Context, guildID snowflake.ID, key string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.client.HDel(ctx, s.key(guildID), key).Err(); err != nil {
		return fmt.Errorf("unset guild document field: %w", err)
	}
	return nil
}

func (s *Store) key(guildID snowflake.ID) string {
	return s.keyBase + guildID.String()
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func toDocument(fields map[string]string) guilddata.Document {
	doc := make(guilddata.Document, len(fields))
	for key, value := range fields {
		doc[key] = json.RawMessage(value)
	}
	return doc
}

var _ guilddata.Store = (*Store)(nil)
