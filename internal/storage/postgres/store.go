package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sglre6355/guildkeeper/internal/guilddata"
)

// Backend owns the connection pool shared by all collections.
type Backend struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// Collection returns the store for one namespace.
func (b *Backend) Collection(name string) guilddata.Store {
	return &Store{pool: b.pool, namespace: name, timeout: b.timeout}
}

// Ping checks that the database is reachable.
func (b *Backend) Ping(ctx context.Context) error {
	return b.pool.Ping(ctx)
}

// Close closes the pool.
func (b *Backend) Close(context.Context) error {
	b.pool.Close()
	return nil
}

// Store keeps one namespace of guild documents in a jsonb column.
type Store struct {
	pool      *pgxpool.Pool
	namespace string
	timeout   time.Duration
}

func (s *Store) FindAll(ctx context.Context) (map[snowflake.ID]guilddata.Document, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT guild_id, data FROM guild_documents WHERE namespace = $1`,
		s.namespace,
	)
	if err != nil {
		return nil, fmt.Errorf("query guild documents: %w", err)
	}
	defer rows.Close()

	docs := make(map[snowflake.ID]guilddata.Document)
	for rows.Next() {
		var (
			guildID int64
			data    []byte
		)
		if err := rows.Scan(&guildID, &data); err != nil {
			return nil, fmt.Errorf("scan guild document: %w", err)
		}
		doc, err := decodeDocument(data)
		if err != nil {
			return nil, err
		}
		docs[snowflake.ID(guildID)] = doc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate guild documents: %w", err)
	}
	return docs, nil
}

func (s *Store) Find(ctx context.Context, guildID snowflake.ID) (guilddata.Document, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM guild_documents WHERE namespace = $1 AND guild_id = $2`,
		s.namespace, int64(guildID),
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get guild document: %w", err)
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

func (s *Store) FindField(
	ctx context.Context,
	guildID snowflake.ID,
	key string,
) (json.RawMessage, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var value []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data -> $3::text FROM guild_documents WHERE namespace = $1 AND guild_id = $2`,
		s.namespace, int64(guildID), key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get guild document field: %w", err)
	}
	// SQL NULL: the document exists but lacks the key.
	if value == nil {
		return nil, false, nil
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

	_, err := s.pool.Exec(ctx,
		`INSERT INTO guild_documents (namespace, guild_id, data, updated_at)
		 VALUES ($1, $2, jsonb_build_object($3::text, $4::jsonb), now())
		 ON CONFLICT (namespace, guild_id) DO UPDATE
		 SET data = guild_documents.data || EXCLUDED.data,
		     updated_at = now()`,
		s.namespace, int64(guildID), key, string(value),
	)
	if err != nil {
		return fmt.Errorf("set guild document field: %w", err)
	}
	return nil
}

func (s *Store) UnsetField(ctx context.Context, guildID snowflake.ID, key string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`UPDATE guild_documents
		 SET data = data - $3::text, updated_at = now()
		 WHERE namespace = $1 AND guild_id = $2`,
		s.namespace, int64(guildID), key,
	)
	if err != nil {
		return fmt.Errorf("unset guild document field: %w", err)
	}
	return nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func decodeDocument(data []byte) (guilddata.Document, error) {
	doc := guilddata.Document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode guild document: %w", err)
	}
	return doc, nil
}

var _ guilddata.Store = (*Store)(nil)
