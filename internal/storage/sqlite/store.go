// Package sqlite provides a SQLite-backed guild document store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	_ "modernc.org/sqlite"

	"github.com/sglre6355/guildkeeper/internal/guilddata"
	"github.com/sglre6355/guildkeeper/internal/storage/migrate"
	"github.com/sglre6355/guildkeeper/internal/storage/sqlite/migrations"
)

// Backend owns the SQLite handle shared by all collections.
type Backend struct {
	sqlDB   *sql.DB
	timeout time.Duration
}

// Open opens the database at path and applies embedded migrations.
// timeout bounds every store call; zero disables it.
func Open(ctx context.Context, path string, timeout time.Duration, log *slog.Logger) (*Backend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := ":memory:"
	if path != ":memory:" {
		dsn = filepath.Clean(path)
	}
	dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// Every connection would otherwise see its own empty database.
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrate.Up(ctx, sqlDB, "sqlite3", migrations.FS, log); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Backend{sqlDB: sqlDB, timeout: timeout}, nil
}

// Collection returns the store for one namespace.
func (b *Backend) Collection(name string) guilddata.Store {
	return &Store{sqlDB: b.sqlDB, namespace: name, timeout: b.timeout}
}

// Ping checks the database handle.
func (b *Backend) Ping(ctx context.Context) error {
	return b.sqlDB.PingContext(ctx)
}

// Close closes the SQLite handle.
func (b *Backend) Close(context.Context) error {
	if b == nil || b.sqlDB == nil {
		return nil
	}
	return b.sqlDB.Close()
}

// Store persists the documents of one namespace in the guild_documents table.
type Store struct {
	sqlDB     *sql.DB
	namespace string
	timeout   time.Duration
}

// FindAll returns every document of the namespace.
func (s *Store) FindAll(ctx context.Context) (map[snowflake.ID]guilddata.Document, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT guild_id, data FROM guild_documents WHERE namespace = ?`,
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
			data    string
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

// Find returns the document of one guild.
func (s *Store) Find(ctx context.Context, guildID snowflake.ID) (guilddata.Document, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var data string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT data FROM guild_documents WHERE namespace = ? AND guild_id = ?`,
		s.namespace, int64(guildID),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
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

// FindField extracts one field with the JSON -> operator.
func (s *Store) FindField(
	ctx context.Context,
	guildID snowflake.ID,
	key string,
) (json.RawMessage, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var value sql.NullString
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT data -> ? FROM guild_documents WHERE namespace = ? AND guild_id = ?`,
		jsonPath(key), s.namespace, int64(guildID),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get guild document field: %w", err)
	}
	if !value.Valid {
		return nil, false, nil
	}
	return json.RawMessage(value.String), true, nil
}

// SetField upserts the document and sets one field.
func (s *Store) SetField(
	ctx context.Context,
	guildID snowflake.ID,
	key string,
	value json.RawMessage,
) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO guild_documents (namespace, guild_id, data, updated_at)
		 VALUES (?, ?, json_object(?, json(?)), ?)
		 ON CONFLICT (namespace, guild_id) DO UPDATE
		 SET data = json_set(guild_documents.data, ?, json(?)),
		     updated_at = excluded.updated_at`,
		s.namespace, int64(guildID),
		key, string(value),
		toMillis(time.Now()),
		jsonPath(key), string(value),
	)
	if err != nil {
		return fmt.Errorf("set guild document field: %w", err)
	}
	return nil
}

// UnsetField removes one field from an existing document.
func (s *Store) UnsetField(ctx context.Context, guildID snowflake.ID, key string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.sqlDB.ExecContext(ctx,
		`UPDATE guild_documents
		 SET data = json_remove(data, ?), updated_at = ?
		 WHERE namespace = ? AND guild_id = ?`,
		jsonPath(key), toMillis(time.Now()),
		s.namespace, int64(guildID),
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

// jsonPath quotes key as a single path label. ValidateKey rejects quotes
// and backslashes, which SQLite cannot escape inside a label.
func jsonPath(key string) string {
	return `$."` + key + `"`
}

func decodeDocument(data string) (guilddata.Document, error) {
	doc := guilddata.Document{}
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("decode guild document: %w", err)
	}
	return doc, nil
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Ensure Store implements guilddata.Store.
var _ guilddata.Store = (*Store)(nil)
