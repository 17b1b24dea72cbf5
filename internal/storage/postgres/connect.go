// Package postgres provides a PostgreSQL-backed guild document store.
package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/sglre6355/guildkeeper/internal/storage/migrate"
	"github.com/sglre6355/guildkeeper/internal/storage/postgres/migrations"
)

var (
	ErrEmptyConnectionURL       = errors.New("postgres: empty connection URL")
	ErrFailedToParseDBConfig    = errors.New("postgres: failed to parse database configuration")
	ErrFailedToOpenDBConnection = errors.New("postgres: failed to open database connection")
)

// Option configures Open.
type Option func(*options)

type options struct {
	retryAttempts    int
	retryInterval    time.Duration
	operationTimeout time.Duration
	maxConns         int32
	logger           *slog.Logger
}

func defaultOptions() *options {
	return &options{
		retryAttempts:    3,
		retryInterval:    5 * time.Second,
		operationTimeout: 5 * time.Second,
		maxConns:         10,
		logger:           slog.Default(),
	}
}

// WithRetry configures connection retry behavior.
// Default: 3 attempts, 5 second base interval with linear backoff.
func WithRetry(attempts int, interval time.Duration) Option {
	return func(o *options) {
		o.retryAttempts = attempts
		o.retryInterval = interval
	}
}

// WithOperationTimeout bounds every store call. Zero disables the bound.
// Default: 5 seconds
func WithOperationTimeout(d time.Duration) Option {
	return func(o *options) {
		o.operationTimeout = d
	}
}

// WithMaxConns sets the pool size.
// Default: 10
func WithMaxConns(n int32) Option {
	return func(o *options) {
		o.maxConns = n
	}
}

// WithLogger sets the logger used for migration output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Open connects to PostgreSQL, retrying transient failures, and applies
// the embedded migrations.
func Open(ctx context.Context, url string, opts ...Option) (*Backend, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	pool, err := connect(ctx, url, o)
	if err != nil {
		return nil, err
	}

	// The wrapper shares the pool's connections, so it is not closed here.
	if err := migrate.Up(ctx, stdlib.OpenDBFromPool(pool), "postgres", migrations.FS, o.logger); err != nil {
		pool.Close()
		return nil, err
	}

	return &Backend{pool: pool, timeout: o.operationTimeout}, nil
}

func connect(ctx context.Context, url string, o *options) (*pgxpool.Pool, error) {
	connConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	if o.maxConns > 0 {
		connConfig.MaxConns = o.maxConns
	}

	attempts := max(o.retryAttempts, 1)
	for i := range attempts {
		pool, err := pgxpool.NewWithConfig(ctx, connConfig)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}

		o.logger.Warn("postgres connection attempt failed",
			"attempt", i+1,
			"attempts", attempts,
			"error", err,
		)

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToOpenDBConnection, ctx.Err())
		case <-time.After(time.Duration(i+1) * o.retryInterval):
		}
	}

	return nil, ErrFailedToOpenDBConnection
}
