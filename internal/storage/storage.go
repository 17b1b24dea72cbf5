// Package storage opens the document store backend selected by
// configuration.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sglre6355/guildkeeper/internal/guilddata"
	"github.com/sglre6355/guildkeeper/internal/storage/memory"
	"github.com/sglre6355/guildkeeper/internal/storage/mongodb"
	"github.com/sglre6355/guildkeeper/internal/storage/postgres"
	"github.com/sglre6355/guildkeeper/internal/storage/redis"
	"github.com/sglre6355/guildkeeper/internal/storage/sqlite"
)

// Supported drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMongoDB  = "mongodb"
)

var ErrUnknownDriver = errors.New("storage: unknown driver")

// Config selects and configures the backend.
type Config struct {
	Driver           string        `env:"STORE_DRIVER"            envDefault:"sqlite"`
	URI              string        `env:"DATABASE_URI"`
	Database         string        `env:"DATABASE_NAME"           envDefault:"guildkeeper"`
	SQLitePath       string        `env:"SQLITE_PATH"             envDefault:"guildkeeper.db"`
	KeyPrefix        string        `env:"REDIS_KEY_PREFIX"        envDefault:"guildkeeper"`
	OperationTimeout time.Duration `env:"STORE_OPERATION_TIMEOUT" envDefault:"5s"`
	ConnectRetries   int           `env:"STORE_CONNECT_RETRIES"   envDefault:"3"`
	RetryInterval    time.Duration `env:"STORE_RETRY_INTERVAL"    envDefault:"5s"`
}

// Backend hands out one guilddata.Store per collection.
type Backend interface {
	Collection(name string) guilddata.Store
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open connects to the configured backend.
func Open(ctx context.Context, cfg Config, log *slog.Logger) (Backend, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "storage", "driver", cfg.Driver)

	switch strings.ToLower(cfg.Driver) {
	case DriverMemory:
		log.Warn("using in-memory storage, data will not survive a restart")
		return memory.NewBackend(), nil

	case DriverSQLite, "":
		backend, err := sqlite.Open(ctx, cfg.SQLitePath, cfg.OperationTimeout, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		return backend, nil

	case DriverPostgres:
		backend, err := postgres.Open(ctx, cfg.URI,
			postgres.WithRetry(cfg.ConnectRetries, cfg.RetryInterval),
			postgres.WithOperationTimeout(cfg.OperationTimeout),
			postgres.WithLogger(log),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres storage: %w", err)
		}
		return backend, nil

	case DriverRedis:
		backend, err := redis.Open(ctx, cfg.URI,
			redis.WithKeyPrefix(cfg.KeyPrefix),
			redis.WithRetry(cfg.ConnectRetries, cfg.RetryInterval),
			redis.WithOperationTimeout(cfg.OperationTimeout),
			redis.WithLogger(log),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to open redis storage: %w", err)
		}
		return backend, nil

	case DriverMongoDB:
		backend, err := mongodb.Open(cfg.URI, cfg.Database, cfg.OperationTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to open mongodb storage: %w", err)
		}
		return backend, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
