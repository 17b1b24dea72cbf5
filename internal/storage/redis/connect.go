// Package redis provides a Redis-backed guild document store. Each guild
// document is one hash whose fields hold JSON-encoded values.
package redis

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrEmptyConnectionURL = errors.New("redis: empty connection URL")
	ErrFailedToParseURL   = errors.New("redis: failed to parse connection URL")
	ErrConnectionFailed   = errors.New("redis: failed to establish connection")
)

// DefaultKeyPrefix namespaces every key written by the store.
const DefaultKeyPrefix = "guildkeeper"

// Option configures Open.
type Option func(*options)

type options struct {
	keyPrefix        string
	retryAttempts    int
	retryInterval    time.Duration
	operationTimeout time.Duration
	dialTimeout      time.Duration
	logger           *slog.Logger
}

func defaultOptions() *options {
	return &options{
		keyPrefix:        DefaultKeyPrefix,
		retryAttempts:    3,
		retryInterval:    5 * time.Second,
		operationTimeout: 5 * time.Second,
		dialTimeout:      5 * time.Second,
		logger:           slog.Default(),
	}
}

// WithKeyPrefix sets the prefix of every hash key.
// Default: "guildkeeper"
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.keyPrefix = prefix
		}
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

// WithLogger sets the logger used to report failed connection attempts.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Open creates a Redis client and verifies it with PING.
// Supports both redis:// and rediss:// (TLS) URL schemes.
func Open(ctx context.Context, url string, opts ...Option) (*Backend, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrFailedToParseURL
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	redisOpts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}
	redisOpts.DialTimeout = o.dialTimeout

	client, err := connect(ctx, redisOpts, o)
	if err != nil {
		return nil, err
	}
	return NewBackend(client, o.keyPrefix, o.operationTimeout), nil
}

func connect(ctx context.Context, redisOpts *redis.Options, o *options) (redis.UniversalClient, error) {
	attempts := max(o.retryAttempts, 1)

	for i := range attempts {
		client := redis.NewClient(redisOpts)

		err := client.Ping(ctx).Err()
		if err == nil {
			return client, nil
		}
		_ = client.Close()

		o.logger.Warn("redis connection attempt failed",
			"attempt", i+1,
			"attempts", attempts,
			"error", err,
		)

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrConnectionFailed, ctx.Err())
		case <-time.After(time.Duration(i+1) * o.retryInterval):
		}
	}

	return nil, ErrConnectionFailed
}
