package guilddata

import (
	"log/slog"
	"time"
)

// DefaultMissTTL is how long a confirmed-absent key is remembered.
const DefaultMissTTL = time.Minute

// DefaultMissCapacity bounds the number of remembered misses.
const DefaultMissCapacity = 10_000

// Option configures a Manager.
type Option func(*options)

type options struct {
	name         string
	logger       *slog.Logger
	missTTL      time.Duration
	missCapacity uint64
}

func defaultOptions() *options {
	return &options{
		missTTL:      DefaultMissTTL,
		missCapacity: DefaultMissCapacity,
	}
}

// WithName sets the owner name attached to log records.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMissTTL sets how long a key confirmed absent by the store is answered
// from memory. Zero or negative disables miss caching.
// Default: 1 minute
func WithMissTTL(d time.Duration) Option {
	return func(o *options) {
		o.missTTL = d
	}
}

// WithMissCapacity sets the maximum number of remembered misses.
// Default: 10000
func WithMissCapacity(n uint64) Option {
	return func(o *options) {
		o.missCapacity = n
	}
}
