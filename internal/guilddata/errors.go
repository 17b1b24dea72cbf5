package guilddata

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable is returned when the backing store could not serve a request.
	ErrStoreUnavailable = errors.New("guild data store unavailable")

	// ErrInvalidKey is returned for keys the store cannot hold.
	ErrInvalidKey = errors.New("invalid guild data key")

	// ErrInvalidValue is returned when a value cannot be encoded as JSON.
	ErrInvalidValue = errors.New("invalid guild data value")
)

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
