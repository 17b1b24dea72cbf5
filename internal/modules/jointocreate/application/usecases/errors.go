package usecases

import "errors"

// ErrMissingPermissions is returned when the bot cannot manage voice channels.
var ErrMissingPermissions = errors.New("missing permission to manage channels")
