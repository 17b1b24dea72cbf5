package application

import (
	"time"

	"github.com/sglre6355/guildkeeper/internal/modules/utility/domain"
)

// TimestampInteractor handles the /now use case.
type TimestampInteractor struct {
	now func() time.Time
}

// NewTimestampInteractor creates a new TimestampInteractor. A nil clock uses
// time.Now.
func NewTimestampInteractor(now func() time.Time) *TimestampInteractor {
	if now == nil {
		now = time.Now
	}
	return &TimestampInteractor{
		now: now,
	}
}

// Execute shifts the current time by operation and renders it in style.
func (t *TimestampInteractor) Execute(operation string, style domain.TimestampStyle) (string, error) {
	offset, err := domain.ParseOffset(operation)
	if err != nil {
		return "", err
	}
	return domain.FormatTimestamp(t.now().Add(offset), style), nil
}
