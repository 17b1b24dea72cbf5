package application

import (
	"context"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/guildkeeper/internal/guilddata"
	"github.com/sglre6355/guildkeeper/internal/modules/diagnostics/domain"
)

// DebugInteractor toggles debug mode for a guild.
type DebugInteractor struct {
	settings *guilddata.Manager
}

// NewDebugInteractor creates a new DebugInteractor.
func NewDebugInteractor(settings *guilddata.Manager) *DebugInteractor {
	return &DebugInteractor{
		settings: settings,
	}
}

// Execute stores debug mode when enabled and removes the key otherwise.
func (d *DebugInteractor) Execute(ctx context.Context, guildID snowflake.ID, enabled bool) error {
	if enabled {
		return d.settings.Set(ctx, guildID, domain.KeyDebugMode, true)
	}
	return d.settings.Delete(ctx, guildID, domain.KeyDebugMode)
}
