package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/guildkeeper/internal/guilddata"
	"github.com/sglre6355/guildkeeper/internal/modules/diagnostics/domain"
)

// PingInteractor handles the ping use case.
type PingInteractor struct {
	settings *guilddata.Manager
	logger   *slog.Logger
}

// NewPingInteractor creates a new PingInteractor.
func NewPingInteractor(settings *guilddata.Manager, logger *slog.Logger) *PingInteractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PingInteractor{
		settings: settings,
		logger:   logger,
	}
}

// Execute performs the ping operation. The latency is only reported when
// debug mode is enabled for the guild. A zero guildID means a direct
// message.
func (p *PingInteractor) Execute(ctx context.Context, guildID snowflake.ID, latency time.Duration) *domain.PingResult {
	if guildID == 0 || p.settings == nil {
		return domain.NewPingResult(0)
	}

	debug, _, err := guilddata.Lookup[bool](ctx, p.settings, guildID, domain.KeyDebugMode)
	if err != nil {
		p.logger.Warn("failed to read debug mode", "guild", guildID, "error", err)
		return domain.NewPingResult(0)
	}
	if !debug {
		return domain.NewPingResult(0)
	}
	return domain.NewPingResult(latency)
}
