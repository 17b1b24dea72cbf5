package diagnostics

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/guildkeeper/internal/bot"
	"github.com/sglre6355/guildkeeper/internal/modules/diagnostics/application"
	"github.com/sglre6355/guildkeeper/internal/modules/diagnostics/presentation"
)

func init() {
	bot.Register(&DiagnosticsModule{})
}

// DiagnosticsModule provides /ping and per-guild debug mode.
type DiagnosticsModule struct {
	pingHandler  *presentation.PingHandler
	debugHandler *presentation.DebugHandler
}

// Name returns the module name.
func (m *DiagnosticsModule) Name() string {
	return "diagnostics"
}

// Commands returns the slash commands for this module.
func (m *DiagnosticsModule) Commands() []*discordgo.ApplicationCommand {
	adminOnly := int64(discordgo.PermissionAdministrator)
	dmPermission := false

	return []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Replies with Pong!",
		},
		{
			Name:                     "debug",
			Description:              "Toggle debug output for this server",
			DefaultMemberPermissions: &adminOnly,
			DMPermission:             &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "enabled",
					Description: "Whether debug output is enabled",
					Required:    true,
				},
			},
		},
	}
}

// CommandHandlers returns the command handlers for this module.
func (m *DiagnosticsModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"ping":  m.pingHandler.Handle,
		"debug": m.debugHandler.Handle,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *DiagnosticsModule) EventHandlers() []bot.EventHandler {
	return nil
}

// Init initializes the module.
func (m *DiagnosticsModule) Init(deps bot.ModuleDependencies) error {
	settings := deps.GuildData(context.Background(), m.Name())

	m.pingHandler = presentation.NewPingHandler(application.NewPingInteractor(settings, deps.Logger))
	m.debugHandler = presentation.NewDebugHandler(application.NewDebugInteractor(settings))
	return nil
}

// Shutdown cleans up module resources.
func (m *DiagnosticsModule) Shutdown() error {
	return nil
}
