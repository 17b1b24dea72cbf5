package utility

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/guildkeeper/internal/bot"
	"github.com/sglre6355/guildkeeper/internal/modules/utility/application"
	"github.com/sglre6355/guildkeeper/internal/modules/utility/infrastructure"
	"github.com/sglre6355/guildkeeper/internal/modules/utility/presentation"
)

func init() {
	bot.Register(&UtilityModule{})
}

// UtilityModule provides /now and /messagedata.
type UtilityModule struct {
	timestampHandler *presentation.TimestampHandler
	messageHandler   *presentation.MessageHandler
}

// Name returns the module name.
func (m *UtilityModule) Name() string {
	return "utility"
}

// Commands returns the slash commands for this module.
func (m *UtilityModule) Commands() []*discordgo.ApplicationCommand {
	return presentation.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *UtilityModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		presentation.CommandNow:         m.timestampHandler.Handle,
		presentation.CommandMessageData: m.messageHandler.Handle,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *UtilityModule) EventHandlers() []bot.EventHandler {
	return nil
}

// Init initializes the module.
func (m *UtilityModule) Init(deps bot.ModuleDependencies) error {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m.timestampHandler = presentation.NewTimestampHandler(application.NewTimestampInteractor(nil))
	m.messageHandler = presentation.NewMessageHandler(
		application.NewMessageInteractor(infrastructure.NewMessageFetcher(deps.Session)),
		logger,
	)
	return nil
}

// Shutdown cleans up module resources.
func (m *UtilityModule) Shutdown() error {
	return nil
}
