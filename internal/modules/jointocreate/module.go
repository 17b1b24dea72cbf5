package jointocreate

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"

	"github.com/sglre6355/guildkeeper/internal/bot"
	"github.com/sglre6355/guildkeeper/internal/guilddata"
	"github.com/sglre6355/guildkeeper/internal/modules/jointocreate/application/usecases"
	"github.com/sglre6355/guildkeeper/internal/modules/jointocreate/domain"
	"github.com/sglre6355/guildkeeper/internal/modules/jointocreate/infrastructure"
	"github.com/sglre6355/guildkeeper/internal/modules/jointocreate/presentation"
)

func init() {
	bot.Register(&JoinToCreateModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*JoinToCreateModule)(nil)

// JoinToCreateModule gives members a temporary voice channel when they join
// a configured join-to-create channel.
type JoinToCreateModule struct {
	config          *Config
	data            *guilddata.Manager
	commandHandlers *presentation.CommandHandlers
	eventHandlers   *presentation.EventHandlers
	repo            *infrastructure.MemoryRepository
}

// Name returns the module name.
func (m *JoinToCreateModule) Name() string {
	return "jointocreate"
}

// Commands returns the slash commands for this module.
func (m *JoinToCreateModule) Commands() []*discordgo.ApplicationCommand {
	return presentation.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *JoinToCreateModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		presentation.CommandName: m.commandHandlers.HandleJoinToCreate,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *JoinToCreateModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(s *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			if m.eventHandlers != nil {
				m.eventHandlers.HandleVoiceStateUpdate(s, event)
			}
		},
		func(s *discordgo.Session, event *discordgo.ChannelDelete) {
			if m.eventHandlers != nil {
				m.eventHandlers.HandleChannelDelete(s, event)
			}
		},
		func(s *discordgo.Session, event *discordgo.GuildCreate) {
			if m.eventHandlers != nil {
				m.eventHandlers.HandleGuildCreate(s, event)
			}
		},
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *JoinToCreateModule) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *JoinToCreateModule) Init(deps bot.ModuleDependencies) error {
	if m.config == nil {
		m.config = &Config{NameTemplate: domain.DefaultNameTemplate}
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m.data = deps.GuildData(context.Background(), m.Name())
	m.repo = infrastructure.NewMemoryRepository()

	channels := usecases.NewChannelService(m.data)
	aliases := usecases.NewAliasService(m.data)
	m.commandHandlers = presentation.NewCommandHandlers(channels, aliases)

	if deps.Session == nil {
		logger.Warn("jointocreate module initialized without session, voice channel handling disabled")
		return nil
	}

	voice := usecases.NewVoiceService(
		channels,
		aliases,
		infrastructure.NewChannelManager(deps.Session),
		m.repo,
		m.config.NameTemplate,
		logger,
	)
	m.eventHandlers = presentation.NewEventHandlers(voice, logger)

	logger.Info("jointocreate module initialized", "name_template", m.config.NameTemplate)
	return nil
}

// Shutdown cleans up module resources.
func (m *JoinToCreateModule) Shutdown() error {
	if m.repo != nil && m.repo.Count() > 0 {
		slog.Warn("temporary channels left behind on shutdown", "count", m.repo.Count())
	}
	return nil
}
