package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hashicorp/go-multierror"

	"github.com/sglre6355/guildkeeper/internal/guilddata"
	"github.com/sglre6355/guildkeeper/internal/storage"
)

// Bot manages the Discord bot lifecycle and module coordination.
type Bot struct {
	config   *Config
	session  *discordgo.Session
	storage  storage.Backend
	modules  []Module
	handlers map[string]InteractionHandler
}

// NewBot creates a new Bot instance with the given configuration.
func NewBot(cfg *Config) *Bot {
	return &Bot{
		config:   cfg,
		modules:  make([]Module, 0),
		handlers: make(map[string]InteractionHandler),
	}
}

// LoadModules loads modules from the global registry and lets configurable
// modules read their configuration.
func (b *Bot) LoadModules() error {
	b.modules = Modules()

	for _, mod := range b.modules {
		configurable, ok := mod.(ConfigurableModule)
		if !ok {
			continue
		}
		if err := configurable.LoadConfig(); err != nil {
			return fmt.Errorf("failed to load %s module config: %w", mod.Name(), err)
		}
	}

	return nil
}

// Start opens storage, initializes the bot, connects to Discord, and
// registers commands.
func (b *Bot) Start(ctx context.Context) error {
	// Create Discord session
	session, err := discordgo.New("Bot " + b.config.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	b.session = session
	b.session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates

	// Open storage
	if err := b.openStorage(ctx); err != nil {
		return err
	}

	// Initialize modules
	if err := b.initModules(); err != nil {
		return fmt.Errorf("failed to initialize modules: %w", err)
	}

	// Build handler map
	b.buildHandlerMap()

	// Register interaction and guild membership handlers
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(b.handleGuildCreate)
	b.session.AddHandler(b.handleGuildDelete)

	// Register module event handlers
	b.registerEventHandlers()

	// Open connection
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	// Register commands
	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	slog.Info("started bot",
		"user_id", b.session.State.User.ID,
		"username", b.session.State.User.Username,
	)

	return nil
}

// Stop gracefully shuts down the bot.
func (b *Bot) Stop(ctx context.Context) error {
	var result *multierror.Error

	// Shutdown modules
	for _, mod := range b.modules {
		if err := mod.Shutdown(); err != nil {
			slog.Warn("failed to shutdown module", "module", mod.Name(), "error", err)
			result = multierror.Append(result, fmt.Errorf("module %s: %w", mod.Name(), err))
		}
	}

	// Close Discord session
	if b.session != nil {
		if err := b.session.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("discord session: %w", err))
		}
	}

	// Close storage
	if b.storage != nil {
		if err := b.storage.Close(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("storage: %w", err))
		}
	}

	return result.ErrorOrNil()
}

// openStorage opens the configured backend unless one was already set.
// An unreachable backend is logged; modules then report it per operation.
func (b *Bot) openStorage(ctx context.Context) error {
	if b.storage == nil {
		backend, err := storage.Open(ctx, b.config.Storage, slog.Default())
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		b.storage = backend
	}

	if err := b.storage.Ping(ctx); err != nil {
		slog.Warn("storage backend is unreachable, guild data will be unavailable until it recovers",
			"driver", b.config.Storage.Driver,
			"error", err,
		)
	}

	return nil
}

// initModules initializes all loaded modules.
func (b *Bot) initModules() error {
	for _, mod := range b.modules {
		deps := ModuleDependencies{
			Session: b.session,
			Storage: b.storage,
			Logger:  slog.Default().With("module", mod.Name()),
			GuildDataOptions: []guilddata.Option{
				guilddata.WithMissTTL(b.config.GuildDataMissTTL),
			},
		}
		if err := mod.Init(deps); err != nil {
			return fmt.Errorf("failed to initialize %s module: %w", mod.Name(), err)
		}
		slog.Debug("initialized module", "module", mod.Name())
	}

	moduleNames := make([]string, len(b.modules))
	for i, mod := range b.modules {
		moduleNames[i] = mod.Name()
	}
	slog.Info("initialized modules", "modules", moduleNames)

	return nil
}

// buildHandlerMap builds the command name to handler mapping.
func (b *Bot) buildHandlerMap() {
	for _, mod := range b.modules {
		maps.Copy(b.handlers, mod.CommandHandlers())
	}
}

// registerEventHandlers registers all module event handlers with the session.
func (b *Bot) registerEventHandlers() {
	for _, mod := range b.modules {
		for _, handler := range mod.EventHandlers() {
			b.session.AddHandler(handler)
		}
	}
}

// collectCommands gathers all commands from loaded modules.
func (b *Bot) collectCommands() []*discordgo.ApplicationCommand {
	var commands []*discordgo.ApplicationCommand
	for _, mod := range b.modules {
		commands = append(commands, mod.Commands()...)
	}
	return commands
}

// registerCommands registers all module commands with Discord.
func (b *Bot) registerCommands() error {
	commands := b.collectCommands()

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(
			b.session.State.User.ID,
			"", // Empty string registers commands globally
			cmd,
		)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
		slog.Debug("registered command", "command", cmd.Name)
	}

	return nil
}

// Embed colors for responses.
const (
	colorYellow = 0xFFFF00
	colorRed    = 0xFF0000
)

// guildJoinWindow separates a fresh join from the GuildCreate replayed for
// every guild when the gateway connects.
const guildJoinWindow = 5 * time.Minute

// handleInteraction routes incoming interactions to the appropriate handler.
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	b.dispatch(s, i, NewDiscordResponder(s, i.Interaction))
}

// dispatch runs the command handler and reports failures through r, which
// also covers handlers that deferred before failing.
func (b *Bot) dispatch(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) {
	data := i.ApplicationCommandData()
	attrs := []any{
		"command", data.Name,
		"options", flattenOptions(data.Options),
		"guild", i.GuildID,
		"channel", i.ChannelID,
		"user", interactionUserID(i),
	}

	handler, ok := b.handlers[data.Name]
	if !ok {
		slog.Warn("found no handler for command", attrs...)
		respondWithEmbed(r, "Unknown Command", "This command is not recognized.", colorYellow)
		return
	}

	if err := handler(s, i, r); err != nil {
		slog.Error("failed to handle command", append(attrs, "error", err)...)
		title, description := errorMessage(err)
		respondWithEmbed(r, title, description, colorRed)
		return
	}
	slog.Info("executed command", attrs...)
}

// errorMessage picks the user-facing text for a handler error.
func errorMessage(err error) (title, description string) {
	if errors.Is(err, guilddata.ErrStoreUnavailable) {
		return "Temporarily Unavailable", "Server settings could not be reached. Please try again later."
	}
	return "Error", "An error occurred while processing your command."
}

// respondWithEmbed sends an embed response to an interaction.
func respondWithEmbed(r Responder, title, description string, color int) {
	err := r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       title,
					Description: description,
					Color:       color,
				},
			},
		},
	})
	if err != nil {
		slog.Error("failed to send embed response", "error", err)
	}
}

// flattenOptions renders command options as "sub name=value ...".
func flattenOptions(options []*discordgo.ApplicationCommandInteractionDataOption) string {
	var parts []string
	var walk func([]*discordgo.ApplicationCommandInteractionDataOption)
	walk = func(options []*discordgo.ApplicationCommandInteractionDataOption) {
		for _, opt := range options {
			switch opt.Type {
			case discordgo.ApplicationCommandOptionSubCommand,
				discordgo.ApplicationCommandOptionSubCommandGroup:
				parts = append(parts, opt.Name)
				walk(opt.Options)
			default:
				parts = append(parts, fmt.Sprintf("%s=%v", opt.Name, opt.Value))
			}
		}
	}
	walk(options)
	return strings.Join(parts, " ")
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.ID
	case i.User != nil:
		return i.User.ID
	default:
		return ""
	}
}

// handleGuildCreate logs guilds the bot was added to.
func (b *Bot) handleGuildCreate(_ *discordgo.Session, e *discordgo.GuildCreate) {
	if e.Guild == nil {
		return
	}
	if joinedRecently(e.JoinedAt, time.Now()) {
		slog.Info("joined guild", "guild", e.ID, "name", e.Name)
		return
	}
	slog.Debug("guild available", "guild", e.ID, "name", e.Name)
}

// handleGuildDelete logs guilds the bot was removed from. An unavailable
// guild is an outage, not a removal.
func (b *Bot) handleGuildDelete(_ *discordgo.Session, e *discordgo.GuildDelete) {
	if e.Guild == nil {
		return
	}
	if e.Unavailable {
		slog.Warn("guild became unavailable", "guild", e.ID)
		return
	}
	name := e.Name
	if e.BeforeDelete != nil {
		name = e.BeforeDelete.Name
	}
	slog.Info("left guild", "guild", e.ID, "name", name)
}

func joinedRecently(joinedAt, now time.Time) bool {
	return !joinedAt.IsZero() && now.Sub(joinedAt) < guildJoinWindow
}
