package bot

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/guildkeeper/internal/guilddata"
	"github.com/sglre6355/guildkeeper/internal/storage"
	"github.com/sglre6355/guildkeeper/internal/storage/memory"
)

// InteractionHandler handles a Discord interaction and returns a response.
type InteractionHandler func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error

// EventHandler is a generic handler for any Discord event.
// It should be a function matching one of discordgo's handler signatures,
// e.g., func(s *discordgo.Session, m *discordgo.MessageCreate)
type EventHandler any

// ModuleDependencies provides dependencies that modules may need during initialization.
type ModuleDependencies struct {
	Session *discordgo.Session
	Storage storage.Backend
	Logger  *slog.Logger

	// GuildDataOptions are applied to every manager built by GuildData.
	GuildDataOptions []guilddata.Option
}

// CollectionName returns the storage collection owned by a module.
func CollectionName(module string) string {
	return "module-" + module
}

// GuildData builds the per-guild data manager for a module. Without a
// storage backend the manager keeps data in memory only.
func (d ModuleDependencies) GuildData(ctx context.Context, module string) *guilddata.Manager {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var store guilddata.Store
	if d.Storage != nil {
		store = d.Storage.Collection(CollectionName(module))
	} else {
		logger.Warn("no storage backend configured, guild data will not persist", "module", module)
		store = memory.NewStore()
	}

	opts := append([]guilddata.Option{
		guilddata.WithName(module),
		guilddata.WithLogger(logger),
	}, d.GuildDataOptions...)
	return guilddata.NewManager(ctx, store, opts...)
}

// Module defines the interface that all bot modules must implement.
type Module interface {
	// Name returns the unique identifier for this module.
	Name() string

	// Commands returns the slash commands that this module provides.
	Commands() []*discordgo.ApplicationCommand

	// CommandHandlers returns a map of command names to their handlers.
	CommandHandlers() map[string]InteractionHandler

	// EventHandlers returns event handlers for this module.
	// Each handler should match a discordgo handler signature.
	EventHandlers() []EventHandler

	// Init initializes the module with the provided dependencies.
	Init(deps ModuleDependencies) error

	// Shutdown gracefully shuts down the module.
	Shutdown() error
}

// ConfigurableModule is an optional interface for modules that need configuration.
// Modules implementing this interface will have LoadConfig called before Init.
type ConfigurableModule interface {
	// LoadConfig loads and validates module-specific configuration.
	// Called before Init() and before Discord connection is established.
	// Should return an error if required configuration is missing or invalid.
	LoadConfig() error
}
