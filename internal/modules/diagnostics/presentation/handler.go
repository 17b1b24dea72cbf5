package presentation

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/guildkeeper/internal/bot"
	"github.com/sglre6355/guildkeeper/internal/guilddata"
	"github.com/sglre6355/guildkeeper/internal/modules/diagnostics/application"
)

const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
)

// PingHandler handles the /ping command.
type PingHandler struct {
	interactor *application.PingInteractor
}

// NewPingHandler creates a new PingHandler.
func NewPingHandler(interactor *application.PingInteractor) *PingHandler {
	return &PingHandler{
		interactor: interactor,
	}
}

// Handle processes the ping command and sends the response.
func (h *PingHandler) Handle(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	var latency time.Duration
	if s != nil {
		latency = s.HeartbeatLatency()
	}

	result := h.interactor.Execute(context.Background(), interactionGuild(i), latency)

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: result.Message,
		},
	})
}

// DebugHandler handles the /debug command.
type DebugHandler struct {
	interactor *application.DebugInteractor
}

// NewDebugHandler creates a new DebugHandler.
func NewDebugHandler(interactor *application.DebugInteractor) *DebugHandler {
	return &DebugHandler{
		interactor: interactor,
	}
}

// Handle toggles debug mode for the guild.
func (h *DebugHandler) Handle(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID := interactionGuild(i)
	if guildID == 0 || i.Member == nil {
		return respond(r, "Error", "This command can only be used in a server.", colorError)
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
		return respond(r, "Error", "You need to be an administrator to use this command.", colorError)
	}

	enabled := false
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "enabled" {
			enabled, _ = opt.Value.(bool)
		}
	}

	if err := r.Defer(true); err != nil {
		return err
	}

	if err := h.interactor.Execute(context.Background(), guildID, enabled); err != nil {
		if errors.Is(err, guilddata.ErrStoreUnavailable) {
			return respond(r, "Error", "Server settings are temporarily unavailable. Please try again later.", colorError)
		}
		return err
	}

	message := "Debug mode disabled."
	if enabled {
		message = "Debug mode enabled."
	}
	return respond(r, "", message, colorSuccess)
}

func interactionGuild(i *discordgo.InteractionCreate) snowflake.ID {
	if i == nil || i.Interaction == nil || i.GuildID == "" {
		return 0
	}
	id, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return 0
	}
	return id
}

func respond(r bot.Responder, title, message string, color int) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       title,
					Description: message,
					Color:       color,
				},
			},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}
