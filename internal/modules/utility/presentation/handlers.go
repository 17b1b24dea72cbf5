package presentation

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/guildkeeper/internal/bot"
	"github.com/sglre6355/guildkeeper/internal/modules/utility/application"
	"github.com/sglre6355/guildkeeper/internal/modules/utility/domain"
)

const colorError = 0xE74C3C

// TimestampHandler handles the /now command.
type TimestampHandler struct {
	interactor *application.TimestampInteractor
}

// NewTimestampHandler creates a new TimestampHandler.
func NewTimestampHandler(interactor *application.TimestampInteractor) *TimestampHandler {
	return &TimestampHandler{
		interactor: interactor,
	}
}

// Handle replies with the shifted timestamp.
func (h *TimestampHandler) Handle(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	options := i.ApplicationCommandData().Options

	style, err := domain.ParseStyle(optionString(options, "format"))
	if err != nil {
		return respondError(r, err.Error())
	}

	content, err := h.interactor.Execute(optionString(options, "operation"), style)
	if err != nil {
		return respondError(r, capitalize(err.Error())+". Use terms like +1d, -2h, +30m or +10s.")
	}
	return respondContent(r, content)
}

// MessageHandler handles the /messagedata command.
type MessageHandler struct {
	interactor *application.MessageInteractor
	logger     *slog.Logger
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(interactor *application.MessageInteractor, logger *slog.Logger) *MessageHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MessageHandler{
		interactor: interactor,
		logger:     logger,
	}
}

// Handle replies with a JSON summary of a message in the current channel.
func (h *MessageHandler) Handle(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	if err := r.Defer(true); err != nil {
		return err
	}

	messageID, err := snowflake.Parse(optionString(i.ApplicationCommandData().Options, "messageid"))
	if err != nil {
		return respondError(r, "Invalid message ID. Make sure it's numeric.")
	}
	channelID, err := snowflake.Parse(i.ChannelID)
	if err != nil {
		return respondError(r, "This command must be used in a channel.")
	}

	content, err := h.interactor.Execute(context.Background(), channelID, messageID)
	switch {
	case err == nil:
		return respondContent(r, content)
	case errors.Is(err, domain.ErrMessageNotFound):
		return respondError(r, "Message not found in this channel.")
	case errors.Is(err, domain.ErrMessageForbidden):
		return respondError(r, "Missing permissions to access the message.")
	default:
		h.logger.Error("failed to fetch message",
			"channel", channelID,
			"message", messageID,
			"error", err,
		)
		return respondError(r, "Failed to fetch the message due to an error.")
	}
}

func optionString(options []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range options {
		if opt.Name == name {
			value, _ := opt.Value.(string)
			return value
		}
	}
	return ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func respondContent(r bot.Responder, content string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func respondError(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Error",
					Description: message,
					Color:       colorError,
				},
			},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}
