package presentation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/guildkeeper/internal/bot"
	"github.com/sglre6355/guildkeeper/internal/guilddata"
	"github.com/sglre6355/guildkeeper/internal/modules/jointocreate/application/usecases"
	"github.com/sglre6355/guildkeeper/internal/modules/jointocreate/domain"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorInfo    = 0x5865F2
	colorError   = 0xE74C3C
)

// CommandHandlers holds the /jointocreate command handlers.
type CommandHandlers struct {
	channels *usecases.ChannelService
	aliases  *usecases.AliasService
}

// NewCommandHandlers creates new CommandHandlers.
func NewCommandHandlers(
	channels *usecases.ChannelService,
	aliases *usecases.AliasService,
) *CommandHandlers {
	return &CommandHandlers{
		channels: channels,
		aliases:  aliases,
	}
}

// HandleJoinToCreate dispatches the /jointocreate subcommands.
func (h *CommandHandlers) HandleJoinToCreate(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	if i.Member == nil {
		return respondError(r, "This command can only be used in a server.")
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
		return respondError(r, "You need to be an administrator to use this command.")
	}

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return respondError(r, "Missing subcommand")
	}
	sub := options[0]

	if err := r.Defer(true); err != nil {
		return err
	}

	ctx := context.Background()
	switch sub.Name {
	case subcommandCreate:
		return h.handleCreate(ctx, r, guildID, sub.Options)
	case subcommandDelete:
		return h.handleDelete(ctx, r, guildID, sub.Options)
	case subcommandList:
		return h.handleList(ctx, r, guildID)
	case subcommandSetAlias:
		return h.handleSetAlias(ctx, r, guildID, sub.Options)
	case subcommandRemoveAlias:
		return h.handleRemoveAlias(ctx, r, guildID, sub.Options)
	case subcommandListAliases:
		return h.handleListAliases(ctx, r, guildID)
	default:
		return respondError(r, fmt.Sprintf("Unknown subcommand %q", sub.Name))
	}
}

func (h *CommandHandlers) handleCreate(
	ctx context.Context,
	r bot.Responder,
	guildID snowflake.ID,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	channelID, err := optionID(options, "channel")
	if err != nil {
		return respondError(r, "Invalid channel")
	}

	if err := h.channels.Add(ctx, guildID, channelID); err != nil {
		return handleError(r, err)
	}
	return respondSuccess(r, fmt.Sprintf("<#%d> is now a join-to-create channel.", channelID))
}

func (h *CommandHandlers) handleDelete(
	ctx context.Context,
	r bot.Responder,
	guildID snowflake.ID,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	channelID, err := optionID(options, "channel")
	if err != nil {
		return respondError(r, "Invalid channel")
	}

	if err := h.channels.Remove(ctx, guildID, channelID); err != nil {
		return handleError(r, err)
	}
	return respondSuccess(r, fmt.Sprintf("<#%d> is no longer a join-to-create channel.", channelID))
}

func (h *CommandHandlers) handleList(ctx context.Context, r bot.Responder, guildID snowflake.ID) error {
	channels, err := h.channels.List(ctx, guildID)
	if err != nil {
		return handleError(r, err)
	}
	if len(channels) == 0 {
		return respondInfo(r, "Join-To-Create Channels", "No join-to-create channels are configured.")
	}

	var sb strings.Builder
	for _, channelID := range channels {
		fmt.Fprintf(&sb, "- <#%d> (`%d`)\n", channelID, channelID)
	}
	return respondInfo(r, "Join-To-Create Channels", sb.String())
}

func (h *CommandHandlers) handleSetAlias(
	ctx context.Context,
	r bot.Responder,
	guildID snowflake.ID,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	userID, err := optionID(options, "user")
	if err != nil {
		return respondError(r, "Invalid user")
	}
	alias := optionString(options, "alias")

	saved, err := h.aliases.Set(ctx, guildID, userID, alias)
	if err != nil {
		return handleError(r, err)
	}
	return respondSuccess(r, fmt.Sprintf("Temporary channels of <@%d> will be named **%s**.", userID, saved))
}

func (h *CommandHandlers) handleRemoveAlias(
	ctx context.Context,
	r bot.Responder,
	guildID snowflake.ID,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	userID, err := optionID(options, "user")
	if err != nil {
		return respondError(r, "Invalid user")
	}

	if err := h.aliases.Remove(ctx, guildID, userID); err != nil {
		return handleError(r, err)
	}
	return respondSuccess(r, fmt.Sprintf("Removed the alias of <@%d>.", userID))
}

func (h *CommandHandlers) handleListAliases(ctx context.Context, r bot.Responder, guildID snowflake.ID) error {
	aliases, err := h.aliases.List(ctx, guildID)
	if err != nil {
		return handleError(r, err)
	}
	if len(aliases) == 0 {
		return respondInfo(r, "Temporary Channel Aliases", "No aliases are configured.")
	}

	var sb strings.Builder
	for _, alias := range aliases {
		fmt.Fprintf(&sb, "- <@%d> → `%s`\n", alias.UserID, alias.Name)
	}
	return respondInfo(r, "Temporary Channel Aliases", sb.String())
}

// handleError reports expected failures to the user and returns anything
// else to the bot.
func handleError(r bot.Responder, err error) error {
	switch {
	case errors.Is(err, guilddata.ErrStoreUnavailable):
		return respondError(r, "Server settings are temporarily unavailable. Please try again later.")
	case errors.Is(err, domain.ErrChannelAlreadyMonitored):
		return respondError(r, "This channel is already a join-to-create channel.")
	case errors.Is(err, domain.ErrChannelNotMonitored):
		return respondError(r, "This channel is not a join-to-create channel.")
	case errors.Is(err, domain.ErrEmptyAlias),
		errors.Is(err, domain.ErrAliasTooLong):
		return respondError(r, capitalize(err.Error())+".")
	case errors.Is(err, domain.ErrAliasNotFound):
		return respondError(r, "This user has no alias.")
	default:
		return err
	}
}

func optionID(
	options []*discordgo.ApplicationCommandInteractionDataOption,
	name string,
) (snowflake.ID, error) {
	for _, opt := range options {
		if opt.Name != name {
			continue
		}
		value, ok := opt.Value.(string)
		if !ok {
			return 0, fmt.Errorf("option %q is not an id", name)
		}
		return snowflake.Parse(value)
	}
	return 0, fmt.Errorf("missing option %q", name)
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

func respondSuccess(r bot.Responder, message string) error {
	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: message,
		Color:       colorSuccess,
	})
}

func respondInfo(r bot.Responder, title, message string) error {
	return respondEmbed(r, &discordgo.MessageEmbed{
		Title:       title,
		Description: message,
		Color:       colorInfo,
	})
}

func respondError(r bot.Responder, message string) error {
	return respondEmbed(r, &discordgo.MessageEmbed{
		Title:       "Error",
		Description: message,
		Color:       colorError,
	})
}

func respondEmbed(r bot.Responder, embed *discordgo.MessageEmbed) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}
