package presentation

import (
	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/guildkeeper/internal/modules/jointocreate/domain"
)

// CommandName is the top-level slash command of the module.
const CommandName = "jointocreate"

// Subcommand names.
const (
	subcommandCreate      = "create"
	subcommandDelete      = "delete"
	subcommandList        = "list"
	subcommandSetAlias    = "set-alias"
	subcommandRemoveAlias = "remove-alias"
	subcommandListAliases = "list-aliases"
)

// Commands returns all slash commands for the join-to-create module.
func Commands() []*discordgo.ApplicationCommand {
	adminOnly := int64(discordgo.PermissionAdministrator)
	dmPermission := false
	voiceChannels := []discordgo.ChannelType{discordgo.ChannelTypeGuildVoice}

	return []*discordgo.ApplicationCommand{
		{
			Name:                     CommandName,
			Description:              "Manage join-to-create voice channels",
			DefaultMemberPermissions: &adminOnly,
			DMPermission:             &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subcommandCreate,
					Description: "Add a join-to-create channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:         discordgo.ApplicationCommandOptionChannel,
							Name:         "channel",
							Description:  "Voice channel members join to get their own channel",
							Required:     true,
							ChannelTypes: voiceChannels,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subcommandDelete,
					Description: "Remove a join-to-create channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:         discordgo.ApplicationCommandOptionChannel,
							Name:         "channel",
							Description:  "Voice channel to remove",
							Required:     true,
							ChannelTypes: voiceChannels,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subcommandList,
					Description: "List the configured join-to-create channels",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subcommandSetAlias,
					Description: "Set the temporary channel name for a member",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "Member the name applies to",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "alias",
							Description: "Name of the member's temporary channel",
							Required:    true,
							MaxLength:   domain.MaxAliasLength,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subcommandRemoveAlias,
					Description: "Remove the temporary channel name of a member",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "Member whose name to remove",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subcommandListAliases,
					Description: "List the configured temporary channel names",
				},
			},
		},
	}
}
