package presentation

import (
	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/guildkeeper/internal/modules/utility/domain"
)

// Command names.
const (
	CommandNow         = "now"
	CommandMessageData = "messagedata"
)

// Commands returns all slash commands for the utility module.
func Commands() []*discordgo.ApplicationCommand {
	styles := []domain.TimestampStyle{
		domain.StyleRelative,
		domain.StyleLong,
		domain.StyleLongWeekday,
		domain.StyleAll,
	}
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(styles))
	for _, style := range styles {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  string(style),
			Value: string(style),
		})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandNow,
			Description: "Show the current time as a Discord timestamp",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "operation",
					Description: "Shift the time, e.g. +1d50m or -2h",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "format",
					Description: "How to display the timestamp",
					Choices:     choices,
				},
			},
		},
		{
			Name:        CommandMessageData,
			Description: "Display information about a message in this channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "messageid",
					Description: "ID of the message to inspect",
					Required:    true,
				},
			},
		},
	}
}
