package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
)

// ChannelManager creates, deletes and inspects guild voice channels.
type ChannelManager interface {
	// CanManageChannels reports whether the bot may create channels next to
	// channelID and move members into them.
	CanManageChannels(guildID, channelID snowflake.ID) bool

	// CreateVoiceChannel creates a voice channel under parentID.
	// A zero parentID creates it outside any category.
	CreateVoiceChannel(
		ctx context.Context,
		guildID, parentID snowflake.ID,
		name string,
	) (snowflake.ID, error)

	// MoveMember moves a connected member into channelID.
	MoveMember(ctx context.Context, guildID, userID, channelID snowflake.ID) error

	// DeleteChannel deletes a channel.
	DeleteChannel(ctx context.Context, channelID snowflake.ID) error

	// VoiceMemberCount returns how many members are connected to channelID.
	// ok is false when the guild is not cached and the count is unknown.
	VoiceMemberCount(guildID, channelID snowflake.ID) (count int, ok bool)
}
