package domain

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
)

// TemporaryChannel is a voice channel created for a member who joined a
// join-to-create channel. It is deleted once empty.
type TemporaryChannel struct {
	ID      snowflake.ID
	GuildID snowflake.ID
	OwnerID snowflake.ID
	Name    string
}

// TemporaryChannelRepository tracks the temporary channels the bot created.
// Tracking is process-local: channels left behind by a restart are not
// cleaned up.
type TemporaryChannelRepository interface {
	// Get returns the temporary channel with the given id.
	Get(ctx context.Context, channelID snowflake.ID) (TemporaryChannel, bool)

	// Save records a temporary channel.
	Save(ctx context.Context, channel TemporaryChannel) error

	// Delete forgets a temporary channel.
	Delete(ctx context.Context, channelID snowflake.ID) error

	// ListByGuild returns the temporary channels of a guild.
	ListByGuild(ctx context.Context, guildID snowflake.ID) []TemporaryChannel
}
