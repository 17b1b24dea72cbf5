package infrastructure

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/guildkeeper/internal/modules/jointocreate/application/ports"
)

// requiredPermissions are needed to create a channel and move its owner in.
const requiredPermissions = discordgo.PermissionManageChannels | discordgo.PermissionVoiceMoveMembers

// ChannelManager manages voice channels through a Discord session.
type ChannelManager struct {
	session *discordgo.Session
}

// NewChannelManager creates a new ChannelManager.
func NewChannelManager(session *discordgo.Session) *ChannelManager {
	return &ChannelManager{
		session: session,
	}
}

// CanManageChannels checks the bot's permissions in channelID.
func (m *ChannelManager) CanManageChannels(_, channelID snowflake.ID) bool {
	if m.session.State.User == nil {
		return false
	}

	perms, err := m.session.State.UserChannelPermissions(m.session.State.User.ID, channelID.String())
	if err != nil {
		return false
	}
	return perms&requiredPermissions == requiredPermissions
}

// CreateVoiceChannel creates a voice channel under parentID.
func (m *ChannelManager) CreateVoiceChannel(
	ctx context.Context,
	guildID, parentID snowflake.ID,
	name string,
) (snowflake.ID, error) {
	data := discordgo.GuildChannelCreateData{
		Name: name,
		Type: discordgo.ChannelTypeGuildVoice,
	}
	if parentID != 0 {
		data.ParentID = parentID.String()
	}

	channel, err := m.session.GuildChannelCreateComplex(guildID.String(), data, discordgo.WithContext(ctx))
	if err != nil {
		return 0, err
	}

	channelID, err := snowflake.Parse(channel.ID)
	if err != nil {
		return 0, fmt.Errorf("invalid channel id %q: %w", channel.ID, err)
	}
	return channelID, nil
}

// MoveMember moves a connected member into channelID.
func (m *ChannelManager) MoveMember(ctx context.Context, guildID, userID, channelID snowflake.ID) error {
	target := channelID.String()
	return m.session.GuildMemberMove(guildID.String(), userID.String(), &target, discordgo.WithContext(ctx))
}

// DeleteChannel deletes a channel.
func (m *ChannelManager) DeleteChannel(ctx context.Context, channelID snowflake.ID) error {
	_, err := m.session.ChannelDelete(channelID.String(), discordgo.WithContext(ctx))
	return err
}

// VoiceMemberCount counts the voice states in channelID.
func (m *ChannelManager) VoiceMemberCount(guildID, channelID snowflake.ID) (int, bool) {
	guild, err := m.session.State.Guild(guildID.String())
	if err != nil {
		return 0, false
	}

	m.session.State.RLock()
	defer m.session.State.RUnlock()

	count := 0
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == channelID.String() {
			count++
		}
	}
	return count, true
}

// Ensure ChannelManager implements ports.ChannelManager.
var _ ports.ChannelManager = (*ChannelManager)(nil)
