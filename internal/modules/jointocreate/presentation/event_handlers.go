package presentation

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/guildkeeper/internal/modules/jointocreate/application/usecases"
)

// EventHandlers reacts to gateway events for join-to-create channels.
type EventHandlers struct {
	voice  *usecases.VoiceService
	logger *slog.Logger
}

// NewEventHandlers creates new EventHandlers.
func NewEventHandlers(voice *usecases.VoiceService, logger *slog.Logger) *EventHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventHandlers{
		voice:  voice,
		logger: logger,
	}
}

// voiceTransition is a member moving between voice channels. Zero channel
// ids mean "not connected".
type voiceTransition struct {
	GuildID     snowflake.ID
	UserID      snowflake.ID
	DisplayName string
	From        snowflake.ID
	To          snowflake.ID
}

// HandleVoiceStateUpdate creates a temporary channel when a member joins a
// join-to-create channel and deletes temporary channels left empty.
func (h *EventHandlers) HandleVoiceStateUpdate(s *discordgo.Session, e *discordgo.VoiceStateUpdate) {
	transition, ok := parseVoiceStateUpdate(e)
	if !ok || transition.From == transition.To {
		return
	}

	ctx := context.Background()

	if transition.To != 0 {
		h.handleJoin(ctx, transition, channelParent(s, transition.To))
	}
	if transition.From != 0 {
		h.handleLeave(ctx, transition)
	}
}

// HandleChannelDelete stops tracking temporary channels deleted by others.
func (h *EventHandlers) HandleChannelDelete(_ *discordgo.Session, e *discordgo.ChannelDelete) {
	if e.Channel == nil {
		return
	}
	channelID, err := snowflake.Parse(e.ID)
	if err != nil {
		return
	}
	if err := h.voice.Forget(context.Background(), channelID); err != nil {
		h.logger.Warn("failed to forget deleted channel", "channel", channelID, "error", err)
	}
}

// HandleGuildCreate removes temporary channels that emptied while the
// gateway was disconnected.
func (h *EventHandlers) HandleGuildCreate(_ *discordgo.Session, e *discordgo.GuildCreate) {
	if e.Guild == nil {
		return
	}
	guildID, err := snowflake.Parse(e.ID)
	if err != nil {
		return
	}
	if n := h.voice.Cleanup(context.Background(), guildID); n > 0 {
		h.logger.Info("cleaned up temporary channels", "guild", guildID, "count", n)
	}
}

func (h *EventHandlers) handleJoin(ctx context.Context, t voiceTransition, parentID snowflake.ID) {
	_, err := h.voice.Join(ctx, usecases.JoinInput{
		GuildID:     t.GuildID,
		UserID:      t.UserID,
		DisplayName: t.DisplayName,
		ChannelID:   t.To,
		ParentID:    parentID,
	})
	switch {
	case err == nil:
	case errors.Is(err, usecases.ErrMissingPermissions):
		h.logger.Error("missing permission to create or delete channels",
			"guild", t.GuildID,
			"channel", t.To,
		)
	default:
		h.logger.Error("failed to create temporary channel",
			"guild", t.GuildID,
			"channel", t.To,
			"user", t.UserID,
			"error", err,
		)
	}
}

func (h *EventHandlers) handleLeave(ctx context.Context, t voiceTransition) {
	if _, err := h.voice.Leave(ctx, usecases.LeaveInput{GuildID: t.GuildID, ChannelID: t.From}); err != nil {
		h.logger.Error("failed to delete temporary channel",
			"guild", t.GuildID,
			"channel", t.From,
			"error", err,
		)
	}
}

func parseVoiceStateUpdate(e *discordgo.VoiceStateUpdate) (voiceTransition, bool) {
	if e == nil || e.VoiceState == nil {
		return voiceTransition{}, false
	}

	guildID, err := snowflake.Parse(e.GuildID)
	if err != nil {
		return voiceTransition{}, false
	}
	userID, err := snowflake.Parse(e.UserID)
	if err != nil {
		return voiceTransition{}, false
	}

	t := voiceTransition{
		GuildID:     guildID,
		UserID:      userID,
		DisplayName: displayName(e.Member),
		To:          parseOptionalID(e.ChannelID),
	}
	if e.BeforeUpdate != nil {
		t.From = parseOptionalID(e.BeforeUpdate.ChannelID)
	}
	return t, true
}

func parseOptionalID(value string) snowflake.ID {
	if value == "" {
		return 0
	}
	id, err := snowflake.Parse(value)
	if err != nil {
		return 0
	}
	return id
}

func displayName(member *discordgo.Member) string {
	if member == nil {
		return "Member"
	}
	if member.Nick != "" {
		return member.Nick
	}
	if member.User == nil {
		return "Member"
	}
	if member.User.GlobalName != "" {
		return member.User.GlobalName
	}
	return member.User.Username
}

// channelParent returns the category of channelID from the state cache.
func channelParent(s *discordgo.Session, channelID snowflake.ID) snowflake.ID {
	if s == nil || s.State == nil {
		return 0
	}
	channel, err := s.State.Channel(channelID.String())
	if err != nil {
		return 0
	}
	return parseOptionalID(channel.ParentID)
}
