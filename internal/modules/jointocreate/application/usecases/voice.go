package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/guildkeeper/internal/modules/jointocreate/application/ports"
	"github.com/sglre6355/guildkeeper/internal/modules/jointocreate/domain"
)

// JoinInput describes a member connecting to a voice channel.
type JoinInput struct {
	GuildID     snowflake.ID
	UserID      snowflake.ID
	DisplayName string
	ChannelID   snowflake.ID
	// ParentID is the category of ChannelID, zero when it has none.
	ParentID snowflake.ID
}

// LeaveInput describes a member leaving a voice channel.
type LeaveInput struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID
}

// VoiceService creates temporary channels for members joining a
// join-to-create channel and removes them once empty.
type VoiceService struct {
	channels     *ChannelService
	aliases      *AliasService
	manager      ports.ChannelManager
	repo         domain.TemporaryChannelRepository
	nameTemplate string
	logger       *slog.Logger
}

// NewVoiceService creates a new VoiceService.
func NewVoiceService(
	channels *ChannelService,
	aliases *AliasService,
	manager ports.ChannelManager,
	repo domain.TemporaryChannelRepository,
	nameTemplate string,
	logger *slog.Logger,
) *VoiceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &VoiceService{
		channels:     channels,
		aliases:      aliases,
		manager:      manager,
		repo:         repo,
		nameTemplate: nameTemplate,
		logger:       logger,
	}
}

// Join creates and moves the member into a temporary channel when
// ChannelID is a join-to-create channel. It returns nil when nothing was
// created.
func (s *VoiceService) Join(ctx context.Context, input JoinInput) (*domain.TemporaryChannel, error) {
	monitored, err := s.channels.IsMonitored(ctx, input.GuildID, input.ChannelID)
	if err != nil {
		return nil, err
	}
	if !monitored {
		return nil, nil
	}

	if !s.manager.CanManageChannels(input.GuildID, input.ChannelID) {
		return nil, ErrMissingPermissions
	}

	alias, _, err := s.aliases.Get(ctx, input.GuildID, input.UserID)
	if err != nil {
		return nil, err
	}
	name := domain.TemporaryChannelName(alias, s.nameTemplate, input.DisplayName)

	channelID, err := s.manager.CreateVoiceChannel(ctx, input.GuildID, input.ParentID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary channel: %w", err)
	}

	channel := domain.TemporaryChannel{
		ID:      channelID,
		GuildID: input.GuildID,
		OwnerID: input.UserID,
		Name:    name,
	}
	if err := s.repo.Save(ctx, channel); err != nil {
		return nil, fmt.Errorf("failed to track temporary channel: %w", err)
	}

	s.logger.Info("created temporary channel",
		"guild", input.GuildID,
		"channel", channelID,
		"user", input.UserID,
		"name", name,
	)

	if err := s.manager.MoveMember(ctx, input.GuildID, input.UserID, channelID); err != nil {
		// The member left before the move; drop the channel again.
		s.remove(ctx, channel)
		return nil, fmt.Errorf("failed to move member: %w", err)
	}

	return &channel, nil
}

// Leave deletes ChannelID if it is a temporary channel that became empty.
// It reports whether the channel was deleted.
func (s *VoiceService) Leave(ctx context.Context, input LeaveInput) (bool, error) {
	channel, ok := s.repo.Get(ctx, input.ChannelID)
	if !ok {
		return false, nil
	}
	count, known := s.manager.VoiceMemberCount(input.GuildID, input.ChannelID)
	if !known {
		s.logger.Debug("skipped temporary channel with unknown occupancy",
			"guild", input.GuildID,
			"channel", input.ChannelID,
		)
		return false, nil
	}
	if count > 0 {
		return false, nil
	}

	if err := s.manager.DeleteChannel(ctx, channel.ID); err != nil {
		return false, fmt.Errorf("failed to delete temporary channel: %w", err)
	}
	if err := s.repo.Delete(ctx, channel.ID); err != nil {
		return false, fmt.Errorf("failed to untrack temporary channel: %w", err)
	}

	s.logger.Info("deleted temporary channel",
		"guild", channel.GuildID,
		"channel", channel.ID,
		"name", channel.Name,
	)
	return true, nil
}

// Forget stops tracking a channel that was deleted by someone else.
func (s *VoiceService) Forget(ctx context.Context, channelID snowflake.ID) error {
	return s.repo.Delete(ctx, channelID)
}

// Cleanup deletes every tracked temporary channel that is empty.
func (s *VoiceService) Cleanup(ctx context.Context, guildID snowflake.ID) int {
	deleted := 0
	for _, channel := range s.repo.ListByGuild(ctx, guildID) {
		ok, err := s.Leave(ctx, LeaveInput{GuildID: guildID, ChannelID: channel.ID})
		if err != nil {
			s.logger.Warn("failed to clean up temporary channel",
				"guild", guildID,
				"channel", channel.ID,
				"error", err,
			)
			continue
		}
		if ok {
			deleted++
		}
	}
	return deleted
}

func (s *VoiceService) remove(ctx context.Context, channel domain.TemporaryChannel) {
	if err := s.manager.DeleteChannel(ctx, channel.ID); err != nil {
		s.logger.Warn("failed to delete temporary channel",
			"guild", channel.GuildID,
			"channel", channel.ID,
			"error", err,
		)
	}
	_ = s.repo.Delete(ctx, channel.ID)
}
