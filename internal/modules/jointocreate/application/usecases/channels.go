package usecases

import (
	"context"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/guildkeeper/internal/guilddata"
	"github.com/sglre6355/guildkeeper/internal/modules/jointocreate/domain"
)

// ChannelService manages the join-to-create channels of each guild.
type ChannelService struct {
	data *guilddata.Manager
}

// NewChannelService creates a new ChannelService.
func NewChannelService(data *guilddata.Manager) *ChannelService {
	return &ChannelService{data: data}
}

// Add registers channelID as a join-to-create channel.
func (s *ChannelService) Add(ctx context.Context, guildID, channelID snowflake.ID) error {
	_, err := guilddata.Modify(ctx, s.data, guildID, domain.KeyMonitoredChannels,
		func(current domain.ChannelList, _ bool) (domain.ChannelList, error) {
			return current.Add(channelID)
		},
	)
	return err
}

// Remove unregisters channelID.
func (s *ChannelService) Remove(ctx context.Context, guildID, channelID snowflake.ID) error {
	_, err := guilddata.Modify(ctx, s.data, guildID, domain.KeyMonitoredChannels,
		func(current domain.ChannelList, _ bool) (domain.ChannelList, error) {
			return current.Remove(channelID)
		},
	)
	return err
}

// List returns the join-to-create channels of a guild in registration order.
func (s *ChannelService) List(ctx context.Context, guildID snowflake.ID) (domain.ChannelList, error) {
	channels, _, err := guilddata.Lookup[domain.ChannelList](ctx, s.data, guildID, domain.KeyMonitoredChannels)
	return channels, err
}

// IsMonitored reports whether channelID is a join-to-create channel.
func (s *ChannelService) IsMonitored(ctx context.Context, guildID, channelID snowflake.ID) (bool, error) {
	channels, err := s.List(ctx, guildID)
	if err != nil {
		return false, err
	}
	return channels.Contains(channelID), nil
}
