package infrastructure

import (
	"context"
	"slices"
	"sync"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/guildkeeper/internal/modules/jointocreate/domain"
)

// MemoryRepository is an in-memory implementation of TemporaryChannelRepository.
type MemoryRepository struct {
	mu       sync.RWMutex
	channels map[snowflake.ID]domain.TemporaryChannel
}

// NewMemoryRepository creates a new MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		channels: make(map[snowflake.ID]domain.TemporaryChannel),
	}
}

// Get returns the temporary channel with the given id.
func (r *MemoryRepository) Get(
	_ context.Context,
	channelID snowflake.ID,
) (domain.TemporaryChannel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	channel, ok := r.channels[channelID]
	return channel, ok
}

// Save stores the temporary channel.
func (r *MemoryRepository) Save(_ context.Context, channel domain.TemporaryChannel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.channels[channel.ID] = channel
	return nil
}

// Delete removes the temporary channel with the given id.
func (r *MemoryRepository) Delete(_ context.Context, channelID snowflake.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.channels, channelID)
	return nil
}

// ListByGuild returns the temporary channels of a guild ordered by id.
func (r *MemoryRepository) ListByGuild(
	_ context.Context,
	guildID snowflake.ID,
) []domain.TemporaryChannel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.TemporaryChannel
	for _, channel := range r.channels {
		if channel.GuildID == guildID {
			result = append(result, channel)
		}
	}
	slices.SortFunc(result, func(a, b domain.TemporaryChannel) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return result
}

// Count returns the number of tracked channels (for testing/monitoring).
func (r *MemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.channels)
}

// Ensure MemoryRepository implements TemporaryChannelRepository.
var _ domain.TemporaryChannelRepository = (*MemoryRepository)(nil)
