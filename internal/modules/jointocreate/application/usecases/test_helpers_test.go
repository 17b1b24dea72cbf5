package usecases

import (
	"context"
	"sync"
	"testing"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/guildkeeper/internal/guilddata"
	"github.com/sglre6355/guildkeeper/internal/modules/jointocreate/application/ports"
	"github.com/sglre6355/guildkeeper/internal/modules/jointocreate/infrastructure"
	"github.com/sglre6355/guildkeeper/internal/storage/memory"
)

// mockChannelManager is a test double for ports.ChannelManager.
type mockChannelManager struct {
	mu sync.Mutex

	canManage bool
	createErr error
	moveErr   error
	deleteErr error

	nextID  snowflake.ID
	members map[snowflake.ID]int
	// uncached simulates a guild missing from the session state.
	uncached bool

	created []createdChannel
	moved   []movedMember
	deleted []snowflake.ID
}

type createdChannel struct {
	ID       snowflake.ID
	GuildID  snowflake.ID
	ParentID snowflake.ID
	Name     string
}

type movedMember struct {
	UserID    snowflake.ID
	ChannelID snowflake.ID
}

func newMockChannelManager() *mockChannelManager {
	return &mockChannelManager{
		canManage: true,
		nextID:    9000,
		members:   make(map[snowflake.ID]int),
	}
}

func (m *mockChannelManager) CanManageChannels(_, _ snowflake.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canManage
}

func (m *mockChannelManager) CreateVoiceChannel(
	_ context.Context,
	guildID, parentID snowflake.ID,
	name string,
) (snowflake.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextID++
	m.created = append(m.created, createdChannel{
		ID:       m.nextID,
		GuildID:  guildID,
		ParentID: parentID,
		Name:     name,
	})
	return m.nextID, nil
}

func (m *mockChannelManager) MoveMember(_ context.Context, _, userID, channelID snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.moveErr != nil {
		return m.moveErr
	}
	m.moved = append(m.moved, movedMember{UserID: userID, ChannelID: channelID})
	m.members[channelID]++
	return nil
}

func (m *mockChannelManager) DeleteChannel(_ context.Context, channelID snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, channelID)
	return nil
}

func (m *mockChannelManager) VoiceMemberCount(_, channelID snowflake.ID) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uncached {
		return 0, false
	}
	return m.members[channelID], true
}

func (m *mockChannelManager) setMembers(channelID snowflake.ID, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[channelID] = n
}

var _ ports.ChannelManager = (*mockChannelManager)(nil)

// testServices wires the services over an in-memory store.
type testServices struct {
	store    *memory.Store
	data     *guilddata.Manager
	channels *ChannelService
	aliases  *AliasService
	voice    *VoiceService
	manager  *mockChannelManager
	repo     *infrastructure.MemoryRepository
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	store := memory.NewStore()
	data := guilddata.NewManager(context.Background(), store, guilddata.WithName("jointocreate"))
	channels := NewChannelService(data)
	aliases := NewAliasService(data)
	manager := newMockChannelManager()
	repo := infrastructure.NewMemoryRepository()

	return &testServices{
		store:    store,
		data:     data,
		channels: channels,
		aliases:  aliases,
		voice:    NewVoiceService(channels, aliases, manager, repo, "Sala de {user}", nil),
		manager:  manager,
		repo:     repo,
	}
}
