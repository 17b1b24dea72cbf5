package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/disgoorg/snowflake/v2"
)

func snowflakeID(n int) snowflake.ID {
	return snowflake.ID(n)
}

func joinInput() JoinInput {
	return JoinInput{
		GuildID:     1,
		UserID:      100,
		DisplayName: "Bob",
		ChannelID:   10,
		ParentID:    5,
	}
}

func TestVoiceService_JoinUnmonitoredChannel(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	channel, err := svc.voice.Join(ctx, joinInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if channel != nil {
		t.Errorf("expected no channel, got %+v", channel)
	}
	if len(svc.manager.created) != 0 {
		t.Error("expected no channel to be created")
	}
}

func TestVoiceService_JoinCreatesAndMoves(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	if err := svc.channels.Add(ctx, 1, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	channel, err := svc.voice.Join(ctx, joinInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if channel == nil {
		t.Fatal("expected temporary channel")
	}

	if len(svc.manager.created) != 1 {
		t.Fatalf("expected 1 created channel, got %d", len(svc.manager.created))
	}
	created := svc.manager.created[0]
	if created.Name != "Sala de Bob" || created.ParentID != 5 || created.GuildID != 1 {
		t.Errorf("unexpected channel %+v", created)
	}

	if len(svc.manager.moved) != 1 || svc.manager.moved[0] != (movedMember{UserID: 100, ChannelID: channel.ID}) {
		t.Errorf("expected member moved into new channel, got %v", svc.manager.moved)
	}
	if _, ok := svc.repo.Get(ctx, channel.ID); !ok {
		t.Error("expected channel to be tracked")
	}
}

func TestVoiceService_JoinUsesAlias(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	_ = svc.channels.Add(ctx, 1, 10)
	if _, err := svc.aliases.Set(ctx, 1, 100, "Bob's Studio"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	channel, err := svc.voice.Join(ctx, joinInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if channel.Name != "Bob's Studio" {
		t.Errorf("expected alias name, got %q", channel.Name)
	}
}

func TestVoiceService_JoinWithoutPermissions(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	_ = svc.channels.Add(ctx, 1, 10)
	svc.manager.canManage = false

	_, err := svc.voice.Join(ctx, joinInput())
	if !errors.Is(err, ErrMissingPermissions) {
		t.Fatalf("expected ErrMissingPermissions, got %v", err)
	}
	if len(svc.manager.created) != 0 {
		t.Error("expected no channel to be created")
	}
}

func TestVoiceService_JoinMoveFailureRemovesChannel(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	_ = svc.channels.Add(ctx, 1, 10)
	svc.manager.moveErr = errors.New("member not connected")

	_, err := svc.voice.Join(ctx, joinInput())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(svc.manager.deleted) != 1 || svc.manager.deleted[0] != svc.manager.created[0].ID {
		t.Errorf("expected created channel to be deleted, got %v", svc.manager.deleted)
	}
	if svc.repo.Count() != 0 {
		t.Error("expected channel to be untracked")
	}
}

func TestVoiceService_LeaveDeletesEmptyTemporaryChannel(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	_ = svc.channels.Add(ctx, 1, 10)

	channel, err := svc.voice.Join(ctx, joinInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Still occupied.
	deleted, err := svc.voice.Leave(ctx, LeaveInput{GuildID: 1, ChannelID: channel.ID})
	if err != nil || deleted {
		t.Fatalf("expected occupied channel to stay, got deleted=%v err=%v", deleted, err)
	}

	svc.manager.setMembers(channel.ID, 0)
	deleted, err = svc.voice.Leave(ctx, LeaveInput{GuildID: 1, ChannelID: channel.ID})
	if err != nil || !deleted {
		t.Fatalf("expected empty channel to be deleted, got deleted=%v err=%v", deleted, err)
	}
	if svc.repo.Count() != 0 {
		t.Error("expected channel to be untracked")
	}
}

func TestVoiceService_LeaveKeepsChannelWhenOccupancyUnknown(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	_ = svc.channels.Add(ctx, 1, 10)
	channel, err := svc.voice.Join(ctx, joinInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc.manager.setMembers(channel.ID, 0)
	svc.manager.uncached = true

	deleted, err := svc.voice.Leave(ctx, LeaveInput{GuildID: 1, ChannelID: channel.ID})
	if err != nil || deleted {
		t.Fatalf("expected channel to stay, got deleted=%v err=%v", deleted, err)
	}
	if len(svc.manager.deleted) != 0 {
		t.Error("expected nothing to be deleted")
	}
	if _, ok := svc.repo.Get(ctx, channel.ID); !ok {
		t.Error("expected channel to remain tracked")
	}

	if n := svc.voice.Cleanup(ctx, 1); n != 0 {
		t.Errorf("expected cleanup to skip the channel, got %d", n)
	}
}

func TestVoiceService_LeaveIgnoresOtherChannels(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	deleted, err := svc.voice.Leave(ctx, LeaveInput{GuildID: 1, ChannelID: 10})
	if err != nil || deleted {
		t.Errorf("expected untracked channel to be ignored, got deleted=%v err=%v", deleted, err)
	}
	if len(svc.manager.deleted) != 0 {
		t.Error("expected nothing to be deleted")
	}
}

func TestVoiceService_LeaveDeleteFailureKeepsTracking(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	_ = svc.channels.Add(ctx, 1, 10)
	channel, _ := svc.voice.Join(ctx, joinInput())
	svc.manager.setMembers(channel.ID, 0)
	svc.manager.deleteErr = errors.New("rate limited")

	if _, err := svc.voice.Leave(ctx, LeaveInput{GuildID: 1, ChannelID: channel.ID}); err == nil {
		t.Fatal("expected error, got nil")
	}
	if _, ok := svc.repo.Get(ctx, channel.ID); !ok {
		t.Error("expected channel to remain tracked for a later retry")
	}
}

func TestVoiceService_Cleanup(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	_ = svc.channels.Add(ctx, 1, 10)

	first, _ := svc.voice.Join(ctx, joinInput())
	input := joinInput()
	input.UserID = 101
	second, _ := svc.voice.Join(ctx, input)

	svc.manager.setMembers(first.ID, 0)

	if n := svc.voice.Cleanup(ctx, 1); n != 1 {
		t.Errorf("expected 1 channel cleaned up, got %d", n)
	}
	if _, ok := svc.repo.Get(ctx, second.ID); !ok {
		t.Error("expected occupied channel to remain")
	}
}

func TestVoiceService_Forget(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	_ = svc.channels.Add(ctx, 1, 10)
	channel, _ := svc.voice.Join(ctx, joinInput())

	if err := svc.voice.Forget(ctx, channel.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.repo.Count() != 0 {
		t.Error("expected channel to be untracked")
	}
}
