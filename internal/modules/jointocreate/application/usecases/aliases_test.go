package usecases

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sglre6355/guildkeeper/internal/modules/jointocreate/domain"
)

func TestAliasService_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	saved, err := svc.aliases.Set(ctx, 1, 100, "  Lounge  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved != "Lounge" {
		t.Errorf("expected trimmed alias, got %q", saved)
	}

	alias, ok, err := svc.aliases.Get(ctx, 1, 100)
	if err != nil || !ok || alias != "Lounge" {
		t.Fatalf("expected alias Lounge, got %q (found=%v err=%v)", alias, ok, err)
	}

	if err := svc.aliases.Remove(ctx, 1, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := svc.aliases.Get(ctx, 1, 100); ok {
		t.Error("expected alias to be removed")
	}
	if err := svc.aliases.Remove(ctx, 1, 100); !errors.Is(err, domain.ErrAliasNotFound) {
		t.Errorf("expected ErrAliasNotFound, got %v", err)
	}
}

func TestAliasService_RejectsLongAlias(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	_, err := svc.aliases.Set(ctx, 1, 100, strings.Repeat("x", domain.MaxAliasLength+1))
	if !errors.Is(err, domain.ErrAliasTooLong) {
		t.Fatalf("expected ErrAliasTooLong, got %v", err)
	}
	if svc.store.Len() != 0 {
		t.Error("expected nothing to be stored")
	}
}

func TestAliasService_List(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	for userID, alias := range map[int]string{300: "c", 100: "a", 200: "b"} {
		if _, err := svc.aliases.Set(ctx, 1, snowflakeID(userID), alias); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	aliases, err := svc.aliases.List(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(aliases) != 3 {
		t.Fatalf("expected 3 aliases, got %d", len(aliases))
	}
	if aliases[0].UserID != 100 || aliases[2].Name != "c" {
		t.Errorf("unexpected order %v", aliases)
	}

	other, err := svc.aliases.List(ctx, 2)
	if err != nil || len(other) != 0 {
		t.Errorf("expected no aliases for other guild, got %v (err=%v)", other, err)
	}
}

func TestAliasService_StoredAsStringKeyedMap(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	if _, err := svc.aliases.Set(ctx, 1, 123, "Room of Bob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	value, ok, err := svc.store.FindField(ctx, 1, domain.KeyChannelAliases)
	if err != nil || !ok {
		t.Fatalf("expected stored aliases, got found=%v err=%v", ok, err)
	}
	if string(value) != `{"123":"Room of Bob"}` {
		t.Errorf("unexpected stored value %s", value)
	}
}
