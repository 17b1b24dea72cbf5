package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/guildkeeper/internal/guilddata"
	"github.com/sglre6355/guildkeeper/internal/storage/memory"
)

func TestNewBot(t *testing.T) {
	cfg := &Config{
		DiscordToken: "test-token",
	}

	b := NewBot(cfg)

	if b == nil {
		t.Fatal("expected bot to be created, got nil")
	}
	if b.config != cfg {
		t.Error("expected config to be stored")
	}
}

func TestBot_InitModules_InitializesModules(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token"}
	b := NewBot(cfg)
	b.storage = memory.NewBackend()

	initCalled := false
	trackingMod := &trackingStubModule{
		stubModule: stubModule{name: "tracking"},
		initCalled: &initCalled,
	}
	b.modules = []Module{trackingMod}

	err := b.initModules()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !initCalled {
		t.Error("expected Init to be called")
	}
	if trackingMod.deps.Storage != b.storage {
		t.Error("expected storage backend to be passed to module")
	}
	if len(trackingMod.deps.GuildDataOptions) == 0 {
		t.Error("expected guild data options to be passed to module")
	}
}

func TestBot_InitModules_ReturnsInitError(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token"}
	b := NewBot(cfg)

	expectedErr := errors.New("init failed")
	mod := &stubModule{
		name:    "failing",
		initErr: expectedErr,
	}
	b.modules = []Module{mod}

	err := b.initModules()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

func TestBot_BuildHandlerMap(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token"}
	b := NewBot(cfg)

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error {
		return nil
	}

	mod := &stubModule{
		name: "test",
		handlers: map[string]InteractionHandler{
			"ping": handler,
		},
	}
	b.modules = []Module{mod}

	b.buildHandlerMap()

	if _, ok := b.handlers["ping"]; !ok {
		t.Error("expected ping handler to be registered")
	}
}

func TestBot_BuildHandlerMap_MultipleModules(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token"}
	b := NewBot(cfg)

	handler1 := func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error {
		return nil
	}
	handler2 := func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error {
		return nil
	}

	mod1 := &stubModule{
		name: "mod1",
		handlers: map[string]InteractionHandler{
			"cmd1": handler1,
		},
	}
	mod2 := &stubModule{
		name: "mod2",
		handlers: map[string]InteractionHandler{
			"cmd2": handler2,
		},
	}
	b.modules = []Module{mod1, mod2}

	b.buildHandlerMap()

	if len(b.handlers) != 2 {
		t.Errorf("expected 2 handlers, got %d", len(b.handlers))
	}
}

func TestBot_CollectCommands(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token"}
	b := NewBot(cfg)

	cmd := &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Ping command",
	}

	mod := &stubModule{
		name:     "test",
		commands: []*discordgo.ApplicationCommand{cmd},
	}
	b.modules = []Module{mod}

	commands := b.collectCommands()

	if len(commands) != 1 {
		t.Fatalf("expected 1 command, got %d", len(commands))
	}
	if commands[0].Name != "ping" {
		t.Errorf("expected command name %q, got %q", "ping", commands[0].Name)
	}
}

func TestBot_LoadModules_LoadsConfig(t *testing.T) {
	ResetGlobalRegistry()
	t.Cleanup(ResetGlobalRegistry)

	mod := &configurableStubModule{stubModule: stubModule{name: "configurable"}}
	Register(mod)
	Register(&stubModule{name: "plain"})

	b := NewBot(&Config{DiscordToken: "test-token"})
	if err := b.LoadModules(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !mod.loaded {
		t.Error("expected LoadConfig to be called")
	}
	if len(b.modules) != 2 {
		t.Errorf("expected 2 modules, got %d", len(b.modules))
	}
}

func TestBot_LoadModules_ReturnsConfigError(t *testing.T) {
	ResetGlobalRegistry()
	t.Cleanup(ResetGlobalRegistry)

	expectedErr := errors.New("missing setting")
	Register(&configurableStubModule{
		stubModule: stubModule{name: "configurable"},
		loadErr:    expectedErr,
	})

	b := NewBot(&Config{DiscordToken: "test-token"})
	err := b.LoadModules()
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

func TestBot_Stop_AggregatesErrors(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	errA := errors.New("a failed")
	errB := errors.New("b failed")
	b.modules = []Module{
		&stubModule{name: "a", shutErr: errA},
		&stubModule{name: "ok"},
		&stubModule{name: "b", shutErr: errB},
	}
	b.storage = memory.NewBackend()

	err := b.Stop(context.Background())
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("expected both shutdown errors, got %v", err)
	}
}

func TestBot_Stop_NoErrors(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})
	b.modules = []Module{&stubModule{name: "ok"}}

	if err := b.Stop(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBot_OpenStorage_UsesConfiguredDriver(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token"}
	cfg.Storage.Driver = "memory"
	b := NewBot(cfg)

	if err := b.openStorage(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := b.storage.(*memory.Backend); !ok {
		t.Errorf("expected memory backend, got %T", b.storage)
	}
}

func TestBot_OpenStorage_UnknownDriver(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token"}
	cfg.Storage.Driver = "floppy"
	b := NewBot(cfg)

	if err := b.openStorage(context.Background()); err == nil {
		t.Error("expected error for unknown driver, got nil")
	}
}

func TestErrorMessage(t *testing.T) {
	title, _ := errorMessage(errors.New("boom"))
	if title != "Error" {
		t.Errorf("expected generic error title, got %q", title)
	}

	wrapped := errors.Join(guilddata.ErrStoreUnavailable, errors.New("timeout"))
	title, _ = errorMessage(wrapped)
	if title != "Temporarily Unavailable" {
		t.Errorf("expected unavailable title, got %q", title)
	}
}

func TestModuleDependencies_GuildData(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewBackend()
	deps := ModuleDependencies{Storage: backend}

	m := deps.GuildData(ctx, "diagnostics")
	if err := m.Set(ctx, 42, "debug_mode", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	value, ok, err := backend.Collection("module-diagnostics").FindField(ctx, 42, "debug_mode")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || string(value) != "true" {
		t.Errorf("expected stored true, got %q (found=%v)", value, ok)
	}
}

func TestModuleDependencies_GuildDataWithoutStorage(t *testing.T) {
	ctx := context.Background()
	m := ModuleDependencies{}.GuildData(ctx, "diagnostics")

	if err := m.Set(ctx, 1, "key", json.RawMessage(`"value"`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	value, ok, err := m.Get(ctx, 1, "key")
	if err != nil || !ok {
		t.Fatalf("expected value, got found=%v err=%v", ok, err)
	}
	if string(value) != `"value"` {
		t.Errorf("expected %q, got %q", `"value"`, value)
	}
}

func TestBot_Dispatch_LogsExecutedCommand(t *testing.T) {
	logs := captureLogs(t)

	b := NewBot(&Config{DiscordToken: "test-token"})
	b.handlers["jointocreate"] = func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error {
		return r.Respond(&discordgo.InteractionResponse{Type: discordgo.InteractionResponseChannelMessageWithSource})
	}

	r := &recordingResponder{}
	b.dispatch(nil, commandInteraction("jointocreate", setAliasOptions()), r)

	if r.responses != 1 {
		t.Errorf("expected 1 response from the handler, got %d", r.responses)
	}
	out := logs.String()
	for _, want := range []string{
		`"msg":"executed command"`,
		`"command":"jointocreate"`,
		`"options":"set-alias user=200 alias=Studio"`,
		`"guild":"10"`,
		`"channel":"20"`,
		`"user":"30"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log to contain %s, got %s", want, out)
		}
	}
}

func TestBot_Dispatch_ReportsErrorAfterDefer(t *testing.T) {
	logs := captureLogs(t)

	b := NewBot(&Config{DiscordToken: "test-token"})
	b.handlers["jointocreate"] = func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error {
		if err := r.Defer(true); err != nil {
			return err
		}
		return guilddata.ErrStoreUnavailable
	}

	r := &recordingResponder{}
	b.dispatch(nil, commandInteraction("jointocreate", nil), r)

	if !r.deferred {
		t.Error("expected handler to defer")
	}
	if r.last == nil || r.last.Data == nil || len(r.last.Data.Embeds) != 1 {
		t.Fatalf("expected error embed through the responder, got %+v", r.last)
	}
	if got := r.last.Data.Embeds[0].Title; got != "Temporarily Unavailable" {
		t.Errorf("expected unavailable title, got %q", got)
	}
	if !strings.Contains(logs.String(), `"msg":"failed to handle command"`) {
		t.Errorf("expected failure log, got %s", logs.String())
	}
	if strings.Contains(logs.String(), "executed command") {
		t.Errorf("expected no success log, got %s", logs.String())
	}
}

func TestBot_Dispatch_UnknownCommand(t *testing.T) {
	captureLogs(t)

	b := NewBot(&Config{DiscordToken: "test-token"})
	r := &recordingResponder{}
	b.dispatch(nil, commandInteraction("missing", nil), r)

	if r.last == nil || r.last.Data.Embeds[0].Title != "Unknown Command" {
		t.Errorf("expected unknown command embed, got %+v", r.last)
	}
}

func TestBot_HandleInteraction_SkipsAutocomplete(t *testing.T) {
	logs := captureLogs(t)

	b := NewBot(&Config{DiscordToken: "test-token"})
	called := false
	b.handlers["jointocreate"] = func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error {
		called = true
		return nil
	}

	i := commandInteraction("jointocreate", nil)
	i.Type = discordgo.InteractionApplicationCommandAutocomplete
	b.handleInteraction(nil, i)

	if called {
		t.Error("expected autocomplete to be ignored")
	}
	if logs.Len() != 0 {
		t.Errorf("expected no logs, got %s", logs.String())
	}
}

func TestFlattenOptions(t *testing.T) {
	tests := []struct {
		name    string
		options []*discordgo.ApplicationCommandInteractionDataOption
		want    string
	}{
		{name: "none", want: ""},
		{name: "subcommand with values", options: setAliasOptions(), want: "set-alias user=200 alias=Studio"},
		{
			name: "top level values",
			options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "operation", Type: discordgo.ApplicationCommandOptionString, Value: "+1d"},
				{Name: "count", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(3)},
			},
			want: "operation=+1d count=3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flattenOptions(tt.options); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestBot_HandleGuildCreate(t *testing.T) {
	tests := []struct {
		name     string
		joinedAt time.Time
		want     string
	}{
		{name: "new guild", joinedAt: time.Now(), want: `"msg":"joined guild"`},
		{name: "replayed on connect", joinedAt: time.Now().Add(-24 * time.Hour), want: `"msg":"guild available"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)

			b := NewBot(&Config{DiscordToken: "test-token"})
			b.handleGuildCreate(nil, &discordgo.GuildCreate{Guild: &discordgo.Guild{
				ID:       "10",
				Name:     "Studio",
				JoinedAt: tt.joinedAt,
			}})

			if !strings.Contains(logs.String(), tt.want) {
				t.Errorf("expected %s, got %s", tt.want, logs.String())
			}
		})
	}
}

func TestBot_HandleGuildDelete(t *testing.T) {
	t.Run("removed", func(t *testing.T) {
		logs := captureLogs(t)

		b := NewBot(&Config{DiscordToken: "test-token"})
		b.handleGuildDelete(nil, &discordgo.GuildDelete{
			Guild:        &discordgo.Guild{ID: "10"},
			BeforeDelete: &discordgo.Guild{ID: "10", Name: "Studio"},
		})

		out := logs.String()
		if !strings.Contains(out, `"msg":"left guild"`) || !strings.Contains(out, `"name":"Studio"`) {
			t.Errorf("expected left guild log with name, got %s", out)
		}
	})

	t.Run("outage", func(t *testing.T) {
		logs := captureLogs(t)

		b := NewBot(&Config{DiscordToken: "test-token"})
		b.handleGuildDelete(nil, &discordgo.GuildDelete{
			Guild: &discordgo.Guild{ID: "10", Unavailable: true},
		})

		out := logs.String()
		if strings.Contains(out, "left guild") || !strings.Contains(out, `"level":"WARN"`) {
			t.Errorf("expected unavailable warning only, got %s", out)
		}
	})
}

// captureLogs redirects the default logger into a buffer for one test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return &buf
}

func commandInteraction(
	name string,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   "10",
		ChannelID: "20",
		Member:    &discordgo.Member{User: &discordgo.User{ID: "30"}},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    name,
			Options: options,
		},
	}}
}

func setAliasOptions() []*discordgo.ApplicationCommandInteractionDataOption {
	return []*discordgo.ApplicationCommandInteractionDataOption{
		{
			Name: "set-alias",
			Type: discordgo.ApplicationCommandOptionSubCommand,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "user", Type: discordgo.ApplicationCommandOptionUser, Value: "200"},
				{Name: "alias", Type: discordgo.ApplicationCommandOptionString, Value: "Studio"},
			},
		},
	}
}

// recordingResponder keeps the last response sent through it.
type recordingResponder struct {
	last      *discordgo.InteractionResponse
	responses int
	deferred  bool
}

func (r *recordingResponder) Respond(response *discordgo.InteractionResponse) error {
	r.last = response
	r.responses++
	return nil
}

func (r *recordingResponder) Defer(bool) error {
	r.deferred = true
	return nil
}

// trackingStubModule is a stub that tracks if Init was called
type trackingStubModule struct {
	stubModule
	initCalled *bool
	deps       ModuleDependencies
}

func (m *trackingStubModule) Init(deps ModuleDependencies) error {
	*m.initCalled = true
	m.deps = deps
	return m.stubModule.Init(deps)
}

// configurableStubModule records LoadConfig calls.
type configurableStubModule struct {
	stubModule
	loaded  bool
	loadErr error
}

func (m *configurableStubModule) LoadConfig() error {
	m.loaded = true
	return m.loadErr
}
