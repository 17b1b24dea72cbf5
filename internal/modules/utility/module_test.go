package utility

import (
	"testing"

	"github.com/sglre6355/guildkeeper/internal/bot"
)

func TestUtilityModule_Init(t *testing.T) {
	m := &UtilityModule{}
	if err := m.Init(bot.ModuleDependencies{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	handlers := m.CommandHandlers()
	for _, cmd := range m.Commands() {
		if handlers[cmd.Name] == nil {
			t.Errorf("missing handler for /%s", cmd.Name)
		}
	}
}
