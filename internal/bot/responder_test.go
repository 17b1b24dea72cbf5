package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestDeferredEdit_CopiesContentAndEmbeds(t *testing.T) {
	embed := &discordgo.MessageEmbed{Title: "Error", Description: "boom"}
	edit := deferredEdit(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "hello",
			Embeds:  []*discordgo.MessageEmbed{embed},
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})

	if edit.Content == nil || *edit.Content != "hello" {
		t.Errorf("expected content %q, got %v", "hello", edit.Content)
	}
	if edit.Embeds == nil || len(*edit.Embeds) != 1 || (*edit.Embeds)[0] != embed {
		t.Errorf("expected embed to be carried over, got %v", edit.Embeds)
	}
	if edit.Components != nil {
		t.Error("expected components to be left untouched")
	}
}

func TestDeferredEdit_EmptyResponse(t *testing.T) {
	edit := deferredEdit(nil)
	if edit == nil {
		t.Fatal("expected edit, got nil")
	}
	if edit.Content != nil || edit.Embeds != nil {
		t.Errorf("expected empty edit, got %+v", edit)
	}
}
