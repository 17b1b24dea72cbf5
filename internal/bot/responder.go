package bot

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Responder answers a Discord interaction. Handlers that wait on a storage
// round trip call Defer first; Respond then edits the deferred reply.
type Responder interface {
	// Respond sends the reply, or replaces the deferred placeholder.
	Respond(response *discordgo.InteractionResponse) error

	// Defer acknowledges the interaction with a loading state. Ephemeral
	// replies are only visible to the invoking user.
	Defer(ephemeral bool) error
}

// DiscordResponder implements Responder using a live Discord session.
type DiscordResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction

	mu       sync.Mutex
	deferred bool
}

// NewDiscordResponder creates a new DiscordResponder.
func NewDiscordResponder(s *discordgo.Session, i *discordgo.Interaction) *DiscordResponder {
	return &DiscordResponder{
		session:     s,
		interaction: i,
	}
}

// Defer sends a deferred channel message response. Calling it twice is a
// no-op.
func (r *DiscordResponder) Defer(ephemeral bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.deferred {
		return nil
	}

	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		return err
	}
	r.deferred = true
	return nil
}

// Respond sends the response, editing the placeholder after Defer.
func (r *DiscordResponder) Respond(response *discordgo.InteractionResponse) error {
	r.mu.Lock()
	deferred := r.deferred
	r.mu.Unlock()

	if !deferred {
		return r.session.InteractionRespond(r.interaction, response)
	}

	_, err := r.session.InteractionResponseEdit(r.interaction, deferredEdit(response))
	return err
}

// deferredEdit converts a response into an edit of the deferred reply. The
// ephemeral flag was fixed by Defer and cannot change.
func deferredEdit(response *discordgo.InteractionResponse) *discordgo.WebhookEdit {
	edit := &discordgo.WebhookEdit{}
	if response == nil || response.Data == nil {
		return edit
	}

	data := response.Data
	content := data.Content
	edit.Content = &content
	if data.Embeds != nil {
		embeds := data.Embeds
		edit.Embeds = &embeds
	}
	if data.Components != nil {
		components := data.Components
		edit.Components = &components
	}
	edit.AllowedMentions = data.AllowedMentions
	return edit
}
