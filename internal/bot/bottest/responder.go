// Package bottest provides test doubles for module handlers.
package bottest

import (
	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/guildkeeper/internal/bot"
)

// Responder records interaction replies.
type Responder struct {
	LastResponse *discordgo.InteractionResponse
	Responses    int

	Deferred  bool
	Ephemeral bool

	// Err is returned from Respond and Defer.
	Err error
}

var _ bot.Responder = (*Responder)(nil)

// Respond records the response.
func (r *Responder) Respond(response *discordgo.InteractionResponse) error {
	r.LastResponse = response
	r.Responses++
	return r.Err
}

// Defer records the deferral.
func (r *Responder) Defer(ephemeral bool) error {
	if r.Err != nil {
		return r.Err
	}
	r.Deferred = true
	r.Ephemeral = ephemeral
	return nil
}
