package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

// MaxMessageLength is the Discord message content limit in characters.
const MaxMessageLength = 2000

const (
	codeFenceOpen  = "```json\n"
	codeFenceClose = "\n```"
	truncatedMark  = "\n...[truncated]"
)

var (
	// ErrMessageNotFound indicates the message is not in the channel.
	ErrMessageNotFound = errors.New("message not found")

	// ErrMessageForbidden indicates the bot may not read the message.
	ErrMessageForbidden = errors.New("missing permissions to read message")
)

// MessageAuthor identifies who sent a message.
type MessageAuthor struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Discriminator string `json:"discriminator"`
	DisplayName   string `json:"display_name"`
}

// MessageSummary is the inspectable view of a message.
type MessageSummary struct {
	ID          string          `json:"id"`
	ChannelID   string          `json:"channel_id"`
	Author      MessageAuthor   `json:"author"`
	Content     string          `json:"content"`
	CreatedAt   time.Time       `json:"created_at"`
	Attachments []string        `json:"attachments"`
	Embeds      json.RawMessage `json:"embeds"`
	Mentions    []string        `json:"mentions"`
	Pinned      bool            `json:"pinned"`
	Type        int             `json:"type"`
}

// RenderSummary formats the summary as an indented JSON code block that fits
// in one message. Oversized JSON is cut and marked as truncated.
func RenderSummary(summary *MessageSummary) (string, error) {
	if summary.Attachments == nil {
		summary.Attachments = []string{}
	}
	if summary.Mentions == nil {
		summary.Mentions = []string{}
	}
	if summary.Embeds == nil {
		summary.Embeds = json.RawMessage("[]")
	}

	body, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode message summary: %w", err)
	}

	text := string(body)
	budget := MaxMessageLength - utf8.RuneCountInString(codeFenceOpen) - utf8.RuneCountInString(codeFenceClose)
	if utf8.RuneCountInString(text) > budget {
		text = truncateRunes(text, budget-utf8.RuneCountInString(truncatedMark)) + truncatedMark
	}
	return codeFenceOpen + text + codeFenceClose, nil
}

func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
