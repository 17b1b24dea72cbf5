package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/guildkeeper/internal/modules/utility/application"
	"github.com/sglre6355/guildkeeper/internal/modules/utility/domain"
)

var errNoSession = errors.New("no discord session")

// MessageFetcher reads messages through a Discord session.
type MessageFetcher struct {
	session *discordgo.Session
}

// NewMessageFetcher creates a new MessageFetcher.
func NewMessageFetcher(session *discordgo.Session) *MessageFetcher {
	return &MessageFetcher{
		session: session,
	}
}

// FetchMessage loads the message over REST.
func (f *MessageFetcher) FetchMessage(
	ctx context.Context,
	channelID, messageID snowflake.ID,
) (*domain.MessageSummary, error) {
	if f.session == nil {
		return nil, errNoSession
	}

	message, err := f.session.ChannelMessage(channelID.String(), messageID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, classifyError(err)
	}
	return summarize(message)
}

// classifyError maps Discord HTTP statuses to domain errors.
func classifyError(err error) error {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Response == nil {
		return err
	}
	switch restErr.Response.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", domain.ErrMessageNotFound, err)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %w", domain.ErrMessageForbidden, err)
	default:
		return err
	}
}

func summarize(message *discordgo.Message) (*domain.MessageSummary, error) {
	embeds, err := json.Marshal(message.Embeds)
	if err != nil {
		return nil, fmt.Errorf("failed to encode embeds: %w", err)
	}
	if len(message.Embeds) == 0 {
		embeds = []byte("[]")
	}

	summary := &domain.MessageSummary{
		ID:          message.ID,
		ChannelID:   message.ChannelID,
		Content:     message.Content,
		CreatedAt:   message.Timestamp,
		Attachments: make([]string, 0, len(message.Attachments)),
		Embeds:      embeds,
		Mentions:    make([]string, 0, len(message.Mentions)),
		Pinned:      message.Pinned,
		Type:        int(message.Type),
	}

	if author := message.Author; author != nil {
		summary.Author = domain.MessageAuthor{
			ID:            author.ID,
			Name:          author.Username,
			Discriminator: author.Discriminator,
			DisplayName:   author.DisplayName(),
		}
	}
	if message.Member != nil && message.Member.Nick != "" {
		summary.Author.DisplayName = message.Member.Nick
	}

	for _, attachment := range message.Attachments {
		summary.Attachments = append(summary.Attachments, attachment.URL)
	}
	for _, user := range message.Mentions {
		summary.Mentions = append(summary.Mentions, user.ID)
	}
	return summary, nil
}

// Ensure MessageFetcher implements application.MessageFetcher.
var _ application.MessageFetcher = (*MessageFetcher)(nil)
