package application

import (
	"context"
	"fmt"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/guildkeeper/internal/modules/utility/domain"
)

// MessageFetcher loads a message from a channel. It reports
// domain.ErrMessageNotFound and domain.ErrMessageForbidden for the expected
// failures.
type MessageFetcher interface {
	FetchMessage(ctx context.Context, channelID, messageID snowflake.ID) (*domain.MessageSummary, error)
}

// MessageInteractor handles the /messagedata use case.
type MessageInteractor struct {
	fetcher MessageFetcher
}

// NewMessageInteractor creates a new MessageInteractor.
func NewMessageInteractor(fetcher MessageFetcher) *MessageInteractor {
	return &MessageInteractor{
		fetcher: fetcher,
	}
}

// Execute fetches the message and renders its summary.
func (m *MessageInteractor) Execute(ctx context.Context, channelID, messageID snowflake.ID) (string, error) {
	summary, err := m.fetcher.FetchMessage(ctx, channelID, messageID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch message %d: %w", messageID, err)
	}
	return domain.RenderSummary(summary)
}
