package usecases

import (
	"context"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/guildkeeper/internal/guilddata"
	"github.com/sglre6355/guildkeeper/internal/modules/jointocreate/domain"
)

// AliasService manages per-member temporary channel names.
type AliasService struct {
	data *guilddata.Manager
}

// NewAliasService creates a new AliasService.
func NewAliasService(data *guilddata.Manager) *AliasService {
	return &AliasService{data: data}
}

// Set stores the alias of userID and returns it as saved.
func (s *AliasService) Set(
	ctx context.Context,
	guildID, userID snowflake.ID,
	alias string,
) (string, error) {
	// Validate before taking the guild lock.
	alias, err := domain.ValidateAlias(alias)
	if err != nil {
		return "", err
	}

	_, err = guilddata.Modify(ctx, s.data, guildID, domain.KeyChannelAliases,
		func(current domain.Aliases, _ bool) (domain.Aliases, error) {
			return current.With(userID, alias)
		},
	)
	if err != nil {
		return "", err
	}
	return alias, nil
}

// Remove deletes the alias of userID.
func (s *AliasService) Remove(ctx context.Context, guildID, userID snowflake.ID) error {
	_, err := guilddata.Modify(ctx, s.data, guildID, domain.KeyChannelAliases,
		func(current domain.Aliases, _ bool) (domain.Aliases, error) {
			return current.Without(userID)
		},
	)
	return err
}

// Get returns the alias of userID.
func (s *AliasService) Get(ctx context.Context, guildID, userID snowflake.ID) (string, bool, error) {
	aliases, _, err := guilddata.Lookup[domain.Aliases](ctx, s.data, guildID, domain.KeyChannelAliases)
	if err != nil {
		return "", false, err
	}
	alias, ok := aliases.Get(userID)
	return alias, ok, nil
}

// List returns all aliases of a guild ordered by user id.
func (s *AliasService) List(ctx context.Context, guildID snowflake.ID) ([]domain.Alias, error) {
	aliases, _, err := guilddata.Lookup[domain.Aliases](ctx, s.data, guildID, domain.KeyChannelAliases)
	if err != nil {
		return nil, err
	}
	return aliases.Sorted(), nil
}
