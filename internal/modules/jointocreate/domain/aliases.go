package domain

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/disgoorg/snowflake/v2"
)

// MaxAliasLength is the longest alias accepted, in characters. It matches
// Discord's channel name limit.
const MaxAliasLength = 100

var (
	ErrEmptyAlias    = errors.New("alias must not be empty")
	ErrAliasTooLong  = fmt.Errorf("alias must not exceed %d characters", MaxAliasLength)
	ErrAliasNotFound = errors.New("user has no alias")
)

// Aliases maps user ids to the name of their temporary channel.
// Keys are decimal user ids.
type Aliases map[string]string

// Alias is one entry of Aliases.
type Alias struct {
	UserID snowflake.ID
	Name   string
}

// ValidateAlias trims name and checks its length.
func ValidateAlias(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyAlias
	}
	if utf8.RuneCountInString(name) > MaxAliasLength {
		return "", ErrAliasTooLong
	}
	return name, nil
}

// Get returns the alias of userID.
func (a Aliases) Get(userID snowflake.ID) (string, bool) {
	name, ok := a[userID.String()]
	return name, ok
}

// With returns a copy with the alias of userID set.
func (a Aliases) With(userID snowflake.ID, name string) (Aliases, error) {
	name, err := ValidateAlias(name)
	if err != nil {
		return nil, err
	}

	next := maps.Clone(a)
	if next == nil {
		next = Aliases{}
	}
	next[userID.String()] = name
	return next, nil
}

// Without returns a copy with the alias of userID removed.
func (a Aliases) Without(userID snowflake.ID) (Aliases, error) {
	if _, ok := a[userID.String()]; !ok {
		return nil, ErrAliasNotFound
	}

	next := maps.Clone(a)
	delete(next, userID.String())
	return next, nil
}

// Sorted lists the aliases ordered by user id. Entries whose key is not a
// valid id are skipped.
func (a Aliases) Sorted() []Alias {
	result := make([]Alias, 0, len(a))
	for key, name := range a {
		userID, err := snowflake.Parse(key)
		if err != nil {
			continue
		}
		result = append(result, Alias{UserID: userID, Name: name})
	}
	slices.SortFunc(result, func(x, y Alias) int {
		switch {
		case x.UserID < y.UserID:
			return -1
		case x.UserID > y.UserID:
			return 1
		}
		return 0
	})
	return result
}
