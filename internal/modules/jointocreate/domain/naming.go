package domain

import (
	"strings"
	"unicode/utf8"
)

// UserPlaceholder is replaced by the member's display name in name templates.
const UserPlaceholder = "{user}"

// DefaultNameTemplate names temporary channels of members without an alias.
const DefaultNameTemplate = "{user}'s Room"

// TemporaryChannelName picks the name of a member's temporary channel: the
// alias when set, otherwise the template applied to the display name.
func TemporaryChannelName(alias, template, displayName string) string {
	name := strings.TrimSpace(alias)
	if name == "" {
		if template == "" {
			template = DefaultNameTemplate
		}
		name = strings.ReplaceAll(template, UserPlaceholder, displayName)
	}
	return truncate(name, MaxAliasLength)
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
