package jointocreate

// Config holds join-to-create module configuration.
type Config struct {
	// NameTemplate names temporary channels of members without an alias.
	// "{user}" is replaced with the member's display name.
	NameTemplate string `env:"JOINTOCREATE_NAME_TEMPLATE" envDefault:"{user}'s Room"`
}
