package bot

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/sglre6355/guildkeeper/internal/storage"
)

// Config holds the bot configuration loaded from environment variables.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,notEmpty"`

	// LogLevel accepts slog level names such as DEBUG or WARN.
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	// LogVolume is a directory that receives bot.log in addition to stdout.
	LogVolume string `env:"LOG_VOLUME"`

	// GuildDataMissTTL is how long a key confirmed absent is served from memory.
	GuildDataMissTTL time.Duration `env:"GUILDDATA_MISS_TTL" envDefault:"1m"`

	Storage storage.Config
}

// LoadConfig loads configuration from environment variables.
// Returns an error if required fields are missing.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
