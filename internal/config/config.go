// Package config reads the host configuration from the environment, after
// loading a .env file when one is present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var ErrMissingToken = errors.New("DISCORD_TOKEN is not set")

type Config struct {
	DiscordToken   string   `env:"DISCORD_TOKEN"`
	CommandPrefix  string   `env:"COMMAND_PREFIX" envDefault:"!"`
	CommandsPath   string   `env:"COMMANDS_PATH"`
	StoragePath    string   `env:"STORAGE_PATH" envDefault:"datastore.json"`
	InitSlash      bool     `env:"INIT_SLASH_COMMANDS" envDefault:"true"`
	GuildBlacklist []string `env:"DISCORD_GUILD_BLACKLIST" envSeparator:","`
	DeveloperID    string   `env:"DEVELOPER_ID"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFile        string   `env:"LOG_FILE"`
	LookupRate     float64  `env:"LOOKUP_RATE" envDefault:"5"`
	LookupRetries  int      `env:"LOOKUP_RETRIES" envDefault:"3"`
}

// New loads the bot configuration; a token is required.
func New() (*Config, error) {
	return Load(true)
}

// Load reads .env (if any) and the environment. The CLI passes
// requireToken=false.
func Load(requireToken bool) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if requireToken && cfg.DiscordToken == "" {
		return nil, ErrMissingToken
	}
	if cfg.CommandPrefix == "" {
		return nil, errors.New("COMMAND_PREFIX must not be empty")
	}
	return &cfg, nil
}

// Blacklisted reports whether the bot should ignore guildID.
func (c *Config) Blacklisted(guildID string) bool {
	return slices.Contains(c.GuildBlacklist, guildID)
}
