package config

import (
	"fmt"
	"os"
	"sync"
)

// DefaultBot is the bot account requests are routed to when the client does
// not name one
const DefaultBot = "Muhammad6194"

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// HTTP configuration
	ListenAddr  string
	FrontendURL string // allowed CORS origin

	// Trading configuration
	DefaultBot string

	// Discord trade announcements (optional)
	DiscordToken     string
	DiscordChannelID string

	// Environment: "development", "production" or "test"
	Environment string
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		ListenAddr:  os.Getenv("LISTEN_ADDR"),
		FrontendURL: os.Getenv("FRONTEND_URL"),

		DefaultBot: os.Getenv("DEFAULT_BOT"),

		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		DiscordChannelID: os.Getenv("DISCORD_CHANNEL_ID"),

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.ListenAddr == "" {
		config.ListenAddr = ":3000"
	}
	if config.FrontendURL == "" {
		config.FrontendURL = "http://localhost:8080"
	}
	if config.DefaultBot == "" {
		config.DefaultBot = DefaultBot
	}
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// The process must not serve without a backing store
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
