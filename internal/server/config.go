package server

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
)

// Config is the process configuration, loaded from the environment (with
// .env support via godotenv autoload).
type Config struct {
	Port int `env:"PORT" envDefault:"8080"`

	// AdminKey is the shared secret for admin authentication. When empty,
	// every auth attempt fails; there is no way to gain admin on a server
	// started without a key.
	AdminKey string `env:"ADMIN_KEY"`

	// Per-connection message rate limit (sliding window).
	RateLimit  int           `env:"RATE_LIMIT" envDefault:"20"`
	RateWindow time.Duration `env:"RATE_WINDOW" envDefault:"1s"`
}

// LoadConfig parses configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
