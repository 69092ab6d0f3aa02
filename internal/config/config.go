package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains feed client configuration parameters.
type Config struct {
	LogLevel int  `env:"LOG_LEVEL" envDefault:"0"`
	API      API  `envPrefix:"API_"`
	Auth     Auth `envPrefix:"AUTH_"`
}

// API contains backend API parameters.
type API struct {
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:5000/api"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Auth contains session token parameters. An empty token runs the
// client against a local in-memory backend.
type Auth struct {
	Token  string `env:"TOKEN"`
	Secret string `env:"SECRET" envDefault:"devsecret"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
