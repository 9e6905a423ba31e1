// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the gateway configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	YouTube   YouTubeConfig   `yaml:"youtube"`
}

// ServerConfig represents the HTTP server configuration.
type ServerConfig struct {
	Addr          string `yaml:"addr" default:":3000"`
	AllowedOrigin string `yaml:"allowed_origin" validate:"required"`
}

// RateLimitConfig represents the shared per-client rate limit.
type RateLimitConfig struct {
	Requests      int `yaml:"requests" default:"100" validate:"gte=1"`
	WindowMinutes int `yaml:"window_minutes" default:"15" validate:"gte=1"`
}

// YouTubeConfig represents the upstream YouTube Data API configuration.
// The API key stays server-side; it is injected into forwarded requests
// and never returned to the calling client.
type YouTubeConfig struct {
	APIKey  string `yaml:"api_key" validate:"required"`
	BaseURL string `yaml:"base_url" default:"https://youtube.googleapis.com/youtube/v3"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.YouTube.APIKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := os.Getenv("PLAYTALLY_ALLOWED_ORIGIN"); v != "" {
		c.Server.AllowedOrigin = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
