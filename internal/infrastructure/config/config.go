// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Shell     ShellConfig
	Client    ClientConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `envconfig:"HOST" default:"127.0.0.1"`
	Port string `envconfig:"PORT" default:"3030"`
}

// ShellConfig controls the process spawned for each terminal session.
type ShellConfig struct {
	// Command is the shell binary. Empty means probe $SHELL, then /bin/bash,
	// then /bin/sh.
	Command    string `envconfig:"SHELL_CMD" default:""`
	WorkingDir string `envconfig:"SHELL_DIR" default:""`
	Term       string `envconfig:"SHELL_TERM" default:"xterm-256color"`
}

// ClientConfig holds terminal client configuration.
type ClientConfig struct {
	ServerURL     string        `envconfig:"SERVER_URL" default:"http://127.0.0.1:3030"`
	HealthTimeout time.Duration `envconfig:"HEALTH_TIMEOUT" default:"3s"`
	RetryInterval time.Duration `envconfig:"RETRY_INTERVAL" default:"5s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration for the HTTP surface.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"50"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"100"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("TERMBRIDGE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: "3030",
		},
		Shell: ShellConfig{
			Term: "xterm-256color",
		},
		Client: ClientConfig{
			ServerURL:     "http://127.0.0.1:3030",
			HealthTimeout: 3 * time.Second,
			RetryInterval: 5 * time.Second,
		},
		Logging: LogConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
			Enabled:           true,
		},
	}
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}
