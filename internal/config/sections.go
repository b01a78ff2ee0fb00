package config

import (
	"fmt"
	"strings"
)

// ServerConfig covers the HTTP listener, authorization and rate limiting.
type ServerConfig struct {
	Port      int    `json:"port"`
	AuthToken string `json:"auth_token"`
	// RateRPS enables a global token bucket when positive.
	RateRPS   float64 `json:"rate_rps"`
	RateBurst int     `json:"rate_burst"`
}

func (c *ServerConfig) SetDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.RateRPS > 0 && c.RateBurst <= 0 {
		c.RateBurst = int(c.RateRPS)
		if c.RateBurst < 1 {
			c.RateBurst = 1
		}
	}
}

func (c ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.RateRPS < 0 {
		return fmt.Errorf("rate_rps must be >= 0")
	}
	return nil
}

// DatabaseConfig selects Postgres run history. An empty URL means in-memory.
type DatabaseConfig struct {
	URL     string `json:"url"`
	Migrate *bool  `json:"migrate"`
}

func (c *DatabaseConfig) SetDefaults() {
	if c.Migrate == nil {
		t := true
		c.Migrate = &t
	}
}

// ShouldMigrate reports whether the schema is applied on startup.
func (c DatabaseConfig) ShouldMigrate() bool { return c.Migrate == nil || *c.Migrate }

type RedisConfig struct {
	URL string `json:"url"`
}

type WebhookConfig struct {
	URL         string `json:"url"`
	Secret      string `json:"secret"`
	MaxAttempts int    `json:"max_attempts"`
}

func (c *WebhookConfig) SetDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 10
	}
}

func (c WebhookConfig) Validate() error {
	if c.URL != "" && !strings.HasPrefix(c.URL, "http://") && !strings.HasPrefix(c.URL, "https://") {
		return fmt.Errorf("url must be http(s): %q", c.URL)
	}
	return nil
}

type LoggingConfig struct {
	// Level is a zerolog level name.
	Level string `json:"level"`
	// Format is "json" or "console".
	Format string `json:"format"`
}

func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "json"
	}
	c.Level = strings.ToLower(c.Level)
	c.Format = strings.ToLower(c.Format)
}

func (c LoggingConfig) Validate() error {
	switch c.Level {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("unknown level %s", c.Level)
	}
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("unknown format %s", c.Format)
	}
	return nil
}

type SolverConfig struct {
	StallIterations int `json:"stall_iterations"`
}

func (c *SolverConfig) SetDefaults() {
	if c.StallIterations == 0 {
		c.StallIterations = 200
	}
}

func (c SolverConfig) Validate() error {
	if c.StallIterations < 0 {
		return fmt.Errorf("stall_iterations must be >= 0")
	}
	return nil
}
