package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	Webhook  WebhookConfig  `json:"webhook"`
	Logging  LoggingConfig  `json:"logging"`
	Solver   SolverConfig   `json:"solver"`
}

// envKeys maps the recognized environment variables onto config paths.
var envKeys = map[string]string{
	"PORT":                    "server.port",
	"AUTH_TOKEN":              "server.auth_token",
	"RATE_RPS":                "server.rate_rps",
	"RATE_BURST":              "server.rate_burst",
	"DATABASE_URL":            "database.url",
	"DB_MIGRATE":              "database.migrate",
	"REDIS_URL":               "redis.url",
	"WEBHOOK_URL":             "webhook.url",
	"WEBHOOK_SECRET":          "webhook.secret",
	"WEBHOOK_MAX_ATTEMPTS":    "webhook.max_attempts",
	"LOG_LEVEL":               "logging.level",
	"LOG_FORMAT":              "logging.format",
	"SOLVER_STALL_ITERATIONS": "solver.stall_iterations",
}

// Load reads the optional config file at path, applies environment
// overrides, then defaults, and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every unset section.
func (c *Config) SetDefaults() {
	c.Server.SetDefaults()
	c.Database.SetDefaults()
	c.Webhook.SetDefaults()
	c.Logging.SetDefaults()
	c.Solver.SetDefaults()
}

func (c Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Webhook.Validate(); err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Solver.Validate(); err != nil {
		return fmt.Errorf("solver: %w", err)
	}
	return nil
}
