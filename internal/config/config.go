package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ignite/trello-agent/internal/domain"
)

// DefaultTrelloBaseURL is the public Trello REST endpoint.
const DefaultTrelloBaseURL = "https://api.trello.com/1"

// Activity log backends.
const (
	ActivityBackendNone     = "none"
	ActivityBackendRedis    = "redis"
	ActivityBackendPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Trello   TrelloConfig   `yaml:"trello"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Activity ActivityConfig `yaml:"activity"`
	Logging  LoggingConfig  `yaml:"logging"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, listening on all interfaces inside containers.
func (c ServerConfig) GetHost() string {
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return "0.0.0.0"
	}
	return c.Host
}

// Addr returns host:port for the listener.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.GetHost(), c.Port)
}

// TrelloConfig holds Trello API credentials and transport settings.
type TrelloConfig struct {
	BaseURL        string `yaml:"base_url"`
	Key            string `yaml:"key"`
	Token          string `yaml:"token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
}

// Timeout returns the per-call timeout applied to every outbound request.
func (c TrelloConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Configured reports whether both credentials are present.
func (c TrelloConfig) Configured() bool {
	return c.Key != "" && c.Token != ""
}

// Validate checks that both credentials are present.
func (c TrelloConfig) Validate() error {
	if !c.Configured() {
		return fmt.Errorf("%w: set TRELLO_KEY and TRELLO_TOKEN", domain.ErrConfigMissing)
	}
	return nil
}

// DefaultsConfig holds fallback hints used when a request omits board or list.
type DefaultsConfig struct {
	Board string `yaml:"board"`
	List  string `yaml:"list"`
}

// ActivityConfig selects where successful mutations are recorded.
type ActivityConfig struct {
	Backend     string `yaml:"backend"` // "none", "redis" or "postgres"
	RedisURL    string `yaml:"redis_url"`
	RedisKey    string `yaml:"redis_key"`
	MaxEntries  int    `yaml:"max_entries"`
	DatabaseURL string `yaml:"database_url"`
}

// LoggingConfig holds structured logger settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// CORSConfig holds the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Trello.BaseURL == "" {
		cfg.Trello.BaseURL = DefaultTrelloBaseURL
	}
	cfg.Trello.BaseURL = strings.TrimRight(cfg.Trello.BaseURL, "/")
	if cfg.Trello.TimeoutSeconds == 0 {
		cfg.Trello.TimeoutSeconds = 30
	}
	if cfg.Trello.MaxRetries < 0 {
		cfg.Trello.MaxRetries = 0
	}
	if cfg.Activity.Backend == "" {
		cfg.Activity.Backend = ActivityBackendNone
	}
	if cfg.Activity.RedisKey == "" {
		cfg.Activity.RedisKey = "trello-agent:activity"
	}
	if cfg.Activity.MaxEntries == 0 {
		cfg.Activity.MaxEntries = 500
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It loads a .env file (if present) before reading env vars, so secrets can
// live in .env locally and in real env vars in deployment. A missing config
// file is fine: every setting has a default or an env override.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = &Config{}
		applyDefaults(cfg)
	} else if err != nil {
		return nil, err
	}

	if v := os.Getenv("TRELLO_KEY"); v != "" {
		cfg.Trello.Key = v
	}
	if v := os.Getenv("TRELLO_TOKEN"); v != "" {
		cfg.Trello.Token = v
	}
	if v := os.Getenv("TRELLO_BASE_URL"); v != "" {
		cfg.Trello.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("DEFAULT_BOARD"); v != "" {
		cfg.Defaults.Board = v
	}
	if v := os.Getenv("DEFAULT_LIST"); v != "" {
		cfg.Defaults.List = v
	}
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("ACTIVITY_BACKEND"); v != "" {
		cfg.Activity.Backend = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Activity.RedisURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Activity.DatabaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if err := cfg.Activity.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c ActivityConfig) validate() error {
	switch c.Backend {
	case ActivityBackendNone:
	case ActivityBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("activity backend %q requires REDIS_URL", c.Backend)
		}
	case ActivityBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("activity backend %q requires DATABASE_URL", c.Backend)
		}
	default:
		return fmt.Errorf("unknown activity backend %q", c.Backend)
	}
	return nil
}
