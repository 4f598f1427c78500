package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// DefaultStubDelayMS is the default simulated latency for the analysis
// stub, in milliseconds.
const DefaultStubDelayMS = 600

// Config holds all configuration for crewdesk.
type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	Claude    ClaudeConfig    `mapstructure:"claude"`
	Analyzer  AnalyzerConfig  `mapstructure:"analyzer"`
	Workspace WorkspaceConfig `mapstructure:"workspace"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	API       APIConfig       `mapstructure:"api"`
}

// StorageConfig holds the persistent medium settings.
type StorageConfig struct {
	// Path is the SQLite database file. ":memory:" runs ephemeral.
	Path string `mapstructure:"path"`
}

// ClaudeConfig holds Anthropic API settings.
type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// String returns a safe representation of ClaudeConfig with the API key masked.
func (c ClaudeConfig) String() string {
	return fmt.Sprintf("ClaudeConfig{APIKey:%s, Model:%s}", maskAPIKey(c.APIKey), c.Model)
}

// HasAPIKey reports whether an API key is configured. Absence is a
// first-class state: chat and analysis fall back to the deterministic stub.
func (c ClaudeConfig) HasAPIKey() bool {
	return c.APIKey != ""
}

// maskAPIKey shows first 4 + last 4 chars, replacing the middle with asterisks.
func maskAPIKey(key string) string {
	const visible = 4
	if len(key) <= visible*2 {
		return "***"
	}
	return key[:visible] + "****" + key[len(key)-visible:]
}

// AnalyzerConfig holds analysis stub settings.
type AnalyzerConfig struct {
	StubDelayMS int `mapstructure:"stub_delay_ms"`
}

// StubDelay returns the simulated stub latency as a duration.
func (a AnalyzerConfig) StubDelay() time.Duration {
	return time.Duration(a.StubDelayMS) * time.Millisecond
}

// WorkspaceConfig holds caller identity settings consumed by the CLI.
type WorkspaceConfig struct {
	// UserID scopes brain operations when --user is not given.
	UserID string `mapstructure:"user_id"`
	// BusinessType selects the default team seeded into an empty registry.
	BusinessType string `mapstructure:"business_type"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	ListenAddr string  `mapstructure:"listen_addr"`
	AuthToken  string  `mapstructure:"auth_token"`
	RateLimit  float64 `mapstructure:"rate_limit"`
	RateBurst  int     `mapstructure:"rate_burst"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("storage.path", filepath.Join(homeDir(), ".crewdesk", "crewdesk.db"))

	v.SetDefault("claude.model", "claude-haiku-4-5-20251001")

	v.SetDefault("analyzer.stub_delay_ms", DefaultStubDelayMS)

	v.SetDefault("workspace.user_id", "default")
	v.SetDefault("workspace.business_type", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("api.listen_addr", ":8080")
	v.SetDefault("api.auth_token", "")
	v.SetDefault("api.rate_limit", 10.0)
	v.SetDefault("api.rate_burst", 20)

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(homeDir(), ".crewdesk"))
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("CREWDESK")
	v.AutomaticEnv()

	// Map specific env vars
	_ = v.BindEnv("claude.api_key", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("storage.path", "CREWDESK_STORAGE_PATH")
	_ = v.BindEnv("workspace.user_id", "CREWDESK_USER_ID")
	_ = v.BindEnv("api.listen_addr", "CREWDESK_API_LISTEN_ADDR")
	_ = v.BindEnv("api.auth_token", "CREWDESK_API_AUTH_TOKEN")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are set and consistent.
func (c *Config) Validate() error {
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path must not be empty")
	}
	if c.Claude.Model == "" {
		return fmt.Errorf("claude.model must not be empty")
	}
	if c.Analyzer.StubDelayMS < 0 {
		return fmt.Errorf("analyzer.stub_delay_ms must be >= 0")
	}
	if c.Workspace.UserID == "" {
		return fmt.Errorf("workspace.user_id must not be empty")
	}
	if c.API.RateLimit <= 0 {
		return fmt.Errorf("api.rate_limit must be greater than 0")
	}
	if c.API.RateBurst <= 0 {
		return fmt.Errorf("api.rate_burst must be greater than 0")
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
