// Package config handles configuration and the API credential for EcoNexus.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/econexus/econexus/internal/models"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style" env:"GLAMOUR_STYLE"` // "dark", "light", or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`
	PreserveNewLines bool   `json:"preserve_newlines"`
	TableWrap        bool   `json:"table_wrap"`
}

// ServerConfig configures the browser widget server
type ServerConfig struct {
	Addr string `json:"addr" env:"ECONEXUS_SERVER_ADDR"`
	// RateLimit is the sustained number of submissions per second per conversation.
	RateLimit float64 `json:"rate_limit" env:"ECONEXUS_RATE_LIMIT"`
	Burst     int     `json:"burst" env:"ECONEXUS_RATE_BURST"`
	// MaxSessions caps the number of stored conversations.
	MaxSessions int `json:"max_sessions" env:"ECONEXUS_MAX_SESSIONS"`
}

// Config represents the user configuration
type Config struct {
	// APIKey is the Google Gemini API key. Empty means the offline fallback is used.
	APIKey         string         `json:"api_key,omitempty" env:"ECONEXUS_GEMINI_API_KEY"`
	Model          string         `json:"model" env:"ECONEXUS_MODEL"`
	TimeoutSeconds int            `json:"timeout_seconds" env:"ECONEXUS_TIMEOUT"`
	Verbose        bool           `json:"verbose" env:"ECONEXUS_VERBOSE"`
	CopyClipboard  bool           `json:"copy_to_clipboard" env:"ECONEXUS_COPY_TO_CLIPBOARD"`
	Markdown       MarkdownConfig `json:"markdown"`
	Server         ServerConfig   `json:"server"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Model:          models.DefaultModel,
		TimeoutSeconds: int(models.DefaultTimeout / time.Second),
		Markdown:       DefaultMarkdownConfig(),
		Server: ServerConfig{
			Addr:        "127.0.0.1:8080",
			RateLimit:   1,
			Burst:       3,
			MaxSessions: 1000,
		},
	}
}

// Timeout returns the request timeout as a duration
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return models.DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// HasAPIKey reports whether a credential is configured
func (c Config) HasAPIKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// GetConfigDir returns the configuration directory path.
// ECONEXUS_HOME overrides the default ~/.econexus.
func GetConfigDir() (string, error) {
	if dir := os.Getenv("ECONEXUS_HOME"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".econexus"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the config holds the API key
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration from disk and applies environment overrides.
// A missing file yields the defaults.
func LoadConfig() (Config, error) {
	cfg, err := loadFile()
	if err != nil {
		return cfg, err
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)

	return cfg, nil
}

// LoadFileConfig loads the configuration from disk only, without environment
// overrides. Used when rewriting the file so env values are not persisted.
func LoadFileConfig() (Config, error) {
	return loadFile()
}

func loadFile() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0o600: the file contains the API key
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SetAPIKey stores key in the config file. An empty key removes it.
func SetAPIKey(key string) error {
	cfg, err := LoadFileConfig()
	if err != nil {
		return err
	}
	cfg.APIKey = strings.TrimSpace(key)
	return SaveConfig(cfg)
}

// MaskKey hides all but the last four characters of a key
func MaskKey(key string) string {
	if key == "" {
		return "(niet ingesteld)"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
