package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds client configuration loaded from ~/.bookrental/config.yaml
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Workflow   WorkflowConfig   `yaml:"workflow"`
	Resilience ResilienceConfig `yaml:"resilience"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds remote service settings
type ServerConfig struct {
	BaseURL string `yaml:"base_url"`
}

// StorageConfig selects where the session record is persisted
type StorageConfig struct {
	Backend string `yaml:"backend"` // "json" or "sqlite"
}

// WorkflowConfig holds rental workflow settings
type WorkflowConfig struct {
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`
}

// ResilienceConfig toggles the protective layers around the API client
type ResilienceConfig struct {
	CircuitBreaker bool `yaml:"circuit_breaker"`
	Bulkhead       bool `yaml:"bulkhead"`
	RateLimit      bool `yaml:"rate_limit"`
	MaxConcurrent  int  `yaml:"max_concurrent"`
	RatePerSecond  int  `yaml:"rate_per_second"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// AppDir returns the path to ~/.bookrental
func AppDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".bookrental"), nil
}

// EnsureAppDir creates ~/.bookrental and subdirectories if they don't exist
func EnsureAppDir() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}

	subdirs := []string{
		"",
		"logs",
		"data",
	}

	for _, subdir := range subdirs {
		path := filepath.Join(dir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", fmt.Errorf("create dir %s: %w", path, err)
		}
	}

	return dir, nil
}

// Default returns sensible defaults for a local development server
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:3010",
		},
		Storage: StorageConfig{
			Backend: "json",
		},
		Workflow: WorkflowConfig{
			PollIntervalSeconds: 3,
		},
		Resilience: ResilienceConfig{
			CircuitBreaker: true,
			Bulkhead:       true,
			RateLimit:      true,
			MaxConcurrent:  4,
			RatePerSecond:  10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from ~/.bookrental/config.yaml
func Load() (*Config, error) {
	dir, err := AppDir()
	if err != nil {
		return nil, err
	}
	return loadFrom(filepath.Join(dir, "config.yaml"))
}

func loadFrom(configPath string) (*Config, error) {
	// If config doesn't exist, return defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("unknown storage backend %q (expected json or sqlite)", c.Storage.Backend)
	}
	if c.Workflow.PollIntervalSeconds < 1 {
		return fmt.Errorf("poll_interval_seconds must be at least 1, got %d", c.Workflow.PollIntervalSeconds)
	}
	return nil
}

// PollInterval returns the workflow poll interval as a duration
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Workflow.PollIntervalSeconds) * time.Second
}

// Save writes configuration to ~/.bookrental/config.yaml
func Save(cfg *Config) error {
	dir, err := EnsureAppDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(dir, "config.yaml")

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}
