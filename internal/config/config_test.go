package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestAppDir(t *testing.T) {
	dir, err := AppDir()
	if err != nil {
		t.Fatalf("AppDir() error = %v", err)
	}

	if filepath.Base(dir) != ".bookrental" {
		t.Errorf("AppDir() = %q, want ending with .bookrental", dir)
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("AppDir() = %q, want absolute path", dir)
	}
}

func TestEnsureAppDir(t *testing.T) {
	originalHome := os.Getenv("HOME")
	defer os.Setenv("HOME", originalHome)

	tmpHome := t.TempDir()
	os.Setenv("HOME", tmpHome)

	dir, err := EnsureAppDir()
	if err != nil {
		t.Fatalf("EnsureAppDir() error = %v", err)
	}

	expectedDir := filepath.Join(tmpHome, ".bookrental")
	if dir != expectedDir {
		t.Errorf("EnsureAppDir() = %q, want %q", dir, expectedDir)
	}

	for _, subdir := range []string{"logs", "data"} {
		path := filepath.Join(dir, subdir)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("EnsureAppDir() should create %s", subdir)
		}
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.Server.BaseURL != "http://localhost:3010" {
		t.Errorf("Server.BaseURL = %q, want http://localhost:3010", cfg.Server.BaseURL)
	}
	if cfg.Storage.Backend != "json" {
		t.Errorf("Storage.Backend = %q, want json", cfg.Storage.Backend)
	}
	if cfg.Workflow.PollIntervalSeconds != 3 {
		t.Errorf("Workflow.PollIntervalSeconds = %d, want 3", cfg.Workflow.PollIntervalSeconds)
	}
	if !cfg.Resilience.CircuitBreaker {
		t.Error("Resilience.CircuitBreaker should be enabled by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	originalHome := os.Getenv("HOME")
	defer os.Setenv("HOME", originalHome)

	tmpHome := t.TempDir()
	os.Setenv("HOME", tmpHome)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Workflow.PollIntervalSeconds != 3 {
		t.Errorf("Workflow.PollIntervalSeconds = %d, want 3 (default)", cfg.Workflow.PollIntervalSeconds)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	originalHome := os.Getenv("HOME")
	defer os.Setenv("HOME", originalHome)

	tmpHome := t.TempDir()
	os.Setenv("HOME", tmpHome)

	appDir := filepath.Join(tmpHome, ".bookrental")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		t.Fatalf("Failed to create .bookrental dir: %v", err)
	}

	configContent := `server:
  base_url: "https://rental.example.com"
storage:
  backend: sqlite
workflow:
  poll_interval_seconds: 5
logging:
  level: debug
`
	configPath := filepath.Join(appDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.BaseURL != "https://rental.example.com" {
		t.Errorf("Server.BaseURL = %q, want https://rental.example.com", cfg.Server.BaseURL)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Storage.Backend = %q, want sqlite", cfg.Storage.Backend)
	}
	if cfg.Workflow.PollIntervalSeconds != 5 {
		t.Errorf("Workflow.PollIntervalSeconds = %d, want 5", cfg.Workflow.PollIntervalSeconds)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	// Untouched sections keep their defaults
	if !cfg.Resilience.Bulkhead {
		t.Error("Resilience.Bulkhead should keep its default when not configured")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	originalHome := os.Getenv("HOME")
	defer os.Setenv("HOME", originalHome)

	tmpHome := t.TempDir()
	os.Setenv("HOME", tmpHome)

	appDir := filepath.Join(tmpHome, ".bookrental")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		t.Fatalf("Failed to create .bookrental dir: %v", err)
	}

	configPath := filepath.Join(appDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: yaml: [broken"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load() should error on invalid YAML")
	}
}

func TestLoad_UnknownStorageBackend(t *testing.T) {
	originalHome := os.Getenv("HOME")
	defer os.Setenv("HOME", originalHome)

	tmpHome := t.TempDir()
	os.Setenv("HOME", tmpHome)

	appDir := filepath.Join(tmpHome, ".bookrental")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		t.Fatalf("Failed to create .bookrental dir: %v", err)
	}

	configPath := filepath.Join(appDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("storage:\n  backend: redis\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load() should reject an unknown storage backend")
	}
}

func TestLoad_RejectsZeroPollInterval(t *testing.T) {
	originalHome := os.Getenv("HOME")
	defer os.Setenv("HOME", originalHome)

	tmpHome := t.TempDir()
	os.Setenv("HOME", tmpHome)

	appDir := filepath.Join(tmpHome, ".bookrental")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		t.Fatalf("Failed to create .bookrental dir: %v", err)
	}

	configPath := filepath.Join(appDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("workflow:\n  poll_interval_seconds: 0\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load() should reject a zero poll interval")
	}
}

func TestSave(t *testing.T) {
	originalHome := os.Getenv("HOME")
	defer os.Setenv("HOME", originalHome)

	tmpHome := t.TempDir()
	os.Setenv("HOME", tmpHome)

	cfg := Default()
	cfg.Server.BaseURL = "http://localhost:4000"
	cfg.Storage.Backend = "sqlite"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	configPath := filepath.Join(tmpHome, ".bookrental", "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read saved config: %v", err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Failed to parse saved config: %v", err)
	}

	if loaded.Server.BaseURL != "http://localhost:4000" {
		t.Errorf("Saved Server.BaseURL = %q, want http://localhost:4000", loaded.Server.BaseURL)
	}
	if loaded.Storage.Backend != "sqlite" {
		t.Errorf("Saved Storage.Backend = %q, want sqlite", loaded.Storage.Backend)
	}
}
