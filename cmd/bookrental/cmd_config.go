package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nathanaelowenk/bookrental/internal/config"
)

// cmdConfig shows the current configuration, or writes the defaults
func cmdConfig(args []string) error {
	if len(args) > 0 && args[0] == "init" {
		return cmdConfigInit()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Println("Bookrental Configuration")

	fmt.Println("Server:")
	fmt.Printf("  base_url: %s\n", cfg.Server.BaseURL)

	fmt.Println("\nStorage:")
	fmt.Printf("  backend: %s\n", cfg.Storage.Backend)

	fmt.Println("\nWorkflow:")
	fmt.Printf("  poll_interval: %s\n", cfg.PollInterval())

	fmt.Println("\nResilience:")
	fmt.Printf("  circuit_breaker: %t\n", cfg.Resilience.CircuitBreaker)
	fmt.Printf("  bulkhead: %t (max_concurrent=%d)\n", cfg.Resilience.Bulkhead, cfg.Resilience.MaxConcurrent)
	fmt.Printf("  rate_limit: %t (rate_per_second=%d)\n", cfg.Resilience.RateLimit, cfg.Resilience.RatePerSecond)

	fmt.Println("\nLogging:")
	fmt.Printf("  level: %s\n", cfg.Logging.Level)

	dir, _ := config.AppDir()
	fmt.Printf("\nConfig path: %s/config.yaml\n", dir)

	return nil
}

func cmdConfigInit() error {
	dir, err := config.EnsureAppDir()
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	configPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Configuration already exists at %s\n", configPath)
		return nil
	}

	if err := config.Save(config.Default()); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Printf("Wrote default configuration to %s\n", configPath)
	return nil
}
