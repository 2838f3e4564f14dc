// Package cli provides the initialization shared by the purchases commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"purchases/internal/config"
	"purchases/internal/log"
)

// SetupLogger builds the application logger at the configured level and
// installs it as the slog default.
func SetupLogger(level slog.Level) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = level
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the given .env files, or ./.env when none are named.
// A missing default file is not an error.
func LoadEnvFile(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// LoadAndValidateConfig reads the configuration from the environment. A
// non-empty mode replaces VALIDATION_MODE before validation.
func LoadAndValidateConfig(mode string) (*config.Config, error) {
	cfg := config.Load()
	if mode != "" {
		cfg.ValidationMode = mode
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
