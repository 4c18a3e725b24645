// Package cli provides common initialization utilities shared by the
// cmd/costs server, cmd/costs-worker and cmd/costctl.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"costs/internal/backend"
	"costs/internal/config"
	applog "costs/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger installs the logger described by cfg as the slog default.
// An invalid level or format falls back to text at info.
func SetupLogger(cfg *config.Config) *slog.Logger {
	logger, err := applog.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logger, _ = applog.Setup(os.Stdout, "info", "text")
		logger.Warn("Invalid logging configuration, using defaults", applog.FieldError, err)
	}
	return logger
}

// LoadAndValidateConfig loads configuration and runs Validate plus any
// extra checks. It exits the process on failure.
func LoadAndValidateConfig(extra ...func(*config.Config) error) *config.Config {
	cfg, err := LoadConfig(extra...)
	if err != nil {
		slog.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// LoadConfig is LoadAndValidateConfig without the exit.
func LoadConfig(extra ...func(*config.Config) error) (*config.Config, error) {
	return loadConfig(nil, extra)
}

// LoadToolConfig loads configuration for short-lived commands. They
// default to the SQLite backend since each run is a new process.
func LoadToolConfig(extra ...func(*config.Config) error) (*config.Config, error) {
	return loadConfig(map[string]any{"data_backend": config.BackendSQLite}, extra)
}

// WarnEphemeral tells the user that costs recorded now will not outlive
// the process.
func WarnEphemeral(w io.Writer, cfg *config.Config) {
	if cfg.DataBackend == config.BackendMemory {
		fmt.Fprintln(w, "warning: DATA_BACKEND=memory keeps costs only for this run")
	}
}

func loadConfig(defaults map[string]any, extra []func(*config.Config) error) (*config.Config, error) {
	cfg, err := config.LoadWithDefaults(defaults)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, check := range extra {
		if err := check(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// CreateBackend builds the storage, rate source and service described by
// cfg.
func CreateBackend(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", bcfg.Type, err)
	}
	return res, nil
}

// OpenStore opens the cost store described by cfg without the rest of
// the backend.
func OpenStore(ctx context.Context, logger *slog.Logger, cfg *config.Config) (backend.Store, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	return backend.NewFactory(logger).OpenStore(ctx, bcfg)
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// The returned context is cancelled once a signal arrives and cleanup has
// run; done is closed after that.
func GracefulShutdown(logger *slog.Logger, timeout time.Duration, cleanup func(ctx context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		cancel()

		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
