package cli

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"costs/internal/config"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("PORT", "9090")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}

	want := errors.New("export not configured")
	if _, err := LoadConfig(func(*config.Config) error { return want }); !errors.Is(err, want) {
		t.Errorf("extra check error = %v, want %v", err, want)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("DATA_BACKEND", "sheets")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("invalid backend must fail validation")
	}
}

func TestSetupLoggerFallsBack(t *testing.T) {
	logger := SetupLogger(&config.Config{LogLevel: "loud", LogFormat: "xml"})
	if logger == nil {
		t.Fatal("SetupLogger returned nil")
	}
}

func TestLoadToolConfigDefaultsToSQLite(t *testing.T) {
	t.Setenv("DATA_BACKEND", "")
	os.Unsetenv("DATA_BACKEND")

	cfg, err := LoadToolConfig()
	if err != nil {
		t.Fatalf("LoadToolConfig: %v", err)
	}
	if cfg.DataBackend != config.BackendSQLite {
		t.Errorf("DataBackend = %q, want %q", cfg.DataBackend, config.BackendSQLite)
	}

	t.Setenv("DATA_BACKEND", config.BackendMemory)
	cfg, err = LoadToolConfig()
	if err != nil {
		t.Fatalf("LoadToolConfig: %v", err)
	}
	if cfg.DataBackend != config.BackendMemory {
		t.Errorf("explicit DATA_BACKEND ignored, got %q", cfg.DataBackend)
	}
}

func TestWarnEphemeral(t *testing.T) {
	var buf bytes.Buffer
	WarnEphemeral(&buf, &config.Config{DataBackend: config.BackendSQLite})
	if buf.Len() != 0 {
		t.Fatalf("unexpected warning for sqlite: %q", buf.String())
	}
	WarnEphemeral(&buf, &config.Config{DataBackend: config.BackendMemory})
	if !strings.Contains(buf.String(), "only for this run") {
		t.Fatalf("missing warning, got %q", buf.String())
	}
}
