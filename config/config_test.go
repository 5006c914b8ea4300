package config_test

import (
	"strings"
	"testing"

	"github.com/D-Gaspa/structlog-config/config"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.Default()
	if cfg.Level != config.LevelInfo {
		t.Fatalf("default level = %v, want INFO", cfg.Level)
	}
	if cfg.File.Enabled {
		t.Fatal("file sink must be disabled by default")
	}
	if cfg.File.MaxSize != 10<<20 {
		t.Fatalf("default max size = %d, want 10 MiB", cfg.File.MaxSize)
	}
	if cfg.File.BackupCount != 5 {
		t.Fatalf("default backup count = %d", cfg.File.BackupCount)
	}
	if cfg.File.Encoding != "utf-8" {
		t.Fatalf("default encoding = %q", cfg.File.Encoding)
	}
	if !cfg.Console.Colors || !cfg.Console.RichTracebacks {
		t.Fatal("console colors and rich tracebacks default to on")
	}
	if cfg.Patterns.Len() != 0 {
		t.Fatal("default pattern table must be empty")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestFileConfigValidate(t *testing.T) {
	base := config.Default().File

	bad := base
	bad.MaxSize = 0
	if err := bad.Validate(); err == nil || !strings.Contains(err.Error(), "max_size") {
		t.Fatalf("expected max_size error, got %v", err)
	}

	bad = base
	bad.BackupCount = -1
	if err := bad.Validate(); err == nil || !strings.Contains(err.Error(), "backup_count") {
		t.Fatalf("expected backup_count error, got %v", err)
	}
}

func TestFileConfigWithPathProducesNewValue(t *testing.T) {
	base := config.Default().File
	updated := base.WithPath("custom/app.log")

	if base.Enabled {
		t.Fatal("WithPath mutated the receiver")
	}
	if !updated.Enabled {
		t.Fatal("WithPath must enable the sink")
	}
	if updated.Path != "custom/app.log" {
		t.Fatalf("unexpected path: %q", updated.Path)
	}
	if updated.MaxSize != base.MaxSize || updated.BackupCount != base.BackupCount {
		t.Fatal("WithPath must preserve size and backup settings")
	}
}

func TestFileConfigEnable(t *testing.T) {
	base := config.Default().File
	enabled := base.Enable()
	if base.Enabled {
		t.Fatal("Enable mutated the receiver")
	}
	if !enabled.Enabled || enabled.Path != base.Path {
		t.Fatalf("unexpected enabled config: %+v", enabled)
	}
}

func TestConfigValidateRejectsBadLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Level = config.Level(17)
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for invalid level")
	}
}
