package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/D-Gaspa/structlog-config/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logging.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
[logging]
level = "debug"

[logging.file]
path = "logs/service.log"
max_size = 1048576
backup_count = 3
encoding = "utf-8"

[logging.console]
colors = false
rich_tracebacks = false

[[logging.pattern]]
pattern = "sqlalchemy.*"
level = "WARNING"

[[logging.pattern]]
pattern = "sqlalchemy.engine.*"
level = "INFO"
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Level != config.LevelDebug {
		t.Fatalf("level = %v, want DEBUG", cfg.Level)
	}
	if !cfg.File.Enabled {
		t.Fatal("file section presence must enable the sink")
	}
	if cfg.File.Path != filepath.Clean("logs/service.log") {
		t.Fatalf("unexpected path: %q", cfg.File.Path)
	}
	if cfg.File.MaxSize != 1<<20 || cfg.File.BackupCount != 3 {
		t.Fatalf("unexpected rotation settings: %+v", cfg.File)
	}
	if cfg.Console.Colors || cfg.Console.RichTracebacks {
		t.Fatal("console flags not applied")
	}
	if cfg.Patterns.Len() != 2 {
		t.Fatalf("pattern count = %d, want 2", cfg.Patterns.Len())
	}
	// File order is registration order: the general rule added first wins.
	if level, _ := cfg.Patterns.Resolve("sqlalchemy.engine.base"); level != config.LevelWarning {
		t.Fatalf("resolve = %v, want WARNING", level)
	}
}

func TestLoadAbsentSectionsKeepDefaults(t *testing.T) {
	path := writeConfig(t, "[logging]\nlevel = \"error\"\n")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Level != config.LevelError {
		t.Fatalf("level = %v", cfg.Level)
	}
	want := config.Default()
	if cfg.File != want.File {
		t.Fatalf("file settings diverged from defaults: %+v", cfg.File)
	}
	if cfg.Console != want.Console {
		t.Fatalf("console settings diverged from defaults: %+v", cfg.Console)
	}
}

func TestLoadFileSectionCanStayDisabled(t *testing.T) {
	path := writeConfig(t, `
[logging.file]
path = "logs/later.log"
enabled = false
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.File.Enabled {
		t.Fatal("explicit enabled = false must keep the sink off")
	}
	if cfg.File.Path != filepath.Clean("logs/later.log") {
		t.Fatalf("path not retained: %q", cfg.File.Path)
	}
}

func TestLoadReportsOffendingKey(t *testing.T) {
	path := writeConfig(t, "[logging]\nlevel = \"verbose\"\n")
	if _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "logging.level") {
		t.Fatalf("expected logging.level in error, got %v", err)
	}

	path = writeConfig(t, `
[[logging.pattern]]
pattern = "app.*"
level = "loud"
`)
	if _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "logging.pattern") {
		t.Fatalf("expected logging.pattern in error, got %v", err)
	}
}

func TestLoadRejectsBadBounds(t *testing.T) {
	path := writeConfig(t, `
[logging.file]
path = "logs/app.log"
max_size = -1
`)
	if _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "max_size") {
		t.Fatalf("expected max_size error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "logging.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if cfg.Level != config.LevelInfo {
		t.Fatalf("sample level = %v", cfg.Level)
	}
	if !cfg.File.Enabled {
		t.Fatal("sample declares a file section, sink should be enabled")
	}
}
