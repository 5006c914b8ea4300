package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// document mirrors the on-disk TOML layout. Optional booleans are pointers
// so "absent" and "false" stay distinguishable while layering defaults.
type document struct {
	Logging loggingSection `toml:"logging"`
}

type loggingSection struct {
	Level   string          `toml:"level"`
	File    *fileSection    `toml:"file"`
	Console *consoleSection `toml:"console"`
	// Pattern rules are an array of tables because priority is their
	// registration order; a plain TOML table would lose it.
	Pattern []patternSection `toml:"pattern"`
}

type fileSection struct {
	Path        string `toml:"path"`
	MaxSize     int64  `toml:"max_size"`
	BackupCount *int   `toml:"backup_count"`
	Encoding    string `toml:"encoding"`
	Enabled     *bool  `toml:"enabled"`
}

type consoleSection struct {
	Colors         *bool `toml:"colors"`
	RichTracebacks *bool `toml:"rich_tracebacks"`
}

type patternSection struct {
	Pattern string `toml:"pattern"`
	Level   string `toml:"level"`
}

// Load reads a TOML configuration file and layers it over Default().
// Sections that are absent keep their default values; a [logging.file]
// section enables the file sink unless it sets enabled = false explicitly.
func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("configuration file not found: %s", path)
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var doc document
	decoder := toml.NewDecoder(file)
	if err := decoder.Decode(&doc); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg, err := doc.Logging.apply(Default())
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (s loggingSection) apply(cfg Config) (Config, error) {
	if s.Level != "" {
		level, err := ParseLevel(s.Level)
		if err != nil {
			return Config{}, fmt.Errorf("logging.level: %w", err)
		}
		cfg.Level = level
	}

	if s.File != nil {
		if s.File.Path != "" {
			cfg.File.Path = filepath.Clean(s.File.Path)
		}
		if s.File.MaxSize != 0 {
			cfg.File.MaxSize = s.File.MaxSize
		}
		if s.File.BackupCount != nil {
			cfg.File.BackupCount = *s.File.BackupCount
		}
		if s.File.Encoding != "" {
			cfg.File.Encoding = s.File.Encoding
		}
		cfg.File.Enabled = s.File.Enabled == nil || *s.File.Enabled
	}

	if s.Console != nil {
		if s.Console.Colors != nil {
			cfg.Console.Colors = *s.Console.Colors
		}
		if s.Console.RichTracebacks != nil {
			cfg.Console.RichTracebacks = *s.Console.RichTracebacks
		}
	}

	for _, entry := range s.Pattern {
		level, err := ParseLevel(entry.Level)
		if err != nil {
			return Config{}, fmt.Errorf("logging.pattern %q: %w", entry.Pattern, err)
		}
		table, err := cfg.Patterns.With(entry.Pattern, level)
		if err != nil {
			return Config{}, fmt.Errorf("logging.pattern: %w", err)
		}
		cfg.Patterns = table
	}

	return cfg, nil
}

// CreateSample writes a commented sample configuration to the given path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
