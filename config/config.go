package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

const (
	defaultFilePath    = "logs/app.log"
	defaultMaxSize     = 10 << 20 // 10 MiB
	defaultBackupCount = 5
	defaultEncoding    = "utf-8"
)

// FileConfig describes a rotating file sink.
type FileConfig struct {
	// Path is the live log file; rotated backups live next to it as
	// path.1, path.2, and so on.
	Path string
	// MaxSize is the size in bytes at which the file rotates.
	MaxSize int64
	// BackupCount bounds how many rotated files are kept. Zero means the
	// file is truncated in place when it rotates.
	BackupCount int
	// Encoding is the IANA name of the character encoding used for file
	// output. Empty or "utf-8" writes bytes through unchanged.
	Encoding string
	// Enabled gates file sink construction; a disabled config never
	// produces a handler.
	Enabled bool
}

// Validate ensures the file settings are usable.
func (c FileConfig) Validate() error {
	if c.MaxSize <= 0 {
		return errors.New("file.max_size must be a positive number of bytes")
	}
	if c.BackupCount < 0 {
		return errors.New("file.backup_count must be non-negative")
	}
	return nil
}

// WithPath returns a copy pointing at the new path with the sink enabled.
func (c FileConfig) WithPath(path string) FileConfig {
	c.Path = filepath.Clean(path)
	c.Enabled = true
	return c
}

// Enable returns a copy with the sink enabled at the existing path.
func (c FileConfig) Enable() FileConfig {
	c.Enabled = true
	return c
}

// ConsoleConfig describes the console sink.
type ConsoleConfig struct {
	// Colors enables ANSI coloring of level labels and field keys.
	Colors bool
	// RichTracebacks renders errors and stacks as decorated multi-line
	// blocks; when false they render as plain text.
	RichTracebacks bool
}

// Config is the complete description of desired logging behavior.
type Config struct {
	Level    Level
	File     FileConfig
	Console  ConsoleConfig
	Patterns PatternTable
}

// Default returns the built-in configuration: INFO level, console output
// with colors and rich tracebacks, file sink disabled, no pattern rules.
func Default() Config {
	return Config{
		Level: LevelInfo,
		File: FileConfig{
			Path:        defaultFilePath,
			MaxSize:     defaultMaxSize,
			BackupCount: defaultBackupCount,
			Encoding:    defaultEncoding,
			Enabled:     false,
		},
		Console: ConsoleConfig{
			Colors:         true,
			RichTracebacks: true,
		},
	}
}

// Validate ensures the configuration is usable.
func (c Config) Validate() error {
	if !c.Level.Valid() {
		return fmt.Errorf("level: %w: %d", ErrInvalidLevel, int(c.Level))
	}
	return c.File.Validate()
}
