package structlog

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/D-Gaspa/structlog-config/config"
	"github.com/D-Gaspa/structlog-config/internal/sink"
)

// Builder layers overrides onto a base configuration before committing it.
// Methods mutate and return the same builder for chaining; validation errors
// raised mid-chain are deferred and reported by Build.
type Builder struct {
	rt           *Runtime
	cfg          config.Config
	fileOverride *string
	err          error
}

// WithFile requests a file sink. A non-empty path overrides the configured
// location and enables the sink even when the base config left it disabled;
// an empty path enables the sink at the base config's own path. No
// filesystem work happens here; writability is checked during Build.
func (b *Builder) WithFile(path string) *Builder {
	override := path
	b.fileOverride = &override
	return b
}

// WithPatternLevel appends a glob rule assigning a level to matching
// loggers. Rules registered earlier win over later ones, so add specific
// overrides before the general patterns they refine.
func (b *Builder) WithPatternLevel(pattern string, level config.Level) *Builder {
	table, err := b.cfg.Patterns.With(pattern, level)
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return b
	}
	b.cfg.Patterns = table
	return b
}

// Build assembles the sinks, commits the configuration, and installs the
// pipeline on the root logger and every logger created so far. Exactly one
// Build per Runtime succeeds; all others fail with ErrAlreadyConfigured and
// leave the installed pipeline untouched. When file sink setup fails the
// runtime stays unconfigured, so Build can be retried with corrected input.
func (b *Builder) Build() error {
	if b.err != nil {
		return b.err
	}
	if err := b.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	rc := RuntimeConfig{Base: b.cfg, FileOverride: b.fileOverride}

	// All sink I/O runs before the commit lock is taken: a setup failure
	// must not leave the lock held or the state half-committed.
	handlers := []slog.Handler{
		sink.NewConsole(b.rt.console, b.rt.consoleSettings(b.cfg.Console)),
	}
	var closers []io.Closer
	if fileCfg, enabled := rc.EffectiveFile(); enabled {
		fileHandler, closer, err := sink.NewFile(fileCfg)
		if err != nil {
			return err
		}
		handlers = append(handlers, fileHandler)
		closers = append(closers, closer)
	}

	if err := b.rt.commit(rc, sink.Tee(handlers...), closers); err != nil {
		// Losing the commit race must not leak the freshly opened file.
		for _, closer := range closers {
			closer.Close()
		}
		return err
	}
	return nil
}
