// Package structlog turns a declarative configuration into a process-wide
// structured logging pipeline built on log/slog, and arbitrates access to
// that pipeline so it is configured exactly once from any number of
// concurrent callers.
//
// The usual flow is a fluent one-shot configuration at startup:
//
//	err := structlog.Configure().
//		WithFile("logs/app.log").
//		WithPatternLevel("sqlalchemy.*", config.LevelWarning).
//		Build()
//
// followed by GetLogger anywhere in the program:
//
//	log := structlog.GetLogger("app.http")
//	log.Info("request served", structlog.Int("status", 200))
//
// Build succeeds for exactly one caller per process; every other attempt
// fails with ErrAlreadyConfigured and leaves the installed pipeline
// untouched. GetLogger never fails: before any Build it falls back to a
// console-only pipeline with default settings and warns once, without
// consuming the one-shot configuration slot.
//
// Records reach the console sink as colored human-readable lines and the
// optional rotating file sink as newline-delimited JSON, with the event
// field serialized first and the timestamp field last.
//
// Tests and long-running harnesses that need to reconfigure can use a
// dedicated Runtime, or Reset the default one.
package structlog
