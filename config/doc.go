// Package config defines the value types that describe a logging pipeline:
// severity levels, file and console sink settings, glob-based per-logger
// level rules, and the top-level Config that ties them together.
//
// All types are immutable values. Methods that change a setting (WithPath,
// Enable, PatternTable.With) return a new value and never mutate the
// receiver, so configs can be layered and forked safely from concurrent
// builders. Validation happens when a value is constructed or loaded, not
// when it is used.
package config
