package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// ErrInvalidLevel reports a level name or value outside the supported set.
var ErrInvalidLevel = fmt.Errorf("invalid log level")

// Level is a log severity. It maps directly onto slog levels so handlers can
// use it without translation; CRITICAL sits above slog's ERROR.
type Level slog.Level

const (
	LevelDebug    Level = Level(slog.LevelDebug)
	LevelInfo     Level = Level(slog.LevelInfo)
	LevelWarning  Level = Level(slog.LevelWarn)
	LevelError    Level = Level(slog.LevelError)
	LevelCritical Level = Level(slog.LevelError + 4)
)

var levelNames = map[Level]string{
	LevelDebug:    "DEBUG",
	LevelInfo:     "INFO",
	LevelWarning:  "WARNING",
	LevelError:    "ERROR",
	LevelCritical: "CRITICAL",
}

// ParseLevel converts a case-insensitive level name into a Level.
func ParseLevel(name string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARNING":
		return LevelWarning, nil
	case "ERROR":
		return LevelError, nil
	case "CRITICAL":
		return LevelCritical, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %q (must be one of DEBUG, INFO, WARNING, ERROR, CRITICAL)", ErrInvalidLevel, name)
	}
}

// Valid reports whether the level is a member of the supported set.
func (l Level) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

// String returns the upper-case level name, or a numeric form for values
// outside the supported set.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return slog.Level(l).String()
}

// Slog converts the level for use with slog handlers.
func (l Level) Slog() slog.Level {
	return slog.Level(l)
}
