package structlog

import (
	"log/slog"

	"github.com/D-Gaspa/structlog-config/config"
)

// defaultRuntime backs the package-level API.
var defaultRuntime = NewRuntime()

// DefaultRuntime exposes the runtime behind the package-level functions.
func DefaultRuntime() *Runtime {
	return defaultRuntime
}

// Configure starts a builder from the built-in defaults: INFO level,
// console sink with colors and rich tracebacks, file sink disabled.
func Configure() *Builder {
	return defaultRuntime.Configure()
}

// ConfigureFromFile starts a builder from a TOML configuration file.
func ConfigureFromFile(path string) (*Builder, error) {
	return defaultRuntime.ConfigureFromFile(path)
}

// ConfigureWith starts a builder from a configuration assembled elsewhere.
func ConfigureWith(cfg config.Config) *Builder {
	return defaultRuntime.ConfigureWith(cfg)
}

// GetLogger returns the logger registered under name, falling back to a
// console-only pipeline before any Build. It never fails.
func GetLogger(name string) *slog.Logger {
	return defaultRuntime.GetLogger(name)
}

// Reset tears the default runtime back to unconfigured. Test-harness hook.
func Reset() {
	defaultRuntime.Reset()
}
