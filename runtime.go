package structlog

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/mattn/go-isatty"

	"github.com/D-Gaspa/structlog-config/config"
	"github.com/D-Gaspa/structlog-config/internal/registry"
	"github.com/D-Gaspa/structlog-config/internal/sink"
)

// RuntimeConfig is a committed configuration: the base config plus the file
// override recorded by the builder.
type RuntimeConfig struct {
	Base config.Config
	// FileOverride is nil when WithFile was never called; an empty string
	// enables the base config's file settings; anything else replaces the
	// path as well.
	FileOverride *string
}

// EffectiveFile derives the file sink configuration, layering the override
// onto the base. The second result is false when no file sink is wanted.
func (rc RuntimeConfig) EffectiveFile() (config.FileConfig, bool) {
	switch {
	case rc.FileOverride == nil:
		return rc.Base.File, rc.Base.File.Enabled
	case *rc.FileOverride == "":
		return rc.Base.File.Enable(), true
	default:
		return rc.Base.File.WithPath(*rc.FileOverride), true
	}
}

// Runtime is a process-scoped logging state machine: it holds at most one
// committed RuntimeConfig and the logger registry fed by it. The zero-value
// global state other logging systems keep is explicit here so tests can use
// isolated Runtimes, but most programs rely on the package-level functions
// backed by the default Runtime.
//
// A Runtime starts unconfigured and transitions to configured exactly once;
// only Reset, a test-harness hook without a counterpart in production code
// paths, returns it to unconfigured.
type Runtime struct {
	mu         sync.Mutex
	configured atomic.Bool
	fallback   bool
	current    RuntimeConfig
	registry   *registry.Registry
	closers    []io.Closer
	console    io.Writer
}

// NewRuntime creates an unconfigured runtime writing console output to
// stdout.
func NewRuntime() *Runtime {
	return &Runtime{
		registry: registry.New(),
		console:  os.Stdout,
	}
}

// Configured reports whether a configuration has been committed. It never
// blocks.
func (rt *Runtime) Configured() bool {
	return rt.configured.Load()
}

// Current returns the committed configuration, or ErrNotConfigured before
// any successful Build.
func (rt *Runtime) Current() (RuntimeConfig, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if !rt.configured.Load() {
		return RuntimeConfig{}, ErrNotConfigured
	}
	return rt.current, nil
}

// Configure starts a builder from the built-in defaults.
func (rt *Runtime) Configure() *Builder {
	return &Builder{rt: rt, cfg: config.Default()}
}

// ConfigureFromFile starts a builder from a TOML configuration file.
func (rt *Runtime) ConfigureFromFile(path string) (*Builder, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return &Builder{rt: rt, cfg: cfg}, nil
}

// ConfigureWith starts a builder from a configuration assembled elsewhere.
func (rt *Runtime) ConfigureWith(cfg config.Config) *Builder {
	return &Builder{rt: rt, cfg: cfg}
}

// GetLogger returns the logger registered under name; the empty name
// addresses the root logger. It never fails: before any Build it installs a
// console-only default pipeline once and warns about it. That fallback does
// not consume the configure-once slot; a later explicit Build replaces it
// wholesale and still succeeds.
func (rt *Runtime) GetLogger(name string) *slog.Logger {
	if !rt.configured.Load() {
		rt.ensureFallback()
	}
	return rt.registry.Logger(name)
}

func (rt *Runtime) ensureFallback() {
	rt.mu.Lock()
	if rt.configured.Load() || rt.fallback {
		rt.mu.Unlock()
		return
	}
	cfg := config.Default()
	console := sink.NewConsole(rt.console, rt.consoleSettings(cfg.Console))
	rt.registry.InstallRoot(console, cfg.Level.Slog())
	rt.fallback = true
	rt.mu.Unlock()

	rt.registry.Logger("").Warn("logging not configured; using console-only defaults until Configure().Build() is called")
}

// consoleSettings finalizes the console flags for the runtime's writer:
// colors stay on only when the destination is a terminal.
func (rt *Runtime) consoleSettings(cfg config.ConsoleConfig) config.ConsoleConfig {
	cfg.Colors = cfg.Colors && writerIsTerminal(rt.console)
	return cfg
}

// commit is the one-shot state transition. Sink assembly and its I/O happen
// before this is called; the lock covers only the check-and-set and the
// in-memory install, and doubles as the synchronizes-with edge that makes
// the new pipeline visible to GetLogger on other goroutines.
func (rt *Runtime) commit(rc RuntimeConfig, pipeline slog.Handler, closers []io.Closer) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.configured.Load() {
		return ErrAlreadyConfigured
	}
	rt.current = rc
	rt.closers = closers
	rt.registry.InstallRoot(pipeline, rc.Base.Level.Slog())
	rt.registry.InstallExisting(rc.Base.Patterns)
	rt.configured.Store(true)
	return nil
}

// Reset tears the runtime back down to unconfigured: sinks are closed and
// the registry is cleared. It exists for test harnesses; production code has
// no reason to call it.
func (rt *Runtime) Reset() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	for _, closer := range rt.closers {
		closer.Close()
	}
	rt.closers = nil
	rt.current = RuntimeConfig{}
	rt.fallback = false
	rt.registry.Reset()
	rt.configured.Store(false)
}

func writerIsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
