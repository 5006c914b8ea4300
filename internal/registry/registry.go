// Package registry tracks every named logger handed out by the public API
// and synchronizes them with the installed sink pipeline. It replaces the
// ambient global logger table other runtimes rely on with an explicit map
// that installs iterate deterministically.
package registry

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/D-Gaspa/structlog-config/config"
	"github.com/D-Gaspa/structlog-config/internal/sink"
)

// Registry owns the process's loggers. Loggers are memoized per name and
// backed by an indirection handler, so an install is observed immediately by
// every logger created before it; loggers created afterwards resolve against
// the same shared state and need no further synchronization.
type Registry struct {
	mu       sync.RWMutex
	gen      uint64
	pipeline slog.Handler
	level    slog.Level
	patterns config.PatternTable
	levels   map[string]slog.Level
	loggers  map[string]*slog.Logger
}

func New() *Registry {
	return &Registry{
		levels:  make(map[string]slog.Level),
		loggers: make(map[string]*slog.Logger),
	}
}

// Logger returns the logger registered under name, creating and registering
// it on first use. The empty name addresses the root logger.
func (r *Registry) Logger(name string) *slog.Logger {
	r.mu.Lock()
	defer r.mu.Unlock()
	if logger, ok := r.loggers[name]; ok {
		return logger
	}
	if r.pipeline != nil {
		r.levels[name] = r.resolveLocked(name)
	}
	logger := slog.New(&handler{reg: r, name: name})
	r.loggers[name] = logger
	return logger
}

// InstallRoot replaces the sink pipeline wholesale and sets the default
// threshold. Pattern rules are cleared; InstallExisting layers them back on.
func (r *Registry) InstallRoot(pipeline slog.Handler, level slog.Level) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.pipeline = pipeline
	r.level = level
	r.patterns = config.PatternTable{}
	for _, name := range r.sortedNamesLocked() {
		r.levels[name] = level
	}
}

// InstallExisting applies pattern-based thresholds to every already-created
// logger, iterating names in sorted order. The table is retained so loggers
// created later resolve against the same rules.
func (r *Registry) InstallExisting(patterns config.PatternTable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patterns = patterns
	for _, name := range r.sortedNamesLocked() {
		r.levels[name] = r.resolveLocked(name)
	}
}

// Installed reports whether a pipeline is currently in place.
func (r *Registry) Installed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pipeline != nil
}

// Reset returns the registry to its initial state. Existing loggers stay
// usable but discard records until the next install.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.pipeline = nil
	r.level = 0
	r.patterns = config.PatternTable{}
	r.levels = make(map[string]slog.Level)
	r.loggers = make(map[string]*slog.Logger)
}

func (r *Registry) sortedNamesLocked() []string {
	names := make([]string, 0, len(r.loggers))
	for name := range r.loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolveLocked computes the effective threshold for a logger name: the
// first matching pattern rule, else the default level. Root never matches
// patterns.
func (r *Registry) resolveLocked(name string) slog.Level {
	if name != "" {
		if level, ok := r.patterns.Resolve(name); ok {
			return level.Slog()
		}
	}
	return r.level
}

func (r *Registry) enabledFor(name string, level slog.Level) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.pipeline == nil {
		return false
	}
	if threshold, ok := r.levels[name]; ok {
		return level >= threshold
	}
	return level >= r.resolveLocked(name)
}

func (r *Registry) pipelineSnapshot() (slog.Handler, uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pipeline, r.gen
}

// handler forwards records to the currently installed pipeline. A handler
// never pins a pipeline: each Handle resolves the registry's current one, so
// a wholesale install reaches loggers immediately. The resolved delegate is
// cached per install generation.
type handler struct {
	reg  *Registry
	name string
	ops  []handlerOp

	mu        sync.Mutex
	cached    slog.Handler
	cachedGen uint64
}

// handlerOp is one WithAttrs or WithGroup layer, replayed in order onto each
// new pipeline generation.
type handlerOp struct {
	attrs []slog.Attr
	group string
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return h.reg.enabledFor(h.name, level)
}

func (h *handler) Handle(ctx context.Context, record slog.Record) error {
	delegate := h.delegate()
	if delegate == nil {
		return nil
	}
	return delegate.Handle(ctx, record)
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return h.withOp(handlerOp{attrs: attrs})
}

func (h *handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return h.withOp(handlerOp{group: name})
}

func (h *handler) withOp(op handlerOp) slog.Handler {
	ops := make([]handlerOp, len(h.ops)+1)
	copy(ops, h.ops)
	ops[len(h.ops)] = op
	return &handler{reg: h.reg, name: h.name, ops: ops}
}

func (h *handler) delegate() slog.Handler {
	pipeline, gen := h.reg.pipelineSnapshot()
	if pipeline == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cached != nil && h.cachedGen == gen {
		return h.cached
	}
	delegate := pipeline
	if h.name != "" {
		delegate = delegate.WithAttrs([]slog.Attr{slog.String(sink.LoggerKey, h.name)})
	}
	for _, op := range h.ops {
		if op.group != "" {
			delegate = delegate.WithGroup(op.group)
		} else {
			delegate = delegate.WithAttrs(op.attrs)
		}
	}
	h.cached = delegate
	h.cachedGen = gen
	return delegate
}
