package sink

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/D-Gaspa/structlog-config/config"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiCyan   = "\x1b[36m"
	ansiDim    = "\x1b[2m"
)

// consoleHandler renders human-readable log lines to a stream, one record
// per line with trailing key=value fields. Errors and stacks render as
// decorated blocks when rich tracebacks are enabled, plain indented text
// otherwise.
type consoleHandler struct {
	mu     *sync.Mutex
	writer io.Writer
	cfg    config.ConsoleConfig
	attrs  []slog.Attr
	groups []string
}

// NewConsole builds the console sink. The caller decides the colors flag;
// pass false when the writer is not a terminal.
func NewConsole(w io.Writer, cfg config.ConsoleConfig) slog.Handler {
	return &consoleHandler{mu: &sync.Mutex{}, writer: w, cfg: cfg}
}

func (h *consoleHandler) Enabled(context.Context, slog.Level) bool {
	// Level filtering belongs to the registry so pattern overrides apply
	// to every sink identically.
	return true
}

func (h *consoleHandler) Handle(ctx context.Context, record slog.Record) error {
	fields := gatherFields(ctx, record, h.attrs, h.groups)
	logger, fields := hoistLogger(fields)

	var errs []field
	var stack StackTrace
	kvs := fields[:0]
	for _, f := range fields {
		v := f.value.Resolve()
		if v.Kind() == slog.KindAny {
			if err, ok := v.Any().(error); ok && err != nil {
				errs = append(errs, f)
				continue
			}
			if tr, ok := v.Any().(StackTrace); ok {
				stack = tr
				continue
			}
		}
		kvs = append(kvs, f)
	}

	var buf bytes.Buffer
	buf.Grow(128 + len(kvs)*24)

	buf.WriteString(formatTimestamp(record.Time))
	buf.WriteByte(' ')
	h.writeColored(&buf, levelColor(record.Level), levelLabel(record.Level))
	if logger != "" {
		buf.WriteByte(' ')
		h.writeColored(&buf, ansiDim, "["+logger+"]")
	}
	buf.WriteByte(' ')
	if msg := record.Message; msg != "" {
		buf.WriteString(msg)
	} else {
		buf.WriteString("(no message)")
	}

	for _, f := range kvs {
		buf.WriteByte(' ')
		h.writeColored(&buf, ansiCyan, f.key)
		buf.WriteByte('=')
		buf.WriteString(formatValue(f.value))
	}
	for _, f := range errs {
		buf.WriteByte(' ')
		h.writeColored(&buf, ansiRed, f.key)
		buf.WriteByte('=')
		buf.WriteString(maybeQuote(f.value.Resolve().Any().(error).Error()))
	}
	buf.WriteByte('\n')

	if len(errs) > 0 && h.cfg.RichTracebacks {
		for _, f := range errs {
			err := f.value.Resolve().Any().(error)
			h.writeBlockLine(&buf, ansiRed, errorTypeLine(err))
		}
	}
	for _, line := range stack {
		if h.cfg.RichTracebacks {
			h.writeBlockLine(&buf, ansiDim, line)
		} else {
			buf.WriteString("    ")
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

func (h *consoleHandler) writeColored(buf *bytes.Buffer, color, text string) {
	if h.cfg.Colors {
		buf.WriteString(color)
		buf.WriteString(text)
		buf.WriteString(ansiReset)
		return
	}
	buf.WriteString(text)
}

func (h *consoleHandler) writeBlockLine(buf *bytes.Buffer, color, line string) {
	buf.WriteString("    ")
	h.writeColored(buf, color, "│ "+line)
	buf.WriteByte('\n')
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return ansiRed
	case level >= slog.LevelWarn:
		return ansiYellow
	case level >= slog.LevelInfo:
		return ansiGreen
	default:
		return ansiBlue
	}
}
