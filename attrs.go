package structlog

import (
	"context"
	"log/slog"
	"time"

	"github.com/D-Gaspa/structlog-config/internal/sink"
)

// Attr aliases slog.Attr so call sites need not import both packages.
type Attr = slog.Attr

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Float64(key string, value float64) Attr { return slog.Float64(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

// Error wraps an error for structured rendering: the console sink prints it
// inline (plus a decorated block under rich tracebacks), the file sink
// serializes type, message, and cause chain as nested JSON.
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Stack captures the call stack at the call site. Sinks render it as an
// indented block (console) or a frame array (file).
func Stack() Attr {
	return slog.Any("stack", sink.CaptureStack(1))
}

// BindFields returns a context carrying attributes that every sink merges
// into records logged under it, ahead of call-site fields. Binding is
// additive and copy-on-write; the parent context is untouched.
func BindFields(ctx context.Context, attrs ...Attr) context.Context {
	return sink.ContextWithFields(ctx, attrs...)
}

// Args converts attributes for use with the slog variadic call style.
func Args(attrs ...Attr) []any {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}
