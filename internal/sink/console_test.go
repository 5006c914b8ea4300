package sink

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/D-Gaspa/structlog-config/config"
)

var timestampRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} `)

func TestConsolePlainOutput(t *testing.T) {
	var buf bytes.Buffer
	h := NewConsole(&buf, config.ConsoleConfig{Colors: false, RichTracebacks: false})
	logger := slog.New(h)

	logger.Info("request served", slog.Int("status", 200), slog.String("path", "/x"))

	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("plain output must not contain ANSI escapes: %q", out)
	}
	if !timestampRe.MatchString(out) {
		t.Fatalf("line must start with a local timestamp: %q", out)
	}
	if !strings.Contains(out, " INFO ") {
		t.Fatalf("missing level label: %q", out)
	}
	if !strings.Contains(out, "request served") {
		t.Fatalf("missing message: %q", out)
	}
	if !strings.Contains(out, "status=200") || !strings.Contains(out, "path=/x") {
		t.Fatalf("missing key=value fields: %q", out)
	}
}

func TestConsoleColoredOutput(t *testing.T) {
	var buf bytes.Buffer
	h := NewConsole(&buf, config.ConsoleConfig{Colors: true, RichTracebacks: true})
	slog.New(h).Warn("disk almost full")

	out := buf.String()
	if !strings.Contains(out, ansiYellow+"WARNING"+ansiReset) {
		t.Fatalf("expected colored WARNING label: %q", out)
	}
}

func TestConsoleLoggerNameInHeader(t *testing.T) {
	var buf bytes.Buffer
	h := NewConsole(&buf, config.ConsoleConfig{})
	h = h.WithAttrs([]slog.Attr{slog.String(LoggerKey, "app.http")})
	slog.New(h).Info("hello")

	out := buf.String()
	if !strings.Contains(out, "[app.http]") {
		t.Fatalf("logger name missing from header: %q", out)
	}
	if strings.Contains(out, "logger=") {
		t.Fatalf("logger name must be hoisted out of the fields: %q", out)
	}
}

func TestConsolePlainTraceback(t *testing.T) {
	var buf bytes.Buffer
	h := NewConsole(&buf, config.ConsoleConfig{Colors: false, RichTracebacks: false})
	logger := slog.New(h)

	logger.Error("boom", slog.Any("error", errors.New("kaput")), slog.Any("stack", CaptureStack(0)))

	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("plain traceback must not contain ANSI escapes: %q", out)
	}
	if strings.Contains(out, "│") {
		t.Fatalf("plain traceback must not be decorated: %q", out)
	}
	if !strings.Contains(out, `error=kaput`) {
		t.Fatalf("error not rendered inline: %q", out)
	}
	if !strings.Contains(out, "TestConsolePlainTraceback") {
		t.Fatalf("stack frames missing: %q", out)
	}
}

func TestConsoleRichTraceback(t *testing.T) {
	var buf bytes.Buffer
	h := NewConsole(&buf, config.ConsoleConfig{Colors: false, RichTracebacks: true})
	slog.New(h).Error("boom", slog.Any("error", errors.New("kaput")), slog.Any("stack", CaptureStack(0)))

	out := buf.String()
	if !strings.Contains(out, "│") {
		t.Fatalf("rich traceback should render a decorated block: %q", out)
	}
	if !strings.Contains(out, "errorString: kaput") {
		t.Fatalf("rich traceback should include the error type line: %q", out)
	}
}

func TestConsoleContextFieldsRendered(t *testing.T) {
	var buf bytes.Buffer
	h := NewConsole(&buf, config.ConsoleConfig{})
	ctx := ContextWithFields(context.Background(), slog.String("request_id", "abc-123"))

	slog.New(h).InfoContext(ctx, "processing")

	if out := buf.String(); !strings.Contains(out, "request_id=abc-123") {
		t.Fatalf("context-bound field missing: %q", out)
	}
}

func TestConsoleGroupsBecomeDottedKeys(t *testing.T) {
	var buf bytes.Buffer
	h := NewConsole(&buf, config.ConsoleConfig{})
	slog.New(h).With(slog.Group("http", slog.Int("status", 200))).Info("done")

	if out := buf.String(); !strings.Contains(out, "http.status=200") {
		t.Fatalf("group fields should flatten to dotted keys: %q", out)
	}
}
