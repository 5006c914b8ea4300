package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/D-Gaspa/structlog-config/config"
)

// ErrSinkDisabled reports an attempt to build a file handler from a disabled
// configuration. The public builder never takes this path; hitting it means
// a caller skipped the effective-config derivation.
var ErrSinkDisabled = errors.New("file sink is disabled")

// ErrPathNotWritable reports a log file or its directory that exists but
// cannot be written.
var ErrPathNotWritable = errors.New("log path is not writable")

// NewFile builds the rotating JSON file sink. Setup performs all filesystem
// work up front: parent directories are created, writability is probed, and
// a blank-line separator is appended when reusing a non-empty file so runs
// stay visually distinct. Any failure surfaces before a handler exists, so
// a failed setup never leaves a partially installed sink.
func NewFile(cfg config.FileConfig) (slog.Handler, io.Closer, error) {
	if !cfg.Enabled {
		return nil, nil, ErrSinkDisabled
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("file sink: %w", err)
	}

	path := cfg.Path
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("file sink setup: create log directory %s: %w", dir, err)
		}
	}
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		if unix.Access(path, unix.W_OK) != nil {
			return nil, nil, fmt.Errorf("%w: %s", ErrPathNotWritable, path)
		}
	}
	if dir == "" {
		dir = "."
	}
	if _, err := os.Stat(dir); err == nil {
		if unix.Access(dir, unix.W_OK) != nil {
			return nil, nil, fmt.Errorf("%w: %s", ErrPathNotWritable, dir)
		}
	}
	if err := appendRunSeparator(path); err != nil {
		return nil, nil, fmt.Errorf("file sink setup: %w", err)
	}

	rot, err := openRotating(path, cfg.MaxSize, cfg.BackupCount)
	if err != nil {
		return nil, nil, fmt.Errorf("file sink setup: %w", err)
	}
	writer, err := newEncodedWriter(rot, cfg.Encoding)
	if err != nil {
		rot.Close()
		return nil, nil, fmt.Errorf("file sink setup: %w", err)
	}

	handler := &jsonFileHandler{mu: &sync.Mutex{}, writer: writer}
	return handler, writer, nil
}

// appendRunSeparator writes a single blank line when the log file already
// has content, so successive process runs are easy to tell apart.
func appendRunSeparator(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return nil
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("append run separator to %s: %w", path, err)
	}
	_, werr := file.WriteString("\n")
	if cerr := file.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("append run separator to %s: %w", path, werr)
	}
	return nil
}

// jsonFileHandler writes newline-delimited JSON records, one per log call,
// with the event field first and the timestamp field last.
type jsonFileHandler struct {
	mu     *sync.Mutex
	writer io.Writer
	attrs  []slog.Attr
	groups []string
}

func (h *jsonFileHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *jsonFileHandler) Handle(ctx context.Context, record slog.Record) error {
	fields := gatherFileFields(ctx, record, h.attrs, h.groups)

	var buf bytes.Buffer
	buf.Grow(128 + len(fields)*32)
	appendOrderedJSON(&buf, record.Message, fields, formatTimestamp(record.Time))

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *jsonFileHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *jsonFileHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}
