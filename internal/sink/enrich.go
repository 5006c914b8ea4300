package sink

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// LoggerKey is the attribute key carrying the originating logger's name.
// The registry injects it as the first handler-bound attribute; sinks hoist
// it out of the ordinary field stream.
const LoggerKey = "logger"

const timestampLayout = "2006-01-02 15:04:05"

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		ts = time.Now()
	}
	return ts.In(time.Local).Format(timestampLayout)
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError+4:
		return "CRITICAL"
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARNING"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// StackTrace is a captured call stack, one frame per entry.
type StackTrace []string

// CaptureStack records the current call stack, skipping the given number of
// frames above CaptureStack itself.
func CaptureStack(skip int) StackTrace {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs[:n])
	trace := make(StackTrace, 0, n)
	for {
		frame, more := frames.Next()
		if frame.Function != "" {
			trace = append(trace, fmt.Sprintf("%s (%s:%d)", frame.Function, frame.File, frame.Line))
		}
		if !more {
			break
		}
	}
	return trace
}

type field struct {
	key   string
	value slog.Value
}

// gatherFields flattens context-bound fields, handler-bound attributes, and
// call-site attributes into one ordered list. Context fields come first,
// matching the enrichment order shared by all sinks. Group names become
// dotted key prefixes. A repeated key keeps its first position but takes the
// latest value.
func gatherFields(ctx context.Context, record slog.Record, bound []slog.Attr, groups []string) []field {
	fields := make([]field, 0, record.NumAttrs()+len(bound)+4)
	index := make(map[string]int, cap(fields))

	put := func(f field) {
		if f.key == "" {
			return
		}
		if at, ok := index[f.key]; ok {
			fields[at] = f
			return
		}
		index[f.key] = len(fields)
		fields = append(fields, f)
	}

	for _, attr := range FieldsFromContext(ctx) {
		flattenAttr(put, nil, attr)
	}
	for _, attr := range bound {
		flattenAttr(put, groups, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(put, groups, attr)
		return true
	})
	return fields
}

// gatherFileFields builds the field list for the JSON file sink in the
// shared enrichment order: context fields, logger name, level, then bound
// and call-site attributes.
func gatherFileFields(ctx context.Context, record slog.Record, bound []slog.Attr, groups []string) []field {
	fields := make([]field, 0, record.NumAttrs()+len(bound)+6)
	index := make(map[string]int, cap(fields))

	put := func(f field) {
		if f.key == "" {
			return
		}
		if at, ok := index[f.key]; ok {
			fields[at] = f
			return
		}
		index[f.key] = len(fields)
		fields = append(fields, f)
	}

	for _, attr := range FieldsFromContext(ctx) {
		flattenAttr(put, nil, attr)
	}
	logger, rest := splitLogger(bound)
	if logger != "" {
		put(field{key: LoggerKey, value: slog.StringValue(logger)})
	}
	put(field{key: "level", value: slog.StringValue(strings.ToLower(levelLabel(record.Level)))})
	for _, attr := range rest {
		flattenAttr(put, groups, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(put, groups, attr)
		return true
	})
	return fields
}

// splitLogger pulls the registry-injected logger-name attribute out of the
// handler-bound attributes.
func splitLogger(attrs []slog.Attr) (string, []slog.Attr) {
	for i, attr := range attrs {
		if attr.Key == LoggerKey {
			name := attrText(attr.Value)
			return name, append(attrs[:i:i], attrs[i+1:]...)
		}
	}
	return "", attrs
}

func flattenAttr(put func(field), prefix []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		next := prefix
		if attr.Key != "" {
			next = append(append([]string(nil), prefix...), attr.Key)
		}
		for _, member := range attr.Value.Group() {
			flattenAttr(put, next, member)
		}
		return
	}
	key := attr.Key
	if len(prefix) > 0 {
		key = strings.Join(prefix, ".") + "." + key
	}
	put(field{key: key, value: attr.Value})
}

// hoistLogger removes the logger-name field from the list and returns it
// separately.
func hoistLogger(fields []field) (string, []field) {
	for i, f := range fields {
		if f.key == LoggerKey {
			name := attrText(f.value)
			return name, append(fields[:i:i], fields[i+1:]...)
		}
	}
	return "", fields
}

func attrText(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return formatValue(v)
	}
}

func formatValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return maybeQuote(v.String())
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return formatTimestamp(v.Time())
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return maybeQuote(err.Error())
		}
		return maybeQuote(fmt.Sprint(v.Any()))
	default:
		return maybeQuote(v.String())
	}
}

func errorTypeLine(err error) string {
	return fmt.Sprintf("%T: %s", err, err)
}

func maybeQuote(s string) string {
	if s == "" {
		return `""`
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' {
			return strconv.Quote(s)
		}
	}
	return s
}
