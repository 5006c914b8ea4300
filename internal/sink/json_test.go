package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestOrderedJSONPlacesEventFirstTimestampLast(t *testing.T) {
	var buf bytes.Buffer
	fields := []field{
		{key: "logger", value: slog.StringValue("app")},
		{key: "level", value: slog.StringValue("info")},
		{key: "status", value: slog.IntValue(200)},
	}
	appendOrderedJSON(&buf, "request served", fields, "2026-01-02 03:04:05")

	line := strings.TrimSpace(buf.String())
	want := `{"event":"request served","logger":"app","level":"info","status":200,"timestamp":"2026-01-02 03:04:05"}`
	if line != want {
		t.Fatalf("record = %s\nwant     %s", line, want)
	}
}

func TestOrderedJSONSkipsReservedFieldKeys(t *testing.T) {
	var buf bytes.Buffer
	fields := []field{
		{key: "event", value: slog.StringValue("spoofed")},
		{key: "timestamp", value: slog.StringValue("never")},
		{key: "ok", value: slog.BoolValue(true)},
	}
	appendOrderedJSON(&buf, "real event", fields, "2026-01-02 03:04:05")

	line := buf.String()
	if strings.Contains(line, "spoofed") || strings.Contains(line, "never") {
		t.Fatalf("reserved keys leaked through: %s", line)
	}
	if strings.Count(line, `"event"`) != 1 || strings.Count(line, `"timestamp"`) != 1 {
		t.Fatalf("duplicate reserved keys: %s", line)
	}
}

func TestOrderedJSONEscapesKeysAndValues(t *testing.T) {
	var buf bytes.Buffer
	fields := []field{
		{key: `quo"ted`, value: slog.StringValue("line\nbreak")},
	}
	appendOrderedJSON(&buf, `say "hi"`, fields, "2026-01-02 03:04:05")

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if record["event"] != `say "hi"` {
		t.Fatalf("event = %v", record["event"])
	}
	if record[`quo"ted`] != "line\nbreak" {
		t.Fatalf("field = %v", record[`quo"ted`])
	}
}

func TestValueForJSONKinds(t *testing.T) {
	cases := []struct {
		name  string
		value slog.Value
		want  any
	}{
		{"string", slog.StringValue("x"), "x"},
		{"bool", slog.BoolValue(true), true},
		{"int", slog.Int64Value(-7), int64(-7)},
		{"uint", slog.Uint64Value(7), uint64(7)},
		{"float", slog.Float64Value(1.5), 1.5},
		{"duration", slog.DurationValue(1500 * time.Millisecond), "1.5s"},
	}
	for _, tc := range cases {
		if got := valueForJSON(tc.value); got != tc.want {
			t.Errorf("%s: got %v (%T), want %v", tc.name, got, got, tc.want)
		}
	}
}

func TestValueForJSONGroupBecomesObject(t *testing.T) {
	v := slog.GroupValue(slog.String("method", "GET"), slog.Int("status", 200))
	got, ok := valueForJSON(v).(map[string]any)
	if !ok {
		t.Fatalf("group rendered as %T", valueForJSON(v))
	}
	if got["method"] != "GET" || got["status"] != int64(200) {
		t.Fatalf("group = %v", got)
	}
}

func TestStructuredErrorIncludesTypeAndCauseChain(t *testing.T) {
	root := errors.New("disk full")
	mid := fmt.Errorf("flush failed: %w", root)
	top := fmt.Errorf("shutdown aborted: %w", mid)

	got := structuredError(top)
	if got["type"] != "fmt.wrapError" {
		t.Fatalf("type = %v", got["type"])
	}
	if got["message"] != "shutdown aborted: flush failed: disk full" {
		t.Fatalf("message = %v", got["message"])
	}
	chain, ok := got["cause"].([]string)
	if !ok {
		t.Fatalf("cause = %T", got["cause"])
	}
	if len(chain) != 2 || chain[0] != "flush failed: disk full" || chain[1] != "disk full" {
		t.Fatalf("cause chain = %v", chain)
	}
}

func TestStructuredErrorWithoutCause(t *testing.T) {
	got := structuredError(errors.New("plain"))
	if _, present := got["cause"]; present {
		t.Fatalf("unexpected cause for unwrapped error: %v", got)
	}
	if got["type"] != "errors.errorString" {
		t.Fatalf("type = %v", got["type"])
	}
}

func TestAnyForJSONStackTrace(t *testing.T) {
	trace := StackTrace{"a (x.go:1)", "b (y.go:2)"}
	got, ok := anyForJSON(trace).([]string)
	if !ok || len(got) != 2 {
		t.Fatalf("stack rendered as %T", anyForJSON(trace))
	}
}

func TestGatherFieldsDeduplicatesKeepingFirstPosition(t *testing.T) {
	record := slog.NewRecord(time.Now(), slog.LevelInfo, "evt", 0)
	record.AddAttrs(slog.String("env", "prod"), slog.String("region", "eu"))
	bound := []slog.Attr{slog.String("env", "dev"), slog.String("host", "web-1")}

	fields := gatherFields(context.Background(), record, bound, nil)
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	if len(fields) != 3 || keys[0] != "env" || keys[1] != "host" || keys[2] != "region" {
		t.Fatalf("keys = %v", keys)
	}
	// Latest write wins while position stays put.
	if fields[0].value.String() != "prod" {
		t.Fatalf("env = %s, want prod", fields[0].value.String())
	}
}
