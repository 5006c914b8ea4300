package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// appendOrderedJSON serializes one record as a single JSON object with two
// ordering guarantees: the event field comes first and the timestamp field
// comes last. Everything in between keeps its insertion order.
func appendOrderedJSON(buf *bytes.Buffer, event string, fields []field, timestamp string) {
	buf.WriteByte('{')
	writeJSONMember(buf, "event", event)
	for _, f := range fields {
		if f.key == "event" || f.key == "timestamp" {
			continue
		}
		buf.WriteByte(',')
		writeJSONMember(buf, f.key, valueForJSON(f.value))
	}
	buf.WriteByte(',')
	writeJSONMember(buf, "timestamp", timestamp)
	buf.WriteByte('}')
	buf.WriteByte('\n')
}

func writeJSONMember(buf *bytes.Buffer, key string, value any) {
	keyBytes, err := json.Marshal(key)
	if err != nil {
		keyBytes = []byte(`"?"`)
	}
	buf.Write(keyBytes)
	buf.WriteByte(':')
	valueBytes, err := json.Marshal(value)
	if err != nil {
		valueBytes, _ = json.Marshal(fmt.Sprint(value))
	}
	buf.Write(valueBytes)
}

// valueForJSON converts a slog value into something the JSON encoder
// understands. Errors and stacks stay structured rather than collapsing
// into opaque strings.
func valueForJSON(v slog.Value) any {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindBool:
		return v.Bool()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return formatTimestamp(v.Time())
	case slog.KindGroup:
		members := v.Group()
		group := make(map[string]any, len(members))
		for _, member := range members {
			group[member.Key] = valueForJSON(member.Value)
		}
		return group
	default:
		return anyForJSON(v.Any())
	}
}

func anyForJSON(value any) any {
	switch v := value.(type) {
	case error:
		return structuredError(v)
	case StackTrace:
		return []string(v)
	case json.Marshaler, string, bool, float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return v
	}
}

// structuredError renders an error as nested data: concrete type, message,
// and the cause chain unwrapped one level at a time.
func structuredError(err error) map[string]any {
	out := map[string]any{
		"type":    strings.TrimPrefix(fmt.Sprintf("%T", err), "*"),
		"message": err.Error(),
	}
	var chain []string
	for unwrapped := unwrapOnce(err); unwrapped != nil; unwrapped = unwrapOnce(unwrapped) {
		chain = append(chain, unwrapped.Error())
	}
	if len(chain) > 0 {
		out["cause"] = chain
	}
	return out
}

func unwrapOnce(err error) error {
	u, ok := err.(interface{ Unwrap() error })
	if !ok {
		return nil
	}
	return u.Unwrap()
}
