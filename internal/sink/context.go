package sink

import (
	"context"
	"log/slog"
)

type fieldsKey struct{}

// ContextWithFields returns a context carrying the given attributes. Fields
// accumulate: binding on a context that already carries fields appends to a
// copy, leaving the parent context untouched.
func ContextWithFields(ctx context.Context, attrs ...slog.Attr) context.Context {
	if len(attrs) == 0 {
		return ctx
	}
	existing := FieldsFromContext(ctx)
	merged := make([]slog.Attr, 0, len(existing)+len(attrs))
	merged = append(merged, existing...)
	merged = append(merged, attrs...)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// FieldsFromContext extracts attributes previously bound with
// ContextWithFields. The result must not be mutated.
func FieldsFromContext(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	attrs, _ := ctx.Value(fieldsKey{}).([]slog.Attr)
	return attrs
}
