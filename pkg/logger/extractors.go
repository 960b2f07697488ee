package logger

import (
	"context"
	"fmt"
	"log/slog"
)

// ContextValue returns an extractor that logs the context value stored under
// key as attribute name. Missing and empty values are skipped.
func ContextValue(key any, name string) ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		v := ctx.Value(key)
		if v == nil {
			return slog.Attr{}, false
		}
		var s string
		switch val := v.(type) {
		case string:
			s = val
		case fmt.Stringer:
			s = val.String()
		default:
			s = fmt.Sprint(val)
		}
		if s == "" {
			return slog.Attr{}, false
		}
		return slog.String(name, s), true
	}
}
