package logger

import (
	"context"
	"log/slog"
	"slices"
)

// ContextExtractor extracts a slog attribute from context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// decorator injects context-extracted attributes into every record.
type decorator struct {
	next       slog.Handler
	extractors []ContextExtractor
}

// NewLogHandlerDecorator wraps next so that every record carries the
// attributes produced by extractors. Nil extractors are dropped.
func NewLogHandlerDecorator(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	clean := slices.DeleteFunc(slices.Clone(extractors), func(ex ContextExtractor) bool {
		return ex == nil
	})
	if len(clean) == 0 {
		return next
	}
	return &decorator{next: next, extractors: clean}
}

func (h *decorator) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *decorator) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *decorator) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &decorator{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *decorator) WithGroup(name string) slog.Handler {
	return &decorator{next: h.next.WithGroup(name), extractors: h.extractors}
}
