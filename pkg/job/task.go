package job

import (
	"context"
	"encoding/json"
	"errors"
)

// Task is a named unit of background work with a typed payload.
type Task[P any] interface {
	Name() string
	Handle(ctx context.Context, payload P) error
}

// PeriodicTask runs on a cron schedule without a payload.
// Schedule returns a five-field cron expression.
type PeriodicTask interface {
	Name() string
	Schedule() string
	Handle(ctx context.Context) error
}

// handler is a task with its payload type erased.
type handler func(ctx context.Context, raw json.RawMessage) error

func typed[P any](t Task[P]) handler {
	return func(ctx context.Context, raw json.RawMessage) error {
		var payload P
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &payload); err != nil {
				return errors.Join(ErrInvalidPayload, err)
			}
		}
		return t.Handle(ctx, payload)
	}
}

func periodic(t PeriodicTask) handler {
	return func(ctx context.Context, _ json.RawMessage) error {
		return t.Handle(ctx)
	}
}
