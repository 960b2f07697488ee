package job

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/riverqueue/river"
)

// InsertOption configures a single enqueued job.
type InsertOption func(*river.InsertOpts)

// InQueue routes the job to a named queue.
func InQueue(name string) InsertOption {
	return func(o *river.InsertOpts) {
		if name != "" {
			o.Queue = name
		}
	}
}

// After delays the job by d.
func After(d time.Duration) InsertOption {
	return func(o *river.InsertOpts) {
		if d > 0 {
			o.ScheduledAt = time.Now().Add(d)
		}
	}
}

// MaxAttempts caps retries of the job.
func MaxAttempts(n int) InsertOption {
	return func(o *river.InsertOpts) {
		if n > 0 {
			o.MaxAttempts = n
		}
	}
}

// UniqueFor drops duplicates of the same task and payload inserted within d.
func UniqueFor(d time.Duration) InsertOption {
	return func(o *river.InsertOpts) {
		if d > 0 {
			o.UniqueOpts = river.UniqueOpts{ByArgs: true, ByPeriod: d}
		}
	}
}

// taskArgs is the single river job kind every task is carried by.
type taskArgs struct {
	Task    string          `json:"task"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (taskArgs) Kind() string { return "saasgate.task" }

func buildInsert(name string, payload any, opts ...InsertOption) (taskArgs, *river.InsertOpts, error) {
	args := taskArgs{Task: name}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return taskArgs{}, nil, fmt.Errorf("job: marshal %s payload: %w", name, err)
		}
		args.Payload = raw
	}

	insert := &river.InsertOpts{}
	for _, opt := range opts {
		opt(insert)
	}
	return args, insert, nil
}
