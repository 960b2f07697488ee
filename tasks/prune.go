package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/saasgate/pkg/logger"
)

// PruneActivityTask is the registered name of the activity pruning task.
const PruneActivityTask = "prune_activity"

// Pruner deletes activity entries older than a cutoff.
type Pruner interface {
	PruneActivity(ctx context.Context, before time.Time) (int64, error)
}

// PruneActivity periodically deletes activity entries older than the
// retention period.
type PruneActivity struct {
	store     Pruner
	logger    *slog.Logger
	now       func() time.Time
	schedule  string
	retention time.Duration
}

// PruneOption configures PruneActivity.
type PruneOption func(*PruneActivity)

// WithPruneLogger sets the logger.
func WithPruneLogger(l *slog.Logger) PruneOption {
	return func(p *PruneActivity) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithPruneClock overrides the time source.
func WithPruneClock(now func() time.Time) PruneOption {
	return func(p *PruneActivity) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPruneActivity creates the task. schedule is a cron expression.
func NewPruneActivity(store Pruner, schedule string, retention time.Duration, opts ...PruneOption) *PruneActivity {
	p := &PruneActivity{
		store:     store,
		logger:    logger.NewNope(),
		now:       time.Now,
		schedule:  schedule,
		retention: retention,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *PruneActivity) Name() string     { return PruneActivityTask }
func (p *PruneActivity) Schedule() string { return p.schedule }

func (p *PruneActivity) Handle(ctx context.Context) error {
	cutoff := p.now().Add(-p.retention)
	n, err := p.store.PruneActivity(ctx, cutoff)
	if err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "activity pruned",
		slog.Int64("deleted", n),
		slog.Time("before", cutoff),
	)
	return nil
}
