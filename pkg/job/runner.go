package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"

	"github.com/dmitrymomot/saasgate/pkg/logger"
)

const defaultMaxWorkers = 10

// Task outcomes reported to an Observer.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Observer receives the outcome of every executed task.
// *metrics.Metrics satisfies it.
type Observer interface {
	JobDone(task, result string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) JobDone(string, string, time.Duration) {}

type config struct {
	handlers   map[string]handler
	queues     map[string]int
	logger     *slog.Logger
	observer   Observer
	periodic   []PeriodicTask
	errs       []error
	maxWorkers int
}

func (c *config) register(name string, h handler) {
	if _, ok := c.handlers[name]; ok {
		c.errs = append(c.errs, fmt.Errorf("%w: %s", ErrDuplicateTask, name))
		return
	}
	c.handlers[name] = h
}

// Option configures a Runner.
type Option func(*config)

// WithTask registers a task. The payload type is inferred from the task's
// Handle method.
func WithTask[P any, T interface {
	Name() string
	Handle(context.Context, P) error
}](task T) Option {
	return func(c *config) {
		c.register(task.Name(), typed[P](task))
	}
}

// WithPeriodicTask registers a task run on its cron schedule.
func WithPeriodicTask(task PeriodicTask) Option {
	return func(c *config) {
		c.register(task.Name(), periodic(task))
		c.periodic = append(c.periodic, task)
	}
}

// WithQueue adds a named queue served by the given number of workers.
func WithQueue(name string, workers int) Option {
	return func(c *config) {
		if name != "" && workers > 0 {
			c.queues[name] = workers
		}
	}
}

// WithMaxWorkers sets the worker count of the default queue.
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}

// WithLogger sets the logger. Defaults to a noop logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver reports task outcomes to o.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observer = o
		}
	}
}

// Runner enqueues tasks into PostgreSQL through River and executes them.
// Tasks can be enqueued before Start; they run once the runner is started.
type Runner struct {
	pool     *pgxpool.Pool
	client   *river.Client[pgx.Tx]
	handlers map[string]handler
	logger   *slog.Logger
	observer Observer

	mu      sync.Mutex
	started bool
}

// NewRunner creates a runner over pool with the registered tasks.
func NewRunner(pool *pgxpool.Pool, opts ...Option) (*Runner, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}

	cfg := &config{
		handlers:   make(map[string]handler),
		queues:     make(map[string]int),
		logger:     logger.NewNope(),
		observer:   nopObserver{},
		maxWorkers: defaultMaxWorkers,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if len(cfg.errs) > 0 {
		return nil, errors.Join(cfg.errs...)
	}

	r := &Runner{
		pool:     pool,
		handlers: cfg.handlers,
		logger:   cfg.logger,
		observer: cfg.observer,
	}

	queues := map[string]river.QueueConfig{
		river.QueueDefault: {MaxWorkers: cfg.maxWorkers},
	}
	for name, n := range cfg.queues {
		queues[name] = river.QueueConfig{MaxWorkers: n}
	}

	periodicJobs := make([]*river.PeriodicJob, 0, len(cfg.periodic))
	for _, task := range cfg.periodic {
		schedule, err := ParseSchedule(task.Schedule())
		if err != nil {
			return nil, fmt.Errorf("job: task %s: %w", task.Name(), err)
		}
		name := task.Name()
		periodicJobs = append(periodicJobs, river.NewPeriodicJob(
			schedule,
			func() (river.JobArgs, *river.InsertOpts) {
				return taskArgs{Task: name}, nil
			},
			&river.PeriodicJobOpts{},
		))
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &worker{runner: r})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues:       queues,
		Workers:      workers,
		PeriodicJobs: periodicJobs,
		Logger:       cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("job: create client: %w", err)
	}
	r.client = client

	return r, nil
}

// Enqueue inserts a job for the named task.
func (r *Runner) Enqueue(ctx context.Context, name string, payload any, opts ...InsertOption) error {
	args, insert, err := r.prepare(name, payload, opts...)
	if err != nil {
		return err
	}
	if _, err := r.client.Insert(ctx, args, insert); err != nil {
		return fmt.Errorf("job: enqueue %s: %w", name, err)
	}
	return nil
}

// EnqueueTx inserts a job inside tx. The job becomes visible to workers
// only when tx commits.
func (r *Runner) EnqueueTx(ctx context.Context, tx pgx.Tx, name string, payload any, opts ...InsertOption) error {
	args, insert, err := r.prepare(name, payload, opts...)
	if err != nil {
		return err
	}
	if _, err := r.client.InsertTx(ctx, tx, args, insert); err != nil {
		return fmt.Errorf("job: enqueue %s: %w", name, err)
	}
	return nil
}

func (r *Runner) prepare(name string, payload any, opts ...InsertOption) (taskArgs, *river.InsertOpts, error) {
	if _, ok := r.handlers[name]; !ok {
		return taskArgs{}, nil, fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}
	return buildInsert(name, payload, opts...)
}

// Start begins working jobs. The client outlives ctx's cancellation and is
// stopped with Stop.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return ErrAlreadyStarted
	}
	if err := r.client.Start(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("job: start client: %w", err)
	}
	r.started = true
	r.logger.InfoContext(ctx, "job runner started", slog.Int("tasks", len(r.handlers)))
	return nil
}

// Stop waits for running jobs to finish or ctx to expire.
func (r *Runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return ErrNotStarted
	}
	if err := r.client.Stop(ctx); err != nil {
		return fmt.Errorf("job: stop client: %w", err)
	}
	r.started = false
	r.logger.InfoContext(ctx, "job runner stopped")
	return nil
}

// Healthcheck returns a readiness check that fails while the runner is
// stopped or its database is unreachable.
func (r *Runner) Healthcheck() func(context.Context) error {
	return func(ctx context.Context) error {
		r.mu.Lock()
		started := r.started
		r.mu.Unlock()

		if !started {
			return errors.Join(ErrHealthcheckFailed, ErrNotStarted)
		}
		if err := r.pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// execute runs one task by name and reports its outcome.
func (r *Runner) execute(ctx context.Context, name string, raw json.RawMessage, attempt int) error {
	h, ok := r.handlers[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}

	start := time.Now()
	err := h(ctx, raw)
	elapsed := time.Since(start)

	if err != nil {
		r.observer.JobDone(name, ResultError, elapsed)
		r.logger.ErrorContext(ctx, "task failed",
			slog.String("task", name),
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)
		return err
	}

	r.observer.JobDone(name, ResultSuccess, elapsed)
	r.logger.DebugContext(ctx, "task completed",
		slog.String("task", name),
		slog.Duration("elapsed", elapsed),
	)
	return nil
}

type worker struct {
	river.WorkerDefaults[taskArgs]
	runner *Runner
}

func (w *worker) Work(ctx context.Context, j *river.Job[taskArgs]) error {
	return w.runner.execute(ctx, j.Args.Task, j.Args.Payload, j.Attempt)
}

// Migrate creates or upgrades River's queue tables.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	if pool == nil {
		return ErrPoolRequired
	}
	if log == nil {
		log = logger.NewNope()
	}

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), &rivermigrate.Config{Logger: log})
	if err != nil {
		return errors.Join(ErrMigrate, err)
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return errors.Join(ErrMigrate, err)
	}
	log.InfoContext(ctx, "queue tables migrated", slog.Int("applied", len(res.Versions)))
	return nil
}
