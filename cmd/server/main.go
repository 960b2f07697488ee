// Command server runs the saasgate HTTP server and its job workers.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/saasgate"
	"github.com/dmitrymomot/saasgate/config"
	"github.com/dmitrymomot/saasgate/emails"
	"github.com/dmitrymomot/saasgate/handlers"
	"github.com/dmitrymomot/saasgate/locales"
	"github.com/dmitrymomot/saasgate/middlewares"
	"github.com/dmitrymomot/saasgate/pkg/cache"
	"github.com/dmitrymomot/saasgate/pkg/cookie"
	"github.com/dmitrymomot/saasgate/pkg/db"
	"github.com/dmitrymomot/saasgate/pkg/i18n"
	"github.com/dmitrymomot/saasgate/pkg/job"
	"github.com/dmitrymomot/saasgate/pkg/locale"
	"github.com/dmitrymomot/saasgate/pkg/logger"
	"github.com/dmitrymomot/saasgate/pkg/mailer"
	"github.com/dmitrymomot/saasgate/pkg/mailer/resend"
	"github.com/dmitrymomot/saasgate/pkg/metrics"
	"github.com/dmitrymomot/saasgate/pkg/redis"
	"github.com/dmitrymomot/saasgate/pkg/route"
	"github.com/dmitrymomot/saasgate/pkg/session"
	"github.com/dmitrymomot/saasgate/pkg/token"
	"github.com/dmitrymomot/saasgate/repository"
	"github.com/dmitrymomot/saasgate/tasks"
)

func main() {
	cfg, err := config.Load(config.DefaultEnvFiles...)
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logger, middlewares.RequestIDExtractor(), middlewares.SessionExtractor())

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}

	checks := saasgate.HealthChecks{"postgres": db.Healthcheck(pool)}
	shutdown := []func(context.Context) error{}

	var users cache.Cache[repository.User]
	if cfg.Redis.Enabled() {
		client, err := redis.Open(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		users = cache.NewRedis[repository.User](client, "saasgate:", cfg.App.CacheTTL, cache.JSON[repository.User]{})
		checks["redis"] = redis.Healthcheck(client)
		shutdown = append(shutdown, redis.Shutdown(client))
	} else {
		users = cache.NewMemory[repository.User](cache.WithDefaultTTL(cfg.App.CacheTTL))
	}
	store := repository.NewCached(repository.NewPostgres(pool), users, cfg.App.CacheTTL)

	set, err := cfg.App.LocaleSet()
	if err != nil {
		return err
	}
	catalog, err := i18n.New(set, i18n.WithFS(locales.FS))
	if err != nil {
		return err
	}
	signer, err := token.NewSigner([]byte(cfg.App.SessionSecret))
	if err != nil {
		return err
	}
	m := metrics.New(cfg.App.MetricsNamespace)

	renderer, err := mailer.NewRenderer(emails.FS, set.Default())
	if err != nil {
		return err
	}
	var sender mailer.Sender = mailer.LogSender{Logger: log}
	if cfg.Resend.Enabled() {
		sender = resend.New(cfg.Resend)
	}

	runner, err := job.NewRunner(pool,
		job.WithTask(tasks.NewWelcome(mailer.New(sender, renderer, cfg.Mailer), set, cfg.App.BaseURL)),
		job.WithPeriodicTask(tasks.NewPruneActivity(store, cfg.App.PruneSchedule, cfg.App.ActivityRetention,
			tasks.WithPruneLogger(log),
		)),
		job.WithQueue(tasks.EmailQueue, 2),
		job.WithMaxWorkers(cfg.App.JobWorkers),
		job.WithLogger(log),
		job.WithObserver(m),
	)
	if err != nil {
		return err
	}
	checks["jobs"] = runner.Healthcheck()

	resolver := locale.NewResolver(set)
	app := saasgate.New(
		saasgate.WithLogger(log),
		saasgate.WithHTTPMiddleware(middleware.RealIP),
		saasgate.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Metrics(m),
			middlewares.Recover(),
			middlewares.Gate(
				resolver,
				route.NewClassifier(set, route.WithProtectedPrefix(cfg.App.ProtectedPrefixes...)),
				route.NewMatcher(route.DefaultExcluded...),
				session.NewGuard(signer, session.WithExtension(cfg.App.SessionTTL)),
				middlewares.WithGateObserver(m),
			),
			middlewares.I18n(catalog, middlewares.WithI18nDetector(resolver)),
		),
		saasgate.WithCookieOptions(
			cookie.WithSecure(cfg.App.CookieSecure),
			cookie.WithDomain(cfg.App.CookieDomain),
		),
		saasgate.WithHealthChecks(checks),
		saasgate.WithMetricsHandler(m.Handler()),
		saasgate.WithHandlers(
			handlers.NewPages(set, store),
			handlers.NewAccount(store, signer),
			handlers.NewAuth(store, signer, set,
				handlers.WithSessionTTL(cfg.App.SessionTTL),
				handlers.WithSignInObserver(m),
				handlers.WithWelcomeEmail(runner),
			),
			handlers.NewLocale(set),
		),
	)

	opts := []saasgate.RunOption{
		saasgate.Logger(log),
		saasgate.WithContext(ctx),
		saasgate.ShutdownTimeout(cfg.App.ShutdownTimeout),
		saasgate.StartupHook(migrate(cfg.DB, pool, log)),
		saasgate.StartupHook(runner.Start),
		saasgate.ShutdownHook(runner.Stop),
	}
	for _, fn := range shutdown {
		opts = append(opts, saasgate.ShutdownHook(fn))
	}
	opts = append(opts,
		saasgate.ShutdownHook(db.Shutdown(pool)),
		saasgate.ShutdownHook(flushSentry),
	)

	return app.Run(cfg.App.Addr, opts...)
}

// migrate applies the schema and the queue tables when auto-migration is on.
func migrate(cfg db.Config, pool *pgxpool.Pool, log *slog.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		if !cfg.AutoMigrate {
			return nil
		}
		if err := db.Migrate(ctx, pool, repository.Migrations(), cfg.MigrationsTable, log); err != nil {
			return err
		}
		return job.Migrate(ctx, pool, log)
	}
}

func flushSentry(ctx context.Context) error {
	timeout := 2 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	sentry.Flush(timeout)
	return nil
}
