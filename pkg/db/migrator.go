package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies all pending goose migrations found at the root of migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, table string, log *slog.Logger) error {
	// Shares the pool's connections; closing it would close the pool.
	sqlDB := stdlib.OpenDBFromPool(pool)

	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLogger{log: log.With(slog.String("component", "migrator"))})
	goose.SetTableName(table)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrSetDialect, err)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}
	return nil
}

type gooseLogger struct {
	log *slog.Logger
}

func (g *gooseLogger) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...))
}

// Fatalf logs only; goose returns the error to the caller.
func (g *gooseLogger) Fatalf(format string, args ...any) {
	g.log.Error(fmt.Sprintf(format, args...))
}
