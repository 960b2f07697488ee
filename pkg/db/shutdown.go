package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Shutdown returns a shutdown hook that closes the pool.
//
//	saasgate.ShutdownHook(db.Shutdown(pool))
func Shutdown(pool *pgxpool.Pool) func(context.Context) error {
	return func(context.Context) error {
		pool.Close()
		return nil
	}
}

// Healthcheck returns a readiness check that pings the pool.
func Healthcheck(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
