// Package repository is the PostgreSQL data layer: users, teams with their
// members, and the per-user activity log.
//
// Queries are plain SQL over pgx. Postgres works on a *pgxpool.Pool or a
// pgx.Tx. The schema ships as embedded goose migrations:
//
//	if err := db.Migrate(ctx, pool, repository.Migrations(), cfg.MigrationsTable, log); err != nil {
//	    return err
//	}
//	store := repository.NewCached(repository.NewPostgres(pool), cache.NewMemory[repository.User](), 5*time.Minute)
//
// CreateUserWithTeam accepts TxHook functions that run inside the sign-up
// transaction, which is how the welcome email job is enqueued atomically
// with the new account.
package repository
