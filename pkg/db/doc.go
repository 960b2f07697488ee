// Package db connects to PostgreSQL through a pgx pool and applies goose
// migrations.
//
// # Configuration
//
// [Config] is populated from the environment:
//
//	DATABASE_CONN_URL           - PostgreSQL connection URL (required)
//	DATABASE_AUTO_MIGRATE       - Apply migrations at startup (default: true)
//	DATABASE_MIGRATIONS_TABLE   - Migrations table name (default: schema_migrations)
//	DATABASE_MAX_OPEN_CONNS     - Maximum open connections (default: 10)
//	DATABASE_MIN_CONNS          - Minimum idle connections (default: 2)
//	DATABASE_RETRY_ATTEMPTS     - Connection attempts at startup (default: 3)
//	DATABASE_RETRY_INTERVAL     - Base retry interval (default: 5s)
//
// # Usage
//
//	pool, err := db.Connect(ctx, cfg.DB)
//	if err != nil {
//		return err
//	}
//	if err := db.Migrate(ctx, pool, repository.Migrations, cfg.DB.MigrationsTable, log); err != nil {
//		return err
//	}
//
// [Healthcheck] and [Shutdown] plug the pool into readiness checks and
// graceful shutdown. [WithTx] runs a function in a transaction that is rolled
// back on error or panic.
package db
