// Package pg provides utilities for interacting with PostgreSQL using the
// pgx/v5 driver. It offers a thin abstraction around connection pooling,
// migrations, health checks, and common error helpers so that applications can
// bootstrap a resilient database layer with only a few lines of code.
//
// The package keeps a very small API surface while relying on pgx/v5 for
// connectivity and goose/v3 for schema migrations, so callers are never
// locked-in and can freely extend the behaviour where needed.
//
// # Usage
//
// Basic set-up using the default configuration:
//
//	package main
//
//	import (
//	    "context"
//	    "log/slog"
//
//	    "github.com/caarlos0/env/v11"
//
//	    "github.com/dmitrymomot/statekit/pkg/history"
//	    "github.com/dmitrymomot/statekit/pkg/pg"
//	)
//
//	func main() {
//	    var cfg pg.Config
//	    if err := env.Parse(&cfg); err != nil {
//	        panic(err)
//	    }
//
//	    ctx := context.Background()
//	    pool, err := pg.Connect(ctx, cfg)
//	    if err != nil {
//	        panic(err)
//	    }
//	    defer pool.Close()
//
//	    if err := pg.MigrateFS(ctx, pool, history.Migrations, history.MigrationsDir, cfg, slog.Default()); err != nil {
//	        panic(err)
//	    }
//
//	    // expose health endpoint
//	    health := pg.Healthcheck(pool)
//	    if err := health(ctx); err != nil {
//	        panic(err)
//	    }
//	}
//
// # Configuration
//
// All configuration values are provided through environment variables so that
// they can be tuned per-environment without code changes. Refer to the field
// tags in Config for exact variable names and defaults.
//
// # Error Handling
//
// Convenience helpers such as [pg.IsDuplicateKeyError] or
// [pg.IsForeignKeyViolationError] unwrap errors returned by pgx/
// `*pgconn.PgError` and make error classification trivial inside storage
// code.
package pg
