package pg_test

import (
	"context"
	"log"
	"log/slog"

	"github.com/dmitrymomot/statekit/pkg/history"
	"github.com/dmitrymomot/statekit/pkg/pg"
)

// Example shows the startup sequence for a Postgres-backed history store:
// connect, apply the embedded schema, expose a health check.
func Example() {
	ctx := context.Background()

	cfg := pg.Config{ConnectionString: "postgres://localhost:5432/statekit"}
	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	if err := pg.MigrateFS(ctx, pool, history.Migrations, history.MigrationsDir, cfg, slog.Default()); err != nil {
		log.Fatal(err)
	}

	health := pg.Healthcheck(pool)
	if err := health(ctx); err != nil {
		log.Fatal(err)
	}
}
