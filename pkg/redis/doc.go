// Package redis connects the engine to a Redis server for event broadcasting.
//
// The package wraps the go-redis client and adds:
//
//   - Connect, which dials with retries using the supplied configuration.
//   - A health check helper for liveness and readiness endpoints.
//
// Configuration is described by the Config struct whose fields can be
// populated from environment variables via github.com/caarlos0/env.
//
// # Usage
//
// Import the package:
//
//	import "github.com/dmitrymomot/statekit/pkg/redis"
//
// Create configuration (most projects rely on env parsing):
//
//	cfg := redis.Config{
//	    ConnectionURL:  "redis://localhost:6379/0",
//	    RetryAttempts:  3,
//	    RetryInterval:  5 * time.Second,
//	    ConnectTimeout: 30 * time.Second,
//	    Channel:        "statekit:transitions",
//	}
//
// Connect and wire the client into the transition event broadcaster:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	broadcaster := events.NewRedisBroadcaster(client, events.WithChannel(cfg.Channel))
//	broadcaster.Attach(dispatcher)
//
// The returned client is a *redis.Client from go-redis and can be used
// directly for any other Redis operation.
package redis
