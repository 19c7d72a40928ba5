package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/statekit/pkg/redis"
)

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("connects to a running server", func(t *testing.T) {
		t.Parallel()

		srv := miniredis.RunT(t)
		cfg := redis.Config{
			ConnectionURL:  "redis://" + srv.Addr(),
			RetryAttempts:  3,
			RetryInterval:  10 * time.Millisecond,
			ConnectTimeout: 5 * time.Second,
		}

		client, err := redis.Connect(context.Background(), cfg)
		require.NoError(t, err)
		defer client.Close()

		assert.NoError(t, client.Ping(context.Background()).Err())
	})

	t.Run("empty connection string", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Connect(context.Background(), redis.Config{})
		assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	t.Run("invalid connection string", func(t *testing.T) {
		t.Parallel()

		cfg := redis.Config{
			ConnectionURL:  "not-a-redis-url",
			RetryAttempts:  1,
			RetryInterval:  10 * time.Millisecond,
			ConnectTimeout: time.Second,
		}

		_, err := redis.Connect(context.Background(), cfg)
		assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
	})

	t.Run("unreachable server", func(t *testing.T) {
		t.Parallel()

		cfg := redis.Config{
			ConnectionURL:  "redis://127.0.0.1:1", // nothing listens here
			RetryAttempts:  2,
			RetryInterval:  10 * time.Millisecond,
			ConnectTimeout: time.Second,
		}

		_, err := redis.Connect(context.Background(), cfg)
		assert.ErrorIs(t, err, redis.ErrRedisNotReady)
	})
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)
	cfg := redis.Config{
		ConnectionURL:  "redis://" + srv.Addr(),
		RetryAttempts:  1,
		RetryInterval:  10 * time.Millisecond,
		ConnectTimeout: 5 * time.Second,
	}

	client, err := redis.Connect(context.Background(), cfg)
	require.NoError(t, err)
	defer client.Close()

	check := redis.Healthcheck(client)
	assert.NoError(t, check(context.Background()))

	srv.Close()
	assert.ErrorIs(t, check(context.Background()), redis.ErrHealthcheckFailed)
}
