package redis

import "errors"

var (
	// ErrFailedToParseRedisConnString reports a connection URL go-redis could not parse.
	ErrFailedToParseRedisConnString = errors.New("redis: failed to parse connection string")
	// ErrRedisNotReady reports that the server did not answer a ping within the retry budget.
	ErrRedisNotReady = errors.New("redis: server not ready within the connect timeout")
	// ErrEmptyConnectionURL reports a Config with no ConnectionURL set.
	ErrEmptyConnectionURL = errors.New("redis: empty connection URL")
	// ErrHealthcheckFailed wraps a failed ping from the health check helper.
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
)
