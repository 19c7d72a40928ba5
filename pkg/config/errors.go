package config

import "errors"

var (
	// ErrParsingConfig wraps env.Parse failures, including missing required
	// variables.
	ErrParsingConfig = errors.New("config: failed to parse environment variables")

	// ErrInvalidConfigType is returned when a cached value cannot be
	// asserted back to the requested type.
	ErrInvalidConfigType = errors.New("config: invalid config type")

	// ErrConfigNotLoaded is returned when a config is read before any Load
	// succeeded for its type.
	ErrConfigNotLoaded = errors.New("config: configuration has not been loaded")

	// ErrNilPointer is returned when Load is given a nil destination.
	ErrNilPointer = errors.New("config: nil pointer provided to loader")
)
