// Package config provides a type-safe, generic and cached way to load
// application configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`
// to deliver an API that:
//
//   - Loads values from one or multiple `.env` files (fallback to the default
//     `.env` in the current working directory).
//   - Parses the environment into any Go struct using field tags.
//   - Caches each successfully loaded configuration type so it is only parsed
//     once for the lifetime of the process.
//   - Exposes helpers that panic on failure (`MustLoadEnv`, `MustLoad`) for
//     scenarios where configuration is critical.
//   - Allows explicit cache reset or force reload which is handy in tests.
//
// # Architecture
//
// Internally the package keeps a singleton `configCache` that stores parsed
// struct copies keyed by their fully-qualified type name. Each key also holds a
// `sync.Once` instance guaranteeing the expensive parsing work is executed at
// most once per configuration type even when accessed from multiple goroutines
// concurrently.
//
// The exported helpers interact with the cache in a thread-safe manner using
// `sync.RWMutex`, while low-level parsing is delegated to `env.Parse`.
//
// # Usage
//
// Describe a configuration struct and annotate its fields with `env` tags.
// The transition engine's own runtime switches follow this shape:
//
//	type RuntimeConfig struct {
//	    HistoryEnabled   bool          `env:"STATEKIT_HISTORY_ENABLED" envDefault:"true"`
//	    FailureHistory   bool          `env:"STATEKIT_FAILURE_HISTORY" envDefault:"false"`
//	    EventBufferSize  int           `env:"STATEKIT_EVENT_BUFFER" envDefault:"256"`
//	    ShutdownTimeout  time.Duration `env:"STATEKIT_SHUTDOWN_TIMEOUT" envDefault:"5s"`
//	}
//
// Load the default `.env` file (optional) then populate the struct:
//
//	import "github.com/dmitrymomot/statekit/pkg/config"
//
//	func main() {
//	    // Optionally load one or many custom .env files before parsing.
//	    if err := config.LoadEnv("./config/.env"); err != nil {
//	        log.Fatalf("loading env: %v", err)
//	    }
//
//	    var cfg RuntimeConfig
//	    if err := config.Load(&cfg); err != nil {
//	        log.Fatalf("parsing env: %v", err)
//	    }
//
//	    // cfg is now populated and cached for future calls.
//	}
//
// Subsequent calls to `config.Load(&cfg)` are served from the in-memory cache
// without re-parsing.
//
// # Error Handling
//
// The package defines sentinel errors that can be compared with `errors.Is`:
//
//   - `ErrParsingConfig`: failed to parse env vars into a struct.
//   - `ErrInvalidConfigType`: provided value is not a pointer to a struct.
//   - `ErrConfigNotLoaded`: requested config type has not been loaded yet.
//   - `ErrNilPointer`: nil pointer passed to `Load` or `MustLoad`.
//
// # Testing Helpers
//
// Use `ResetCache()` to clear the global cache between tests or
// `ForceReloadConfig(&cfg)` to reload a particular struct after the process
// environment changes.
package config
