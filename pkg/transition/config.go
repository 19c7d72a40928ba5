package transition

import (
	"github.com/dmitrymomot/statekit/pkg/config"
)

// RuntimeConfig carries the feature switches the executor consults at run
// time. Constructed at startup, loaded from the environment through the
// config package, and injected into the executor; there is no ambient
// global configuration.
type RuntimeConfig struct {
	// HistoryEnabled writes a history record per successful transition.
	HistoryEnabled bool `env:"STATEKIT_HISTORY_ENABLED" envDefault:"true"`
	// FailureHistoryEnabled also records failed transition attempts.
	FailureHistoryEnabled bool `env:"STATEKIT_FAILURE_HISTORY_ENABLED" envDefault:"false"`
	// EventsEnabled emits lifecycle events through the dispatcher.
	EventsEnabled bool `env:"STATEKIT_EVENTS_ENABLED" envDefault:"true"`
	// PermissionEnabled consults the permission checker for performers.
	PermissionEnabled bool `env:"STATEKIT_PERMISSION_ENABLED" envDefault:"true"`
	// AllowSameState permits transitions whose from and to states are equal
	// even without a self-loop edge.
	AllowSameState bool `env:"STATEKIT_ALLOW_SAME_STATE" envDefault:"false"`
	// DefaultCancelReason is used when a pre-event listener cancels without
	// giving a reason.
	DefaultCancelReason string `env:"STATEKIT_DEFAULT_CANCEL_REASON" envDefault:"transition cancelled by listener"`
}

// LoadRuntimeConfig parses the runtime configuration from STATEKIT_*
// environment variables through the config package's cached loader.
func LoadRuntimeConfig() (RuntimeConfig, error) {
	var cfg RuntimeConfig
	if err := config.Load(&cfg); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

// DefaultRuntimeConfig returns the configuration used when none is injected
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		HistoryEnabled:      true,
		EventsEnabled:       true,
		PermissionEnabled:   true,
		DefaultCancelReason: "transition cancelled by listener",
	}
}

// Reset restores the zero-value-with-defaults configuration. Test harness
// helper; production code constructs a config once and keeps it.
func (c *RuntimeConfig) Reset() {
	*c = DefaultRuntimeConfig()
}
