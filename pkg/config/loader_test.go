package config_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/statekit/pkg/config"
)

type HistorySettings struct {
	Enabled      bool          `env:"STATEKIT_TEST_HISTORY_ENABLED" envDefault:"true"`
	BatchSize    int           `env:"STATEKIT_TEST_HISTORY_BATCH" envDefault:"100"`
	BatchTimeout time.Duration `env:"STATEKIT_TEST_HISTORY_TIMEOUT" envDefault:"100ms"`
}

type EngineSettings struct {
	CancelReason string `env:"STATEKIT_TEST_CANCEL_REASON" envDefault:"transition cancelled by listener"`
}

type BroadcastSettings struct {
	Channel string `env:"STATEKIT_TEST_BROADCAST_CHANNEL" envDefault:"statekit:transitions"`
}

type EventSettings struct {
	Enabled bool `env:"STATEKIT_TEST_EVENTS_ENABLED" envDefault:"true"`
}

type PermissionSettings struct {
	Enabled bool `env:"STATEKIT_TEST_PERMISSION_ENABLED" envDefault:"true"`
}

type StorageSettings struct {
	DSN string `env:"STATEKIT_TEST_STORAGE_DSN,required"`
}

func TestLoad_Success(t *testing.T) {
	t.Setenv("STATEKIT_TEST_HISTORY_ENABLED", "false")
	t.Setenv("STATEKIT_TEST_HISTORY_BATCH", "250")
	t.Setenv("STATEKIT_TEST_HISTORY_TIMEOUT", "2s")

	var cfg HistorySettings
	err := config.Load(&cfg)

	require.NoError(t, err, "Load should not return an error with valid environment variables")
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 250, cfg.BatchSize)
	assert.Equal(t, 2*time.Second, cfg.BatchTimeout)
}

func TestLoad_DefaultValues(t *testing.T) {
	os.Unsetenv("STATEKIT_TEST_CANCEL_REASON")

	var cfg EngineSettings
	err := config.Load(&cfg)

	require.NoError(t, err, "Load should not return an error when using default values")
	assert.Equal(t, "transition cancelled by listener", cfg.CancelReason)
}

func TestLoad_MissingRequired(t *testing.T) {
	os.Unsetenv("STATEKIT_TEST_STORAGE_DSN")

	var cfg StorageSettings
	err := config.Load(&cfg)

	require.Error(t, err, "Load should return an error when a required value is missing")
	assert.True(t, errors.Is(err, config.ErrParsingConfig), "Error should be ErrParsingConfig")
}

func TestLoad_Singleton(t *testing.T) {
	t.Setenv("STATEKIT_TEST_BROADCAST_CHANNEL", "statekit:first")

	var first BroadcastSettings
	err := config.Load(&first)
	require.NoError(t, err, "First load should not return an error")

	// Change environment variable to verify caching behavior
	t.Setenv("STATEKIT_TEST_BROADCAST_CHANNEL", "statekit:second")

	var second BroadcastSettings
	err = config.Load(&second)
	require.NoError(t, err, "Second load should not return an error")

	assert.Equal(t, first.Channel, second.Channel,
		"Both configs should have the same value due to singleton pattern")
	assert.Equal(t, "statekit:first", second.Channel,
		"Second config should have the first value due to caching")
}

func TestLoad_DifferentTypes(t *testing.T) {
	t.Setenv("STATEKIT_TEST_EVENTS_ENABLED", "false")
	t.Setenv("STATEKIT_TEST_PERMISSION_ENABLED", "false")

	var eventsCfg EventSettings
	err := config.Load(&eventsCfg)
	require.NoError(t, err, "Loading first config type should not error")

	var permCfg PermissionSettings
	err = config.Load(&permCfg)
	require.NoError(t, err, "Loading second config type should not error")

	assert.False(t, eventsCfg.Enabled, "First config should have its own value")
	assert.False(t, permCfg.Enabled, "Second config should have its own value")
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *HistorySettings = nil
	err := config.Load(cfg)

	require.Error(t, err, "Load should return an error when given a nil pointer")
	assert.ErrorIs(t, err, config.ErrNilPointer, "Error should be ErrNilPointer")
}
