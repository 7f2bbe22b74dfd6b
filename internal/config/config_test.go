package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"MINESOLVER_MAX_COMPONENT_SIZE", "MINESOLVER_ALLOW_GUESS", "MINESOLVER_ENABLE_SWEEP",
		"MINESOLVER_LOG_LEVEL", "MINESOLVER_LOG_FORMAT",
		"MINESOLVER_CHECKPOINT_DRIVER", "MINESOLVER_CHECKPOINT_DSN",
		"MINESOLVER_DEBUG_HTTP_ADDR", "MINESOLVER_TICK_PERIOD",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Solver.MaxComponentSize)
	assert.True(t, cfg.Solver.AllowGuess)
	assert.True(t, cfg.Solver.EnableSweep)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Empty(t, cfg.Checkpoint.Driver)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MINESOLVER_MAX_COMPONENT_SIZE", "4")
	t.Setenv("MINESOLVER_ALLOW_GUESS", "false")
	t.Setenv("MINESOLVER_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Solver.MaxComponentSize)
	assert.False(t, cfg.Solver.AllowGuess)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate_RejectsBadLogLevel(t *testing.T) {
	cfg := &Config{
		Solver:     SolverConfig{MaxComponentSize: 1},
		Logging:    LoggingConfig{Level: "verbose", Format: "json"},
		Checkpoint: CheckpointConfig{},
	}
	err := cfg.Validate()
	require.Error(t, err)
}

func TestValidate_PostgresRequiresDSN(t *testing.T) {
	cfg := &Config{
		Solver:     SolverConfig{MaxComponentSize: 1},
		Logging:    LoggingConfig{Level: "info", Format: "json"},
		Checkpoint: CheckpointConfig{Driver: "postgres"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	os.Unsetenv("MINESOLVER_CHECKPOINT_DSN")
}
