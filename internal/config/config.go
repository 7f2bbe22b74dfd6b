// Package config provides configuration loading for the inference core's
// cmd driver. The core packages themselves take plain Go values (the CSP
// enumerator's max_component_size is just an int parameter) — this package
// exists for the executable wrapper that wires env vars, a checkpoint store
// and a logger together.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the cmd driver's configuration.
type Config struct {
	Solver     SolverConfig
	Logging    LoggingConfig
	Checkpoint CheckpointConfig
	Debug      DebugConfig
}

// SolverConfig holds the solver's three tunable knobs.
type SolverConfig struct {
	MaxComponentSize int  `validate:"gte=1"`
	AllowGuess       bool
	EnableSweep      bool
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json console"`
}

// CheckpointConfig selects and configures the optional persistence layer.
// An empty Driver means "in-memory only, no checkpointing". DSN is the file
// path for jsonfile and the connection string for postgres.
type CheckpointConfig struct {
	Driver string `validate:"omitempty,oneof=jsonfile postgres"`
	DSN    string
}

// DebugConfig controls the optional inspection surfaces a cmd driver may
// expose. Both are off by default — the core itself never does I/O.
type DebugConfig struct {
	HTTPAddr   string
	TickPeriod time.Duration
}

var validate = validator.New()

// Load reads configuration from the environment, loading a .env file first
// if one is present, then falling back to the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Solver: SolverConfig{
			MaxComponentSize: getEnvAsInt("MINESOLVER_MAX_COMPONENT_SIZE", 50),
			AllowGuess:       getEnvAsBool("MINESOLVER_ALLOW_GUESS", true),
			EnableSweep:      getEnvAsBool("MINESOLVER_ENABLE_SWEEP", true),
		},
		Logging: LoggingConfig{
			Level:  getEnv("MINESOLVER_LOG_LEVEL", "info"),
			Format: getEnv("MINESOLVER_LOG_FORMAT", "json"),
		},
		Checkpoint: CheckpointConfig{
			Driver: getEnv("MINESOLVER_CHECKPOINT_DRIVER", ""),
			DSN:    getEnv("MINESOLVER_CHECKPOINT_DSN", ""),
		},
		Debug: DebugConfig{
			HTTPAddr:   getEnv("MINESOLVER_DEBUG_HTTP_ADDR", ""),
			TickPeriod: getEnvAsDuration("MINESOLVER_TICK_PERIOD", 0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks struct tags on the nested config sections.
func (c *Config) Validate() error {
	if err := validate.Struct(c.Solver); err != nil {
		return fmt.Errorf("solver config: %w", err)
	}
	if err := validate.Struct(c.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	if err := validate.Struct(c.Checkpoint); err != nil {
		return fmt.Errorf("checkpoint config: %w", err)
	}
	if c.Checkpoint.Driver == "postgres" && c.Checkpoint.DSN == "" {
		return fmt.Errorf("MINESOLVER_CHECKPOINT_DSN is required when driver is postgres")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
