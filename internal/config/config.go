// Package config holds world generation settings and their sources.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidConfig is returned by Validate and FromEnv.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the generation and runtime settings.
type Config struct {
	// Seed for the shared random source. A seed of 0 means a random seed
	// is chosen at startup.
	Seed         int64         `json:"seed"`
	ChunkSize    int           `json:"chunk_size"`    // cells per chunk side, odd
	SurfaceLevel int           `json:"surface_level"` // first chunk row filled with air
	FrameBudget  time.Duration `json:"frame_budget"`  // materialization time per tick
	Radius       int           `json:"radius"`        // chunks activated around the explorer
	DataDir      string        `json:"data_dir"`      // where worlds are saved
	LogLevel     string        `json:"log_level"`     // debug, info, warn or error
	InspectAddr  string        `json:"inspect_addr"`  // websocket inspector listen address
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ChunkSize:    25,
		SurfaceLevel: 1,
		FrameBudget:  4 * time.Millisecond,
		Radius:       1,
		DataDir:      "worlds",
		LogLevel:     "info",
		InspectAddr:  "127.0.0.1:7777",
	}
}

// Validate checks that the settings can drive a world.
func (c *Config) Validate() error {
	if c.ChunkSize < 3 || c.ChunkSize%2 == 0 {
		return fmt.Errorf("chunk size %d must be odd and at least 3: %w", c.ChunkSize, ErrInvalidConfig)
	}
	if c.FrameBudget <= 0 {
		return fmt.Errorf("frame budget %v must be positive: %w", c.FrameBudget, ErrInvalidConfig)
	}
	if c.Radius < 0 {
		return fmt.Errorf("radius %d must not be negative: %w", c.Radius, ErrInvalidConfig)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level for LogLevel, falling back to info.
func (c *Config) Level() slog.Level {
	l, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, ErrInvalidConfig)
	}
	return l, nil
}

// FromEnv returns the defaults overridden by any BURROW_* variables set in
// the environment.
func FromEnv() (*Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (*Config, error) {
	cfg := DefaultConfig()
	var errs []error

	intVar := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s=%q: %w", key, v, ErrInvalidConfig))
				return
			}
			*dst = n
		}
	}
	strVar := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	if v, ok := lookup("BURROW_SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("BURROW_SEED=%q: %w", v, ErrInvalidConfig))
		} else {
			cfg.Seed = n
		}
	}
	intVar("BURROW_CHUNK_SIZE", &cfg.ChunkSize)
	intVar("BURROW_SURFACE_LEVEL", &cfg.SurfaceLevel)
	intVar("BURROW_RADIUS", &cfg.Radius)
	if v, ok := lookup("BURROW_FRAME_BUDGET"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("BURROW_FRAME_BUDGET=%q: %w", v, ErrInvalidConfig))
		} else {
			cfg.FrameBudget = d
		}
	}
	strVar("BURROW_DATA_DIR", &cfg.DataDir)
	strVar("BURROW_LOG_LEVEL", &cfg.LogLevel)
	strVar("BURROW_INSPECT_ADDR", &cfg.InspectAddr)

	return cfg, errors.Join(errs...)
}

// Merge applies environment-loaded values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromEnv *Config, explicitFlags map[string]bool) {
	if !explicitFlags["seed"] {
		cfg.Seed = fromEnv.Seed
	}
	if !explicitFlags["chunk-size"] {
		cfg.ChunkSize = fromEnv.ChunkSize
	}
	if !explicitFlags["surface"] {
		cfg.SurfaceLevel = fromEnv.SurfaceLevel
	}
	if !explicitFlags["budget"] {
		cfg.FrameBudget = fromEnv.FrameBudget
	}
	if !explicitFlags["radius"] {
		cfg.Radius = fromEnv.Radius
	}
	if !explicitFlags["data"] {
		cfg.DataDir = fromEnv.DataDir
	}
	if !explicitFlags["log-level"] {
		cfg.LogLevel = fromEnv.LogLevel
	}
	if !explicitFlags["addr"] {
		cfg.InspectAddr = fromEnv.InspectAddr
	}
}
