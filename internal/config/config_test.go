package config

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"odd chunk", func(c *Config) { c.ChunkSize = 31 }, true},
		{"even chunk", func(c *Config) { c.ChunkSize = 24 }, false},
		{"tiny chunk", func(c *Config) { c.ChunkSize = 1 }, false},
		{"zero budget", func(c *Config) { c.FrameBudget = 0 }, false},
		{"negative radius", func(c *Config) { c.Radius = -1 }, false},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, false},
		{"debug level", func(c *Config) { c.LogLevel = "debug" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestFromLookup(t *testing.T) {
	env := map[string]string{
		"BURROW_SEED":         "42",
		"BURROW_CHUNK_SIZE":   "31",
		"BURROW_FRAME_BUDGET": "8ms",
		"BURROW_LOG_LEVEL":    "debug",
	}
	cfg, err := fromLookup(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 42 || cfg.ChunkSize != 31 || cfg.FrameBudget != 8*time.Millisecond {
		t.Errorf("got seed %d size %d budget %v", cfg.Seed, cfg.ChunkSize, cfg.FrameBudget)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level() = %v, want debug", cfg.Level())
	}
	if cfg.Radius != DefaultConfig().Radius {
		t.Errorf("unset radius changed to %d", cfg.Radius)
	}

	_, err = fromLookup(func(k string) (string, bool) {
		if k == "BURROW_CHUNK_SIZE" {
			return "big", true
		}
		return "", false
	})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestMergeKeepsExplicitFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7
	cfg.Radius = 3

	env := DefaultConfig()
	env.Seed = 99
	env.Radius = 5
	env.ChunkSize = 31

	Merge(cfg, env, map[string]bool{"seed": true})
	if cfg.Seed != 7 {
		t.Errorf("explicit seed overwritten: %d", cfg.Seed)
	}
	if cfg.Radius != 5 || cfg.ChunkSize != 31 {
		t.Errorf("env values not applied: radius %d size %d", cfg.Radius, cfg.ChunkSize)
	}
}
