package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/classlist/internal/domain/shared"
)

var allKeys = []string{
	"APP_NAME", "APP_ENV", "APP_VERSION", "OBSERVER_NAME",
	"SIM_WORK_DELAY", "SIM_GRADE_DELAY", "SIM_SEED", "SIM_VIRTUAL_CLOCK",
	"EVENTBUS_ASYNC", "EVENTBUS_WORKERS", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv blanks every key for the test; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFrom("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "Observer", cfg.App.ObserverName)
	assert.Equal(t, 2*time.Second, cfg.Simulation.WorkDelay)
	assert.Equal(t, time.Second, cfg.Simulation.GradeDelay)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFrom_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("OBSERVER_NAME", "Teacher")
	t.Setenv("SIM_WORK_DELAY", "150ms")
	t.Setenv("SIM_GRADE_DELAY", "50ms")
	t.Setenv("SIM_SEED", "42")
	t.Setenv("SIM_VIRTUAL_CLOCK", "true")
	t.Setenv("EVENTBUS_ASYNC", "true")
	t.Setenv("EVENTBUS_WORKERS", "8")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := LoadFrom("")
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "Teacher", cfg.App.ObserverName)
	assert.Equal(t, 150*time.Millisecond, cfg.Simulation.WorkDelay)
	assert.Equal(t, 50*time.Millisecond, cfg.Simulation.GradeDelay)
	assert.Equal(t, uint64(42), cfg.Simulation.Seed)
	assert.True(t, cfg.Simulation.VirtualClock)
	assert.True(t, cfg.EventBus.Async)
	assert.Equal(t, 8, cfg.EventBus.Workers)
	assert.Equal(t, "json", cfg.Observability.LogFormat)
}

func TestLoadFrom_ZeroDelays(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIM_WORK_DELAY", "0s")
	t.Setenv("SIM_GRADE_DELAY", "0")

	cfg, err := LoadFrom("")
	require.NoError(t, err)

	assert.Zero(t, cfg.Simulation.WorkDelay)
	assert.Zero(t, cfg.Simulation.GradeDelay)
}

func TestLoadFrom_LogFormatFollowsEnvironment(t *testing.T) {
	tests := []struct {
		env    string
		format string
		want   string
	}{
		{"development", "", "text"},
		{"test", "", "text"},
		{"production", "", "json"},
		{"production", "text", "text"},
		{"development", "json", "json"},
	}

	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.format, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("APP_ENV", tt.env)
			t.Setenv("LOG_FORMAT", tt.format)

			cfg, err := LoadFrom("")
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Observability.LogFormat)
		})
	}
}

func TestLoadFrom_UnparsableValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIM_WORK_DELAY", "soon")
	t.Setenv("SIM_SEED", "-1")
	t.Setenv("EVENTBUS_ASYNC", "maybe")

	cfg, err := LoadFrom("")
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Simulation.WorkDelay)
	assert.Zero(t, cfg.Simulation.Seed)
	assert.False(t, cfg.EventBus.Async)
}

func TestLoadFrom_DotEnv(t *testing.T) {
	clearEnv(t)
	for _, k := range allKeys {
		// godotenv.Load never overrides variables that are set, even empty ones.
		require.NoError(t, os.Unsetenv(k))
	}

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("OBSERVER_NAME=Ms Frizzle\nSIM_SEED=7\n"), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "Ms Frizzle", cfg.App.ObserverName)
	assert.Equal(t, uint64(7), cfg.Simulation.Seed)
}

func TestLoadFrom_MissingDotEnvIsIgnored(t *testing.T) {
	clearEnv(t)

	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"unknown env", func(c *Config) { c.App.Environment = "staging" }, "APP_ENV"},
		{"blank observer", func(c *Config) { c.App.ObserverName = "  " }, "OBSERVER_NAME"},
		{"negative work delay", func(c *Config) { c.Simulation.WorkDelay = -time.Second }, "SIM_WORK_DELAY"},
		{"negative grade delay", func(c *Config) { c.Simulation.GradeDelay = -time.Second }, "SIM_GRADE_DELAY"},
		{"zero delays", func(c *Config) { c.Simulation.WorkDelay, c.Simulation.GradeDelay = 0, 0 }, ""},
		{"no workers", func(c *Config) { c.EventBus.Workers = 0 }, "EVENTBUS_WORKERS"},
		{"bad log format", func(c *Config) { c.Observability.LogFormat = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
