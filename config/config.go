package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/alem-hub/classlist/internal/domain/notification"
	"github.com/alem-hub/classlist/internal/domain/shared"
	"github.com/alem-hub/classlist/internal/domain/student"
	"github.com/alem-hub/classlist/pkg/logger"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTest        Environment = "test"
	EnvProduction  Environment = "production"
)

// DefaultDotEnvPath is read by Load when it exists.
const DefaultDotEnvPath = ".env"

// Config holds all application configuration.
type Config struct {
	// Application
	App AppConfig

	// Classroom simulation
	Simulation SimulationConfig

	// Notification event bus
	EventBus EventBusConfig

	// Observability
	Observability ObservabilityConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string
	Environment Environment
	Version     string

	// Name printed in front of every notification line
	ObserverName string
}

// SimulationConfig holds the delays and randomness of the simulation.
type SimulationConfig struct {
	// Delay between starting work and the automatic submission
	WorkDelay time.Duration

	// Delay between submission and grading
	GradeDelay time.Duration

	// Grade generator seed; 0 picks a time-based seed
	Seed uint64

	// Run delayed tasks on a virtual clock instead of wall-clock timers
	VirtualClock bool
}

// EventBusConfig holds notification fan-out settings.
type EventBusConfig struct {
	Async   bool
	Workers int
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text
}

// Load reads DefaultDotEnvPath if present, then the environment.
func Load() (*Config, error) {
	return LoadFrom(DefaultDotEnvPath)
}

// LoadFrom reads the given dotenv file if it exists, then the environment.
// Variables already set in the environment win over the file.
func LoadFrom(dotEnvPath string) (*Config, error) {
	if dotEnvPath != "" {
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				return nil, fmt.Errorf("load %s: %w", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat %s: %w", dotEnvPath, err)
		}
	}

	cfg := &Config{
		App:        loadAppConfig(),
		Simulation: loadSimulationConfig(),
		EventBus:   loadEventBusConfig(),
	}
	cfg.Observability = loadObservabilityConfig(cfg.IsProduction())

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:         "classlist",
			Environment:  EnvDevelopment,
			Version:      "0.1.0",
			ObserverName: notification.DefaultObserver,
		},
		Simulation: SimulationConfig{
			WorkDelay:  student.DefaultWorkDelay,
			GradeDelay: student.DefaultGradeDelay,
		},
		EventBus: EventBusConfig{Workers: 4},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "text",
		},
	}
}

func loadAppConfig() AppConfig {
	d := Default().App
	return AppConfig{
		Name:         getEnv("APP_NAME", d.Name),
		Environment:  Environment(getEnv("APP_ENV", string(d.Environment))),
		Version:      getEnv("APP_VERSION", d.Version),
		ObserverName: getEnv("OBSERVER_NAME", d.ObserverName),
	}
}

func loadSimulationConfig() SimulationConfig {
	d := Default().Simulation
	return SimulationConfig{
		WorkDelay:    getEnvDuration("SIM_WORK_DELAY", d.WorkDelay),
		GradeDelay:   getEnvDuration("SIM_GRADE_DELAY", d.GradeDelay),
		Seed:         getEnvUint64("SIM_SEED", d.Seed),
		VirtualClock: getEnvBool("SIM_VIRTUAL_CLOCK", d.VirtualClock),
	}
}

func loadEventBusConfig() EventBusConfig {
	d := Default().EventBus
	return EventBusConfig{
		Async:   getEnvBool("EVENTBUS_ASYNC", d.Async),
		Workers: getEnvInt("EVENTBUS_WORKERS", d.Workers),
	}
}

// loadObservabilityConfig defaults production to JSON logs.
func loadObservabilityConfig(production bool) ObservabilityConfig {
	d := Default().Observability
	if production {
		d.LogFormat = "json"
	}
	return ObservabilityConfig{
		LogLevel:  getEnv("LOG_LEVEL", d.LogLevel),
		LogFormat: getEnv("LOG_FORMAT", d.LogFormat),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	switch c.App.Environment {
	case EnvDevelopment, EnvTest, EnvProduction:
	default:
		errs = append(errs, fmt.Sprintf("APP_ENV must be one of development, test, production (got %q)", c.App.Environment))
	}

	if strings.TrimSpace(c.App.ObserverName) == "" {
		errs = append(errs, "OBSERVER_NAME must not be blank")
	}

	if c.Simulation.WorkDelay < 0 {
		errs = append(errs, "SIM_WORK_DELAY must not be negative")
	}
	if c.Simulation.GradeDelay < 0 {
		errs = append(errs, "SIM_GRADE_DELAY must not be negative")
	}

	if c.EventBus.Workers < 1 {
		errs = append(errs, "EVENTBUS_WORKERS must be at least 1")
	}

	if _, err := logger.ParseFormat(c.Observability.LogFormat); err != nil {
		errs = append(errs, "LOG_FORMAT must be json or text")
	}

	if len(errs) > 0 {
		return shared.NewDomainError("config", "Validate", shared.ErrValidation,
			fmt.Sprintf("configuration errors:\n  - %s", strings.Join(errs, "\n  - ")))
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvUint64(key string, defaultVal uint64) uint64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	u, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return defaultVal
	}
	return u
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
