package config

import (
	"os"
	"strconv"
	"time"

	"github.com/felixgeelhaar/nightshift/internal/hobby/domain"
	"github.com/felixgeelhaar/nightshift/pkg/observability"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string

	// Hobby hours
	StartHour      int
	EndHour        int
	CodingRate     float64
	DistanceFactor float64
	FloorMinutes   int

	// Git
	GitBinary          string
	GitTimeout         time.Duration
	GitBreakerFailures int
	GitBreakerTimeout  time.Duration

	// Ledger
	LedgerEnabled  bool
	DatabaseURL    string
	DatabaseDriver string
	SQLitePath     string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("NIGHTSHIFT_LOG_LEVEL", ""),
		LogFormat: getEnv("NIGHTSHIFT_LOG_FORMAT", ""),

		StartHour:      getIntEnv("NIGHTSHIFT_START_HOUR", domain.DefaultStartHour),
		EndHour:        getIntEnv("NIGHTSHIFT_END_HOUR", domain.DefaultEndHour),
		CodingRate:     getFloatEnv("NIGHTSHIFT_CODING_RATE", domain.DefaultCodingRate),
		DistanceFactor: getFloatEnv("NIGHTSHIFT_DISTANCE_FACTOR", domain.DefaultDistanceFactor),
		FloorMinutes:   getIntEnv("NIGHTSHIFT_FLOOR_MINUTES", domain.DefaultFloorMinutes),

		GitBinary:          getEnv("NIGHTSHIFT_GIT_BIN", "git"),
		GitTimeout:         getDurationEnv("NIGHTSHIFT_GIT_TIMEOUT", 10*time.Minute),
		GitBreakerFailures: getIntEnv("NIGHTSHIFT_GIT_BREAKER_FAILURES", 5),
		GitBreakerTimeout:  getDurationEnv("NIGHTSHIFT_GIT_BREAKER_TIMEOUT", 30*time.Second),

		LedgerEnabled:  getBoolEnv("NIGHTSHIFT_LEDGER_ENABLED", true),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DatabaseDriver: getEnv("DATABASE_DRIVER", ""),
		SQLitePath:     getEnv("SQLITE_PATH", ""),
	}

	return cfg, nil
}

// HobbyHours builds the scheduling policy from the configuration.
func (c *Config) HobbyHours() domain.HobbyHours {
	return domain.HobbyHours{
		StartHour:      c.StartHour,
		EndHour:        c.EndHour,
		CodingRate:     c.CodingRate,
		DistanceFactor: c.DistanceFactor,
		FloorMinutes:   c.FloorMinutes,
	}
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Logging picks the production or terminal defaults and applies the level
// and format overrides on top.
func (c *Config) Logging(version string) observability.LogConfig {
	lc := observability.DefaultLogConfig()
	if c.IsProduction() {
		lc = observability.ProductionLogConfig()
	}
	if c.LogLevel != "" {
		lc.Level = observability.LogLevel(c.LogLevel)
	}
	if c.LogFormat != "" {
		lc.Format = observability.LogFormat(c.LogFormat)
	}
	if version != "" {
		lc.Version = version
	}
	return lc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
