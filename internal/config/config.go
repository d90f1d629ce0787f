package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"
)

const (
	StoreBackendMemory   = "memory"
	StoreBackendPostgres = "postgres"
	StoreBackendRedis    = "redis"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	StoreBackend string
	RedisAddress string
	RedisPrefix  string

	HTTPPort          string
	RecurringCooldown time.Duration
	Timezone          string
	DefaultCurrency   string
	LogLevel          logrus.Level
}

// In all cases the default behavior should be for the docker compose setup
var defaults = map[string]interface{}{
	"postgres_address":   "localhost",
	"postgres_port":      "5433",
	"postgres_db":        "postgres",
	"postgres_username":  "postgres",
	"postgres_password":  "testpassword",
	"store_backend":      StoreBackendPostgres,
	"redis_address":      "localhost:6379",
	"redis_prefix":       "budget:",
	"http_port":          "9446",
	"recurring_cooldown": "8h",
	"timezone":           "Local",
	"default_currency":   "JPY",
	"log_level":          "info",
}

func ProcessEnvironmentVariables() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, err
	}

	err := k.Load(env.Provider("", ".", func(name string) string {
		key := strings.ToLower(name)
		if _, known := defaults[key]; !known {
			return ""
		}
		return key
	}), nil)
	if err != nil {
		return nil, err
	}

	cooldown, err := time.ParseDuration(k.String("recurring_cooldown"))
	if err != nil {
		return nil, fmt.Errorf("%w: RECURRING_COOLDOWN: %v", ErrInvalidConfig, err)
	}

	logLevel, err := logrus.ParseLevel(k.String("log_level"))
	if err != nil {
		return nil, fmt.Errorf("%w: LOG_LEVEL: %v", ErrInvalidConfig, err)
	}

	cfg := Config{
		PostgresAddress:   k.String("postgres_address"),
		PostgresPort:      k.String("postgres_port"),
		PostgresDB:        k.String("postgres_db"),
		PostgresUsername:  k.String("postgres_username"),
		PostgresPassword:  k.String("postgres_password"),
		StoreBackend:      strings.ToLower(k.String("store_backend")),
		RedisAddress:      k.String("redis_address"),
		RedisPrefix:       k.String("redis_prefix"),
		HTTPPort:          k.String("http_port"),
		RecurringCooldown: cooldown,
		Timezone:          k.String("timezone"),
		DefaultCurrency:   strings.ToUpper(k.String("default_currency")),
		LogLevel:          logLevel,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case StoreBackendMemory, StoreBackendPostgres, StoreBackendRedis:
	default:
		return fmt.Errorf("%w: unknown STORE_BACKEND %q", ErrInvalidConfig, c.StoreBackend)
	}
	if c.RecurringCooldown < 0 {
		return fmt.Errorf("%w: RECURRING_COOLDOWN must not be negative", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: TIMEZONE: %v", ErrInvalidConfig, err)
	}
	return nil
}

// PostgresConnectionString builds the lib/pq DSN for the configured database.
func (c *Config) PostgresConnectionString() string {
	return "postgres://" + c.PostgresUsername + ":" +
		c.PostgresPassword + "@" + c.PostgresAddress + ":" +
		c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}

// Location is the time zone calendar days are evaluated in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
