package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	LogLevel          string
	Database          DatabaseConfig
	CORSAllowedOrigin string
	RedisURL          string
	CacheTTL          time.Duration
	NATSURL           string
	NATSSubject       string
	RateLimitMax      int
	RateLimitWindow   time.Duration
	AuditEnabled      bool
}

// DatabaseConfig describes the record store connection and its pool.
type DatabaseConfig struct {
	Driver          string
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// CacheEnabled reports whether a Redis page cache was configured.
func (c Config) CacheEnabled() bool {
	return strings.TrimSpace(c.RedisURL) != ""
}

// EventsEnabled reports whether lifecycle events should be published to NATS.
func (c Config) EventsEnabled() bool {
	return strings.TrimSpace(c.NATSURL) != ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("STUDENT_API")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Student Management API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("cors.allowed_origin", "http://localhost:3000")
	v.SetDefault("cache.ttl", "1m")
	v.SetDefault("nats.subject", "students.events")
	v.SetDefault("rate_limit.max", 0)
	v.SetDefault("rate_limit.window", "1s")
	v.SetDefault("audit.enabled", true)
}

func fromViper(v *viper.Viper) (Config, error) {
	lifetime, err := parseDuration(v, "database.conn_max_lifetime")
	if err != nil {
		return Config{}, err
	}

	cacheTTL, err := parseDuration(v, "cache.ttl")
	if err != nil {
		return Config{}, err
	}

	window, err := parseDuration(v, "rate_limit.window")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:  v.GetString("app.name"),
		AppEnv:   v.GetString("app.env"),
		AppPort:  v.GetString("app.port"),
		LogLevel: strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
		Database: DatabaseConfig{
			Driver:          strings.ToLower(strings.TrimSpace(v.GetString("database.driver"))),
			URL:             strings.TrimSpace(v.GetString("database.url")),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: lifetime,
		},
		CORSAllowedOrigin: strings.TrimSpace(v.GetString("cors.allowed_origin")),
		RedisURL:          strings.TrimSpace(v.GetString("redis.url")),
		CacheTTL:          cacheTTL,
		NATSURL:           strings.TrimSpace(v.GetString("nats.url")),
		NATSSubject:       strings.TrimSpace(v.GetString("nats.subject")),
		RateLimitMax:      v.GetInt("rate_limit.max"),
		RateLimitWindow:   window,
		AuditEnabled:      v.GetBool("audit.enabled"),
	}

	switch cfg.Database.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return Config{}, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if cfg.Database.URL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}

	if cfg.NATSSubject == "" {
		cfg.NATSSubject = "students.events"
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0, nil
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return value, nil
}
