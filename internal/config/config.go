// Package config loads environment variables into structured Go types.
//
// It reads variables from the process environment (optionally seeded from
// a `.env` file), maps them into the Config struct, and validates that
// required values are present so the app fails fast on bad config.
package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a `.env` file into the process env
	// before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// Config is the root configuration object for the application.
//
// Env vars use the DATAROOM_ prefix and dot-delimited nesting, e.g.
// DATAROOM_SERVER.PORT -> server.port -> Config.Server.Port.
//
// Observability is a pointer because it is optional; defaults are
// injected at load time when it is absent.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Storage       StorageConfig        `koanf:"storage" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are stored as seconds.
//
// RateLimitPerMinute is optional; zero means the middleware default.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
	RateLimitPerMinute int      `koanf:"rate_limit_per_minute"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details ("host:port").
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig stores bearer-token settings.
//
// SecretKey signs and verifies HS256 access tokens. TokenTTLMinutes is
// the issued-token lifetime.
type AuthConfig struct {
	SecretKey       string `koanf:"secret_key" validate:"required"`
	TokenTTLMinutes int    `koanf:"token_ttl_minutes" validate:"required"`
}

// StorageConfig holds S3-compatible object storage settings used for
// presigned file uploads. Endpoint may point at MinIO in development.
type StorageConfig struct {
	Endpoint  string `koanf:"endpoint" validate:"required"`
	Region    string `koanf:"region" validate:"required"`
	Bucket    string `koanf:"bucket" validate:"required"`
	AccessKey string `koanf:"access_key" validate:"required"`
	SecretKey string `koanf:"secret_key" validate:"required"`
}

// IntegrationConfig holds third-party API credentials.
// ResendAPIKey may be empty outside production; the email client then
// logs instead of sending.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	EmailFrom    string `koanf:"email_from"`
}

// New loads configuration from environment variables, unmarshals it into
// Config, validates it, and applies observability defaults.
func New() (*Config, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	k := koanf.New(".")

	err := k.Load(env.Provider("DATAROOM_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "DATAROOM_"))
	}), nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("Could not load initial env variables.")
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("Could not unmarshal main config.")
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("Config validation failed.")
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are forced so telemetry sees
	// consistent naming regardless of what the env supplies.
	mainConfig.Observability.ServiceName = "dataroom"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid observability config")
	}

	return mainConfig, nil
}
