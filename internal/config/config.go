// Package config loads the service configuration from the environment.
//
// Variables are read with the TALENTCATALOG_ prefix (optionally from a `.env`
// file), mapped onto the Config struct and validated, so the service fails
// fast on missing or malformed settings.
//
// A double underscore separates nesting levels:
//
//	TALENTCATALOG_SERVER__PORT           -> server.port
//	TALENTCATALOG_DATABASE__SSL_MODE     -> database.ssl_mode
//	TALENTCATALOG_PAGINATION__MAX_SIZE   -> pagination.max_size
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Loads `.env` into the process environment before anything reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix every configuration variable carries.
const EnvPrefix = "TALENTCATALOG_"

// ServiceName tags logs, traces and metrics.
const ServiceName = "talent-catalog"

// Config is the root configuration object.
//
// Observability, Integration and Pagination are optional; defaults are
// injected when they are absent.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Pagination    PaginationConfig     `koanf:"pagination"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary describes the runtime environment (local, development, production).
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups HTTP server settings. Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
	// RateLimit is the sustained request rate per client on the admin API.
	// Zero disables limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
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

// DSN renders the postgres:// connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		c.User,
		url.QueryEscape(c.Password),
		net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		c.Name,
		c.SSLMode,
	)
}

// RedisConfig contains the Redis address ("host:port") and cache tuning.
type RedisConfig struct {
	Address  string        `koanf:"address" validate:"required"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// AuthConfig holds the Clerk secret key.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
}

// IntegrationConfig holds third-party API credentials.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	EmailFrom    string `koanf:"email_from"`
}

// PaginationConfig bounds the page size search endpoints accept.
type PaginationConfig struct {
	DefaultSize int `koanf:"default_size" validate:"min=0"`
	MaxSize     int `koanf:"max_size" validate:"min=0"`
}

// listKeys are the settings whose environment value is a comma-separated
// list, e.g.
//
//	TALENTCATALOG_SERVER__CORS_ALLOWED_ORIGINS=http://a.example,http://b.example
var listKeys = map[string]bool{
	"server.cors_allowed_origins":        true,
	"observability.health_checks.checks": true,
}

// envKey maps TALENTCATALOG_SERVER__PORT to server.port.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// envValue turns a raw environment variable into a koanf key and value.
// List keys are split on commas, with blank items dropped.
func envValue(s, v string) (string, any) {
	key := envKey(s)
	if !listKeys[key] {
		return key, v
	}

	items := make([]string, 0, strings.Count(v, ",")+1)
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// LoadConfig reads the TALENTCATALOG_ environment, fills in defaults and
// validates the result.
//
// Loading happens in three steps:
//  1. koanf reads every prefixed variable, lower-cases it and turns "__"
//     into a nesting level. List settings are split on commas.
//  2. The tree is unmarshalled into Config, defaults are applied to the
//     optional blocks, and validator checks the required fields.
//  3. The observability block is defaulted if absent, tagged with the
//     service name and environment, and validated on its own rules.
//
// Any failure is returned wrapped; the caller is expected to exit.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	mainConfig.applyDefaults()

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

func (c *Config) applyDefaults() {
	if c.Pagination.DefaultSize == 0 {
		c.Pagination.DefaultSize = 20
	}
	if c.Pagination.MaxSize == 0 {
		c.Pagination.MaxSize = 200
	}
	if c.Pagination.DefaultSize > c.Pagination.MaxSize {
		c.Pagination.DefaultSize = c.Pagination.MaxSize
	}
	if c.Redis.CacheTTL == 0 {
		c.Redis.CacheTTL = time.Hour
	}
	if c.Integration.EmailFrom == "" {
		c.Integration.EmailFrom = "Talent Catalog <no-reply@talentcatalog.net>"
	}
}
