// Package config manages environment variables.
//
// It reads variables from the `.env` file and the process environment,
// loads them into structured Go types, applies defaults and validates
// that required values are present so they can be reused across the
// application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into the
	// process env before anything below reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the prefix CONTACTS_.
	Keys are lowercased with the prefix removed, and nesting uses ".":

		CONTACTS_SERVER.PORT    -> server.port    -> Config.Server.Port
		CONTACTS_STORE.URI      -> store.uri      -> Config.Store.URI

	The variable names used by the first version of the service
	(MONGO_URI, DBNAME, COLLECTION, HOST, PORT) are still honoured, with
	lower precedence than their CONTACTS_ counterparts.
*/

const envPrefix = "CONTACTS_"

// Store drivers.
const (
	DriverMongo    = "mongodb"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// legacyEnv maps the unprefixed variable names to koanf keys.
var legacyEnv = map[string]string{
	"MONGO_URI":  "store.uri",
	"DBNAME":     "store.database",
	"COLLECTION": "store.collection",
	"HOST":       "server.host",
	"PORT":       "server.port",
}

// Config is the root configuration object for the application.
//
// Observability and Database are pointers because they are optional.
// Observability gets defaults injected, Database is only required by the
// postgres store driver.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Store         StoreConfig          `koanf:"store" validate:"required"`
	Database      *DatabaseConfig      `koanf:"database"`
	Redis         RedisConfig          `koanf:"redis"`
	Job           JobConfig            `koanf:"job"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`

	// Owner is the name reported by GET /name.
	Owner string `koanf:"owner" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are in seconds.
type ServerConfig struct {
	Host               string   `koanf:"host" validate:"required"`
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the number of requests per second allowed per client IP.
	// Zero, the default, and negative values disable rate limiting.
	RateLimit float64 `koanf:"rate_limit"`
}

// StoreConfig selects the contact store backend and carries the document
// store (MongoDB) connection parameters.
type StoreConfig struct {
	Driver     string `koanf:"driver" validate:"required,oneof=mongodb postgres memory"`
	URI        string `koanf:"uri"`
	Database   string `koanf:"database"`
	Collection string `koanf:"collection" validate:"required"`

	MaxPoolSize    uint64 `koanf:"max_pool_size"`
	MinPoolSize    uint64 `koanf:"min_pool_size"`
	ConnectTimeout int    `koanf:"connect_timeout" validate:"min=0"`
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

// RedisConfig contains Redis connection details.
// An empty Address turns off the contact cache and background jobs.
type RedisConfig struct {
	Address string `koanf:"address"`

	// CacheTTL is the lifetime of cached contacts in seconds.
	// A negative value disables caching.
	CacheTTL int `koanf:"cache_ttl"`
}

// JobConfig toggles the asynq worker.
type JobConfig struct {
	Enabled     bool `koanf:"enabled"`
	Concurrency int  `koanf:"concurrency" validate:"min=0"`
}

// IntegrationConfig stores third-party credentials.
//
// Notification emails are only sent when both ResendAPIKey and NotifyEmail
// are set.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	EmailFrom    string `koanf:"email_from"`
	NotifyEmail  string `koanf:"notify_email" validate:"omitempty,email"`
}

// LoadConfig loads configuration from environment variables, unmarshals it
// into Config, applies defaults, validates it and returns the result.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	// Legacy names first so prefixed variables win.
	err := k.Load(env.Provider("", ".", func(s string) string {
		return legacyEnv[s]
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load legacy env variables: %w", err)
	}

	err = k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load initial env variables: %w", err)
	}

	mainConfig := &Config{}

	// "" unmarshals everything from the root.
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	mainConfig.applyDefaults()

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// applyDefaults fills every optional value the environment left empty.
func (c *Config) applyDefaults() {
	if c.Primary.Env == "" {
		c.Primary.Env = "local"
	}
	if c.Primary.Owner == "" {
		c.Primary.Owner = "Clare"
	}

	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8081"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}

	if c.Store.Driver == "" {
		c.Store.Driver = DriverMongo
	}
	if c.Store.Collection == "" {
		c.Store.Collection = "contacts"
	}
	if c.Store.MaxPoolSize == 0 {
		c.Store.MaxPoolSize = 100
	}
	if c.Store.ConnectTimeout == 0 {
		c.Store.ConnectTimeout = 10
	}

	if c.Redis.CacheTTL == 0 {
		c.Redis.CacheTTL = 300
	}
	if c.Job.Concurrency == 0 {
		c.Job.Concurrency = 10
	}
	if c.Integration.EmailFrom == "" {
		c.Integration.EmailFrom = "Contacts <onboarding@resend.dev>"
	}

	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed and the environment always follows Primary.Env
	// so tracing/logging see consistent naming.
	c.Observability.ServiceName = "contacts"
	c.Observability.Environment = c.Primary.Env
}

// Validate runs the struct tag validation plus the driver-specific rules
// that tags cannot express.
func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	switch c.Store.Driver {
	case DriverMongo:
		if c.Store.URI == "" {
			return fmt.Errorf("store.uri is required for the %s driver", DriverMongo)
		}
		if c.Store.Database == "" {
			return fmt.Errorf("store.database is required for the %s driver", DriverMongo)
		}
	case DriverPostgres:
		if c.Database == nil {
			return fmt.Errorf("database config is required for the %s driver", DriverPostgres)
		}
	}

	if c.Job.Enabled && c.Redis.Address == "" {
		return fmt.Errorf("job.enabled requires redis.address")
	}

	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}

	return nil
}

// Addr is the host:port the HTTP server binds to.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}
