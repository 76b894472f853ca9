package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"cah-online/internal/shared/database"
	"cah-online/internal/shared/logger"
	"cah-online/internal/shared/ratelimit"

	"github.com/caarlos0/env/v6"
	"github.com/spf13/pflag"
)

// Config holds process-wide settings: HTTP listener, MongoDB, card data,
// Redis and logging.
type Config struct {
	// Server Configuration
	Host       string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port       int    `env:"SERVER_PORT" envDefault:"3000"`
	TrustProxy bool   `env:"TRUST_PROXY" envDefault:"false"`

	// MongoDB Configuration
	MongoDBURI                    string        `env:"MONGODB_URI" envDefault:"mongodb://127.0.0.1:27017"`
	DatabaseName                  string        `env:"DATABASE_NAME" envDefault:"cah_online"`
	MongoDBConnectTimeout         time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"2s"`
	MongoDBServerSelectionTimeout time.Duration `env:"MONGODB_SERVER_SELECTION_TIMEOUT" envDefault:"2s"`
	MongoDBConnectRetries         uint64        `env:"MONGODB_CONNECT_RETRIES" envDefault:"3"`

	// Card data
	CardsPath string `env:"CARDS_PATH"`

	// Redis backs the rate limiter when RedisAddr is set
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Logging
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
	LogBackend  string `env:"LOG_BACKEND" envDefault:"logrus"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration from environment: %w", err)
	}
	return cfg, nil
}

// BindFlags registers command-line overrides on fs. Defaults are the values
// already loaded, so a flag wins over the environment only when given.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Host, "host", c.Host, "address to listen on")
	fs.IntVarP(&c.Port, "port", "p", c.Port, "port to listen on")
	fs.StringVar(&c.MongoDBURI, "database-uri", c.MongoDBURI, "MongoDB connection string")
	fs.StringVar(&c.DatabaseName, "database-name", c.DatabaseName, "MongoDB database name")
	fs.StringVar(&c.CardsPath, "cards-path", c.CardsPath, "path to the card data JSON file")
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	if c.CardsPath == "" {
		return errors.New("cards path is required (--cards-path or CARDS_PATH)")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.MongoDBURI == "" {
		return errors.New("mongodb uri is required")
	}
	if c.DatabaseName == "" {
		return errors.New("database name is required")
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Mongo returns the database connection settings.
func (c *Config) Mongo() database.MongoConfig {
	return database.MongoConfig{
		URI:                    c.MongoDBURI,
		Database:               c.DatabaseName,
		ConnectTimeout:         c.MongoDBConnectTimeout,
		ServerSelectionTimeout: c.MongoDBServerSelectionTimeout,
		ConnectRetries:         c.MongoDBConnectRetries,
	}
}

// RedisEnabled reports whether a Redis address is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func (c *Config) Redis() ratelimit.RedisConfig {
	return ratelimit.RedisConfig{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{
		Backend:     c.LogBackend,
		Level:       c.LogLevel,
		Format:      c.LogFormat,
		Environment: c.Environment,
	}
}
