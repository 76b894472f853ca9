package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// MinTokenLength mirrors security.MinTokenLength; config cannot import adapters.
const MinTokenLength = 21

// Config holds all configuration for the auth module.
type Config struct {
	// Cookie Configuration
	CookieName     string `env:"SESSION_COOKIE_NAME" envDefault:"cah_session"`
	CookiePath     string `env:"SESSION_COOKIE_PATH" envDefault:"/"`
	CookieDomain   string `env:"SESSION_COOKIE_DOMAIN" envDefault:""`
	CookieSecure   bool   `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	CookieSameSite string `env:"SESSION_COOKIE_SAME_SITE" envDefault:"Lax"` // "Lax", "Strict", "None"

	// Session Configuration
	TokenLength      int           `env:"SESSION_TOKEN_LENGTH" envDefault:"21"`
	OperationTimeout time.Duration `env:"STORE_OPERATION_TIMEOUT" envDefault:"2s"`

	// Rate limit on session issuing, per client IP
	RateLimitMax    int           `env:"SESSION_RATE_LIMIT_MAX" envDefault:"20"`
	RateLimitWindow time.Duration `env:"SESSION_RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load auth configuration from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes CookieSameSite and checks value ranges.
func (c *Config) Validate() error {
	if c.CookieName == "" {
		return errors.New("session_cookie_name must not be empty")
	}

	switch strings.ToLower(c.CookieSameSite) {
	case "lax":
		c.CookieSameSite = "Lax"
	case "strict":
		c.CookieSameSite = "Strict"
	case "none":
		c.CookieSameSite = "None"
	default:
		return errors.New("session_cookie_same_site must be one of 'Lax', 'Strict', or 'None'")
	}
	if c.CookieSameSite == "None" && !c.CookieSecure {
		return errors.New("session_cookie_same_site 'None' requires session_cookie_secure")
	}

	if c.TokenLength < MinTokenLength {
		return fmt.Errorf("session_token_length must be at least %d", MinTokenLength)
	}
	if c.OperationTimeout <= 0 {
		return errors.New("store_operation_timeout must be positive")
	}
	if c.RateLimitMax <= 0 || c.RateLimitWindow <= 0 {
		return errors.New("session rate limit max and window must be positive")
	}
	return nil
}
