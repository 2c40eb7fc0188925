package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Authentication modes supported by the service.
const (
	ModeSession = "session"
	ModeToken   = "token"
)

// User store backends.
const (
	UserStoreMemory = "memory"
	UserStoreMongo  = "mongo"
)

// Config holds all configuration for the auth module.
type Config struct {
	// Mode selects the authentication strategy: "session" or "token".
	// The strategy is fixed at startup; there is no per-request switching.
	Mode string `env:"AUTH_MODE" envDefault:"session"`

	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// JWT Configuration
	JWTSecretKey   string        `env:"JWT_SECRET_KEY" envDefault:"dev-only-secret-change-me-in-prod"`
	JWTIssuer      string        `env:"JWT_ISSUER" envDefault:"auth-service"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"1h"`

	// Session Configuration. SessionTTL drives both the store's expiration
	// window and the cookie max-age; keeping them one value prevents the two
	// lifetimes from silently diverging.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// Cookie Configuration
	CookieName     string `env:"COOKIE_NAME" envDefault:"sessionId"`
	CookiePath     string `env:"COOKIE_PATH" envDefault:"/"`
	CookieDomain   string `env:"COOKIE_DOMAIN" envDefault:""`
	CookieSecure   bool   `env:"COOKIE_SECURE" envDefault:"false"`
	CookieHTTPOnly bool   `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	CookieSameSite string `env:"COOKIE_SAME_SITE" envDefault:"Lax"` // "Lax", "Strict", "None"

	// User store backend: "memory" (demo users) or "mongo".
	UserStore    string `env:"USER_STORE" envDefault:"memory"`
	MongoDBURI   string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"auth_service_db"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	if c.Mode != ModeSession && c.Mode != ModeToken {
		return fmt.Errorf("auth_mode must be %q or %q, got %q", ModeSession, ModeToken, c.Mode)
	}

	if c.JWTSecretKey == "" {
		return errors.New("jwt_secret_key is required")
	}
	if c.JWTIssuer == "" {
		return errors.New("jwt_issuer is required")
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("access_token_ttl must be positive")
	}
	if c.SessionTTL <= 0 {
		return errors.New("session_ttl must be positive")
	}

	c.CookieSameSite = normalizeSameSite(c.CookieSameSite)
	if c.CookieSameSite != "Lax" && c.CookieSameSite != "Strict" && c.CookieSameSite != "None" {
		return errors.New("cookie_same_site must be one of 'Lax', 'Strict', or 'None'")
	}

	c.UserStore = strings.ToLower(strings.TrimSpace(c.UserStore))
	if c.UserStore != UserStoreMemory && c.UserStore != UserStoreMongo {
		return fmt.Errorf("user_store must be %q or %q, got %q", UserStoreMemory, UserStoreMongo, c.UserStore)
	}
	if c.UserStore == UserStoreMongo && c.MongoDBURI == "" {
		return errors.New("mongodb_uri is required when user_store is mongo")
	}

	return nil
}

// IsProduction reports whether the service runs in a production environment.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "production" || env == "prod"
}

// CookieSecureEnabled returns the effective Secure flag for the session cookie.
// Production always sets it.
func (c *Config) CookieSecureEnabled() bool {
	return c.CookieSecure || c.IsProduction()
}

func normalizeSameSite(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return "Lax"
	}
	return strings.ToUpper(v[:1]) + v[1:]
}
