// Package config resolves the runtime configuration of the claim portal.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"claimportal/internal/app"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config is the resolved runtime configuration.
type Config struct {
	Port     int    `yaml:"port" env:"PORT"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	Driver      string `yaml:"db_driver" env:"DB_DRIVER"`
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`
	DBHost      string `yaml:"db_host" env:"DB_HOST"`
	DBPort      int    `yaml:"db_port" env:"DB_PORT"`
	DBUser      string `yaml:"db_user" env:"DB_USER"`
	DBPassword  string `yaml:"db_password" env:"DB_PASSWORD"`
	DBName      string `yaml:"db_name" env:"DB_NAME"`
	DBSSLMode   string `yaml:"db_sslmode" env:"DB_SSLMODE"`
	SQLitePath  string `yaml:"sqlite_path" env:"SQLITE_PATH"`

	JWTSecret  string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	TokenTTL   time.Duration `yaml:"token_ttl" env:"TOKEN_TTL"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"BCRYPT_COST"`

	RequireClaimAuth   bool     `yaml:"require_claim_auth" env:"REQUIRE_CLAIM_AUTH"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	OIDC OIDC `yaml:"oidc"`
}

// OIDC holds the optional single sign-on provider settings.
type OIDC struct {
	Issuer       string `yaml:"issuer" env:"OIDC_ISSUER"`
	ClientID     string `yaml:"client_id" env:"OIDC_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"OIDC_CLIENT_SECRET"`
	RedirectURL  string `yaml:"redirect_url" env:"OIDC_REDIRECT_URL"`
}

// Enabled reports whether every provider setting is present.
func (o OIDC) Enabled() bool {
	return o.Issuer != "" && o.ClientID != "" && o.ClientSecret != "" && o.RedirectURL != ""
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Port:               5000,
		LogLevel:           "info",
		Driver:             DriverPostgres,
		DBPort:             5432,
		DBSSLMode:          "disable",
		SQLitePath:         "claimportal.db",
		TokenTTL:           time.Hour,
		BcryptCost:         app.MinBcryptCost,
		CORSAllowedOrigins: []string{"*"},
	}
}

// Load resolves configuration in priority order: defaults -> file -> env.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config file: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Driver = strings.ToLower(strings.TrimSpace(cfg.Driver))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.BcryptCost < app.MinBcryptCost {
		return fmt.Errorf("BCRYPT_COST must be at least %d", app.MinBcryptCost)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	switch c.Driver {
	case DriverPostgres:
		if c.PostgresDSN() == "" {
			return errors.New("DATABASE_URL or DB_HOST is required for the postgres driver")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Driver)
	}

	o := c.OIDC
	if (o.Issuer != "" || o.ClientID != "" || o.ClientSecret != "" || o.RedirectURL != "") && !o.Enabled() {
		return errors.New("OIDC_ISSUER, OIDC_CLIENT_ID, OIDC_CLIENT_SECRET and OIDC_REDIRECT_URL must be set together")
	}
	return nil
}

// PostgresDSN returns DATABASE_URL, or a URL composed from the DB_* settings.
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.DBHost == "" {
		return ""
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		Path:   "/" + c.DBName,
	}
	if c.DBUser != "" {
		if c.DBPassword != "" {
			u.User = url.UserPassword(c.DBUser, c.DBPassword)
		} else {
			u.User = url.User(c.DBUser)
		}
	}
	if c.DBSSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.DBSSLMode}}.Encode()
	}
	return u.String()
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	return lvl, nil
}
