// Package config loads the process configuration from a yaml file with
// environment overrides. The auth core never reads this directly; the
// values are handed to constructors at startup.
package config

import (
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Seed     SeedConfig     `mapstructure:"seed"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type JWTConfig struct {
	Secret    string        `mapstructure:"secret"`
	ExpiresIn time.Duration `mapstructure:"expires_in"`
}

type AuthConfig struct {
	// AnonymousRejectInvalid makes anonymous routes reject a
	// present-but-invalid bearer token instead of downgrading the
	// request to the anonymous principal.
	AnonymousRejectInvalid bool `mapstructure:"anonymous_reject_invalid"`
}

type SeedConfig struct {
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
}

// GetSigningKey satisfies auth.Config.
func (c *Config) GetSigningKey() string { return c.JWT.Secret }

// GetTokenExpiration satisfies auth.Config.
func (c *Config) GetTokenExpiration() time.Duration { return c.JWT.ExpiresIn }

// GetAnonymousRejectInvalid satisfies auth.Config.
func (c *Config) GetAnonymousRejectInvalid() bool { return c.Auth.AnonymousRejectInvalid }

// Load reads config.yaml from the working directory or ./config, then
// applies CATALOG_* environment overrides (CATALOG_JWT_SECRET, etc.).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("database.dsn", "file:catalog.db?cache=shared&_pragma=foreign_keys(1)")
	// Matches the historical 7d default access-token lifetime. The
	// secret default is empty so the env override binds; token signing
	// fails loudly when it is never set.
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expires_in", 168*time.Hour)
	v.SetDefault("auth.anonymous_reject_invalid", false)
	v.SetDefault("seed.admin_email", "admin@example.com")
	v.SetDefault("seed.admin_password", "change-me-now")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, everything has a default or an env
		// override; anything else is a real failure.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to read config file")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to decode configuration")
	}

	return cfg, nil
}
