// Package config loads the server configuration: a YAML file first, then
// STOREFRONT_* environment overrides, then validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file looked up in the working directory when
	// no path is given.
	FileName = "storefront.yaml"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "STOREFRONT_"

	devSecret = "storefront-dev-secret-do-not-use"
)

// Config is the complete server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envPrefix:"SERVER_"`
	Database DatabaseConfig `yaml:"database" envPrefix:"DATABASE_"`
	Auth     AuthConfig     `yaml:"auth" envPrefix:"AUTH_"`
	Log      LogConfig      `yaml:"log" envPrefix:"LOG_"`
	Sessions SessionConfig  `yaml:"sessions" envPrefix:"SESSIONS_"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr" env:"ADDR" validate:"required"`
	// PublicURL prefixes the catalog links shown to merchants.
	PublicURL string `yaml:"public_url" env:"PUBLIC_URL" validate:"required,url"`
	Dev       bool   `yaml:"dev" env:"DEV"`
	// TemplatesDir, in dev mode, holds <page>/templates/*.tmpl (the layout of
	// internal/app); pages reload when those files change.
	TemplatesDir      string        `yaml:"templates_dir,omitempty" env:"TEMPLATES_DIR"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	WebSocketDisabled bool          `yaml:"websocket_disabled,omitempty" env:"WEBSOCKET_DISABLED"`
}

// DatabaseConfig selects the SQLite driver and file.
type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DRIVER" validate:"oneof=sqlite sqlite3"`
	DSN    string `yaml:"dsn" env:"DSN" validate:"required"`
	// Migrate runs pending migrations at startup.
	Migrate bool `yaml:"migrate" env:"MIGRATE"`
	// SeedDemo inserts the demo store at startup.
	SeedDemo bool `yaml:"seed_demo" env:"SEED_DEMO"`
}

// AuthConfig configures merchant tokens.
type AuthConfig struct {
	Secret   string        `yaml:"secret,omitempty" env:"SECRET" validate:"required,min=16"`
	TokenTTL time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" validate:"gt=0"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" env:"FORMAT" validate:"oneof=json console"`
}

// SessionConfig bounds the in-memory page sessions.
type SessionConfig struct {
	TTL             time.Duration `yaml:"ttl" env:"TTL" validate:"gt=0"`
	JanitorInterval time.Duration `yaml:"janitor_interval" env:"JANITOR_INTERVAL" validate:"gt=0"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			PublicURL:       "http://localhost:8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:  "sqlite",
			DSN:     "storefront.db",
			Migrate: true,
		},
		Auth: AuthConfig{
			TokenTTL: 30 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Sessions: SessionConfig{
			TTL:             2 * time.Hour,
			JanitorInterval: time.Minute,
		},
	}
}

// Load reads path over the defaults, applies the environment, then
// overrides (command line flags), and validates the result. An empty path
// loads FileName when it exists.
func Load(path string, overrides ...func(*Config)) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = FileName
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	for _, override := range overrides {
		override(cfg)
	}

	if cfg.Server.Dev {
		if cfg.Auth.Secret == "" {
			cfg.Auth.Secret = devSecret
		}
		if cfg.Log.Format == "json" {
			cfg.Log.Format = "console"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
	})
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		msgs := make([]string, len(verrs))
		for i, fe := range verrs {
			msgs[i] = fmt.Sprintf("%s: failed %q", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Tag())
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// Write saves cfg as YAML at path, creating its directory.
func Write(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
