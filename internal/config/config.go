// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "MATCHCARDS"

// Config holds all server configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Auth   AuthConfig   `mapstructure:"auth" validate:"required"`
	Store  StoreConfig  `mapstructure:"store" validate:"required"`
	NATS   NATSConfig   `mapstructure:"nats"`
}

// ServerConfig contains HTTP and logging settings.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr" validate:"required"`
	LogLevel       string   `mapstructure:"log_level" validate:"required,oneof=trace debug info warn error fatal"`
	LogFormat      string   `mapstructure:"log_format" validate:"required,oneof=text json"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AuthConfig signs session tickets.
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	TicketTTL time.Duration `mapstructure:"ticket_ttl" validate:"gt=0"`
}

// StoreConfig selects the theme backend. A Redis URL also enables the action
// stream; a database URL also enables result persistence.
type StoreConfig struct {
	Themes      string `mapstructure:"themes" validate:"required,oneof=memory redis postgres"`
	RedisURL    string `mapstructure:"redis_url" validate:"required_if=Themes redis,omitempty,url"`
	DatabaseURL string `mapstructure:"database_url" validate:"required_if=Themes postgres,omitempty,url"`
}

// NATSConfig optionally mirrors the action log onto NATS.
type NATSConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// keys lists every setting so environment variables bind even without a default.
var keys = []string{
	"server.addr",
	"server.log_level",
	"server.log_format",
	"server.allowed_origins",
	"auth.jwt_secret",
	"auth.ticket_ttl",
	"store.themes",
	"store.redis_url",
	"store.database_url",
	"nats.url",
}

// Load reads .env (if present), then MATCHCARDS_* environment variables, and
// validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "text")
	v.SetDefault("server.allowed_origins", []string{"localhost:*"})
	v.SetDefault("auth.ticket_ttl", time.Hour)
	v.SetDefault("store.themes", "memory")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
