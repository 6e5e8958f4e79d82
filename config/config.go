/*
config.go - Application configuration

PURPOSE:
  Loads server settings from environment variables, optionally seeded
  from a config.env / .env file in the working directory or ./config.
  Environment variables always win over the file.

VARIABLES:
  APP_ENV               development | production (default development)
  LOG_LEVEL             trace, debug, info, warn, error (default info)
  HTTP_HOST             listen host (default 0.0.0.0)
  HTTP_PORT             listen port (default 8080)
  DB_PATH               SQLite path, ":memory:" for ephemeral (default consignflow.db)
  CORS_ALLOWED_ORIGINS  comma separated (default localhost dev origins)
  LOAD_DEMO             load the demo scenario at startup (default false)
  AUTO_CLOSE_INTERVAL   how often to close expired periods, e.g. 1h (default 0 = off)
  AUTO_CLOSE_GRACE      how long past its end a period stays open (default 72h)

SEE ALSO:
  - cmd/server/main.go: flag overrides on top of this
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config groups everything the server needs at startup.
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	DB        DBConfig
	AutoClose AutoCloseConfig
}

type AppConfig struct {
	Env      string
	LoadDemo bool
}

type LogConfig struct {
	Level string
}

// HTTPConfig holds listener and CORS settings.
type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// Addr returns host:port for http.Server.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DBConfig struct {
	Path string
}

// AutoCloseConfig drives the background period closer.
type AutoCloseConfig struct {
	Interval time.Duration
	Grace    time.Duration
}

// Load reads the configuration. Missing config files are not an error.
func Load() (*Config, error) {
	return load(viper.New(), []string{".", "./config"})
}

func load(v *viper.Viper, paths []string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("env")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			LoadDemo: v.GetBool("LOAD_DEMO"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		HTTP: HTTPConfig{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetInt("HTTP_PORT"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			Path: v.GetString("DB_PATH"),
		},
		AutoClose: AutoCloseConfig{
			Interval: v.GetDuration("AUTO_CLOSE_INTERVAL"),
			Grace:    v.GetDuration("AUTO_CLOSE_GRACE"),
		},
	}

	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return nil, fmt.Errorf("invalid HTTP_PORT %d", cfg.HTTP.Port)
	}
	if cfg.AutoClose.Interval < 0 || cfg.AutoClose.Grace < 0 {
		return nil, fmt.Errorf("AUTO_CLOSE_INTERVAL and AUTO_CLOSE_GRACE must not be negative")
	}
	if cfg.DB.Path == "" {
		return nil, fmt.Errorf("DB_PATH must not be empty")
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("DB_PATH", "consignflow.db")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:8080")
	v.SetDefault("LOAD_DEMO", false)
	v.SetDefault("AUTO_CLOSE_INTERVAL", "0s")
	v.SetDefault("AUTO_CLOSE_GRACE", "72h")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
