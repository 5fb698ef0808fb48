// Package config provides configuration loading and validation for the CLI and server.
// Values come from, in increasing precedence: built-in defaults, an optional YAML
// file, DIAGNOSTIC_* environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "DIAGNOSTIC"

// Config is the complete application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Session   SessionConfig   `mapstructure:"session"`
	Screening ScreeningConfig `mapstructure:"screening"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	CORSOrigin   string        `mapstructure:"cors_origin"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	JSON       bool   `mapstructure:"json"`
	Debug      bool   `mapstructure:"debug"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// ScreeningConfig configures batch screening.
type ScreeningConfig struct {
	Workers         int   `mapstructure:"workers"`
	MaxUploadBytes  int64 `mapstructure:"max_upload_bytes"`
	MaxFiles        int   `mapstructure:"max_files"`
	ReviewThreshold int   `mapstructure:"review_threshold"`
}

// RateLimitConfig configures the per-client request limiter.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	UploadLimit     int           `mapstructure:"upload_limit"`
	UploadWindow    time.Duration `mapstructure:"upload_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.cors_origin", "*")

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", time.Hour)
	v.SetDefault("session.cleanup_interval", 10*time.Minute)
	v.SetDefault("session.cookie_name", "session")

	v.SetDefault("screening.workers", 4)
	v.SetDefault("screening.max_upload_bytes", 32<<20)
	v.SetDefault("screening.max_files", 50)
	v.SetDefault("screening.review_threshold", 70)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.default_limit", 600)
	v.SetDefault("rate_limit.default_window", time.Minute)
	v.SetDefault("rate_limit.upload_limit", 30)
	v.SetDefault("rate_limit.upload_window", time.Minute)
	v.SetDefault("rate_limit.cleanup_interval", 5*time.Minute)
	v.SetDefault("rate_limit.whitelist", []string{})
	v.SetDefault("rate_limit.blacklist", []string{})
}

// Load reads configuration into a Config. When path is empty, a
// diagnostic.yaml in the working directory is used if present.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("diagnostic")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Session.normalize(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Screening.Workers < 1 {
		return fmt.Errorf("config error: 'screening.workers' must be at least 1")
	}
	if c.Screening.MaxUploadBytes < 1 {
		return fmt.Errorf("config error: 'screening.max_upload_bytes' must be positive")
	}
	if c.Screening.MaxFiles < 1 {
		return fmt.Errorf("config error: 'screening.max_files' must be at least 1")
	}
	if c.Screening.ReviewThreshold < 0 || c.Screening.ReviewThreshold > 100 {
		return fmt.Errorf("config error: 'screening.review_threshold' must be between 0 and 100")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.DefaultLimit < 1 || c.RateLimit.UploadLimit < 1 {
			return fmt.Errorf("config error: rate limits must be at least 1 request")
		}
		if c.RateLimit.DefaultWindow <= 0 || c.RateLimit.UploadWindow <= 0 {
			return fmt.Errorf("config error: rate limit windows must be positive")
		}
	}
	return c.Session.validate()
}
