package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 4, cfg.Screening.Workers)
	assert.Equal(t, 70, cfg.Screening.ReviewThreshold)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, "session", cfg.Session.CookieName)
	assert.Len(t, cfg.Session.Secret, 64, "ephemeral secret is generated")
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 30, cfg.RateLimit.UploadLimit)
}

func TestLoad_YAMLFile(t *testing.T) {
	content := `
server:
  port: 9090
log:
  json: true
session:
  secret: a-very-long-test-secret
  ttl: 30m
screening:
  workers: 2
  review_threshold: 60
rate_limit:
  whitelist: ["10.0.0.1"]
`
	path := filepath.Join(t.TempDir(), "diagnostic.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, "a-very-long-test-secret", cfg.Session.Secret)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 2, cfg.Screening.Workers)
	assert.Equal(t, 60, cfg.Screening.ReviewThreshold)
	assert.Equal(t, []string{"10.0.0.1"}, cfg.RateLimit.Whitelist)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagnostic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0644))
	t.Setenv("DIAGNOSTIC_SERVER_PORT", "7070")
	t.Setenv("DIAGNOSTIC_SCREENING_WORKERS", "8")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Screening.Workers)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	cfg, err := Load(viper.New(), "/nonexistent/path/diagnostic.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagnostic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [port"), 0644))

	_, err := Load(viper.New(), path)
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DIAGNOSTIC_SCREENING_REVIEW_THRESHOLD", "150")

	_, err := Load(viper.New(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "review_threshold")
}

func validConfig() Config {
	return Config{
		Server:    ServerConfig{Port: 8080},
		Session:   SessionConfig{Secret: "0123456789abcdef", TTL: time.Hour, CleanupInterval: time.Minute, CookieName: "session"},
		Screening: ScreeningConfig{Workers: 1, MaxUploadBytes: 1024, MaxFiles: 1, ReviewThreshold: 70},
		RateLimit: RateLimitConfig{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Second, UploadLimit: 1, UploadWindow: time.Second},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "server.port"},
		{name: "no workers", mutate: func(c *Config) { c.Screening.Workers = 0 }, wantErr: "screening.workers"},
		{name: "no upload budget", mutate: func(c *Config) { c.Screening.MaxUploadBytes = 0 }, wantErr: "max_upload_bytes"},
		{name: "no files", mutate: func(c *Config) { c.Screening.MaxFiles = 0 }, wantErr: "max_files"},
		{name: "negative threshold", mutate: func(c *Config) { c.Screening.ReviewThreshold = -1 }, wantErr: "review_threshold"},
		{name: "zero rate limit", mutate: func(c *Config) { c.RateLimit.UploadLimit = 0 }, wantErr: "rate limits"},
		{name: "zero window", mutate: func(c *Config) { c.RateLimit.DefaultWindow = 0 }, wantErr: "windows"},
		{name: "rate limit disabled skips checks", mutate: func(c *Config) { c.RateLimit = RateLimitConfig{} }},
		{name: "short secret", mutate: func(c *Config) { c.Session.Secret = "short" }, wantErr: "session.secret"},
		{name: "short ttl", mutate: func(c *Config) { c.Session.TTL = time.Second }, wantErr: "session.ttl"},
		{name: "no cookie", mutate: func(c *Config) { c.Session.CookieName = "" }, wantErr: "cookie_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config error")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSessionConfig_NormalizeKeepsSecret(t *testing.T) {
	c := SessionConfig{Secret: "configured-secret-value"}
	require.NoError(t, c.normalize())
	assert.Equal(t, "configured-secret-value", c.Secret)
}
