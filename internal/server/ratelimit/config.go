package ratelimit

import (
	"strings"
	"time"

	"github.com/jonathan/screening-diagnostic/internal/config"
)

// EndpointConfig is the limit for one route. Paths ending in "/" match by prefix.
// A zero Limit means unlimited; a zero Burst defaults to Limit.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTimeout     time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig returns an enabled configuration with the default endpoint limits.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTimeout:     time.Hour,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: EndpointConfigs(30, time.Minute),
	}
}

// FromSettings builds a limiter configuration from application settings.
func FromSettings(s config.RateLimitConfig) *Config {
	if !s.Enabled {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    s.DefaultLimit,
		DefaultWindow:   s.DefaultWindow,
		CleanupInterval: s.CleanupInterval,
		IdleTimeout:     time.Hour,
		Whitelist:       toSet(s.Whitelist),
		Blacklist:       toSet(s.Blacklist),
		EndpointConfigs: EndpointConfigs(s.UploadLimit, s.UploadWindow),
	}
}

// EndpointConfigs returns the per-route limits. Uploads are the most expensive
// route and get their own budget; quiz and read routes share the default.
func EndpointConfigs(uploadLimit int, uploadWindow time.Duration) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/screenings", Method: "POST", Limit: uploadLimit, Window: uploadWindow, Burst: max(uploadLimit/6, 1)},
		{Path: "/diagnostics", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/analytics/export.xlsx", Method: "GET", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/sessions", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/screenings", Method: "DELETE", Limit: 30, Window: time.Minute, Burst: 5},
	}
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			set[item] = true
		}
	}
	return set
}
