package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// minSecretLength is the shortest accepted signing secret, in bytes.
const minSecretLength = 16

// SessionConfig holds configuration for session tokens and the session store.
type SessionConfig struct {
	Secret          string        `mapstructure:"secret"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	CookieName      string        `mapstructure:"cookie_name"`
}

// normalize fills in an ephemeral signing secret when none is configured.
// Sessions live in memory, so tokens signed with it die with the process anyway.
func (c *SessionConfig) normalize() error {
	if c.Secret != "" {
		return nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("failed to generate session secret: %w", err)
	}
	c.Secret = hex.EncodeToString(buf)
	return nil
}

func (c *SessionConfig) validate() error {
	if len(c.Secret) < minSecretLength {
		return fmt.Errorf("config error: 'session.secret' must be at least %d characters", minSecretLength)
	}
	if c.TTL < time.Minute {
		return fmt.Errorf("config error: 'session.ttl' must be at least 1 minute, got: %s", c.TTL)
	}
	if c.CleanupInterval <= 0 {
		return fmt.Errorf("config error: 'session.cleanup_interval' must be positive")
	}
	if c.CookieName == "" {
		return fmt.Errorf("config error: 'session.cookie_name' cannot be empty")
	}
	return nil
}
