package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/screening-diagnostic/internal/config"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, cfg *Config) (*Limiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(cfg)
	l.now = clock.Now
	t.Cleanup(l.Stop)
	return l, clock
}

func TestTokenBucket_Take(t *testing.T) {
	now := time.Now()
	b := newTokenBucket(10, 1.0, now)

	for i := range 10 {
		ok, remaining, _ := b.take(now)
		require.True(t, ok, "request %d", i+1)
		assert.Equal(t, 9-i, remaining)
	}

	ok, _, reset := b.take(now)
	assert.False(t, ok)
	assert.Equal(t, now.Add(10*time.Second), reset)
}

func TestTokenBucket_Refill(t *testing.T) {
	now := time.Now()
	b := newTokenBucket(10, 1.0, now)
	for range 10 {
		b.take(now)
	}

	ok, _, _ := b.take(now.Add(1100 * time.Millisecond))
	assert.True(t, ok)

	ok, _, _ = b.take(now.Add(1200 * time.Millisecond))
	assert.False(t, ok)
}

func TestTokenBucket_RefillCapped(t *testing.T) {
	now := time.Now()
	b := newTokenBucket(3, 1.0, now)

	_, remaining, reset := b.take(now.Add(time.Hour))
	assert.Equal(t, 2, remaining)
	assert.True(t, reset.After(now.Add(time.Hour)))
}

func TestLimiter_Allow(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := range 10 {
		allowed, info := l.Allow("127.0.0.1", "/profiles", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := l.Allow("127.0.0.1", "/profiles", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Positive(t, info.RetryAfter)

	clock.Advance(7 * time.Second)
	allowed, _ = l.Allow("127.0.0.1", "/profiles", "GET")
	assert.True(t, allowed, "one token refills every 6s")
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	allowed, _ := l.Allow("10.0.0.1", "/quiz", "GET")
	assert.True(t, allowed)
	allowed, _ = l.Allow("10.0.0.2", "/quiz", "GET")
	assert.True(t, allowed)
	allowed, _ = l.Allow("10.0.0.1", "/quiz", "GET")
	assert.False(t, allowed)
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
		Blacklist:     map[string]bool{"192.168.1.1": true},
	})

	for range 100 {
		allowed, _ := l.Allow("127.0.0.1", "/quiz", "GET")
		require.True(t, allowed)
	}

	allowed, _ := l.Allow("192.168.1.1", "/health", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: false, DefaultLimit: 1})

	for range 10 {
		allowed, _ := l.Allow("127.0.0.1", "/screenings", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	for range 50 {
		allowed, info := l.Allow("127.0.0.1", "/health", "GET")
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_UploadEndpointStrictest(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		EndpointConfigs: EndpointConfigs(12, time.Minute),
	})

	allowedUploads := 0
	for range 10 {
		if ok, _ := l.Allow("127.0.0.1", "/screenings", "POST"); ok {
			allowedUploads++
		}
	}
	assert.Equal(t, 2, allowedUploads, "burst is a sixth of the upload limit")

	allowed, info := l.Allow("127.0.0.1", "/screenings", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 600, info.Limit)
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Hour})

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				if ok, _ := l.Allow("127.0.0.1", "/analytics", "GET"); ok {
					allowed.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), allowed.Load())
}

func TestLimiter_EvictIdle(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	l.Allow("10.0.0.1", "/quiz", "GET")
	clock.Advance(2 * time.Hour)
	l.Allow("10.0.0.2", "/quiz", "GET")

	evicted := l.evictIdle(clock.Now().Add(-time.Hour))
	assert.Equal(t, 1, evicted)
	assert.Len(t, l.buckets, 1)
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Second, CleanupInterval: time.Millisecond})
	assert.NotPanics(t, func() {
		l.Stop()
		l.Stop()
	})
}

func TestNewLimiter_NilConfig(t *testing.T) {
	l, _ := newTestLimiter(t, nil)

	allowed, info := l.Allow("127.0.0.1", "/resources", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 600, info.Limit)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/screenings", Method: "POST", Limit: 1},
		{Path: "/quiz/", Method: "POST", Limit: 2},
		{Path: "/quiz/exercise", Method: "POST", Limit: 3},
	}

	assert.Equal(t, 1, MatchEndpoint("/screenings", "POST", configs).Limit)
	assert.Nil(t, MatchEndpoint("/screenings", "GET", configs))
	assert.Equal(t, 2, MatchEndpoint("/quiz/answer", "POST", configs).Limit)
	assert.Equal(t, 3, MatchEndpoint("/quiz/exercise", "POST", configs).Limit, "exact wins over prefix")
	assert.Zero(t, MatchEndpoint("/health", "GET", configs).Limit)
	assert.Nil(t, MatchEndpoint("/health", "POST", configs))
}

func TestFromSettings(t *testing.T) {
	cfg := FromSettings(config.RateLimitConfig{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		UploadLimit:   30,
		UploadWindow:  time.Minute,
		Whitelist:     []string{" 10.0.0.1 ", ""},
	})

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 100, cfg.DefaultLimit)
	assert.Equal(t, map[string]bool{"10.0.0.1": true}, cfg.Whitelist)
	assert.Equal(t, 30, MatchEndpoint("/screenings", "POST", cfg.EndpointConfigs).Limit)

	assert.False(t, FromSettings(config.RateLimitConfig{}).Enabled)
}
