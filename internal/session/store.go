package session

import (
	"errors"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jonathan/screening-diagnostic/internal/quiz"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Default store timings.
const (
	DefaultTTL             = 1 * time.Hour
	DefaultCleanupInterval = 10 * time.Minute
)

// Store keeps sessions in memory and expires them after a period of inactivity.
type Store struct {
	cache *cache.Cache
	bank  *quiz.Bank
	ttl   time.Duration
}

// NewStore creates a store whose sessions expire ttl after their last use.
func NewStore(bank *quiz.Bank, ttl, cleanupInterval time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &Store{
		cache: cache.New(ttl, cleanupInterval),
		bank:  bank,
		ttl:   ttl,
	}
}

// Create starts and stores a new session.
func (s *Store) Create() *Session {
	sess := New(s.bank)
	s.cache.Set(sess.ID, sess, cache.DefaultExpiration)
	return sess
}

// Get returns a session and extends its lifetime.
func (s *Store) Get(id string) (*Session, error) {
	x, found := s.cache.Get(id)
	if !found {
		return nil, ErrNotFound
	}
	sess := x.(*Session)
	s.cache.Set(id, sess, cache.DefaultExpiration)
	return sess, nil
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}

// TTL returns the inactivity timeout.
func (s *Store) TTL() time.Duration {
	return s.ttl
}
