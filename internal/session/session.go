// Package session holds per-user state: screening results, review records and quiz progress.
package session

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/screening-diagnostic/internal/quiz"
	"github.com/jonathan/screening-diagnostic/internal/types"
)

// Session is the state of one user of the diagnostic tool.
// Screening results are kept in submission order and never reordered.
type Session struct {
	ID        string
	CreatedAt time.Time
	Quiz      *quiz.Progress

	mu         sync.Mutex
	candidates []types.Candidate
	reviews    []types.ReviewRecord
}

// New creates an empty session with a fresh ID.
func New(bank *quiz.Bank) *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Quiz:      quiz.NewProgress(bank),
	}
}

// Screen runs fn with the number of candidates already held and appends what it returns.
// The session stays locked while fn runs so concurrent batches get disjoint positions.
func (s *Session) Screen(fn func(offset int) ([]types.Candidate, error)) ([]types.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, err := fn(len(s.candidates))
	if err != nil {
		return nil, err
	}
	s.candidates = append(s.candidates, batch...)
	return slices.Clone(batch), nil
}

// Candidates returns a copy of every candidate in submission order.
func (s *Session) Candidates() []types.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.candidates)
}

// Scored returns the candidates that carry a scoring result, in submission order.
func (s *Session) Scored() []types.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		if c.Scored() {
			out = append(out, c)
		}
	}
	return out
}

// Results returns the scoring results of every scored candidate.
func (s *Session) Results() []types.ScoringResult {
	scored := s.Scored()
	out := make([]types.ScoringResult, len(scored))
	for i, c := range scored {
		out[i] = *c.Result
	}
	return out
}

// AddReviews appends review records.
func (s *Session) AddReviews(records ...types.ReviewRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append(s.reviews, records...)
}

// Reviews returns a copy of every review record.
func (s *Session) Reviews() []types.ReviewRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.reviews)
}

// Clear drops all screening results and review records. Quiz progress is kept.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates = nil
	s.reviews = nil
}
