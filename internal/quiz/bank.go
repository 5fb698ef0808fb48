// Package quiz runs the knowledge check on systematic AI validation and the
// practical exercise that follows it.
package quiz

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jonathan/screening-diagnostic/internal/schemas"
	"github.com/jonathan/screening-diagnostic/internal/types"
)

//go:embed bank.json
var bankJSON []byte

//go:embed bank.schema.json
var bankSchema []byte

// Bank is an ordered, read-only set of questions.
type Bank struct {
	questions []types.Question
}

// LoadBank validates data against the bank schema and parses it. Every
// question's correct answer must be one of its options.
func LoadBank(data []byte) (*Bank, error) {
	if err := schemas.Validate("bank.schema.json", bankSchema, "question bank", data); err != nil {
		return nil, err
	}

	var doc struct {
		Questions []types.Question `json:"questions"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse question bank: %w", err)
	}

	for i, q := range doc.Questions {
		if !q.HasOption(q.Correct) {
			return nil, fmt.Errorf("question %d: correct answer %q is not an option", i+1, q.Correct)
		}
	}

	return &Bank{questions: doc.Questions}, nil
}

var (
	defaultBank    *Bank
	defaultBankErr error
	defaultOnce    sync.Once
)

// DefaultBank returns the embedded question bank, loading it on first use.
func DefaultBank() (*Bank, error) {
	defaultOnce.Do(func() {
		defaultBank, defaultBankErr = LoadBank(bankJSON)
	})
	return defaultBank, defaultBankErr
}

// MustDefaultBank is DefaultBank for callers that cannot continue without it.
func MustDefaultBank() *Bank {
	b, err := DefaultBank()
	if err != nil {
		panic(fmt.Sprintf("failed to load question bank: %v", err))
	}
	return b
}

// Len returns the number of questions.
func (b *Bank) Len() int {
	return len(b.questions)
}

// Question returns the question at 1-based position n.
func (b *Bank) Question(n int) (types.Question, bool) {
	if n < 1 || n > len(b.questions) {
		return types.Question{}, false
	}
	return b.questions[n-1], true
}
