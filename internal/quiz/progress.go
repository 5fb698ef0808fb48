package quiz

import (
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/jonathan/screening-diagnostic/internal/types"
)

// Page is the part of the knowledge check the user is on.
type Page string

// Pages.
const (
	PageQuiz     Page = "quiz"
	PageExercise Page = "exercise"
)

// Band grades a final quiz percentage.
type Band string

// Result bands.
const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandStudy     Band = "further_study"
)

var bandMessages = map[Band]string{
	BandExcellent: "Excellent understanding of the Diagnose concept! You've demonstrated mastery of systematic AI validation principles.",
	BandGood:      "Good foundation with room for improvement. Consider reviewing the philosophical connections and practical applications.",
	BandStudy:     "Additional study recommended. Focus on understanding how philosophical principles translate into practical AI validation methods.",
}

// ClassifyPercentage maps a final percentage to its band.
func ClassifyPercentage(pct float64) Band {
	switch {
	case pct >= 80:
		return BandExcellent
	case pct >= 60:
		return BandGood
	default:
		return BandStudy
	}
}

// State errors.
var (
	ErrAlreadyAnswered = errors.New("current question already answered")
	ErrNotAnswered     = errors.New("current question has not been answered")
	ErrQuizComplete    = errors.New("quiz is complete")
	ErrQuizIncomplete  = errors.New("quiz is not complete")
	ErrNotOnExercise   = errors.New("exercise has not been started")
)

// InvalidAnswerError is returned for an answer that is not one of the question's options.
type InvalidAnswerError struct {
	Answer string
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("%q is not an option for the current question", e.Answer)
}

// Feedback is shown after an answer is submitted.
type Feedback struct {
	Correct       bool   `json:"correct"`
	Answer        string `json:"answer"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

// QuestionView is a question without its answer.
type QuestionView struct {
	Number  int      `json:"number"`
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
}

// Result is the outcome of a completed quiz.
type Result struct {
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Band       Band    `json:"band"`
	Message    string  `json:"message"`
}

// Snapshot is a point-in-time copy of the quiz state.
type Snapshot struct {
	Page              Page           `json:"page"`
	Current           int            `json:"current_question"`
	Total             int            `json:"total_questions"`
	Score             int            `json:"score"`
	Answers           map[int]string `json:"answers"`
	Question          *QuestionView  `json:"question,omitempty"`
	Feedback          *Feedback      `json:"feedback,omitempty"`
	Result            *Result        `json:"result,omitempty"`
	ExerciseSubmitted bool           `json:"exercise_submitted"`
}

// Progress is one user's walk through the quiz. It is safe for concurrent use.
type Progress struct {
	mu                sync.Mutex
	bank              *Bank
	current           int
	score             int
	answers           map[int]string
	feedback          *Feedback
	page              Page
	exerciseSubmitted bool
	exercise          *types.ExerciseResponse
}

// NewProgress starts a quiz at the first question.
func NewProgress(bank *Bank) *Progress {
	p := &Progress{bank: bank}
	p.reset()
	return p
}

func (p *Progress) reset() {
	p.current = 1
	p.score = 0
	p.answers = make(map[int]string)
	p.feedback = nil
	p.page = PageQuiz
	p.exerciseSubmitted = false
	p.exercise = nil
}

func (p *Progress) complete() bool {
	return p.current > p.bank.Len()
}

// Snapshot returns the current state.
func (p *Progress) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Snapshot{
		Page:              p.page,
		Current:           p.current,
		Total:             p.bank.Len(),
		Score:             p.score,
		Answers:           maps.Clone(p.answers),
		ExerciseSubmitted: p.exerciseSubmitted,
	}
	if p.feedback != nil {
		fb := *p.feedback
		s.Feedback = &fb
	}
	if q, ok := p.bank.Question(p.current); ok {
		s.Question = &QuestionView{Number: p.current, Prompt: q.Prompt, Options: q.Options}
	}
	if p.complete() {
		r := p.result()
		s.Result = &r
	}
	return s
}

func (p *Progress) result() Result {
	total := p.bank.Len()
	pct := float64(p.score*100) / float64(total)
	band := ClassifyPercentage(pct)
	return Result{
		Score:      p.score,
		Total:      total,
		Percentage: pct,
		Band:       band,
		Message:    bandMessages[band],
	}
}

// Answer scores an answer to the current question. A question is scored at
// most once; a second answer before moving on is rejected.
func (p *Progress) Answer(answer string) (Feedback, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.complete() {
		return Feedback{}, ErrQuizComplete
	}
	if p.feedback != nil {
		return Feedback{}, ErrAlreadyAnswered
	}

	q, _ := p.bank.Question(p.current)
	if !q.HasOption(answer) {
		return Feedback{}, &InvalidAnswerError{Answer: answer}
	}

	fb := Feedback{
		Correct:       answer == q.Correct,
		Answer:        answer,
		CorrectAnswer: q.Correct,
		Explanation:   q.Explanation,
	}
	if fb.Correct {
		p.score++
	}
	p.answers[p.current] = answer
	p.feedback = &fb
	return fb, nil
}

// Next advances to the following question. The current question must have been answered.
func (p *Progress) Next() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.complete() {
		return ErrQuizComplete
	}
	if p.feedback == nil {
		return ErrNotAnswered
	}
	p.current++
	p.feedback = nil
	return nil
}

// Restart clears all progress, including the exercise.
func (p *Progress) Restart() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
}

// StartExercise moves to the exercise page once the quiz is complete.
func (p *Progress) StartExercise() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.complete() {
		return ErrQuizIncomplete
	}
	p.page = PageExercise
	return nil
}

// BackToQuiz returns to the quiz results page.
func (p *Progress) BackToQuiz() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.page = PageQuiz
}

// SubmitExercise records the exercise response. Standards, accuracy testing and
// the human oversight plan are required.
func (p *Progress) SubmitExercise(resp types.ExerciseResponse) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.page != PageExercise {
		return ErrNotOnExercise
	}
	if err := resp.Validate(); err != nil {
		return err
	}
	p.exercise = &resp
	p.exerciseSubmitted = true
	return nil
}

// Exercise returns the submitted exercise response, if any.
func (p *Progress) Exercise() (types.ExerciseResponse, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.exercise == nil {
		return types.ExerciseResponse{}, false
	}
	return *p.exercise, true
}
