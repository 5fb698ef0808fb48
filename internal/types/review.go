package types

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// HumanDecision is the reviewer's verdict for a candidate.
type HumanDecision string

// Reviewer verdicts offered by the review form.
const (
	HumanAccept        HumanDecision = "Accept"
	HumanReject        HumanDecision = "Reject"
	HumanInterview     HumanDecision = "Interview"
	HumanFurtherReview HumanDecision = "Further Review"
)

// HumanDecisions lists the verdicts in form order.
var HumanDecisions = []HumanDecision{HumanAccept, HumanReject, HumanInterview, HumanFurtherReview}

// ReviewerRoles lists the reviewer roles offered by the diagnostic form.
var ReviewerRoles = []string{"Senior HR Manager", "Technical Hiring Manager", "Department Head"}

// ReviewRecord is one human judgement of an AI decision. It is never mutated after creation.
type ReviewRecord struct {
	SubjectID     uuid.UUID     `json:"subject_id"`
	SubjectName   string        `json:"subject_name"`
	AIDecision    Decision      `json:"ai_decision"`
	AIScore       int           `json:"ai_score"`
	HumanDecision HumanDecision `json:"human_decision"`
	Agreement     bool          `json:"agreement"`
	Confidence    int           `json:"confidence"`
	Notes         string        `json:"notes,omitempty"`
	ReviewerRole  string        `json:"reviewer_role"`
	CreatedAt     time.Time     `json:"created_at"`
}

// NewReviewRecord builds a record for a scored candidate. Agreement is a
// case-insensitive comparison of the AI and human decisions.
func NewReviewRecord(c Candidate, in ReviewInput, role string) ReviewRecord {
	rec := ReviewRecord{
		SubjectID:     c.ID,
		SubjectName:   c.Name,
		HumanDecision: HumanDecision(in.HumanDecision),
		Confidence:    in.Confidence,
		Notes:         in.Notes,
		ReviewerRole:  role,
		CreatedAt:     time.Now().UTC(),
	}
	if c.Result != nil {
		rec.AIDecision = c.Result.Decision
		rec.AIScore = c.Result.TotalScore
	}
	rec.Agreement = strings.EqualFold(string(rec.AIDecision), string(rec.HumanDecision))
	return rec
}

// ReviewInput is the per-candidate part of a diagnostic review request.
type ReviewInput struct {
	HumanDecision string `json:"human_decision" validate:"required,oneof='Accept' 'Reject' 'Interview' 'Further Review'"`
	Confidence    int    `json:"confidence" validate:"required,min=1,max=10"`
	Notes         string `json:"notes,omitempty" validate:"max=2000"`
}

// DiagnosticTests selects which diagnostic analyses to run.
type DiagnosticTests struct {
	Accuracy    bool `json:"accuracy"`
	Consistency bool `json:"consistency"`
	Bias        bool `json:"bias"`
}

// DiagnosticRequest configures a diagnostic review over the session's results.
type DiagnosticRequest struct {
	ReviewerRole    string          `json:"reviewer_role" validate:"required,oneof='Senior HR Manager' 'Technical Hiring Manager' 'Department Head'"`
	ReviewThreshold *int            `json:"review_threshold,omitempty" validate:"omitempty,min=0,max=100"`
	SampleSize      int             `json:"sample_size,omitempty" validate:"min=0"`
	Tests           DiagnosticTests `json:"tests"`
	Reviews         []ReviewInput   `json:"reviews,omitempty" validate:"dive"`
}

// Validate validates the DiagnosticRequest using the validator.
func (r *DiagnosticRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
