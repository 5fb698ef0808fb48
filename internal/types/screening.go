package types

import "github.com/google/uuid"

// Decision is the binary outcome produced by the resume scorer.
type Decision string

// Scorer decisions.
const (
	DecisionAccept Decision = "Accept"
	DecisionReject Decision = "Reject"
)

// AcceptThreshold is the minimum total score that yields an Accept decision.
const AcceptThreshold = 70

// DecisionFor returns the decision for a total score.
func DecisionFor(totalScore int) Decision {
	if totalScore >= AcceptThreshold {
		return DecisionAccept
	}
	return DecisionReject
}

// ScoringResult is the breakdown produced for one resume against one job profile.
type ScoringResult struct {
	Decision             Decision `json:"decision"`
	TotalScore           int      `json:"total_score"`
	SkillsScore          int      `json:"skills_score"`
	ExperienceScore      int      `json:"experience_score"`
	EducationScore       int      `json:"education_score"`
	MatchedSkills        []string `json:"matched_skills"`
	ExperienceYears      int      `json:"experience_estimate_years"`
	ExperienceAssessment string   `json:"experience_assessment"`
}

// Accepted reports whether the scorer recommended the candidate.
func (r ScoringResult) Accepted() bool {
	return r.Decision == DecisionAccept
}

// Candidate is one screened upload held in a session.
// Result is nil when the upload could not be decoded; Error then says why.
type Candidate struct {
	ID       uuid.UUID      `json:"id"`
	Name     string         `json:"name"`
	Filename string         `json:"filename"`
	JobType  string         `json:"job_type"`
	Charset  string         `json:"charset,omitempty"`
	Preview  string         `json:"preview,omitempty"`
	Result   *ScoringResult `json:"result,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// Scored reports whether the candidate carries a scoring result.
func (c Candidate) Scored() bool {
	return c.Result != nil
}

// ScreeningSummary aggregates the decisions of a batch of candidates.
type ScreeningSummary struct {
	Processed      int     `json:"processed"`
	Accepted       int     `json:"accepted"`
	Rejected       int     `json:"rejected"`
	Failed         int     `json:"failed"`
	AcceptanceRate float64 `json:"acceptance_rate_percent"`
}
