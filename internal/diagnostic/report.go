package diagnostic

import (
	"fmt"

	"github.com/jonathan/screening-diagnostic/internal/types"
)

// AgreementBand summarizes how well the scorer matches human judgement.
type AgreementBand string

// Agreement bands.
const (
	AgreementHigh     AgreementBand = "high"
	AgreementModerate AgreementBand = "moderate"
	AgreementLow      AgreementBand = "low"
)

// ConsistencyBand summarizes the spread of scores in a sample.
type ConsistencyBand string

// Consistency bands. Identical scores usually mean the resume text was not read.
const (
	ScoresIdentical    ConsistencyBand = "identical"
	ScoresConsistent   ConsistencyBand = "consistent"
	ScoresHighVariance ConsistencyBand = "high_variance"
)

// Review configuration defaults.
const (
	DefaultThreshold  = 70
	DefaultSampleSize = 5
	maxConsistentStd  = 20.0
)

// ClassifyAgreement maps an agreement rate to its band.
func ClassifyAgreement(rate float64) AgreementBand {
	switch {
	case rate >= 0.8:
		return AgreementHigh
	case rate >= 0.6:
		return AgreementModerate
	default:
		return AgreementLow
	}
}

// ClassifyConsistency maps a standard deviation to its band.
func ClassifyConsistency(std float64) ConsistencyBand {
	switch {
	case std == 0:
		return ScoresIdentical
	case std <= maxConsistentStd:
		return ScoresConsistent
	default:
		return ScoresHighVariance
	}
}

// SampleSize resolves the requested review sample size against the available results.
// Zero selects min(DefaultSampleSize, available); anything else is clamped to [1, available].
func SampleSize(requested, available int) int {
	if available <= 0 {
		return 0
	}
	if requested <= 0 {
		return min(DefaultSampleSize, available)
	}
	return min(requested, available)
}

// ReviewCountError is returned when the human reviews do not line up with the sample.
type ReviewCountError struct {
	Want int
	Got  int
}

func (e *ReviewCountError) Error() string {
	return fmt.Sprintf("expected %d reviews for the sample, got %d", e.Want, e.Got)
}

// Config selects the analyses of a diagnostic review.
type Config struct {
	ReviewerRole string
	Threshold    int
	Tests        types.DiagnosticTests
}

// AccuracyReport compares scorer decisions with human decisions.
type AccuracyReport struct {
	ReviewerRole      string               `json:"reviewer_role"`
	Reviews           []types.ReviewRecord `json:"reviews"`
	AgreementRate     float64              `json:"agreement_rate"`
	Overrides         int                  `json:"overrides"`
	AverageConfidence float64              `json:"average_confidence"`
	Band              AgreementBand        `json:"band"`
}

// ConsistencyReport describes the spread of total scores.
type ConsistencyReport struct {
	StdDev float64         `json:"std_dev"`
	Mean   float64         `json:"mean"`
	Band   ConsistencyBand `json:"band"`
}

// BiasReport flags acceptance rates that suggest over- or under-filtering.
type BiasReport struct {
	AcceptanceRate float64        `json:"acceptance_rate"`
	Flag           AcceptanceFlag `json:"flag"`
}

// Report is the outcome of one diagnostic review.
type Report struct {
	SampleSize      int                `json:"sample_size"`
	Threshold       int                `json:"review_threshold"`
	MandatoryReview []string           `json:"mandatory_review"`
	Accuracy        *AccuracyReport    `json:"accuracy,omitempty"`
	Consistency     *ConsistencyReport `json:"consistency,omitempty"`
	Bias            *BiasReport        `json:"bias,omitempty"`
}

// Run analyzes a sample of scored candidates. When the accuracy test is selected,
// reviews must hold exactly one record per sampled candidate, in the same order.
func Run(cfg Config, sample []types.Candidate, reviews []types.ReviewRecord) (*Report, error) {
	if len(sample) == 0 {
		return nil, ErrNoData
	}

	results := make([]types.ScoringResult, 0, len(sample))
	report := &Report{
		SampleSize:      len(sample),
		Threshold:       cfg.Threshold,
		MandatoryReview: []string{},
	}
	for _, c := range sample {
		if c.Result == nil {
			return nil, fmt.Errorf("candidate %s has no scoring result", c.Name)
		}
		results = append(results, *c.Result)
		if c.Result.TotalScore < cfg.Threshold {
			report.MandatoryReview = append(report.MandatoryReview, c.Name)
		}
	}

	if cfg.Tests.Accuracy {
		if len(reviews) != len(sample) {
			return nil, &ReviewCountError{Want: len(sample), Got: len(reviews)}
		}
		rate, _ := AgreementRate(reviews)
		confidence, _ := AverageConfidence(reviews)
		report.Accuracy = &AccuracyReport{
			ReviewerRole:      cfg.ReviewerRole,
			Reviews:           reviews,
			AgreementRate:     rate,
			Overrides:         Overrides(reviews),
			AverageConfidence: confidence,
			Band:              ClassifyAgreement(rate),
		}
	}

	if cfg.Tests.Consistency {
		std := Dispersion(results)
		mean, _ := MeanScore(results)
		report.Consistency = &ConsistencyReport{
			StdDev: std,
			Mean:   mean,
			Band:   ClassifyConsistency(std),
		}
	}

	if cfg.Tests.Bias {
		rate, _ := AcceptanceRate(results)
		report.Bias = &BiasReport{
			AcceptanceRate: rate,
			Flag:           ClassifyAcceptance(rate),
		}
	}

	return report, nil
}
