// Package diagnostic computes the review statistics used to validate the scorer's decisions.
// Every function recomputes from its inputs; nothing is cached between calls.
package diagnostic

import (
	"errors"
	"math"

	"github.com/jonathan/screening-diagnostic/internal/types"
)

// ErrNoData is returned when a statistic is requested over an empty batch.
var ErrNoData = errors.New("no data")

// AcceptanceFlag classifies an acceptance rate.
type AcceptanceFlag string

// Acceptance rate classes.
const (
	OverFiltering  AcceptanceFlag = "over-filtering"
	UnderFiltering AcceptanceFlag = "under-filtering"
	Reasonable     AcceptanceFlag = "reasonable"
)

// Acceptance rate thresholds.
const (
	overFilteringBelow  = 0.05
	underFilteringAbove = 0.5
)

// AgreementRate is the fraction of reviews where the human agreed with the scorer.
func AgreementRate(reviews []types.ReviewRecord) (float64, error) {
	if len(reviews) == 0 {
		return 0, ErrNoData
	}
	agreed := 0
	for _, r := range reviews {
		if r.Agreement {
			agreed++
		}
	}
	return float64(agreed) / float64(len(reviews)), nil
}

// Overrides counts reviews where the human disagreed with the scorer.
func Overrides(reviews []types.ReviewRecord) int {
	n := 0
	for _, r := range reviews {
		if !r.Agreement {
			n++
		}
	}
	return n
}

// AverageConfidence is the mean reviewer confidence.
func AverageConfidence(reviews []types.ReviewRecord) (float64, error) {
	if len(reviews) == 0 {
		return 0, ErrNoData
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Confidence
	}
	return float64(sum) / float64(len(reviews)), nil
}

// Scores returns the total scores of the results.
func Scores(results []types.ScoringResult) []int {
	out := make([]int, len(results))
	for i, r := range results {
		out[i] = r.TotalScore
	}
	return out
}

// MeanScore is the arithmetic mean of the total scores.
func MeanScore(results []types.ScoringResult) (float64, error) {
	if len(results) == 0 {
		return 0, ErrNoData
	}
	sum := 0
	for _, r := range results {
		sum += r.TotalScore
	}
	return float64(sum) / float64(len(results)), nil
}

// Dispersion is the sample standard deviation (n-1 denominator) of the total scores.
// It is 0 for fewer than two results and when every score is identical.
func Dispersion(results []types.ScoringResult) float64 {
	n := len(results)
	if n < 2 || identical(results) {
		return 0
	}

	mean, _ := MeanScore(results)
	var ss float64
	for _, r := range results {
		d := float64(r.TotalScore) - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(n-1))
	if math.IsNaN(std) {
		return 0
	}
	return std
}

// AcceptanceRate is the fraction of results the scorer accepted.
func AcceptanceRate(results []types.ScoringResult) (float64, error) {
	if len(results) == 0 {
		return 0, ErrNoData
	}
	accepted := 0
	for _, r := range results {
		if r.Accepted() {
			accepted++
		}
	}
	return float64(accepted) / float64(len(results)), nil
}

// ClassifyAcceptance maps an acceptance rate to its flag.
func ClassifyAcceptance(rate float64) AcceptanceFlag {
	switch {
	case rate < overFilteringBelow:
		return OverFiltering
	case rate > underFilteringAbove:
		return UnderFiltering
	default:
		return Reasonable
	}
}

func identical(results []types.ScoringResult) bool {
	for _, r := range results[1:] {
		if r.TotalScore != results[0].TotalScore {
			return false
		}
	}
	return true
}
