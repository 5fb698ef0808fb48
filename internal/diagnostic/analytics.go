package diagnostic

import "github.com/jonathan/screening-diagnostic/internal/types"

// HighConfidenceScore is the total score from which a case counts as high confidence.
const HighConfidenceScore = 80

const histogramBuckets = 10

// Bucket is one bar of the score histogram. Low and High are both inclusive;
// the last bucket runs from 90 to 100.
type Bucket struct {
	Low   int `json:"low"`
	High  int `json:"high"`
	Count int `json:"count"`
}

// Analytics summarizes every scoring result of a session.
type Analytics struct {
	Total          int      `json:"total"`
	Accepted       int      `json:"accepted"`
	AverageScore   float64  `json:"average_score"`
	HighConfidence int      `json:"high_confidence"`
	Histogram      []Bucket `json:"histogram"`
}

// Analyze computes system analytics over results.
func Analyze(results []types.ScoringResult) (Analytics, error) {
	mean, err := MeanScore(results)
	if err != nil {
		return Analytics{}, err
	}

	a := Analytics{
		Total:        len(results),
		AverageScore: mean,
		Histogram:    make([]Bucket, histogramBuckets),
	}
	width := 100 / histogramBuckets
	for i := range a.Histogram {
		a.Histogram[i] = Bucket{Low: i * width, High: (i+1)*width - 1}
	}
	a.Histogram[histogramBuckets-1].High = 100

	for _, r := range results {
		if r.Accepted() {
			a.Accepted++
		}
		if r.TotalScore >= HighConfidenceScore {
			a.HighConfidence++
		}
		idx := min(max(r.TotalScore/width, 0), histogramBuckets-1)
		a.Histogram[idx].Count++
	}

	return a, nil
}
