package screening

import (
	"fmt"
	"strings"

	"github.com/jonathan/screening-diagnostic/internal/profiles"
	"github.com/jonathan/screening-diagnostic/internal/types"
)

// Component weights and education credit.
const (
	requiredSkillWeight  = 70.0
	preferredSkillWeight = 30.0

	skillsShare     = 0.5
	experienceShare = 0.3
	educationShare  = 0.2

	educationMatched = 100.0
	educationMissing = 50.0
)

// Breakdown holds the unrounded component scores behind a ScoringResult.
type Breakdown struct {
	RequiredFound  []string
	PreferredFound []string
	Skills         float64
	Experience     float64
	Education      float64
	Years          int
}

// Total blends the components and truncates to an integer.
// The float64 conversions keep the products from being fused into FMA
// instructions, so boundary scores are identical on every platform.
func (b Breakdown) Total() int {
	return int(float64(b.Skills*skillsShare) + float64(b.Experience*experienceShare) + float64(b.Education*educationShare))
}

// Result converts the breakdown into the immutable scoring result.
func (b Breakdown) Result() types.ScoringResult {
	total := b.Total()

	matched := make([]string, 0, len(b.RequiredFound)+len(b.PreferredFound))
	matched = append(matched, b.RequiredFound...)
	matched = append(matched, b.PreferredFound...)

	return types.ScoringResult{
		Decision:             types.DecisionFor(total),
		TotalScore:           total,
		SkillsScore:          int(b.Skills),
		ExperienceScore:      int(b.Experience),
		EducationScore:       int(b.Education),
		MatchedSkills:        matched,
		ExperienceYears:      b.Years,
		ExperienceAssessment: fmt.Sprintf("%d years", b.Years),
	}
}

// Analyze computes the component scores of resumeText against profile.
// Skills and education keywords match as substrings of the lower-cased text.
func Analyze(resumeText string, profile types.JobProfile) Breakdown {
	lower := strings.ToLower(resumeText)

	b := Breakdown{
		RequiredFound:  matchSkills(lower, profile.RequiredSkills),
		PreferredFound: matchSkills(lower, profile.PreferredSkills),
		Years:          ExtractExperience(resumeText),
		Education:      educationMissing,
	}

	b.Skills = float64(ratio(len(b.RequiredFound), len(profile.RequiredSkills))*requiredSkillWeight) +
		float64(ratio(len(b.PreferredFound), len(profile.PreferredSkills))*preferredSkillWeight)

	b.Experience = min(float64(b.Years)/float64(profile.MinExperience)*100, 100)

	for _, kw := range profile.EducationKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			b.Education = educationMatched
			break
		}
	}

	return b
}

// Score returns the scoring result of resumeText against profile.
func Score(resumeText string, profile types.JobProfile) types.ScoringResult {
	return Analyze(resumeText, profile).Result()
}

// Scorer resolves job keys against a profile registry before scoring.
type Scorer struct {
	registry *profiles.Registry
}

// NewScorer creates a scorer backed by registry.
func NewScorer(registry *profiles.Registry) *Scorer {
	return &Scorer{registry: registry}
}

// Screen scores resumeText for the job identified by jobKey.
// An undefined key returns *profiles.UnknownProfileError.
func (s *Scorer) Screen(resumeText, jobKey string) (types.ScoringResult, error) {
	profile, err := s.registry.Get(jobKey)
	if err != nil {
		return types.ScoringResult{}, err
	}
	return Score(resumeText, profile), nil
}

// Profile exposes the registry lookup used by Screen.
func (s *Scorer) Profile(jobKey string) (types.JobProfile, error) {
	return s.registry.Get(jobKey)
}

func matchSkills(lowerText string, skills []string) []string {
	found := make([]string, 0, len(skills))
	for _, skill := range skills {
		if strings.Contains(lowerText, strings.ToLower(skill)) {
			found = append(found, skill)
		}
	}
	return found
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
