package screening

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/screening-diagnostic/internal/profiles"
	"github.com/jonathan/screening-diagnostic/internal/types"
)

func profile(t *testing.T, key string) types.JobProfile {
	t.Helper()
	p, err := profiles.MustDefault().Get(key)
	require.NoError(t, err)
	return p
}

func TestScore_DataEngineerExample(t *testing.T) {
	result := Score("5 years experience with Python, SQL, ETL pipelines, Spark", profile(t, "data_engineer"))

	assert.Equal(t, []string{"python", "sql", "etl", "spark"}, result.MatchedSkills)
	assert.Equal(t, 46, result.SkillsScore) // 4/6*70
	assert.Equal(t, 5, result.ExperienceYears)
	assert.Equal(t, "5 years", result.ExperienceAssessment)
	assert.Equal(t, 100, result.ExperienceScore)
	assert.Equal(t, 50, result.EducationScore)
	assert.Equal(t, 63, result.TotalScore) // 46.67*0.5 + 100*0.3 + 50*0.2
	assert.Equal(t, types.DecisionReject, result.Decision)
}

func TestScore_DecisionBoundary(t *testing.T) {
	de := profile(t, "data_engineer")

	// 5/6 required, 0 preferred, 2/3 experience, education matched: 29.17 + 20 + 20.
	below := Score("python sql etl spark airflow, 2 years experience, master", de)
	assert.Equal(t, 69, below.TotalScore)
	assert.Equal(t, types.DecisionReject, below.Decision)

	// 3/6 required, 1/5 preferred, full experience, education matched: 20.5 + 30 + 20.
	at := Score("python sql etl aws 4 years of experience bachelor", de)
	assert.Equal(t, 70, at.TotalScore)
	assert.Equal(t, types.DecisionAccept, at.Decision)
}

func TestScore_NoSkills(t *testing.T) {
	result := Score("Gardening and carpentry", profile(t, "data_engineer"))
	assert.Equal(t, 0, result.SkillsScore)
	assert.Empty(t, result.MatchedSkills)
}

func TestScore_AllSkills(t *testing.T) {
	for _, key := range []string{"data_engineer", "data_analyst"} {
		p := profile(t, key)
		text := strings.Join(append(append([]string{}, p.RequiredSkills...), p.PreferredSkills...), " ")

		b := Analyze(text, p)
		assert.InDelta(t, 100.0, b.Skills, 1e-9, key)
		assert.Equal(t, 100, b.Result().SkillsScore, key)
	}
}

func TestScore_ShortSkillMatchesInsideWords(t *testing.T) {
	// "r" matches any resume containing the letter, a known simplification.
	result := Score("Worked on reports", profile(t, "data_analyst"))
	assert.Contains(t, result.MatchedSkills, "r")
}

func TestScore_MatchedSkillsOrder(t *testing.T) {
	result := Score("kafka docker airflow python", profile(t, "data_engineer"))
	assert.Equal(t, []string{"python", "airflow", "docker", "kafka"}, result.MatchedSkills)
}

func TestScore_ExperienceMonotonicAndCapped(t *testing.T) {
	p := profile(t, "data_engineer")

	prev := -1.0
	for years := 0; years <= 12; years++ {
		b := Analyze(strconv.Itoa(years)+" years experience", p)
		assert.GreaterOrEqual(t, b.Experience, prev)
		assert.LessOrEqual(t, b.Experience, 100.0)
		prev = b.Experience
	}
	assert.Equal(t, 100.0, prev)
}

func TestScore_TotalInRange(t *testing.T) {
	inputs := []string{
		"",
		"senior",
		"python sql etl data pipeline spark airflow aws docker kubernetes kafka hadoop 30 years experience master",
		"excel tableau power bi statistics looker 1 year experience",
	}
	for _, key := range []string{"data_engineer", "data_analyst"} {
		for _, in := range inputs {
			result := Score(in, profile(t, key))
			assert.GreaterOrEqual(t, result.TotalScore, 0)
			assert.LessOrEqual(t, result.TotalScore, 100)
			assert.Equal(t, types.DecisionFor(result.TotalScore), result.Decision)
		}
	}
}

func TestScore_EducationBinary(t *testing.T) {
	p := profile(t, "data_analyst")
	assert.Equal(t, 100, Score("MATHEMATICS degree", p).EducationScore)
	assert.Equal(t, 50, Score("self taught", p).EducationScore)
}

func TestScorer_Screen(t *testing.T) {
	s := NewScorer(profiles.MustDefault())

	result, err := s.Screen("Senior engineer with python", "data_engineer")
	require.NoError(t, err)
	assert.Equal(t, 5, result.ExperienceYears)

	_, err = s.Screen("anything", "unknown")
	var unknown *profiles.UnknownProfileError
	assert.True(t, errors.As(err, &unknown))
}
