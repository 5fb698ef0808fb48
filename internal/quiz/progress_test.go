package quiz

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/screening-diagnostic/internal/types"
)

func answerAll(t *testing.T, p *Progress, correct int) {
	t.Helper()
	bank := MustDefaultBank()
	for n := 1; n <= bank.Len(); n++ {
		q, _ := bank.Question(n)
		answer := q.Correct
		if n > correct {
			for _, opt := range q.Options {
				if opt != q.Correct {
					answer = opt
					break
				}
			}
		}
		_, err := p.Answer(answer)
		require.NoError(t, err)
		require.NoError(t, p.Next())
	}
}

func TestProgress_InitialState(t *testing.T) {
	p := NewProgress(MustDefaultBank())
	s := p.Snapshot()

	assert.Equal(t, PageQuiz, s.Page)
	assert.Equal(t, 1, s.Current)
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 0, s.Score)
	require.NotNil(t, s.Question)
	assert.Equal(t, 1, s.Question.Number)
	assert.Nil(t, s.Feedback)
	assert.Nil(t, s.Result)
}

func TestProgress_AnswerScoresOnce(t *testing.T) {
	p := NewProgress(MustDefaultBank())
	q, _ := MustDefaultBank().Question(1)

	fb, err := p.Answer(q.Correct)
	require.NoError(t, err)
	assert.True(t, fb.Correct)
	assert.Equal(t, q.Explanation, fb.Explanation)

	_, err = p.Answer(q.Correct)
	assert.ErrorIs(t, err, ErrAlreadyAnswered)

	s := p.Snapshot()
	assert.Equal(t, 1, s.Score)
	require.NotNil(t, s.Feedback)
	assert.Equal(t, q.Correct, s.Answers[1])
}

func TestProgress_IncorrectAnswer(t *testing.T) {
	p := NewProgress(MustDefaultBank())
	q, _ := MustDefaultBank().Question(1)

	fb, err := p.Answer(q.Options[0])
	require.NoError(t, err)
	assert.False(t, fb.Correct)
	assert.Equal(t, q.Correct, fb.CorrectAnswer)
	assert.Equal(t, 0, p.Snapshot().Score)
}

func TestProgress_InvalidAnswer(t *testing.T) {
	p := NewProgress(MustDefaultBank())

	_, err := p.Answer("E) None of these")
	var invalid *InvalidAnswerError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "E) None of these", invalid.Answer)
	assert.Nil(t, p.Snapshot().Feedback)
}

func TestProgress_NextRequiresAnswer(t *testing.T) {
	p := NewProgress(MustDefaultBank())

	assert.ErrorIs(t, p.Next(), ErrNotAnswered)
	assert.Equal(t, 1, p.Snapshot().Current)
}

func TestProgress_Completion(t *testing.T) {
	tests := []struct {
		correct int
		band    Band
		pct     float64
	}{
		{correct: 5, band: BandExcellent, pct: 100},
		{correct: 4, band: BandExcellent, pct: 80},
		{correct: 3, band: BandGood, pct: 60},
		{correct: 2, band: BandStudy, pct: 40},
		{correct: 0, band: BandStudy, pct: 0},
	}

	for _, tt := range tests {
		p := NewProgress(MustDefaultBank())
		answerAll(t, p, tt.correct)

		s := p.Snapshot()
		assert.Equal(t, 6, s.Current)
		assert.Nil(t, s.Question)
		require.NotNil(t, s.Result)
		assert.Equal(t, tt.correct, s.Result.Score)
		assert.InDelta(t, tt.pct, s.Result.Percentage, 1e-9)
		assert.Equal(t, tt.band, s.Result.Band)
		assert.NotEmpty(t, s.Result.Message)

		_, err := p.Answer("anything")
		assert.ErrorIs(t, err, ErrQuizComplete)
		assert.ErrorIs(t, p.Next(), ErrQuizComplete)
	}
}

func TestProgress_Restart(t *testing.T) {
	p := NewProgress(MustDefaultBank())
	answerAll(t, p, 5)
	require.NoError(t, p.StartExercise())

	p.Restart()

	s := p.Snapshot()
	assert.Equal(t, PageQuiz, s.Page)
	assert.Equal(t, 1, s.Current)
	assert.Equal(t, 0, s.Score)
	assert.Empty(t, s.Answers)
	assert.False(t, s.ExerciseSubmitted)
}

func TestProgress_Exercise(t *testing.T) {
	p := NewProgress(MustDefaultBank())

	assert.ErrorIs(t, p.StartExercise(), ErrQuizIncomplete)

	resp := types.ExerciseResponse{
		Standards:    "95% correct escalation of urgent tickets",
		AccuracyTest: "Replay a labelled sample of past tickets",
		HumanPlan:    "Agents review every urgent-keyword conversation",
	}
	assert.ErrorIs(t, p.SubmitExercise(resp), ErrNotOnExercise)

	answerAll(t, p, 3)
	require.NoError(t, p.StartExercise())
	assert.Equal(t, PageExercise, p.Snapshot().Page)

	var verrs validator.ValidationErrors
	err := p.SubmitExercise(types.ExerciseResponse{Standards: "only standards"})
	require.True(t, errors.As(err, &verrs))
	_, ok := p.Exercise()
	assert.False(t, ok)

	require.NoError(t, p.SubmitExercise(resp))
	got, ok := p.Exercise()
	require.True(t, ok)
	assert.Equal(t, resp, got)
	assert.True(t, p.Snapshot().ExerciseSubmitted)

	p.BackToQuiz()
	s := p.Snapshot()
	assert.Equal(t, PageQuiz, s.Page)
	require.NotNil(t, s.Result)
}
