package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/screening-diagnostic/internal/quiz"
	"github.com/jonathan/screening-diagnostic/internal/types"
)

// scriptedPrompter answers the first correct questions right and the rest
// wrong, then replies to inputs in order.
type scriptedPrompter struct {
	bank    *quiz.Bank
	correct int
	asked   int
	inputs  []string
	labels  []string
}

func (p *scriptedPrompter) Choose(label string, options []string) (string, error) {
	p.asked++
	p.labels = append(p.labels, label)
	q, _ := p.bank.Question(p.asked)
	if p.asked <= p.correct {
		return q.Correct, nil
	}
	for _, opt := range options {
		if opt != q.Correct {
			return opt, nil
		}
	}
	return "", nil
}

func (p *scriptedPrompter) Input(label string, _ bool) (string, error) {
	if len(p.inputs) == 0 {
		return "", promptui.ErrInterrupt
	}
	answer := p.inputs[0]
	p.inputs = p.inputs[1:]
	return answer, nil
}

func TestTakeQuiz(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		score   string
		message string
	}{
		{name: "perfect", correct: 5, score: "Final Score: 5/5 (100%)", message: "Excellent understanding"},
		{name: "good", correct: 3, score: "Final Score: 3/5 (60%)", message: "Good foundation"},
		{name: "study", correct: 1, score: "Final Score: 1/5 (20%)", message: "Additional study recommended"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bank := quiz.MustDefaultBank()
			p := &scriptedPrompter{bank: bank, correct: tt.correct}
			progress := quiz.NewProgress(bank)
			var out bytes.Buffer

			require.NoError(t, takeQuiz(&out, progress, p, false))

			assert.Equal(t, bank.Len(), p.asked)
			assert.True(t, strings.HasPrefix(p.labels[0], "Question 1 of 5: "))
			assert.Contains(t, out.String(), tt.score)
			assert.Contains(t, out.String(), tt.message)
			assert.Equal(t, tt.correct, strings.Count(out.String(), "Correct!"))
			assert.Equal(t, quiz.PageQuiz, progress.Snapshot().Page)
		})
	}
}

func TestTakeQuiz_Exercise(t *testing.T) {
	bank := quiz.MustDefaultBank()
	p := &scriptedPrompter{
		bank:    bank,
		correct: 4,
		inputs: []string{
			"Accuracy above 90% on a labelled sample",
			"Weekly review of 50 transcripts",
			"",
			"  Escalate refunds over $100 to an agent  ",
			"Questioned every automated answer",
			"",
		},
	}
	progress := quiz.NewProgress(bank)
	var out bytes.Buffer

	require.NoError(t, takeQuiz(&out, progress, p, true))
	assert.Contains(t, out.String(), "Diagnostic plan submitted.")

	resp, ok := progress.Exercise()
	require.True(t, ok)
	assert.Equal(t, types.ExerciseResponse{
		Standards:    "Accuracy above 90% on a labelled sample",
		AccuracyTest: "Weekly review of 50 transcripts",
		HumanPlan:    "Escalate refunds over $100 to an agent",
		DoubtApplied: "Questioned every automated answer",
	}, resp)
	assert.Equal(t, quiz.PageExercise, progress.Snapshot().Page)
}

func TestTakeQuiz_Interrupted(t *testing.T) {
	bank := quiz.MustDefaultBank()
	p := &scriptedPrompter{bank: bank, correct: 5}
	progress := quiz.NewProgress(bank)

	err := takeQuiz(&bytes.Buffer{}, progress, p, true)
	assert.ErrorIs(t, err, promptui.ErrInterrupt)

	_, ok := progress.Exercise()
	assert.False(t, ok)
}
