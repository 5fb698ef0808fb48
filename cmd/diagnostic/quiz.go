package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/jonathan/screening-diagnostic/internal/content"
	"github.com/jonathan/screening-diagnostic/internal/observability"
	"github.com/jonathan/screening-diagnostic/internal/quiz"
	"github.com/jonathan/screening-diagnostic/internal/types"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take the systematic AI validation knowledge check",
	Long:  "Walks through the multiple-choice knowledge check one question at a time, then optionally the practical exercise.",
	RunE:  runQuiz,
}

var quizExercise bool

func init() {
	quizCmd.Flags().BoolVar(&quizExercise, "exercise", false, "Continue with the practical exercise after the quiz")
	rootCmd.AddCommand(quizCmd)
}

// prompter asks the user for input.
type prompter interface {
	Choose(label string, options []string) (string, error)
	Input(label string, required bool) (string, error)
}

type terminalPrompter struct{}

func (terminalPrompter) Choose(label string, options []string) (string, error) {
	prompt := promptui.Select{
		Label: label,
		Items: options,
		Size:  len(options),
	}
	_, selected, err := prompt.Run()
	return selected, err
}

func (terminalPrompter) Input(label string, required bool) (string, error) {
	prompt := promptui.Prompt{Label: label}
	if required {
		prompt.Validate = func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("an answer is required")
			}
			return nil
		}
	}
	return prompt.Run()
}

func runQuiz(cmd *cobra.Command, _ []string) error {
	bank, err := quiz.DefaultBank()
	if err != nil {
		return err
	}
	return takeQuiz(cmd.OutOrStdout(), quiz.NewProgress(bank), terminalPrompter{}, quizExercise)
}

// takeQuiz runs the quiz to completion and, when exercise is set, collects
// the exercise response.
func takeQuiz(out io.Writer, progress *quiz.Progress, p prompter, exercise bool) error {
	printer := observability.NewPrinter(out)

	for {
		snapshot := progress.Snapshot()
		if snapshot.Result != nil {
			printer.PrintQuizResult(*snapshot.Result)
			break
		}

		q := snapshot.Question
		answer, err := p.Choose(fmt.Sprintf("Question %d of %d: %s", q.Number, snapshot.Total, q.Prompt), q.Options)
		if err != nil {
			return err
		}
		fb, err := progress.Answer(answer)
		if err != nil {
			return err
		}
		printer.PrintFeedback(fb)

		if err := progress.Next(); err != nil {
			return err
		}
	}

	if !exercise {
		return nil
	}
	return takeExercise(out, progress, p)
}

// exerciseField is one free-text answer of the practical exercise.
type exerciseField struct {
	label    string
	required bool
	dst      *string
}

func takeExercise(out io.Writer, progress *quiz.Progress, p prompter) error {
	if err := progress.StartExercise(); err != nil {
		return err
	}

	doc, err := content.Exercise()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s\n\n", doc.Body)

	var resp types.ExerciseResponse
	fields := []exerciseField{
		{label: "Diagnostic standards", required: true, dst: &resp.Standards},
		{label: "Accuracy testing", required: true, dst: &resp.AccuracyTest},
		{label: "Bias testing", dst: &resp.BiasTest},
		{label: "Human oversight plan", required: true, dst: &resp.HumanPlan},
		{label: "How did you apply systematic doubt", dst: &resp.DoubtApplied},
		{label: "Risks without diagnosis", dst: &resp.RisksWithout},
	}
	for _, f := range fields {
		answer, err := p.Input(f.label, f.required)
		if err != nil {
			return err
		}
		*f.dst = strings.TrimSpace(answer)
	}

	if err := progress.SubmitExercise(resp); err != nil {
		return err
	}
	fmt.Fprintln(out, "Diagnostic plan submitted.")
	return nil
}
