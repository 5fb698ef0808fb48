package types

import "github.com/go-playground/validator/v10"

// Question is one multiple-choice item of the knowledge check.
type Question struct {
	Prompt      string   `json:"question"`
	Options     []string `json:"options"`
	Correct     string   `json:"correct"`
	Explanation string   `json:"explanation"`
}

// HasOption reports whether answer is one of the question's options.
func (q Question) HasOption(answer string) bool {
	for _, opt := range q.Options {
		if opt == answer {
			return true
		}
	}
	return false
}

// AnswerRequest submits an answer for the current question.
type AnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// Validate validates the AnswerRequest using the validator.
func (r *AnswerRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ExerciseResponse is the free-text diagnostic plan submitted after the quiz.
// Standards, accuracy testing and the human oversight plan are mandatory.
type ExerciseResponse struct {
	Standards    string `json:"standards" validate:"required"`
	AccuracyTest string `json:"accuracy_test" validate:"required"`
	BiasTest     string `json:"bias_test,omitempty"`
	HumanPlan    string `json:"human_plan" validate:"required"`
	DoubtApplied string `json:"reflection_doubt,omitempty"`
	RisksWithout string `json:"reflection_risks,omitempty"`
}

// Validate validates the ExerciseResponse using the validator.
func (r *ExerciseResponse) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
