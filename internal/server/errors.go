// Package server provides the HTTP API for screening résumés and reviewing the screening.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/screening-diagnostic/internal/content"
	"github.com/jonathan/screening-diagnostic/internal/diagnostic"
	"github.com/jonathan/screening-diagnostic/internal/profiles"
	"github.com/jonathan/screening-diagnostic/internal/quiz"
	"github.com/jonathan/screening-diagnostic/internal/session"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrPayloadTooLarge indicates an upload over the configured size limit
type ErrPayloadTooLarge struct {
	Limit int64
}

func (e *ErrPayloadTooLarge) Error() string {
	return fmt.Sprintf("upload exceeds the limit of %d bytes", e.Limit)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation     *ErrValidation
		tooLarge       *ErrPayloadTooLarge
		fieldErrors    validator.ValidationErrors
		invalidAnswer  *quiz.InvalidAnswerError
		reviewCount    *diagnostic.ReviewCountError
		unknownProfile *profiles.UnknownProfileError
		missingDoc     *content.NotFoundError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation), errors.As(err, &fieldErrors),
		errors.As(err, &invalidAnswer), errors.As(err, &reviewCount):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &unknownProfile), errors.As(err, &missingDoc):
		return http.StatusNotFound
	case errors.Is(err, session.ErrNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, diagnostic.ErrNoData),
		errors.Is(err, quiz.ErrAlreadyAnswered),
		errors.Is(err, quiz.ErrNotAnswered),
		errors.Is(err, quiz.ErrQuizComplete),
		errors.Is(err, quiz.ErrQuizIncomplete),
		errors.Is(err, quiz.ErrNotOnExercise):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fieldMessages flattens validator errors into field -> failed rule, keyed by the
// field path below the top-level struct (e.g. "Reviews[0].Confidence").
func fieldMessages(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out[field] = rule
	}
	return out
}
