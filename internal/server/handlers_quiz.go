package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/screening-diagnostic/internal/content"
	"github.com/jonathan/screening-diagnostic/internal/logger"
	"github.com/jonathan/screening-diagnostic/internal/quiz"
	"github.com/jonathan/screening-diagnostic/internal/session"
	"github.com/jonathan/screening-diagnostic/internal/types"
)

// ExerciseView is the state of the practical exercise.
type ExerciseView struct {
	Title     string                  `json:"title"`
	Scenario  string                  `json:"scenario"`
	Page      quiz.Page               `json:"page"`
	Submitted bool                    `json:"submitted"`
	Response  *types.ExerciseResponse `json:"response,omitempty"`
}

func (s *Server) handleQuizState(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	s.jsonResponse(w, http.StatusOK, sess.Quiz.Snapshot())
}

// handleQuizAnswer grades an answer to the current question.
func (s *Server) handleQuizAnswer(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req types.AnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	if _, err := sess.Quiz.Answer(req.Answer); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Quiz.Snapshot())
}

func (s *Server) handleQuizNext(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := sess.Quiz.Next(); err != nil {
		s.writeError(w, r, err)
		return
	}

	snapshot := sess.Quiz.Snapshot()
	if snapshot.Result != nil {
		logger.WithFields(s.logger, zap.String(logger.FieldSession, sess.ID)).Info("quiz completed",
			zap.Int("score", snapshot.Result.Score),
			zap.String("band", string(snapshot.Result.Band)))
	}
	s.jsonResponse(w, http.StatusOK, snapshot)
}

func (s *Server) handleQuizRestart(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	sess.Quiz.Restart()
	s.jsonResponse(w, http.StatusOK, sess.Quiz.Snapshot())
}

// handleGetExercise returns the exercise scenario and any submitted response.
func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	doc, err := content.Exercise()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	snapshot := sess.Quiz.Snapshot()
	resp := ExerciseView{
		Title:     doc.Title,
		Scenario:  doc.Body,
		Page:      snapshot.Page,
		Submitted: snapshot.ExerciseSubmitted,
	}
	if submitted, ok := sess.Quiz.Exercise(); ok {
		resp.Response = &submitted
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleStartExercise(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := sess.Quiz.StartExercise(); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Quiz.Snapshot())
}

func (s *Server) handleBackToQuiz(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	sess.Quiz.BackToQuiz()
	s.jsonResponse(w, http.StatusOK, sess.Quiz.Snapshot())
}

// handleSubmitExercise records the exercise response.
func (s *Server) handleSubmitExercise(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req types.ExerciseResponse
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := sess.Quiz.SubmitExercise(req); err != nil {
		s.writeError(w, r, err)
		return
	}

	logger.WithFields(s.logger, zap.String(logger.FieldSession, sess.ID)).Info("exercise submitted")
	s.jsonResponse(w, http.StatusCreated, sess.Quiz.Snapshot())
}
