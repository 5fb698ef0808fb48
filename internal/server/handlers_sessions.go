package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/screening-diagnostic/internal/logger"
)

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// handleCreateSession starts an anonymous session and returns its signed token.
// The token is also set as an HttpOnly cookie for browser clients.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()

	token, expiresAt, err := s.tokens.GenerateToken(sess.ID)
	if err != nil {
		s.sessions.Delete(sess.ID)
		s.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	logger.WithFields(s.logger, zap.String(logger.FieldSession, sess.ID)).Info("session created")

	s.jsonResponse(w, http.StatusCreated, SessionResponse{
		SessionID: sess.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
