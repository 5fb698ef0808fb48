package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/screening-diagnostic/internal/config"
	"github.com/jonathan/screening-diagnostic/internal/ingestion"
	"github.com/jonathan/screening-diagnostic/internal/profiles"
	"github.com/jonathan/screening-diagnostic/internal/quiz"
	"github.com/jonathan/screening-diagnostic/internal/screening"
	"github.com/jonathan/screening-diagnostic/internal/server/middleware"
	"github.com/jonathan/screening-diagnostic/internal/server/ratelimit"
	"github.com/jonathan/screening-diagnostic/internal/session"
)

// shutdownTimeout bounds how long in-flight requests may run after a stop signal.
const shutdownTimeout = 30 * time.Second

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	cfg         *config.Config
	logger      *zap.Logger
	profiles    *profiles.Registry
	scorer      *screening.Scorer
	batch       *screening.Batch
	sessions    *session.Store
	tokens      *TokenService
	rateLimiter *ratelimit.Limiter
	index       *template.Template
}

// New creates a new server instance
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	registry, err := profiles.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load job profiles: %w", err)
	}
	bank, err := quiz.DefaultBank()
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz bank: %w", err)
	}
	index, err := parseIndexTemplate()
	if err != nil {
		return nil, err
	}

	scorer := screening.NewScorer(registry)
	s := &Server{
		cfg:         cfg,
		logger:      logger,
		profiles:    registry,
		scorer:      scorer,
		batch:       screening.NewBatch(scorer, ingestion.NewDecoder(), cfg.Screening.Workers, logger),
		sessions:    session.NewStore(bank, cfg.Session.TTL, cfg.Session.CleanupInterval),
		tokens:      NewTokenService(cfg.Session),
		rateLimiter: ratelimit.NewLimiter(ratelimit.FromSettings(cfg.RateLimit)),
		index:       index,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleIndex)

	mux.HandleFunc("POST /sessions", s.handleCreateSession)

	mux.HandleFunc("GET /profiles", s.handleListProfiles)
	mux.HandleFunc("GET /profiles/{key}", s.handleGetProfile)

	mux.HandleFunc("GET /resources", s.handleListResources)
	mux.HandleFunc("GET /resources/{name}", s.handleGetResource)

	// Session-scoped endpoints
	mux.Handle("POST /screenings", s.withSession(s.handleCreateScreening))
	mux.Handle("GET /screenings", s.withSession(s.handleListScreenings))
	mux.Handle("DELETE /screenings", s.withSession(s.handleClearScreenings))

	mux.Handle("POST /diagnostics", s.withSession(s.handleRunDiagnostic))
	mux.Handle("GET /analytics", s.withSession(s.handleAnalytics))
	mux.Handle("GET /analytics/export.xlsx", s.withSession(s.handleExport))

	mux.Handle("GET /quiz", s.withSession(s.handleQuizState))
	mux.Handle("POST /quiz/answer", s.withSession(s.handleQuizAnswer))
	mux.Handle("POST /quiz/next", s.withSession(s.handleQuizNext))
	mux.Handle("POST /quiz/restart", s.withSession(s.handleQuizRestart))
	mux.Handle("GET /quiz/exercise", s.withSession(s.handleGetExercise))
	mux.Handle("POST /quiz/exercise/start", s.withSession(s.handleStartExercise))
	mux.Handle("POST /quiz/exercise/back", s.withSession(s.handleBackToQuiz))
	mux.Handle("POST /quiz/exercise", s.withSession(s.handleSubmitExercise))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s, nil
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens for requests until ctx is cancelled or the process receives
// SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer s.Close()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Close releases background resources. It is safe to call more than once.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// sessionHandlerFunc is a handler that runs with the caller's session.
type sessionHandlerFunc func(w http.ResponseWriter, r *http.Request, sess *session.Session)

// withSession authenticates the request and resolves its session.
func (s *Server) withSession(h sessionHandlerFunc) http.Handler {
	auth := middleware.SessionMiddleware(s.tokens.AsTokenValidator(), s.cfg.Session.CookieName)
	return auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := middleware.GetSessionID(r)
		if err != nil {
			s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		sess, err := s.sessions.Get(id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		h(w, r, sess)
	}))
}

// optionalSession resolves the caller's session without requiring one.
func (s *Server) optionalSession(r *http.Request) *session.Session {
	token := middleware.TokenFromRequest(r, s.cfg.Session.CookieName)
	if token == "" {
		return nil
	}
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil
	}
	sess, err := s.sessions.Get(claims.SessionID)
	if err != nil {
		return nil
	}
	return sess
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.Server.CORSOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)

		if !allowed {
			s.rateLimitResponse(w, r, clientID, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("client", s.extractClientID(r)),
		}
		if rec.status >= http.StatusInternalServerError {
			s.logger.Error("request completed", fields...)
			return
		}
		s.logger.Info("request completed", fields...)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status code and writes it. Internal errors are logged
// and hidden from the client; validator errors are reported per field.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		s.jsonResponse(w, status, map[string]any{
			"error":  "validation failed",
			"fields": fieldMessages(fieldErrors),
		})
		return
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		s.errorResponse(w, status, "internal server error")
		return
	}

	s.errorResponse(w, status, err.Error())
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return nil
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; forwarding headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, clientID string, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("client", clientID),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
