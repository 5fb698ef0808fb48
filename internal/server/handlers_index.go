package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/screening-diagnostic/internal/content"
	"github.com/jonathan/screening-diagnostic/internal/screening"
	"github.com/jonathan/screening-diagnostic/internal/types"
)

//go:embed templates/*.html
var templateFiles embed.FS

type indexPage struct {
	Profiles   []types.JobProfile
	Resources  []content.Document
	Session    bool
	Candidates []types.Candidate
	Summary    types.ScreeningSummary
}

func parseIndexTemplate() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFiles, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse index template: %w", err)
	}
	return tmpl, nil
}

// handleIndex renders the overview page. Results are shown only to a caller
// presenting a live session.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := indexPage{
		Profiles:  s.profiles.List(),
		Resources: content.Resources(),
	}
	if sess := s.optionalSession(r); sess != nil {
		page.Session = true
		page.Candidates = sess.Candidates()
		page.Summary = screening.Summarize(page.Candidates)
	}

	var buf bytes.Buffer
	if err := s.index.Execute(&buf, page); err != nil {
		s.logger.Error("failed to render index", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
