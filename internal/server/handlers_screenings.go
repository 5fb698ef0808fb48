package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/screening-diagnostic/internal/ingestion"
	"github.com/jonathan/screening-diagnostic/internal/logger"
	"github.com/jonathan/screening-diagnostic/internal/screening"
	"github.com/jonathan/screening-diagnostic/internal/session"
	"github.com/jonathan/screening-diagnostic/internal/types"
)

// multipartMemory is how much of a multipart form is held in memory before
// spilling file parts to disk.
const multipartMemory = 8 << 20

// ScreeningResponse is returned by the screening endpoints.
type ScreeningResponse struct {
	Candidates []types.Candidate       `json:"candidates"`
	Summary    types.ScreeningSummary `json:"summary"`
}

// handleListProfiles returns every job profile.
func (s *Server) handleListProfiles(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{"profiles": s.profiles.List()})
}

// handleGetProfile returns one job profile by key.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.profiles.Get(r.PathValue("key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handleCreateScreening scores an uploaded batch of résumés and appends the
// candidates to the session.
func (s *Server) handleCreateScreening(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	limit := s.cfg.Screening.MaxUploadBytes
	if r.ContentLength > limit {
		s.writeError(w, r, &ErrPayloadTooLarge{Limit: limit})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, &ErrPayloadTooLarge{Limit: tooLarge.Limit})
			return
		}
		s.writeError(w, r, &ErrValidation{Field: "body", Message: "expected multipart/form-data"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	jobType := r.FormValue("job_type")
	if jobType == "" {
		s.writeError(w, r, &ErrValidation{Field: "job_type", Message: "is required"})
		return
	}
	if _, err := s.scorer.Profile(jobType); err != nil {
		s.writeError(w, r, &ErrValidation{Field: "job_type", Message: err.Error()})
		return
	}

	headers := r.MultipartForm.File["files"]
	switch {
	case len(headers) == 0:
		s.writeError(w, r, &ErrValidation{Field: "files", Message: "at least one file is required"})
		return
	case len(headers) > s.cfg.Screening.MaxFiles:
		s.writeError(w, r, &ErrValidation{
			Field:   "files",
			Message: fmt.Sprintf("at most %d files per batch", s.cfg.Screening.MaxFiles),
		})
		return
	}

	uploads, err := readUploads(headers)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	added, err := sess.Screen(func(offset int) ([]types.Candidate, error) {
		return s.batch.Run(r.Context(), jobType, uploads, offset)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	summary := screening.Summarize(added)
	logger.WithFields(s.logger,
		zap.String(logger.FieldSession, sess.ID),
		zap.String(logger.FieldJobType, jobType),
	).Info("batch screened",
		zap.Int("processed", summary.Processed),
		zap.Int("accepted", summary.Accepted),
		zap.Int("failed", summary.Failed))

	s.jsonResponse(w, http.StatusCreated, ScreeningResponse{Candidates: added, Summary: summary})
}

// handleListScreenings returns every candidate screened in the session.
func (s *Server) handleListScreenings(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	candidates := sess.Candidates()
	if candidates == nil {
		candidates = []types.Candidate{}
	}
	s.jsonResponse(w, http.StatusOK, ScreeningResponse{
		Candidates: candidates,
		Summary:    screening.Summarize(candidates),
	})
}

// handleClearScreenings drops the session's results and reviews.
func (s *Server) handleClearScreenings(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	sess.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func readUploads(headers []*multipart.FileHeader) ([]ingestion.Upload, error) {
	uploads := make([]ingestion.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read upload %s: %w", fh.Filename, err)
		}
		uploads = append(uploads, ingestion.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return uploads, nil
}
