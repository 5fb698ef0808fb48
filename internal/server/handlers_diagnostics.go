package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/screening-diagnostic/internal/diagnostic"
	"github.com/jonathan/screening-diagnostic/internal/export"
	"github.com/jonathan/screening-diagnostic/internal/logger"
	"github.com/jonathan/screening-diagnostic/internal/session"
	"github.com/jonathan/screening-diagnostic/internal/types"
)

// exportFilename is the download name of the results workbook.
const exportFilename = "screening_results.xlsx"

// handleRunDiagnostic reviews the first sample of the session's scored candidates.
// With the accuracy test selected, the request carries one human review per
// sampled candidate and those reviews are recorded on the session.
func (s *Server) handleRunDiagnostic(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req types.DiagnosticRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	scored := sess.Scored()
	size := diagnostic.SampleSize(req.SampleSize, len(scored))
	if size == 0 {
		s.writeError(w, r, diagnostic.ErrNoData)
		return
	}
	sample := scored[:size]

	threshold := s.cfg.Screening.ReviewThreshold
	if req.ReviewThreshold != nil {
		threshold = *req.ReviewThreshold
	}

	var records []types.ReviewRecord
	if req.Tests.Accuracy {
		if len(req.Reviews) != len(sample) {
			s.writeError(w, r, &diagnostic.ReviewCountError{Want: len(sample), Got: len(req.Reviews)})
			return
		}
		records = make([]types.ReviewRecord, len(sample))
		for i, c := range sample {
			records[i] = types.NewReviewRecord(c, req.Reviews[i], req.ReviewerRole)
		}
	}

	report, err := diagnostic.Run(diagnostic.Config{
		ReviewerRole: req.ReviewerRole,
		Threshold:    threshold,
		Tests:        req.Tests,
	}, sample, records)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.AddReviews(records...)

	log := logger.WithFields(s.logger, zap.String(logger.FieldSession, sess.ID))
	log.Info("diagnostic review completed",
		zap.String("reviewer_role", req.ReviewerRole),
		zap.Int("sample_size", report.SampleSize),
		zap.Int("mandatory_review", len(report.MandatoryReview)))
	if report.Accuracy != nil && report.Accuracy.Band == diagnostic.AgreementLow {
		log.Warn("low agreement between scorer and reviewer",
			zap.Float64("agreement_rate", report.Accuracy.AgreementRate))
	}

	s.jsonResponse(w, http.StatusOK, report)
}

// handleAnalytics summarizes every scored candidate in the session.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	analytics, err := diagnostic.Analyze(sess.Results())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, analytics)
}

// handleExport downloads the session's results and reviews as a workbook.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	data, err := export.Workbook(sess.Candidates(), sess.Reviews())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write export", zap.Error(err))
	}
}
