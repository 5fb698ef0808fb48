package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/screening-diagnostic/internal/content"
)

// handleListResources lists the downloadable documents.
func (s *Server) handleListResources(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{"resources": content.Resources()})
}

// handleGetResource downloads one document as markdown.
func (s *Server) handleGetResource(w http.ResponseWriter, r *http.Request) {
	doc, err := content.Get(r.PathValue("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", content.MediaType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(doc.Body)); err != nil {
		s.logger.Warn("failed to write resource", zap.String("name", doc.Name), zap.Error(err))
	}
}
