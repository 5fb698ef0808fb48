package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/screening-diagnostic/internal/content"
)

func TestListResources(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/resources", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	docs := decode[map[string][]content.Document](t, w)["resources"]
	require.Len(t, docs, 4)
	assert.Equal(t, "checklist", docs[0].Name)
	for _, d := range docs {
		assert.Empty(t, d.Body)
	}
}

func TestGetResource(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/resources/risk", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, content.MediaType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="risk_assessment_framework.md"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, content.MustGet("risk").Body, w.Body.String())
}

func TestGetResource_NotFound(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/resources/secrets", "", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
