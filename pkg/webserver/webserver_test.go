package webserver

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	m := NewManager(":0", t.TempDir())
	rec := httptest.NewRecorder()
	m.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestResourcesServed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "track_1.svg"), []byte("<svg/>"), 0644))
	m := NewManager(":0", dir)

	rec := httptest.NewRecorder()
	m.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/resources/track_1.svg", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<svg/>", rec.Body.String())

	assert.Contains(t, m.Routes(), "GET /health")
}

func TestParseDuelQuery(t *testing.T) {
	q := ParseDuelQuery(url.Values{"race": {" Monaco "}, "d1": {"ver"}}, 2024)
	assert.Equal(t, DuelQuery{Year: 2024, Race: "Monaco", Session: "Race", D1: "VER"}, q)

	q = ParseDuelQuery(url.Values{"year": {"2022"}, "session": {"Qualifying"}, "d1": {"LEC"}, "d2": {"SAI"}}, 2024)
	assert.Equal(t, 2022, q.Year)
	assert.Equal(t, "Qualifying", q.Session)

	round := ParseDuelQuery(q.Values(), 2024)
	assert.Equal(t, q, round)
}
