package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/scriptloop/internal/metrics"
	"github.com/danielpatrickdp/scriptloop/internal/script"
	"github.com/danielpatrickdp/scriptloop/internal/store"
)

func testServer(t *testing.T) (*http.Server, *store.Store, *State) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	state := NewState()
	return NewHTTPServer("0", st, state, log), st, state
}

func get(t *testing.T, srv *http.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _, _ := testServer(t)
	rec := get(t, srv, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStatusReflectsLoopState(t *testing.T) {
	srv, _, state := testServer(t)
	state.Update(2, "1.2", metrics.Report{NegotiationEffectiveness: 0.65})

	rec := get(t, srv, "/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var got Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Running)
	assert.Equal(t, 2, got.Iteration)
	assert.Equal(t, "1.2", got.ScriptVersion)
	assert.Equal(t, 0.65, got.LastReport.NegotiationEffectiveness)

	state.Finish("targets met")
	var done Status
	require.NoError(t, json.Unmarshal(get(t, srv, "/status").Body.Bytes(), &done))
	assert.False(t, done.Running)
	assert.Equal(t, "targets met", done.StopReason)
}

func TestScriptAndVersions(t *testing.T) {
	srv, st, _ := testServer(t)

	rec := get(t, srv, "/script")
	assert.Equal(t, http.StatusNotFound, rec.Code, "404 before anything is stored")

	sc := script.Default()
	require.NoError(t, st.SaveVersion(sc))
	v2 := sc.Clone()
	v2.Version = "1.1"
	require.NoError(t, st.SaveVersion(v2))

	rec = get(t, srv, "/script")
	require.Equal(t, http.StatusOK, rec.Code)
	var active script.Script
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &active))
	assert.Equal(t, "1.1", active.Version)

	rec = get(t, srv, "/versions")
	require.Equal(t, http.StatusOK, rec.Code)
	var versions []store.VersionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &versions))
	assert.Len(t, versions, 2)
}

func TestImprovements(t *testing.T) {
	srv, st, _ := testServer(t)
	entry := store.NewImprovementEntry("base", "1.1", "rule_edit", "low negotiation", metrics.Report{})
	require.NoError(t, st.LogImprovement(entry))

	rec := get(t, srv, "/improvements")
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []store.ImprovementEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "rule_edit", entries[0].Strategy)
}
