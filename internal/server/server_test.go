package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanketp27/travel-concierge/internal/database"
	"github.com/sanketp27/travel-concierge/internal/types"
)

type fakeRunner struct {
	reply string
	err   error
	calls int
	last  string
}

func (f *fakeRunner) Run(ctx context.Context, sessionID types.ID, query string) (string, error) {
	f.calls++
	f.last = query
	return f.reply, f.err
}

type fakeSessions struct {
	cleared []types.ID
	fail    bool
}

func (f *fakeSessions) Messages(ctx context.Context, sessionID types.ID) ([]database.Message, error) {
	return nil, nil
}

func (f *fakeSessions) ClearSession(ctx context.Context, sessionID types.ID) error {
	if f.fail {
		return errors.New("disk full")
	}
	f.cleared = append(f.cleared, sessionID)
	return nil
}

type fixedHealth struct {
	status types.HealthStatus
}

func (f fixedHealth) Health(ctx context.Context) types.HealthStatus {
	return f.status
}

func newTestServer(runner *fakeRunner, sessions *fakeSessions, checks map[string]HealthChecker) *Server {
	return New(DefaultConfig(), runner, sessions, checks, nil)
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	encoded, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestServer_Index(t *testing.T) {
	srv := newTestServer(&fakeRunner{}, &fakeSessions{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "travel-concierge", body["service"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestServer_UnknownPath(t *testing.T) {
	srv := newTestServer(&fakeRunner{}, &fakeSessions{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Health(t *testing.T) {
	checks := map[string]HealthChecker{
		"database": fixedHealth{types.Healthy("ok")},
		"oracle":   fixedHealth{types.Healthy("ok")},
	}
	srv := newTestServer(&fakeRunner{}, &fakeSessions{}, checks)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "healthy", body["status"])
}

func TestServer_HealthUnhealthyDependency(t *testing.T) {
	checks := map[string]HealthChecker{
		"database": fixedHealth{types.Healthy("ok")},
		"oracle":   fixedHealth{types.Unhealthy("no api key")},
	}
	srv := newTestServer(&fakeRunner{}, &fakeSessions{}, checks)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "unhealthy", body["status"])
}

func TestServer_Probes(t *testing.T) {
	srv := newTestServer(&fakeRunner{}, &fakeSessions{}, nil)

	for _, path := range []string{"/readiness", "/liveness"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestServer_GetSession(t *testing.T) {
	srv := newTestServer(&fakeRunner{}, &fakeSessions{}, nil)

	rec := postJSON(t, srv.Handler(), "/getSession", map[string]any{"user_id": "u-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "u-1", body["user_id"])
	sessionID, ok := body["session_id"].(string)
	require.True(t, ok)
	_, err := types.ParseID(sessionID)
	assert.NoError(t, err)
}

func TestServer_Chat(t *testing.T) {
	runner := &fakeRunner{reply: "Here is your Goa plan"}
	srv := newTestServer(runner, &fakeSessions{}, nil)

	sessionID := types.NewID()
	rec := postJSON(t, srv.Handler(), "/chat", map[string]any{
		"query":      "Plan a Goa trip",
		"session_id": sessionID.String(),
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Here is your Goa plan", body["response"])
	assert.Equal(t, sessionID.String(), body["session_id"])
	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, "Plan a Goa trip", runner.last)
}

func TestServer_ChatValidation(t *testing.T) {
	srv := newTestServer(&fakeRunner{}, &fakeSessions{}, nil)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"empty query", map[string]any{"query": "  ", "session_id": types.NewID().String()}},
		{"missing session", map[string]any{"query": "hi", "session_id": "not-a-session"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, srv.Handler(), "/chat", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestServer_ChatRunnerErrorStillReplies(t *testing.T) {
	runner := &fakeRunner{reply: "I apologize, something went wrong.", err: errors.New("oracle down")}
	srv := newTestServer(runner, &fakeSessions{}, nil)

	rec := postJSON(t, srv.Handler(), "/chat", map[string]any{
		"query":      "Plan a trip",
		"session_id": types.NewID().String(),
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Contains(t, body["response"], "apologize")
}

func TestServer_ClearSession(t *testing.T) {
	sessions := &fakeSessions{}
	srv := newTestServer(&fakeRunner{}, sessions, nil)

	sessionID := types.NewID()
	rec := postJSON(t, srv.Handler(), "/clearSession", map[string]any{"session_id": sessionID.String()})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, sessions.cleared, 1)
	assert.Equal(t, sessionID, sessions.cleared[0])
}

func TestServer_ClearSessionFailure(t *testing.T) {
	srv := newTestServer(&fakeRunner{}, &fakeSessions{fail: true}, nil)

	rec := postJSON(t, srv.Handler(), "/clearSession", map[string]any{"session_id": types.NewID().String()})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_CORSPreflight(t *testing.T) {
	srv := newTestServer(&fakeRunner{}, &fakeSessions{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(&fakeRunner{}, &fakeSessions{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
