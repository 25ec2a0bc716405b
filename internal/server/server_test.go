package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-assistant/internal/config"
	"github.com/jonathan/job-assistant/internal/editor"
	"github.com/jonathan/job-assistant/internal/ingestion"
	"github.com/jonathan/job-assistant/internal/jobs"
	"github.com/jonathan/job-assistant/internal/remote"
	"github.com/jonathan/job-assistant/internal/rendering"
	"github.com/jonathan/job-assistant/internal/server/ratelimit"
	"github.com/jonathan/job-assistant/internal/types"
)

// sampleJobs returns a small job board, newest first.
func sampleJobs() []types.Job {
	now := time.Now().UTC()
	return []types.Job{
		{ID: "job-1", Title: "Backend Engineer", Company: "Acme", Location: "Remote", JobType: "full-time", Link: "https://acme.example/jobs/1", PostedAt: now.Add(-1 * time.Hour)},
		{ID: "job-2", Title: "Frontend Engineer", Company: "Globex", Location: "Berlin", JobType: "full-time", Link: "https://globex.example/jobs/2", PostedAt: now.Add(-2 * time.Hour)},
		{ID: "job-3", Title: "Data Intern", Company: "Initech", Location: "Austin", JobType: "internship", PostedAt: now.Add(-72 * time.Hour)},
	}
}

// newTestServer creates a server over in-memory stores. Each mutator may
// replace collaborators before the server is built.
func newTestServer(t *testing.T, mutators ...func(*Deps)) *Server {
	t.Helper()
	deps := Deps{
		Profiles:     editor.NewMemoryStore(),
		Jobs:         jobs.NewMemorySearcher(sampleJobs()),
		Interactions: jobs.NewMemoryInteractions(),
	}
	for _, m := range mutators {
		m(&deps)
	}

	s, err := New(Config{Port: 0, RateLimit: &ratelimit.Config{Enabled: false}}, deps)
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

// do sends a request through the full handler chain.
func do(t *testing.T, h http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestNew_RequiresStores(t *testing.T) {
	_, err := New(Config{}, Deps{})
	assert.Error(t, err)

	_, err = New(Config{}, Deps{Profiles: editor.NewMemoryStore()})
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s.Handler(), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[map[string]string](t, w)
	assert.Equal(t, "ok", resp["status"])
}

func TestCORS_Preflight(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s.Handler(), http.MethodOptions, "/profiles/clerk/u1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Equal(t, "Content-Disposition", w.Header().Get("Access-Control-Expose-Headers"))
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	deps := Deps{
		Profiles:     editor.NewMemoryStore(),
		Jobs:         jobs.NewMemorySearcher(nil),
		Interactions: jobs.NewMemoryInteractions(),
	}
	s, err := New(Config{RateLimit: &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
	}}, deps)
	require.NoError(t, err)
	defer s.rateLimiter.Stop()

	h := s.Handler()
	first := do(t, h, http.MethodGet, "/api/job", nil)
	assert.Equal(t, http.StatusOK, first.Code)

	second := do(t, h, http.MethodGet, "/api/job", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	resp := decodeBody[map[string]any](t, second)
	assert.Equal(t, "rate_limit_exceeded", resp["error"])
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	closed := false
	s := newTestServer(t, func(d *Deps) {
		d.Close = func() { closed = true }
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get(fmt.Sprintf("http://%s/health", ln.Addr()))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.True(t, closed)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"ErrValidation", &ErrValidation{Field: "f", Message: "m"}, http.StatusBadRequest},
		{"editor validation", &editor.ValidationError{Field: "company", Message: "company is required"}, http.StatusBadRequest},
		{"jobs validation", &jobs.ValidationError{Field: "link", Message: "missing"}, http.StatusBadRequest},
		{"ErrForbidden", &ErrForbidden{UserID: "u2"}, http.StatusForbidden},
		{"index", &editor.IndexError{Section: types.SectionEducation, Index: 3, Len: 1}, http.StatusNotFound},
		{"profile not found", fmt.Errorf("load: %w", types.ErrProfileNotFound), http.StatusNotFound},
		{"interaction not found", jobs.ErrNotFound, http.StatusNotFound},
		{"transition", &jobs.TransitionError{From: types.StatusApplied, To: types.StatusClicked}, http.StatusConflict},
		{"unsupported upload", &ingestion.UploadError{Kind: ingestion.ErrUnsupportedType}, http.StatusUnsupportedMediaType},
		{"large upload", &ingestion.UploadError{Kind: ingestion.ErrTooLarge}, http.StatusRequestEntityTooLarge},
		{"unreadable upload", &ingestion.UploadError{Kind: ingestion.ErrExtraction}, http.StatusUnprocessableEntity},
		{"parse failure", &ingestion.UploadError{Kind: ingestion.ErrParse}, http.StatusBadGateway},
		{"unavailable", &ErrUnavailable{Feature: "matching"}, http.StatusServiceUnavailable},
		{"remote not configured", remote.ErrNotConfigured, http.StatusServiceUnavailable},
		{"render", &rendering.RenderError{Format: rendering.FormatPDF, Message: "boom"}, http.StatusInternalServerError},
		{"upstream throttled", &remote.APIError{StatusCode: http.StatusTooManyRequests}, http.StatusTooManyRequests},
		{"upstream failed", &remote.APIError{StatusCode: http.StatusInternalServerError}, http.StatusBadGateway},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"generic", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestFail_HidesInternalErrors(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()

	s.fail(w, fmt.Errorf("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Internal server error", resp["error"])
}

func TestConfigFrom(t *testing.T) {
	cfg, err := ConfigFrom(&config.Config{Port: "9090", MaxUploadBytes: 1 << 20})
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, int64(1<<20), cfg.MaxUploadBytes)

	_, err = ConfigFrom(&config.Config{Port: "http"})
	assert.Error(t, err)
}

func TestBuildDeps_InMemory(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	deps, err := BuildDeps(context.Background(), &config.Config{Port: "8080"}, sampleJobs())
	require.NoError(t, err)
	defer deps.Close()

	page, err := deps.Jobs.SearchJobs(context.Background(), types.SearchFilters{})
	require.NoError(t, err)
	assert.Len(t, page.Data, 3)

	assert.IsType(t, &editor.MemoryStore{}, deps.Profiles)
	assert.IsType(t, &jobs.MemorySearcher{}, deps.Jobs)
	assert.IsType(t, &jobs.MemoryInteractions{}, deps.Interactions)
	assert.Nil(t, deps.Tracker)
	assert.Nil(t, deps.Parser)
	assert.Nil(t, deps.CoverLetters)
	assert.Nil(t, deps.Tokens)
}

func TestBuildDeps_RemoteServices(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	deps, err := BuildDeps(context.Background(), &config.Config{
		Port:              "8080",
		ProfileAPIURL:     "http://profiles.local",
		JobsAPIURL:        "http://jobs.local",
		ParserAPIURL:      "http://parser.local",
		MatchAPIURL:       "http://match.local",
		CoverLetterAPIURL: "http://letters.local",
	}, nil)
	require.NoError(t, err)
	defer deps.Close()

	assert.IsType(t, &remote.Client{}, deps.Profiles)
	assert.IsType(t, &remote.Client{}, deps.Jobs)
	assert.IsType(t, &remote.Client{}, deps.Tracker)
	assert.IsType(t, &remote.Client{}, deps.Parser)
	assert.IsType(t, &remote.Client{}, deps.Matcher)
	assert.IsType(t, &remote.Client{}, deps.Tailored)
	assert.IsType(t, &remote.Client{}, deps.CoverLetters)
	assert.NotNil(t, deps.Tokens)
}
