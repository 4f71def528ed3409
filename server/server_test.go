package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/booksearch/core"
	"github.com/poiesic/booksearch/rank"
	"github.com/poiesic/booksearch/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	initialized bool
	err         error
}

func (f *fakeService) IsInitialized() bool { return f.initialized }

func (f *fakeService) Query(_ context.Context, text string, _, limit int) (*core.ResultSet, error) {
	if f.err != nil {
		return nil, f.err
	}
	results := []core.RawResult{
		{Title: "Elsewhere", URL: "other.html", Body: "install notes", Level: "other"},
		{Title: "Install", URL: "setup/install.html", Body: "how to install", Level: "setup"},
	}
	if text == "nothing" {
		results = nil
	}
	return &core.ResultSet{
		Query:   text,
		Count:   len(results),
		Results: results[:min(limit, len(results))],
		Levels:  map[string]string{"": "Book", "setup": "Setup"},
	}, nil
}

func newTestServer(t *testing.T, service *fakeService) *Server {
	t.Helper()
	srv, err := New(&Config{Port: "0", APIPrefix: "/api"}, service,
		WithSessionConfig(session.NewConfig(session.WithThrottleWait(time.Millisecond), session.WithPoolSize(1))))
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) SessionResponse {
	t.Helper()
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestNew(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrSearchServiceRequired)

	_, err = New(nil, &fakeService{}, WithSessionConfig(session.NewConfig(session.WithMaxResults(0))))
	assert.Error(t, err)

	srv, err := New(nil, &fakeService{})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), srv.config)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeService{initialized: true})

	rec := do(t, srv, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, HealthResponse{Status: "healthy", Initialized: true}, resp)
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t, &fakeService{initialized: true})

	t.Run("ranks by location", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/api/search?q=install&level=setup.intro&base=/book", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var results rank.Results
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
		assert.Equal(t, "install", results.Query)
		assert.Equal(t, 2, results.Count)
		require.Len(t, results.Entries, 4)
		assert.Equal(t, rank.EntryHeader, results.Entries[0].Kind)
		assert.Equal(t, "Setup", results.Entries[0].Title)
		assert.Equal(t, "/book/setup/install.html", results.Entries[1].Link)
		assert.Equal(t, "Book", results.Entries[2].Title)
	})

	t.Run("limit", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/api/search?q=install&limit=1", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var results rank.Results
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
		assert.Equal(t, 2, results.Count)
		assert.Len(t, results.Items(), 1)
	})

	badRequests := []struct {
		name   string
		target string
	}{
		{"missing query", "/api/search"},
		{"bad level", "/api/search?q=x&level=a..b"},
		{"bad limit", "/api/search?q=x&limit=abc"},
		{"limit too large", "/api/search?q=x&limit=51"},
	}
	for _, tt := range badRequests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodGet, tt.target, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSearch_ServiceError(t *testing.T) {
	srv := newTestServer(t, &fakeService{err: errors.New("index unavailable")})

	rec := do(t, srv, http.MethodGet, "/api/search?q=install", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "index unavailable")
}

func TestSessions(t *testing.T) {
	srv := newTestServer(t, &fakeService{initialized: true})

	rec := do(t, srv, http.MethodPost, "/api/sessions",
		`{"url": "http://book.test/setup/intro.html?q=install#top", "level": "setup.intro", "base": "/book"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeSession(t, rec)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "install", created.View.Input, "query is replayed from the address")

	path := "/api/sessions/" + created.ID
	var current SessionResponse
	require.Eventually(t, func() bool {
		current = decodeSession(t, do(t, srv, http.MethodGet, path, ""))
		return current.State == session.OpenWithResults.String()
	}, 2*time.Second, 5*time.Millisecond)
	require.NotNil(t, current.View.Results)
	assert.Len(t, current.View.Results.Entries, 4)
	assert.True(t, current.View.Open)

	// Empty input closes the panel and drops the query from the address.
	rec = do(t, srv, http.MethodPost, path+"/input", `{"text": ""}`)
	require.Equal(t, http.StatusOK, rec.Code)
	current = decodeSession(t, rec)
	assert.Equal(t, "closed", current.State)
	assert.Equal(t, "http://book.test/setup/intro.html#top", current.URL)

	rec = do(t, srv, http.MethodPost, path+"/input", `{"text": "nothing"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nothing", decodeSession(t, rec).Query)
	require.Eventually(t, func() bool {
		return decodeSession(t, do(t, srv, http.MethodGet, path, "")).State == session.OpenNoResults.String()
	}, 2*time.Second, 5*time.Millisecond)

	rec = do(t, srv, http.MethodPost, path+"/blur", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://book.test/setup/intro.html?q=nothing#top", decodeSession(t, rec).URL)

	rec = do(t, srv, http.MethodPost, path+"/page", `{"url": "http://book.test/other.html?q=install", "level": "other", "base": "/book"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	moved := decodeSession(t, rec)
	assert.Equal(t, "other", moved.Level)
	assert.Equal(t, "install", moved.View.Input)

	rec = do(t, srv, http.MethodPost, path+"/close", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "closed", decodeSession(t, rec).State)

	rec = do(t, srv, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, srv, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessions_Errors(t *testing.T) {
	srv := newTestServer(t, &fakeService{})

	rec := do(t, srv, http.MethodPost, "/api/sessions", `{"url": "/", "level": ".bad"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/sessions", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, target := range []string{"/api/sessions/missing/input", "/api/sessions/missing/blur"} {
		rec = do(t, srv, http.MethodPost, target, `{}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
	rec = do(t, srv, http.MethodDelete, "/api/sessions/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessions_WaitForIndex(t *testing.T) {
	service := &fakeService{}
	srv := newTestServer(t, service)

	rec := do(t, srv, http.MethodPost, "/api/sessions", `{"url": "http://book.test/?q=install", "level": ""}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeSession(t, rec)
	assert.Equal(t, "closed", created.State)
	assert.Empty(t, created.View.Input)

	service.initialized = true
	srv.SearchReady()

	require.Eventually(t, func() bool {
		return decodeSession(t, do(t, srv, http.MethodGet, "/api/sessions/"+created.ID, "")).View.Open
	}, 2*time.Second, 5*time.Millisecond)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeService{initialized: true})

	rec := do(t, srv, http.MethodPost, "/api/sessions", `{"url": "http://book.test/", "level": ""}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "booksearch_sessions_active 1")
}
