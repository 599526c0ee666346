package assemblyai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
)

const testAPIKey = "test-key"

type reply struct {
	status int
	body   string
}

// fakeAPI imitates the upload, submit and status endpoints.
type fakeAPI struct {
	t *testing.T

	mu          sync.Mutex
	upload      reply
	submit      reply
	polls       []reply
	uploads     int
	uploadBytes []byte
	submits     []map[string]any
	pollCount   int
	headers     []http.Header
	paths       []string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	f := &fakeAPI{
		t:      t,
		upload: reply{200, `{"upload_url":"https://cdn.example/uploaded"}`},
		submit: reply{200, `{"id":"1","status":"queued"}`},
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.headers = append(f.headers, r.Header.Clone())
	f.paths = append(f.paths, r.Method+" "+r.URL.Path)

	var rep reply
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/v2/upload":
		f.uploads++
		f.uploadBytes, _ = io.ReadAll(r.Body)
		rep = f.upload
	case r.Method == http.MethodPost && r.URL.Path == "/v2/transcript":
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			f.t.Errorf("submit body is not JSON: %v", err)
		}
		f.submits = append(f.submits, body)
		rep = f.submit
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v2/transcript/"):
		if f.pollCount >= len(f.polls) {
			f.t.Errorf("unexpected poll #%d", f.pollCount+1)
			rep = reply{500, `{"error":"no more polls"}`}
		} else {
			rep = f.polls[f.pollCount]
		}
		f.pollCount++
	default:
		f.t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		rep = reply{404, ""}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rep.status)
	_, _ = io.WriteString(w, rep.body)
}

func (f *fakeAPI) requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.paths)
}

// sleepRecorder replaces the poll wait and records each delay.
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
	hook   func(n int)
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	n := len(s.delays)
	s.mu.Unlock()
	if s.hook != nil {
		s.hook(n)
	}
	return ctx.Err()
}

func newTestProvider(t *testing.T, baseURL string, rec *sleepRecorder, opts ...Option) *Provider {
	t.Helper()
	cfg := Config{APIKey: testAPIKey, BaseURL: baseURL}
	all := append([]Option{WithSleep(rec.sleep), WithLogger(logger.NewNop())}, opts...)
	p, err := NewProvider(cfg, all...)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	return p
}

func assertCode(t *testing.T, err error, code errors.ErrorCode) *errors.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", code)
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected *AppError with %s, got %T: %v", code, err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected %s, got %s: %v", code, appErr.Code, err)
	}
	return appErr
}
