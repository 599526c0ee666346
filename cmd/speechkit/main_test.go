package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

// fakeAssemblyAI completes every job on its first status check.
func fakeAssemblyAI(t *testing.T, requests *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.Header.Get("Authorization") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v2/transcript":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["language_code"] != nil && body["language_code"] != "en_us" {
				t.Errorf("unexpected language_code %v", body["language_code"])
			}
			_, _ = fmt.Fprint(w, `{"id":"t1","status":"queued"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/v2/transcript/t1":
			_, _ = fmt.Fprint(w, `{"id":"t1","status":"completed","text":"hello world"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, baseURL, apiKey string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	content := fmt.Sprintf(`name: speechkit
logging:
  level: error
assemblyai:
  api_key: %q
  base_url: %q
  poll:
    interval: 1ms
`, apiKey, baseURL)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_Usage(t *testing.T) {
	if code, _, stderr := runCLI(); code != exitUsage || !strings.Contains(stderr, "Usage: speechkit") {
		t.Errorf("no args: code %d, stderr %q", code, stderr)
	}
	if code, _, stderr := runCLI("dance"); code != exitUsage || !strings.Contains(stderr, `unknown command "dance"`) {
		t.Errorf("unknown command: code %d, stderr %q", code, stderr)
	}
	if code, stdout, _ := runCLI("--help"); code != exitOK || !strings.Contains(stdout, "transcribe <input>") {
		t.Errorf("help: code %d, stdout %q", code, stdout)
	}
	if code, _, stderr := runCLI("transcribe"); code != exitUsage || !strings.Contains(stderr, "expected 1 argument") {
		t.Errorf("missing input: code %d, stderr %q", code, stderr)
	}
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI("version")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.HasPrefix(stdout, "speechkit ") {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestRun_Transcribe(t *testing.T) {
	var requests atomic.Int32
	api := fakeAssemblyAI(t, &requests)
	cfg := writeConfig(t, api.URL, "test-key")

	code, stdout, stderr := runCLI("transcribe", "https://example.com/a.mp3",
		"--config", cfg, "--param", "language_code=en_us", "--params", `{"speaker_labels":true}`)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}
	if stdout != "hello world\n" {
		t.Errorf("unexpected output %q", stdout)
	}
	if got := requests.Load(); got != 2 {
		t.Errorf("expected submit and one poll, got %d requests", got)
	}
}

func TestRun_TranscribeMissingAPIKey(t *testing.T) {
	var requests atomic.Int32
	api := fakeAssemblyAI(t, &requests)
	cfg := writeConfig(t, api.URL, "")

	code, _, stderr := runCLI("transcribe", "https://example.com/a.mp3", "--config", cfg)
	if code != exitError {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr, "assemblyai.api_key must be configured") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if requests.Load() != 0 {
		t.Error("no request may be sent without an API key")
	}
}

func TestRun_TranscribeLocalFileNeedsAllowFS(t *testing.T) {
	var requests atomic.Int32
	api := fakeAssemblyAI(t, &requests)
	cfg := writeConfig(t, api.URL, "test-key")
	audioPath := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(audioPath, []byte("RIFF"), 0o600); err != nil {
		t.Fatal(err)
	}

	code, _, stderr := runCLI("transcribe", audioPath, "--config", cfg)
	if code != exitError {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr, "[FORBIDDEN]") || !strings.Contains(stderr, "allow_file_system_access") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if requests.Load() != 0 {
		t.Errorf("expected no requests, got %d", requests.Load())
	}
}

func TestRun_TranscribeBadParam(t *testing.T) {
	code, _, stderr := runCLI("transcribe", "https://example.com/a.mp3", "--param", "novalue")
	if code != exitError || !strings.Contains(stderr, "[INVALID_INPUT]") {
		t.Errorf("code %d, stderr %q", code, stderr)
	}
}

func TestRun_MissingConfigFile(t *testing.T) {
	code, _, stderr := runCLI("locate", "x.wav", "--config", filepath.Join(t.TempDir(), "nope.yml"))
	if code != exitError || !strings.Contains(stderr, "[NOT_FOUND]") {
		t.Errorf("code %d, stderr %q", code, stderr)
	}
}

func TestRun_Locate(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "recordings")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(nested, "meeting.mp3")
	if err := os.WriteFile(want, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	code, stdout, stderr := runCLI("locate", "meeting.mp3", "--log-level", "error")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}
	got := strings.TrimSpace(stdout)
	gotReal, _ := filepath.EvalSymlinks(got)
	wantReal, _ := filepath.EvalSymlinks(want)
	if gotReal != wantReal {
		t.Errorf("expected %s, got %s", want, got)
	}

	code, _, stderr = runCLI("locate", "missing.mp3", "--log-level", "error")
	if code != exitError || !strings.Contains(stderr, "[NOT_FOUND]") {
		t.Errorf("missing file: code %d, stderr %q", code, stderr)
	}
}

func TestRun_ProbeMissingFile(t *testing.T) {
	code, _, stderr := runCLI("probe", filepath.Join(t.TempDir(), "none.wav"))
	if code != exitError || stderr == "" {
		t.Errorf("code %d, stderr %q", code, stderr)
	}
}

func TestParseParams(t *testing.T) {
	params, err := parseParams(
		[]string{"language_code=en_us", "speaker_labels=true", "speakers_expected=2", "word_boost=[\"aai\"]"},
		`{"language_code":"de","punctuate":false}`,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{
		"language_code":     "en_us",
		"speaker_labels":    true,
		"speakers_expected": float64(2),
		"punctuate":         false,
	}
	for k, v := range want {
		if params[k] != v {
			t.Errorf("%s: expected %v, got %v", k, v, params[k])
		}
	}
	if boost, ok := params["word_boost"].([]any); !ok || len(boost) != 1 || boost[0] != "aai" {
		t.Errorf("word_boost: got %#v", params["word_boost"])
	}

	if params, err := parseParams(nil, ""); err != nil || params != nil {
		t.Errorf("expected nil params, got %v, %v", params, err)
	}
	if params, err := parseParams([]string{"a=1"}, "null"); err != nil || params["a"] != float64(1) {
		t.Errorf("null --params: got %v, %v", params, err)
	}
	for _, bad := range [][2]string{{"=x", ""}, {"novalue", ""}, {"", "[1]"}, {"", "{"}} {
		var pairs []string
		if bad[0] != "" {
			pairs = []string{bad[0]}
		}
		if _, err := parseParams(pairs, bad[1]); err == nil {
			t.Errorf("expected error for pair %q params %q", bad[0], bad[1])
		}
	}
}
