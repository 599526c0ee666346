package assemblyai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/speechkit/di"
	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/plugin"
	"github.com/kbukum/speechkit/transcription"
	"github.com/kbukum/speechkit/transcription/assemblyai"
)

// fakeService completes every job on creation.
type fakeService struct {
	mu      sync.Mutex
	submits []map[string]any
	uploads int
}

func newFakeService(t *testing.T) (*fakeService, *httptest.Server) {
	t.Helper()
	f := &fakeService{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v2/upload":
			f.uploads++
			_, _ = io.Copy(io.Discard, r.Body)
			_, _ = io.WriteString(w, `{"upload_url":"https://cdn.example/up"}`)
		case "/v2/transcript":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.submits = append(f.submits, body)
			_, _ = io.WriteString(w, `{"id":"t1","status":"completed","text":"hello world"}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func testOptions(baseURL string) Options {
	var o Options
	o.APIKey = "test-key"
	o.BaseURL = baseURL
	return o
}

func newContainer() di.Container {
	c := di.NewContainer()
	_ = c.RegisterSingleton(di.App.Logger, logger.NewNop())
	return c
}

func TestRegister_EmptyAPIKey(t *testing.T) {
	plugins := plugin.NewCollection(logger.NewNop())
	_, err := Register(newContainer(), plugins, Options{})

	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if appErr.Message != "assemblyai.api_key must be configured." {
		t.Errorf("message = %q", appErr.Message)
	}
	if len(plugins.List()) != 0 {
		t.Error("nothing may be registered on failure")
	}
}

func TestRegister_TranscribeRemote(t *testing.T) {
	svc, srv := newFakeService(t)
	c := newContainer()
	registry := transcription.NewRegistry()
	_ = c.RegisterSingleton(di.App.Providers, registry)
	plugins := plugin.NewCollection(logger.NewNop())

	p, err := Register(c, plugins, testOptions(srv.URL))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if p.Name != DefaultName {
		t.Errorf("name = %q", p.Name)
	}

	text, err := plugins.Invoke(context.Background(), DefaultName, FunctionTranscribe, plugin.Arguments{
		"input":  "https://example.com/a.mp3",
		"params": `{"language_code":"en_us"}`,
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if text != "hello world" {
		t.Errorf("text = %q", text)
	}
	if svc.submits[0]["language_code"] != "en_us" || svc.submits[0]["audio_url"] != "https://example.com/a.mp3" {
		t.Errorf("submit body = %v", svc.submits[0])
	}

	if _, err := di.Resolve[transcription.Provider](c, di.Scoped(di.App.Transcriber, DefaultName)); err != nil {
		t.Errorf("provider not in container: %v", err)
	}
	if opts, err := di.Resolve[Options](c, di.Scoped(di.App.Options, DefaultName)); err != nil || opts.Plugin.Name != DefaultName {
		t.Errorf("options not in container: %+v %v", opts, err)
	}
	if _, ok := registry.Get(DefaultName); !ok {
		t.Error("provider not added to the registry")
	}
	if names := registry.List(); len(names) != 1 || names[0] != assemblyai.ProviderName {
		t.Errorf("registry factories = %v", names)
	}
}

func TestRegister_FileSystemAccessDisabled(t *testing.T) {
	svc, srv := newFakeService(t)
	plugins := plugin.NewCollection(logger.NewNop())
	if _, err := Register(newContainer(), plugins, testOptions(srv.URL)); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "a.wav")
	_ = os.WriteFile(path, []byte("audio"), 0o600)

	_, err := plugins.Invoke(context.Background(), DefaultName, FunctionTranscribe, plugin.Arguments{"input": path})
	if !errors.HasCode(err, errors.ErrCodeForbidden) {
		t.Errorf("transcribe: expected FORBIDDEN, got %v", err)
	}
	_, err = plugins.Invoke(context.Background(), DefaultName, FunctionUpload, plugin.Arguments{"path": path})
	if !errors.HasCode(err, errors.ErrCodeForbidden) {
		t.Errorf("upload: expected FORBIDDEN, got %v", err)
	}
	if svc.uploads != 0 || len(svc.submits) != 0 {
		t.Error("no request may be sent")
	}
}

func TestRegister_FileSystemAccessEnabled(t *testing.T) {
	svc, srv := newFakeService(t)
	plugins := plugin.NewCollection(logger.NewNop())
	opts := testOptions(srv.URL)
	opts.Plugin = PluginOptions{Name: "Speech", AllowFileSystemAccess: true}
	if _, err := Register(newContainer(), plugins, opts); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "a.wav")
	_ = os.WriteFile(path, []byte("audio"), 0o600)

	url, err := plugins.Invoke(context.Background(), "Speech", FunctionUpload, plugin.Arguments{"path": path})
	if err != nil || url != "https://cdn.example/up" {
		t.Fatalf("upload = %q, %v", url, err)
	}
	text, err := plugins.Invoke(context.Background(), "Speech", FunctionTranscribe, plugin.Arguments{"input": path})
	if err != nil || text != "hello world" {
		t.Fatalf("transcribe = %q, %v", text, err)
	}
	if svc.uploads != 2 || svc.submits[0]["audio_url"] != "https://cdn.example/up" {
		t.Errorf("uploads=%d submits=%v", svc.uploads, svc.submits)
	}
}

func TestRegister_AppliesMiddlewares(t *testing.T) {
	_, srv := newFakeService(t)
	plugins := plugin.NewCollection(logger.NewNop())
	calls := 0
	counting := func(next transcription.Executor) transcription.Executor {
		return countingExecutor{next, &calls}
	}

	if _, err := Register(newContainer(), plugins, testOptions(srv.URL), counting); err != nil {
		t.Fatal(err)
	}
	if _, err := plugins.Invoke(context.Background(), DefaultName, FunctionTranscribe, plugin.Arguments{"input": "https://example.com/a.mp3"}); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("middleware calls = %d", calls)
	}
}

type countingExecutor struct {
	transcription.Executor
	calls *int
}

func (c countingExecutor) Execute(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	*c.calls++
	return c.Executor.Execute(ctx, req)
}

func TestRegister_DuplicateName(t *testing.T) {
	_, srv := newFakeService(t)
	c := newContainer()
	plugins := plugin.NewCollection(logger.NewNop())
	if _, err := Register(c, plugins, testOptions(srv.URL)); err != nil {
		t.Fatal(err)
	}
	_, err := Register(c, plugins, testOptions(srv.URL))
	if !errors.HasCode(err, errors.ErrCodeAlreadyExists) {
		t.Errorf("expected ALREADY_EXISTS, got %v", err)
	}
}

func TestNew_Descriptors(t *testing.T) {
	p := New("", nil, nil)
	if p.Name != DefaultName {
		t.Errorf("name = %q", p.Name)
	}
	fn, ok := p.Function(FunctionTranscribe)
	if !ok {
		t.Fatal("Transcribe missing")
	}
	if fn.Description != "Transcribe an audio or video file to text." {
		t.Errorf("description = %q", fn.Description)
	}
	if fn.Parameters[0].Description != "The public URL or the local path of the audio or video file to transcribe." || !fn.Parameters[0].Required {
		t.Errorf("input parameter = %+v", fn.Parameters[0])
	}

	up, _ := p.Function(FunctionUpload)
	_, err := up.Handler(context.Background(), plugin.Arguments{"path": "/x"})
	if !errors.HasCode(err, errors.ErrCodeForbidden) {
		t.Errorf("upload without uploader: %v", err)
	}
}

func TestOptions(t *testing.T) {
	o := testOptions("")
	o.ApplyDefaults()
	if o.Plugin.Name != DefaultName || o.BaseURL == "" {
		t.Errorf("defaults = %+v", o)
	}
	if o.Plugin.AllowFileSystemAccess {
		t.Error("filesystem access must default to off")
	}
	if err := o.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	o.Plugin.Name = "bad name"
	if err := o.Validate(); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}


func TestOptions_SettingsDecodeBack(t *testing.T) {
	o := testOptions("https://api.example")
	o.Timeout = 90 * time.Second
	o.Retries = 2
	o.Poll.MaxAttempts = 5
	o.Poll.Timeout = time.Minute
	o.Plugin.AllowFileSystemAccess = true

	settings, err := o.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	got, err := assemblyai.DecodeSettings(settings)
	if err != nil {
		t.Fatalf("DecodeSettings: %v", err)
	}
	if got.APIKey != "test-key" || got.BaseURL != "https://api.example" || got.Timeout != 90*time.Second || got.Retries != 2 {
		t.Errorf("config = %+v", got.Config)
	}
	if got.Poll.MaxAttempts != 5 || got.Poll.Timeout != time.Minute {
		t.Errorf("poll = %+v", got.Poll)
	}
	if !got.AllowFileSystemAccess {
		t.Error("filesystem flag lost")
	}
}

// rejectingContainer refuses singletons registered under one key.
type rejectingContainer struct {
	di.Container
	key string
}

func (c rejectingContainer) RegisterSingleton(key string, instance any) error {
	if key == c.key {
		return errors.AlreadyExists("component").WithDetail("key", key)
	}
	return c.Container.RegisterSingleton(key, instance)
}

func TestRegister_ContainerErrorReturned(t *testing.T) {
	_, srv := newFakeService(t)
	c := rejectingContainer{Container: newContainer(), key: di.Scoped(di.App.Options, DefaultName)}
	plugins := plugin.NewCollection(logger.NewNop())

	_, err := Register(c, plugins, testOptions(srv.URL))
	if !errors.HasCode(err, errors.ErrCodeAlreadyExists) {
		t.Errorf("expected the container error, got %v", err)
	}
}
