package assemblyai

import (
	"context"
	"testing"
	"time"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/resilience"
)

func TestTranscribe_PollsUntilCompleted(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.polls = []reply{
		{200, `{"id":"1","status":"processing"}`},
		{200, `{"id":"1","status":"completed","text":"hello"}`},
	}
	rec := &sleepRecorder{}
	p := newTestProvider(t, srv.URL, rec)

	job, err := p.transcripts.Transcribe(context.Background(), "https://example.com/a.mp3", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Text == nil || *job.Text != "hello" {
		t.Fatalf("unexpected job %+v", job)
	}
	if api.pollCount != 2 {
		t.Errorf("expected 2 status checks, got %d", api.pollCount)
	}
	if len(rec.delays) != 2 {
		t.Fatalf("expected a delay before each status check, got %v", rec.delays)
	}
	for _, d := range rec.delays {
		if d != 3*time.Second {
			t.Errorf("delay = %v, want 3s", d)
		}
	}
	want := []string{"POST /v2/transcript", "GET /v2/transcript/1", "GET /v2/transcript/1"}
	for i, path := range want {
		if api.paths[i] != path {
			t.Errorf("request %d = %q, want %q", i, api.paths[i], path)
		}
	}
}

func TestSubmit_ImmediateErrorDoesNotPoll(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.submit = reply{200, `{"id":"1","status":"error","error":"bad audio"}`}
	rec := &sleepRecorder{}
	p := newTestProvider(t, srv.URL, rec)

	_, err := p.transcripts.Transcribe(context.Background(), "https://example.com/a.mp3", nil)
	appErr := assertCode(t, err, errors.ErrCodeTranscriptionFailed)
	if appErr.Message != "bad audio" {
		t.Errorf("message = %q, want service error text", appErr.Message)
	}
	if appErr.Details["transcript_id"] != "1" {
		t.Errorf("details = %v", appErr.Details)
	}
	if api.pollCount != 0 || len(rec.delays) != 0 {
		t.Errorf("no polling expected: %d polls, %d delays", api.pollCount, len(rec.delays))
	}
}

func TestWait_ErrorStatusFails(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.polls = []reply{
		{200, `{"id":"1","status":"processing"}`},
		{200, `{"id":"1","status":"error","error":"file does not appear to contain audio"}`},
	}
	p := newTestProvider(t, srv.URL, &sleepRecorder{})

	_, err := p.transcripts.Transcribe(context.Background(), "https://example.com/a.mp3", nil)
	appErr := assertCode(t, err, errors.ErrCodeTranscriptionFailed)
	if appErr.Message != "file does not appear to contain audio" {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestWait_UnknownStatusStops(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.polls = []reply{{200, `{"id":"1","status":"weird"}`}}
	p := newTestProvider(t, srv.URL, &sleepRecorder{})

	_, err := p.transcripts.Transcribe(context.Background(), "https://example.com/a.mp3", nil)
	appErr := assertCode(t, err, errors.ErrCodeProtocolViolation)
	if appErr.Details["status"] != "weird" {
		t.Errorf("details = %v", appErr.Details)
	}
	if api.pollCount != 1 {
		t.Errorf("polling should stop after the unknown status, got %d polls", api.pollCount)
	}
}

func TestSubmit_UnknownStatus(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.submit = reply{200, `{"id":"1","status":"paused"}`}
	p := newTestProvider(t, srv.URL, &sleepRecorder{})

	_, err := p.transcripts.Submit(context.Background(), "https://example.com/a.mp3", nil)
	assertCode(t, err, errors.ErrCodeProtocolViolation)
}

func TestSubmit_MissingID(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.submit = reply{200, `{"status":"queued"}`}
	p := newTestProvider(t, srv.URL, &sleepRecorder{})

	_, err := p.transcripts.Submit(context.Background(), "https://example.com/a.mp3", nil)
	appErr := assertCode(t, err, errors.ErrCodeMalformedResponse)
	if appErr.Details["field"] != "id" {
		t.Errorf("details = %v", appErr.Details)
	}
}

func TestSubmit_CompletedImmediately(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.submit = reply{200, `{"id":"1","status":"completed","text":"fast"}`}
	rec := &sleepRecorder{}
	p := newTestProvider(t, srv.URL, rec)

	job, err := p.transcripts.Transcribe(context.Background(), "https://example.com/a.mp3", nil)
	if err != nil {
		t.Fatal(err)
	}
	if *job.Text != "fast" || len(rec.delays) != 0 || api.pollCount != 0 {
		t.Errorf("a completed job needs no polling: %+v", job)
	}
}

func TestSubmit_ParamsMerge(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.submit = reply{200, `{"id":"1","status":"completed","text":""}`}
	p := newTestProvider(t, srv.URL, &sleepRecorder{})

	params := map[string]any{"audio_url": "https://ignored.example/x.mp3", "language_code": "en_us"}
	if _, err := p.transcripts.Submit(context.Background(), "https://cdn.example/a.mp3", params); err != nil {
		t.Fatal(err)
	}
	body := api.submits[0]
	if body["audio_url"] != "https://cdn.example/a.mp3" {
		t.Errorf("resolved URL must override params: %v", body["audio_url"])
	}
	if body["language_code"] != "en_us" {
		t.Errorf("extra params must be sent: %v", body)
	}
	if params["audio_url"] != "https://ignored.example/x.mp3" {
		t.Error("caller's params map must not be modified")
	}
}

func TestSubmit_AudioURLFromParams(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.submit = reply{200, `{"id":"1","status":"completed","text":"ok"}`}
	p := newTestProvider(t, srv.URL, &sleepRecorder{})

	params := map[string]any{"audio_url": "https://cdn.example/b.mp3"}
	if _, err := p.transcripts.Submit(context.Background(), "", params); err != nil {
		t.Fatal(err)
	}
	if api.submits[0]["audio_url"] != "https://cdn.example/b.mp3" {
		t.Errorf("body = %v", api.submits[0])
	}
}

func TestSubmit_NoAudioURL(t *testing.T) {
	api, srv := newFakeAPI(t)
	p := newTestProvider(t, srv.URL, &sleepRecorder{})

	for _, params := range []map[string]any{nil, {"audio_url": ""}, {"audio_url": 42}} {
		_, err := p.transcripts.Submit(context.Background(), "", params)
		assertCode(t, err, errors.ErrCodeInvalidInput)
	}
	if api.requests() != 0 {
		t.Errorf("no request should be sent, got %d", api.requests())
	}
}

func TestSubmit_UpstreamError(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.submit = reply{401, `{"error":"Authentication error, API token missing/invalid"}`}
	p := newTestProvider(t, srv.URL, &sleepRecorder{})

	_, err := p.transcripts.Submit(context.Background(), "https://example.com/a.mp3", nil)
	appErr := assertCode(t, err, errors.ErrCodeUpstream)
	if appErr.Details["status_code"] != 401 {
		t.Errorf("details = %v", appErr.Details)
	}
}

func TestWait_PollUpstreamError(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.polls = []reply{{404, `{"error":"Transcript not found"}`}}
	p := newTestProvider(t, srv.URL, &sleepRecorder{})

	_, err := p.transcripts.Transcribe(context.Background(), "https://example.com/a.mp3", nil)
	appErr := assertCode(t, err, errors.ErrCodeUpstream)
	if appErr.Details["status_code"] != 404 {
		t.Errorf("details = %v", appErr.Details)
	}
}

func TestWait_AttemptBudget(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.polls = []reply{
		{200, `{"id":"1","status":"queued"}`},
		{200, `{"id":"1","status":"processing"}`},
	}
	rec := &sleepRecorder{}
	p, err := NewProvider(Config{
		APIKey:  testAPIKey,
		BaseURL: srv.URL,
		Poll:    resilience.PollConfig{Interval: time.Second, MaxAttempts: 2},
	}, WithSleep(rec.sleep), WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatal(err)
	}

	_, err = p.transcripts.Transcribe(context.Background(), "https://example.com/a.mp3", nil)
	appErr := assertCode(t, err, errors.ErrCodeTimeout)
	if appErr.Details["attempts"] != 2 {
		t.Errorf("details = %v", appErr.Details)
	}
	if api.pollCount != 2 || len(rec.delays) != 2 || rec.delays[0] != time.Second {
		t.Errorf("polls=%d delays=%v", api.pollCount, rec.delays)
	}
}

func TestWait_CanceledDuringDelay(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.polls = []reply{{200, `{"id":"1","status":"processing"}`}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec := &sleepRecorder{hook: func(n int) {
		if n == 2 {
			cancel()
		}
	}}
	p := newTestProvider(t, srv.URL, rec)

	_, err := p.transcripts.Transcribe(ctx, "https://example.com/a.mp3", nil)
	assertCode(t, err, errors.ErrCodeCanceled)
	if !errors.Is(err, context.Canceled) {
		t.Error("expected context.Canceled in the chain")
	}
	if api.pollCount != 1 {
		t.Errorf("no status check after cancellation, got %d", api.pollCount)
	}
}

func TestWait_DeadlineIsTimeout(t *testing.T) {
	_, srv := newFakeAPI(t)
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	p := newTestProvider(t, srv.URL, &sleepRecorder{})

	_, err := p.transcripts.Wait(ctx, &Transcript{ID: "1", Status: StatusQueued})
	assertCode(t, err, errors.ErrCodeTimeout)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected context.DeadlineExceeded in the chain")
	}
}

func TestGet_RetriesWhenEnabled(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.polls = []reply{
		{503, `{"error":"try later"}`},
		{200, `{"id":"1","status":"completed","text":"after retry"}`},
	}
	rec := &sleepRecorder{}
	p, err := NewProvider(Config{APIKey: testAPIKey, BaseURL: srv.URL, Retries: 2},
		WithSleep(rec.sleep), WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatal(err)
	}

	job, err := p.transcripts.Get(context.Background(), "1")
	if err != nil {
		t.Fatalf("expected retry to recover: %v", err)
	}
	if *job.Text != "after retry" || api.pollCount != 2 {
		t.Errorf("job=%+v polls=%d", job, api.pollCount)
	}
}

func TestSubmit_NotRetried(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.submit = reply{503, `{"error":"try later"}`}
	p, err := NewProvider(Config{APIKey: testAPIKey, BaseURL: srv.URL, Retries: 3},
		WithSleep((&sleepRecorder{}).sleep), WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatal(err)
	}

	_, err = p.transcripts.Submit(context.Background(), "https://example.com/a.mp3", nil)
	assertCode(t, err, errors.ErrCodeUpstream)
	if api.requests() != 1 {
		t.Errorf("job creation must not be retried, got %d requests", api.requests())
	}
}
