package provider_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/provider"
)

type echoProvider struct {
	name string
}

func (p *echoProvider) Name() string                       { return p.name }
func (p *echoProvider) IsAvailable(_ context.Context) bool { return true }
func (p *echoProvider) Execute(_ context.Context, input string) (string, error) {
	return "echo:" + input, nil
}

type failingProvider struct {
	err error
}

func (p *failingProvider) Name() string                       { return "fail" }
func (p *failingProvider) IsAvailable(_ context.Context) bool { return false }
func (p *failingProvider) Execute(_ context.Context, _ string) (string, error) {
	return "", p.err
}

type orderTracker[I, O any] struct {
	inner provider.RequestResponse[I, O]
	tag   string
	order *[]string
}

func (o *orderTracker[I, O]) Name() string                         { return o.inner.Name() }
func (o *orderTracker[I, O]) IsAvailable(ctx context.Context) bool { return o.inner.IsAvailable(ctx) }
func (o *orderTracker[I, O]) Execute(ctx context.Context, input I) (O, error) {
	*o.order = append(*o.order, o.tag+":before")
	result, err := o.inner.Execute(ctx, input)
	*o.order = append(*o.order, o.tag+":after")
	return result, err
}

func newTestMetrics(t *testing.T) *observability.Metrics {
	t.Helper()
	m, err := observability.NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	return m
}

func jsonLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "debug", Format: logger.FormatJSON}, "test", buf)
}

func TestChain_Empty(t *testing.T) {
	wrapped := provider.Chain[string, string]()(&echoProvider{name: "test"})
	if wrapped.Name() != "test" {
		t.Fatalf("expected 'test', got %q", wrapped.Name())
	}
	result, err := wrapped.Execute(context.Background(), "hello")
	if err != nil || result != "echo:hello" {
		t.Fatalf("expected echo:hello, got %q, err %v", result, err)
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(tag string) provider.Middleware[string, string] {
		return func(inner provider.RequestResponse[string, string]) provider.RequestResponse[string, string] {
			return &orderTracker[string, string]{inner: inner, tag: tag, order: &order}
		}
	}

	wrapped := provider.Chain(mw("A"), mw("B"), mw("C"))(&echoProvider{name: "test"})
	if _, err := wrapped.Execute(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}

	want := []string{"A:before", "B:before", "C:before", "C:after", "B:after", "A:after"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestWithLogging_Success(t *testing.T) {
	var buf bytes.Buffer
	wrapped := provider.WithLogging[string, string](jsonLogger(&buf))(&echoProvider{name: "log-test"})

	result, err := wrapped.Execute(context.Background(), "hello")
	if err != nil || result != "echo:hello" {
		t.Fatalf("unexpected result %q, err %v", result, err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON log line: %v", err)
	}
	if entry["provider"] != "log-test" || entry["level"] != "debug" {
		t.Errorf("unexpected log entry: %v", entry)
	}
}

func TestWithLogging_ErrorCarriesCode(t *testing.T) {
	var buf bytes.Buffer
	p := &failingProvider{err: errors.Upstream("assemblyai", 500, "boom")}
	wrapped := provider.WithLogging[string, string](jsonLogger(&buf))(p)

	if _, err := wrapped.Execute(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON log line: %v", err)
	}
	if entry["level"] != "error" || entry["code"] != string(errors.ErrCodeUpstream) {
		t.Errorf("unexpected log entry: %v", entry)
	}
}

func TestWithLogging_CanceledIsInfo(t *testing.T) {
	var buf bytes.Buffer
	p := &failingProvider{err: errors.Canceled("transcribe", context.Canceled)}
	wrapped := provider.WithLogging[string, string](jsonLogger(&buf))(p)
	_, _ = wrapped.Execute(context.Background(), "x")

	if !strings.Contains(buf.String(), `"level":"info"`) {
		t.Errorf("cancellation should log at info: %s", buf.String())
	}
}

func TestWithMetrics(t *testing.T) {
	m := newTestMetrics(t)

	ok := provider.WithMetrics[string, string](m, "transcribe")(&echoProvider{name: "metrics-test"})
	if result, err := ok.Execute(context.Background(), "hello"); err != nil || result != "echo:hello" {
		t.Fatalf("unexpected result %q, err %v", result, err)
	}
	if !ok.IsAvailable(context.Background()) {
		t.Error("IsAvailable should delegate")
	}

	failing := provider.WithMetrics[string, string](m, "transcribe")(&failingProvider{err: errors.Timeout("poll")})
	if _, err := failing.Execute(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}
}

func TestWithTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	wrapped := provider.WithTracing[string, string](observability.SpanTranscribe)(
		&failingProvider{err: errors.TranscriptionFailed("t-1", "bad audio")})
	if _, err := wrapped.Execute(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}
	if wrapped.IsAvailable(context.Background()) {
		t.Error("IsAvailable should delegate")
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != observability.SpanTranscribe || spans[0].Status().Code != codes.Error {
		t.Errorf("unexpected span %q status %v", spans[0].Name(), spans[0].Status())
	}
	var code string
	for _, kv := range spans[0].Attributes() {
		if string(kv.Key) == observability.AttrErrorCode {
			code = kv.Value.AsString()
		}
	}
	if code != string(errors.ErrCodeTranscriptionFailed) {
		t.Errorf("error code attribute = %q", code)
	}
}

func TestChain_AllMiddlewares(t *testing.T) {
	var buf bytes.Buffer
	wrapped := provider.Chain(
		provider.WithLogging[string, string](jsonLogger(&buf)),
		provider.WithMetrics[string, string](newTestMetrics(t), "transcribe"),
		provider.WithTracing[string, string]("test"),
	)(&echoProvider{name: "full-stack"})

	result, err := wrapped.Execute(context.Background(), "hello")
	if err != nil || result != "echo:hello" {
		t.Fatalf("unexpected result %q, err %v", result, err)
	}
	if wrapped.Name() != "full-stack" {
		t.Errorf("name = %q", wrapped.Name())
	}
}
