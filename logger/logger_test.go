package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"
)

func jsonLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: FormatJSON}, "speechkit", buf)
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected a log line, got nothing")
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, line)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l := New(&Config{Level: "invalid-level", Format: FormatJSON}, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestJSONOutputCarriesServiceAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "debug")
	l.WithComponent("assemblyai").Info("submitted", Fields(FieldTranscriptID, "t-1"))

	m := decodeLine(t, &buf)
	if m[FieldService] != "speechkit" {
		t.Errorf("expected service field, got %v", m[FieldService])
	}
	if m[FieldComponent] != "assemblyai" {
		t.Errorf("expected component field, got %v", m[FieldComponent])
	}
	if m[FieldTranscriptID] != "t-1" {
		t.Errorf("expected transcript_id field, got %v", m[FieldTranscriptID])
	}
	if m["message"] != "submitted" {
		t.Errorf("expected message, got %v", m["message"])
	}
}

func TestWithContextRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "info")
	ctx := ContextWithRequestID(context.Background(), "req-42")
	ctx = ContextWithTrace(ctx, "trace-1", "span-1")
	l.WithContext(ctx).Info("handled")

	m := decodeLine(t, &buf)
	if m[FieldRequestID] != "req-42" {
		t.Errorf("expected request_id, got %v", m[FieldRequestID])
	}
	if m[FieldTraceID] != "trace-1" || m[FieldSpanID] != "span-1" {
		t.Errorf("expected trace and span ids, got %v / %v", m[FieldTraceID], m[FieldSpanID])
	}
	if RequestIDFromContext(ctx) != "req-42" {
		t.Errorf("expected RequestIDFromContext to return req-42")
	}
	if RequestIDFromContext(context.Background()) != "" {
		t.Error("expected empty request id for bare context")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "warn")
	l.Debug("hidden")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("expected warn line")
	}
}

func TestWithErrorField(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "info").WithError(fmt.Errorf("boom")).Error("failed")
	m := decodeLine(t, &buf)
	if m[FieldError] != "boom" {
		t.Errorf("expected error field 'boom', got %v", m[FieldError])
	}
}

func TestNewNopDiscards(t *testing.T) {
	NewNop().Info("nothing", Fields("a", 1))
}

func TestInitSetsGlobal(t *testing.T) {
	Init(&Config{Level: "info", Format: FormatConsole, Output: "stderr", ServiceName: "speechkit"})
	if GetGlobalLogger() == nil {
		t.Fatal("expected global logger to be set after Init")
	}
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
}

func TestSetGlobalLogger(t *testing.T) {
	l := NewDefault("custom")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != FormatConsole {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected output 'stderr', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json", Output: "stdout"}, false},
		{"valid console", Config{Level: "debug", Format: "console", Output: "stderr"}, false},
		{"invalid level", Config{Level: "bad", Format: "json", Output: "stderr"}, true},
		{"invalid format", Config{Level: "info", Format: "xml", Output: "stderr"}, true},
		{"invalid output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestRegisterAndGet(t *testing.T) {
	l := NewDefault("custom-component")
	Register("my-component", l)

	if Get("my-component") != l {
		t.Error("expected Get to return the registered logger")
	}
	if Get("unregistered-component") == nil {
		t.Fatal("expected non-nil logger for unregistered component")
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		input    []interface{}
		expected map[string]interface{}
	}{
		{"key-value pairs", []interface{}{"op", "save", "id", 42}, map[string]interface{}{"op": "save", "id": 42}},
		{"odd number of args", []interface{}{"op", "save", "trailing"}, map[string]interface{}{"op": "save"}},
		{"non-string key skipped", []interface{}{123, "value", "key", "val"}, map[string]interface{}{"key": "val"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Fields(tc.input...)
			if len(result) != len(tc.expected) {
				t.Errorf("expected %d fields, got %d", len(tc.expected), len(result))
			}
			for k, v := range tc.expected {
				if result[k] != v {
					t.Errorf("Fields[%q] = %v, expected %v", k, result[k], v)
				}
			}
		})
	}
}

func TestErrorAndDurationFields(t *testing.T) {
	fields := ErrorFields("upload", fmt.Errorf("something broke"))
	if fields[FieldOperation] != "upload" || fields[FieldError] != "something broke" {
		t.Errorf("unexpected error fields %v", fields)
	}

	d := DurationFields("poll", 150*time.Millisecond)
	if d[FieldDuration] != int64(150) {
		t.Errorf("expected duration 150, got %v", d[FieldDuration])
	}

	merged := MergeWithError(nil, fmt.Errorf("x"))
	if merged[FieldError] != "x" {
		t.Errorf("expected error field from nil map, got %v", merged[FieldError])
	}
}
