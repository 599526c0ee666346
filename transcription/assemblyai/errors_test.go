package assemblyai

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestErrorText(t *testing.T) {
	if got := errorText([]byte(`{"error":"Invalid API key"}`)); got != "Invalid API key" {
		t.Errorf("json body: got %q", got)
	}
	if got := errorText([]byte("  bad gateway \n")); got != "bad gateway" {
		t.Errorf("plain body: got %q", got)
	}
}

func TestErrorText_TruncatesOnRuneBoundary(t *testing.T) {
	// 511 ASCII bytes put a 3-byte rune across the limit
	body := strings.Repeat("a", maxErrorBody-1) + strings.Repeat("€", 10)
	got := errorText([]byte(body))

	if !utf8.ValidString(got) {
		t.Fatalf("truncated text is not valid UTF-8: %q", got[len(got)-8:])
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis, got suffix %q", got[len(got)-8:])
	}
	if want := strings.Repeat("a", maxErrorBody-1) + "..."; got != want {
		t.Errorf("got %d bytes, want %d", len(got), len(want))
	}
}
