package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	rfc := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(rfc)
	if !ok {
		t.Fatalf("expected RFC3339 to parse")
	}
	if got.UTC().Format(time.RFC3339) != rfc {
		t.Fatalf("unexpected time %v", got)
	}

	unix := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok = ParseTime(strconv.FormatInt(unix, 10))
	if !ok {
		t.Fatalf("expected unix seconds to parse")
	}
	if got.Unix() != unix {
		t.Fatalf("unexpected unix %v", got.Unix())
	}

	if _, ok := ParseTime("not-a-time"); ok {
		t.Fatalf("expected garbage to fail")
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	if got := ParseTimeDefault("", def); !got.Equal(def) {
		t.Fatalf("expected default, got %v", got)
	}
	want := "2025-01-02T03:04:05Z"
	if got := ParseTimeDefault(want, def); got.UTC().Format(time.RFC3339) != want {
		t.Fatalf("expected parsed value, got %v", got)
	}
}

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("", 50); got != 50 {
		t.Fatalf("expected default, got %d", got)
	}
	if got := ParseIntDefault("12", 50); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
	if got := ParseIntDefault("x", 50); got != 50 {
		t.Fatalf("expected default on garbage, got %d", got)
	}
}
