package repository

import (
	"testing"
	"time"
)

func TestNormalizeBucket(t *testing.T) {
	cases := map[string]Bucket{
		"":      BucketDay,
		"day":   BucketDay,
		"week":  BucketWeek,
		"month": BucketMonth,
		"year":  BucketDay,
		"Week":  BucketDay,
	}
	for in, want := range cases {
		if got := NormalizeBucket(in); got != want {
			t.Fatalf("NormalizeBucket(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestBucketSpan(t *testing.T) {
	day := 24 * time.Hour
	if got := BucketDay.Span(30); got != 30*day {
		t.Fatalf("day span = %v", got)
	}
	if got := BucketWeek.Span(4); got != 28*day {
		t.Fatalf("week span = %v", got)
	}
	if got := BucketMonth.Span(2); got != 60*day {
		t.Fatalf("month span = %v", got)
	}
}
