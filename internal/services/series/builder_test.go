package series

import (
	"testing"
	"time"

	"TrendPulse/internal/domain/models"
	domrepo "TrendPulse/internal/domain/repository"
)

func TestBuildSumsWithinBuckets(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 10)
	obs := []models.Observation{
		{Timestamp: start.Add(2 * time.Hour), Value: 1},
		{Timestamp: start.Add(20 * time.Hour), Value: 2},
		{Timestamp: start.AddDate(0, 0, 3), Value: 4},
	}

	ts := Build("m", obs, domrepo.BucketDay, start, end)
	if ts.Len() != 2 {
		t.Fatalf("points = %d", ts.Len())
	}
	if ts.Points[0].Value != 3 {
		t.Fatalf("first bucket = %v, want summed 3", ts.Points[0].Value)
	}
	if ts.Points[1].Value != 4 {
		t.Fatalf("second bucket = %v", ts.Points[1].Value)
	}
	if !ts.Points[0].Date.Before(ts.Points[1].Date) {
		t.Fatalf("points not date ordered")
	}
}

func TestBuildDropsOutOfWindow(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 5)
	obs := []models.Observation{
		{Timestamp: start.Add(-time.Second), Value: 1}, // before window
		{Timestamp: end, Value: 1},                     // end is exclusive
		{Timestamp: start, Value: 7},
	}
	ts := Build("m", obs, domrepo.BucketDay, start, end)
	if ts.Len() != 1 || ts.Points[0].Value != 7 {
		t.Fatalf("series = %+v", ts.Points)
	}
}

func TestBucketStartWeekIsMonday(t *testing.T) {
	sunday := time.Date(2025, 3, 9, 15, 0, 0, 0, time.UTC)
	got := BucketStart(sunday, domrepo.BucketWeek)
	want := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("week start = %v, want %v", got, want)
	}
	if got.Weekday() != time.Monday {
		t.Fatalf("weekday = %v", got.Weekday())
	}
}

func TestBucketStartMonth(t *testing.T) {
	got := BucketStart(time.Date(2025, 3, 17, 8, 30, 0, 0, time.UTC), domrepo.BucketMonth)
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("month start = %v", got)
	}
}
