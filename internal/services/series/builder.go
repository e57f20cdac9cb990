package series

import (
	"sort"
	"time"

	"TrendPulse/internal/domain/models"
	domrepo "TrendPulse/internal/domain/repository"
)

// Build aggregates raw observations for one metric into a bucketed series
// inside [start, end). Duplicate observations in a bucket collapse by
// summation. Buckets with no observations are omitted, never interpolated.
// Pure function, no I/O.
func Build(metric string, obs []models.Observation, bucket domrepo.Bucket, start, end time.Time) models.TimeSeries {
	sums := make(map[time.Time]float64)
	for _, o := range obs {
		if o.Timestamp.Before(start) || !o.Timestamp.Before(end) {
			continue
		}
		sums[BucketStart(o.Timestamp, bucket)] += o.Value
	}

	points := make([]models.Point, 0, len(sums))
	for d, v := range sums {
		points = append(points, models.Point{Date: d, Value: v})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	return models.TimeSeries{Metric: metric, Points: points}
}

// BucketStart truncates t to the start of its bucket in UTC.
// Weeks start on Monday.
func BucketStart(t time.Time, bucket domrepo.Bucket) time.Time {
	t = t.UTC()
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	switch bucket {
	case domrepo.BucketWeek:
		wd := int(day.Weekday())
		if wd == 0 { // Sunday
			wd = 7
		}
		return day.AddDate(0, 0, -(wd - 1))
	case domrepo.BucketMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}
