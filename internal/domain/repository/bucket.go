package repository

import "time"

// Bucket is the aggregation granularity for built series.
type Bucket string

const (
	BucketDay   Bucket = "day"
	BucketWeek  Bucket = "week"
	BucketMonth Bucket = "month"
)

// IsValidBucket returns true if b is a supported bucket.
func IsValidBucket(b Bucket) bool {
	switch b {
	case BucketDay, BucketWeek, BucketMonth:
		return true
	default:
		return false
	}
}

// DefaultBucket returns the default aggregation bucket.
func DefaultBucket() Bucket { return BucketDay }

// NormalizeBucket converts a raw string to a valid bucket (or default).
func NormalizeBucket(s string) Bucket {
	if s == "" {
		return DefaultBucket()
	}
	b := Bucket(s)
	if IsValidBucket(b) {
		return b
	}
	return DefaultBucket()
}

// Span returns the duration covered by n buckets of this granularity.
// Weeks and months use calendar approximations good enough for window math.
func (b Bucket) Span(n int) time.Duration {
	day := 24 * time.Hour
	switch b {
	case BucketWeek:
		return time.Duration(n) * 7 * day
	case BucketMonth:
		return time.Duration(n) * 30 * day
	default:
		return time.Duration(n) * day
	}
}
