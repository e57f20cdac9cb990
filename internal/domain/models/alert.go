package models

import "time"

// AlertType selects the primary condition an alert subscription evaluates.
type AlertType string

const (
	AlertThreshold    AlertType = "threshold"
	AlertEmergence    AlertType = "emergence"
	AlertAcceleration AlertType = "acceleration"
	AlertPeak         AlertType = "peak"
	AlertDecline      AlertType = "decline"
	AlertAnomaly      AlertType = "anomaly"
)

// AlertConditions are the optional secondary filters on a subscription.
// Nil pointers mean "not set". The evaluator treats malformed conditions
// as a failed match, never as an error.
type AlertConditions struct {
	Threshold     *float64    `json:"threshold,omitempty"`
	MinGrowthRate *float64    `json:"min_growth_rate,omitempty"`
	MinConfidence *float64    `json:"min_confidence,omitempty"`
	Keywords      []string    `json:"keywords,omitempty"`
	TrendTypes    []TrendType `json:"trend_types,omitempty"`
}

// AlertSubscription is a user-defined alert rule. Subscriptions are
// created and deleted through the external API; the engine only reads them.
type AlertSubscription struct {
	ID         string          `json:"id"`
	Owner      string          `json:"owner"`
	Type       AlertType       `json:"type"`
	Conditions AlertConditions `json:"conditions"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
}

// AlertEvent records a subscription matching a freshly classified trend.
// Immutable once created.
type AlertEvent struct {
	SubscriptionID string    `json:"subscription_id"`
	TrendID        string    `json:"trend_id"`
	TriggeredAt    time.Time `json:"triggered_at"`
	Message        string    `json:"message"`
}
