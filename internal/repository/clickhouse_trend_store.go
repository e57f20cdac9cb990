package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"TrendPulse/internal/domain/models"
	domrepo "TrendPulse/internal/domain/repository"
	pkgch "TrendPulse/pkg/clickhouse"
	applogger "TrendPulse/pkg/logger"
)

// CHTrendStore persists detected trends, alert subscriptions and alert
// trigger history in ClickHouse.
type CHTrendStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHTrendStore(ch *pkgch.Client) *CHTrendStore {
	return &CHTrendStore{db: ch.DB()}
}

func (s *CHTrendStore) SetLogger(l *applogger.Logger) { s.l = l }

// SchemaStatements returns the idempotent DDL for the store tables.
func SchemaStatements(database string) []string {
	return []string{
		fmt.Sprintf(`CREATE DATABASE IF NOT EXISTS %s`, database),
		fmt.Sprintf(`
            CREATE TABLE IF NOT EXISTS %s.raw_events (
                ts      DateTime,
                source  String,
                metric  String,
                count   Float64
            ) ENGINE = MergeTree()
            PARTITION BY toYYYYMM(ts)
            ORDER BY (source, metric, ts)
        `, database),
		fmt.Sprintf(`
            CREATE TABLE IF NOT EXISTS %s.trends (
                id             String,
                trend_name     String,
                trend_type     String,
                metric         String,
                current_value  Float64,
                previous_value Float64,
                change_percent Float64,
                time_period    String,
                significance   Float64,
                start_date     DateTime,
                keywords       String,
                detected_at    DateTime
            ) ENGINE = ReplacingMergeTree(detected_at)
            PARTITION BY toYYYYMM(detected_at)
            ORDER BY (metric, trend_type, start_date)
        `, database),
		fmt.Sprintf(`
            CREATE TABLE IF NOT EXISTS %s.alert_subscriptions (
                id         String,
                owner      String,
                alert_type String,
                conditions String,
                active     UInt8,
                created_at DateTime
            ) ENGINE = ReplacingMergeTree(created_at)
            ORDER BY id
        `, database),
		fmt.Sprintf(`
            CREATE TABLE IF NOT EXISTS %s.alert_triggers (
                subscription_id String,
                trend_id        String,
                triggered_at    DateTime,
                message         String
            ) ENGINE = MergeTree()
            PARTITION BY toYYYYMM(triggered_at)
            ORDER BY (subscription_id, triggered_at)
        `, database),
	}
}

// SaveTrend upserts a trend. The id is derived from (metric, type, start
// date) so re-detections of the same trend replace the previous row.
func (s *CHTrendStore) SaveTrend(ctx context.Context, t *models.Trend) (string, error) {
	if t == nil {
		return "", fmt.Errorf("nil trend")
	}
	id := t.ID
	if id == "" {
		id = fmt.Sprintf("%s-%s-%d", t.Metric, t.TrendType, t.StartDate.UTC().Unix())
	}
	kw, err := json.Marshal(t.Keywords)
	if err != nil {
		return "", fmt.Errorf("marshal keywords: %w", err)
	}
	detectedAt := t.DetectedAt
	if detectedAt.IsZero() {
		detectedAt = time.Now().UTC()
	}

	start := time.Now()
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO trends
            (id, trend_name, trend_type, metric, current_value, previous_value,
             change_percent, time_period, significance, start_date, keywords, detected_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		id, t.TrendName, string(t.TrendType), t.Metric,
		t.CurrentValue, t.PreviousValue, t.ChangePercent,
		string(t.TimePeriod), t.Significance, t.StartDate.UTC(),
		string(kw), detectedAt,
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse save_trend error",
				applogger.String("metric", t.Metric),
				applogger.Error(err),
			)
		}
		return "", fmt.Errorf("save trend: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse save_trend ok",
			applogger.String("id", id),
			applogger.String("metric", t.Metric),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return id, nil
}

// ListTrends returns the most recent trends, optionally filtered by metric.
func (s *CHTrendStore) ListTrends(ctx context.Context, metric string, limit int) ([]models.Trend, error) {
	if limit <= 0 {
		limit = 50
	}
	var b strings.Builder
	b.WriteString(`
        SELECT id, trend_name, trend_type, metric, current_value, previous_value,
               change_percent, time_period, significance, start_date, keywords, detected_at
        FROM trends FINAL
    `)
	args := []interface{}{}
	if metric != "" {
		b.WriteString(" WHERE metric = ?")
		args = append(args, metric)
	}
	b.WriteString(" ORDER BY detected_at DESC LIMIT ?")
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list trends: %w", err)
	}
	defer rows.Close()

	out := make([]models.Trend, 0, limit)
	for rows.Next() {
		var (
			t        models.Trend
			tt, tp   string
			keywords string
		)
		if err := rows.Scan(
			&t.ID, &t.TrendName, &tt, &t.Metric,
			&t.CurrentValue, &t.PreviousValue, &t.ChangePercent,
			&tp, &t.Significance, &t.StartDate, &keywords, &t.DetectedAt,
		); err != nil {
			return nil, fmt.Errorf("scan trend: %w", err)
		}
		t.TrendType = models.TrendType(tt)
		t.TimePeriod = models.TimePeriod(tp)
		if keywords != "" {
			if err := json.Unmarshal([]byte(keywords), &t.Keywords); err != nil {
				t.Keywords = nil
			}
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// ListActiveAlertSubscriptions returns all subscriptions flagged active.
func (s *CHTrendStore) ListActiveAlertSubscriptions(ctx context.Context) ([]models.AlertSubscription, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, owner, alert_type, conditions, active, created_at
        FROM alert_subscriptions FINAL
        WHERE active = 1
        ORDER BY created_at ASC
    `)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var out []models.AlertSubscription
	for rows.Next() {
		var (
			sub        models.AlertSubscription
			alertType  string
			conditions string
			active     uint8
		)
		if err := rows.Scan(&sub.ID, &sub.Owner, &alertType, &conditions, &active, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		sub.Type = models.AlertType(alertType)
		sub.Active = active == 1
		if conditions != "" {
			if err := json.Unmarshal([]byte(conditions), &sub.Conditions); err != nil {
				if s.l != nil {
					s.l.Warn("skip subscription with bad conditions",
						applogger.String("id", sub.ID),
						applogger.Error(err),
					)
				}
				continue
			}
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// SaveAlertSubscription inserts or replaces a subscription.
func (s *CHTrendStore) SaveAlertSubscription(ctx context.Context, sub *models.AlertSubscription) error {
	if sub == nil {
		return fmt.Errorf("nil subscription")
	}
	cond, err := json.Marshal(sub.Conditions)
	if err != nil {
		return fmt.Errorf("marshal conditions: %w", err)
	}
	active := uint8(0)
	if sub.Active {
		active = 1
	}
	createdAt := sub.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO alert_subscriptions (id, owner, alert_type, conditions, active, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `, sub.ID, sub.Owner, string(sub.Type), string(cond), active, createdAt)
	if err != nil {
		return fmt.Errorf("save subscription: %w", err)
	}
	return nil
}

// RecordAlertTrigger appends a trigger row for audit.
func (s *CHTrendStore) RecordAlertTrigger(ctx context.Context, subscriptionID, trendID, message string) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO alert_triggers (subscription_id, trend_id, triggered_at, message)
        VALUES (?, ?, ?, ?)
    `, subscriptionID, trendID, time.Now().UTC(), message)
	if err != nil {
		return fmt.Errorf("record trigger: %w", err)
	}
	return nil
}

var _ domrepo.TrendStore = (*CHTrendStore)(nil)
