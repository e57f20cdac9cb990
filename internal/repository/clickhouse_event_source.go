package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"TrendPulse/internal/domain/models"
	domrepo "TrendPulse/internal/domain/repository"
	pkgch "TrendPulse/pkg/clickhouse"
	applogger "TrendPulse/pkg/logger"
)

// CHEventSource implements EventSource backed by ClickHouse.
type CHEventSource struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHEventSource(ch *pkgch.Client, table string) *CHEventSource {
	return &CHEventSource{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHEventSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHEventSource) ListMetrics(ctx context.Context, sourceID string, start, end time.Time) ([]string, error) {
	q := fmt.Sprintf(`
        SELECT DISTINCT metric
        FROM %s
        WHERE source = ? AND ts >= ? AND ts < ?
        ORDER BY metric ASC
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, sourceID, start, end)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse list_metrics query error",
				applogger.String("source", sourceID),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("list metrics: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHEventSource) FetchEvents(ctx context.Context, sourceID, metric string, start, end time.Time) ([]models.Observation, error) {
	started := time.Now()
	q := fmt.Sprintf(`
        SELECT ts, count
        FROM %s
        WHERE source = ? AND metric = ? AND ts >= ? AND ts < ?
        ORDER BY ts ASC
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, sourceID, metric, start, end)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse fetch_events query error",
				applogger.String("source", sourceID),
				applogger.String("metric", metric),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	defer rows.Close()

	out := make([]models.Observation, 0, 1024)
	for rows.Next() {
		var o models.Observation
		if err := rows.Scan(&o.Timestamp, &o.Value); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse fetch_events ok",
			applogger.String("source", sourceID),
			applogger.String("metric", metric),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(started)),
		)
	}
	return out, nil
}

var _ domrepo.EventSource = (*CHEventSource)(nil)
