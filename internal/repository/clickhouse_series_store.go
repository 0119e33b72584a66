package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"LaborPulse/internal/domain/models"
	domrepo "LaborPulse/internal/domain/repository"
	pkgch "LaborPulse/pkg/clickhouse"
	applogger "LaborPulse/pkg/logger"
)

// CHSeriesStore implements SeriesStore backed by ClickHouse.
type CHSeriesStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHSeriesStore(ch *pkgch.Client, table string) *CHSeriesStore {
	return &CHSeriesStore{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHSeriesStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHSeriesStore) ListEntities(ctx context.Context, freq domrepo.Frequency) ([]string, error) {
	q := fmt.Sprintf("SELECT DISTINCT entity FROM %s WHERE freq = ? ORDER BY entity ASC", s.table)
	rows, err := s.db.QueryContext(ctx, q, string(freq))
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	defer rows.Close()

	var entities []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		entities = append(entities, e)
	}
	return entities, rows.Err()
}

func (s *CHSeriesStore) GetSeries(ctx context.Context, entity string, freq domrepo.Frequency, limit int) ([]models.Observation, error) {
	start := time.Now()
	// FINAL collapses ReplacingMergeTree duplicates so re-ingested periods
	// surface once.
	const qtpl = `
        SELECT entity, period, employment_level, job_openings, hires, separations
        FROM %s FINAL
        WHERE entity = ? AND freq = ?
        ORDER BY period DESC
        LIMIT ?
    `
	q := fmt.Sprintf(qtpl, s.table)
	rows, err := s.db.QueryContext(ctx, q, entity, string(freq), limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_series query error",
				applogger.String("entity", entity),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get series: %w", err)
	}
	defer rows.Close()

	out := make([]models.Observation, 0, 512)
	for rows.Next() {
		var o models.Observation
		if err := rows.Scan(&o.Entity, &o.Period, &o.EmploymentLevel, &o.JobOpenings, &o.Hires, &o.Separations); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	// Query walks newest-first for the LIMIT; callers expect oldest-first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	if s.l != nil {
		s.l.Debug("clickhouse get_series ok",
			applogger.String("entity", entity),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHSeriesStore) GetAllSeries(ctx context.Context, freq domrepo.Frequency, limit int) (map[string][]models.Observation, error) {
	entities, err := s.ListEntities(ctx, freq)
	if err != nil {
		return nil, err
	}
	all := make(map[string][]models.Observation, len(entities))
	for _, e := range entities {
		series, err := s.GetSeries(ctx, e, freq, limit)
		if err != nil {
			return nil, err
		}
		all[e] = series
	}
	return all, nil
}
