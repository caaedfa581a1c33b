package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/hubenschmidt/go-lookalike/store/migrations"
)

// PostgresRunStore implements RunStore using PostgreSQL
type PostgresRunStore struct {
	db *sql.DB
}

// NewPostgresRunStore creates a PostgreSQL-backed run store
func NewPostgresRunStore(dsn string) (*PostgresRunStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := runPostgresMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresRunStore{db: db}, nil
}

func runPostgresMigrations(db *sql.DB) error {
	data, err := migrations.Postgres.ReadFile("postgres/001_init.sql")
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	_, err = db.Exec(string(data))
	if err != nil {
		return fmt.Errorf("exec migration: %w", err)
	}
	return nil
}

func (s *PostgresRunStore) Add(ctx context.Context, r RunInfo) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			run_id, timestamp, source_dsn, output_path, reference_date,
			top_k, target_count, recommended_count, skipped_count,
			total_elapsed_ms, status, results
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (run_id) DO UPDATE SET
			timestamp = EXCLUDED.timestamp,
			source_dsn = EXCLUDED.source_dsn,
			output_path = EXCLUDED.output_path,
			reference_date = EXCLUDED.reference_date,
			top_k = EXCLUDED.top_k,
			target_count = EXCLUDED.target_count,
			recommended_count = EXCLUDED.recommended_count,
			skipped_count = EXCLUDED.skipped_count,
			total_elapsed_ms = EXCLUDED.total_elapsed_ms,
			status = EXCLUDED.status,
			results = EXCLUDED.results`,
		r.RunID, r.Timestamp, r.SourceDSN, r.OutputPath, r.ReferenceDate,
		r.TopK, r.TargetCount, r.RecommendedCount, r.SkippedCount,
		r.TotalElapsedMs, r.Status, r.Results,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (s *PostgresRunStore) Get(ctx context.Context, id string) (RunInfo, error) {
	var r RunInfo
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, timestamp, source_dsn, output_path, reference_date,
			   top_k, target_count, recommended_count, skipped_count,
			   total_elapsed_ms, status, results
		FROM runs WHERE run_id = $1`, id).Scan(
		&r.RunID, &r.Timestamp, &r.SourceDSN, &r.OutputPath, &r.ReferenceDate,
		&r.TopK, &r.TargetCount, &r.RecommendedCount, &r.SkippedCount,
		&r.TotalElapsedMs, &r.Status, &r.Results,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return r, ErrNotFound
	}
	if err != nil {
		return r, fmt.Errorf("query run: %w", err)
	}
	return r, nil
}

func (s *PostgresRunStore) List(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, timestamp, source_dsn, output_path, reference_date,
			   top_k, target_count, recommended_count, skipped_count,
			   total_elapsed_ms, status, results
		FROM runs ORDER BY timestamp DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var r RunInfo
		if err := rows.Scan(
			&r.RunID, &r.Timestamp, &r.SourceDSN, &r.OutputPath, &r.ReferenceDate,
			&r.TopK, &r.TargetCount, &r.RecommendedCount, &r.SkippedCount,
			&r.TotalElapsedMs, &r.Status, &r.Results,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *PostgresRunStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE run_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

func (s *PostgresRunStore) Summary(ctx context.Context) (RunSummary, error) {
	var m RunSummary
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(target_count), 0),
			COALESCE(SUM(recommended_count), 0),
			COALESCE(SUM(skipped_count), 0),
			COALESCE(AVG(total_elapsed_ms), 0)
		FROM runs`).Scan(
		&m.TotalRuns, &m.TotalTargets, &m.TotalRecommended,
		&m.TotalSkipped, &m.AvgLatencyMs,
	)
	if err != nil {
		return m, fmt.Errorf("query summary: %w", err)
	}
	return m, nil
}

func (s *PostgresRunStore) Close() error {
	return s.db.Close()
}
