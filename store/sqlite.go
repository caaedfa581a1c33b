package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/hubenschmidt/go-lookalike/store/migrations"
)

// SQLiteRunStore implements RunStore using SQLite
type SQLiteRunStore struct {
	db *sql.DB
}

// NewSQLiteRunStore creates a SQLite-backed run store
func NewSQLiteRunStore(dsn string) (*SQLiteRunStore, error) {
	if dsn == "" {
		dsn = "data/lookalike.db"
	}

	dir := filepath.Dir(dsn)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := runSQLiteMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRunStore{db: db}, nil
}

func runSQLiteMigrations(db *sql.DB) error {
	data, err := migrations.SQLite.ReadFile("sqlite/001_init.sql")
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	_, err = db.Exec(string(data))
	if err != nil {
		return fmt.Errorf("exec migration: %w", err)
	}
	return nil
}

func (s *SQLiteRunStore) Add(ctx context.Context, r RunInfo) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (
			run_id, timestamp, source_dsn, output_path, reference_date,
			top_k, target_count, recommended_count, skipped_count,
			total_elapsed_ms, status, results
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Timestamp, r.SourceDSN, r.OutputPath, r.ReferenceDate,
		r.TopK, r.TargetCount, r.RecommendedCount, r.SkippedCount,
		r.TotalElapsedMs, r.Status, r.Results,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (s *SQLiteRunStore) Get(ctx context.Context, id string) (RunInfo, error) {
	var r RunInfo
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, timestamp, source_dsn, output_path, reference_date,
			   top_k, target_count, recommended_count, skipped_count,
			   total_elapsed_ms, status, results
		FROM runs WHERE run_id = ?`, id).Scan(
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

func (s *SQLiteRunStore) List(ctx context.Context) ([]RunInfo, error) {
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

func (s *SQLiteRunStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

func (s *SQLiteRunStore) Summary(ctx context.Context) (RunSummary, error) {
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

func (s *SQLiteRunStore) Close() error {
	return s.db.Close()
}
