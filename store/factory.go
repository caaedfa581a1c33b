package store

import (
	"fmt"
	"strings"
)

// NewRunStore creates a run store based on the DSN.
// - Empty DSN: SQLite at data/lookalike.db
// - postgres:// or postgresql://: PostgreSQL
// - Anything else: SQLite at the specified path
func NewRunStore(dsn string) (RunStore, error) {
	if dsn == "" {
		return NewSQLiteRunStore("data/lookalike.db")
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		rs, err := NewPostgresRunStore(dsn)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return rs, nil
	}

	return NewSQLiteRunStore(dsn)
}
