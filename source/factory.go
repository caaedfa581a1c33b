package source

import (
	"fmt"
	"strings"
)

// New creates a source based on the DSN.
// - postgres:// or postgresql://: PostgreSQL
// - Anything else: a directory containing customers.csv, transactions.csv,
//   and products.csv
func New(dsn string) (Source, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		s, err := NewPostgresSource(dsn)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return s, nil
	}

	return NewCSVDirSource(dsn), nil
}
