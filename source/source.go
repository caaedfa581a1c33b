// Package source loads the customer, transaction, and product tables from
// CSV files or PostgreSQL.
package source

import (
	"context"

	"github.com/hubenschmidt/go-lookalike/core"
)

// Source provides the three input tables for a pipeline run.
type Source interface {
	// Customers returns all customer rows.
	Customers(ctx context.Context) ([]core.Customer, error)

	// Transactions returns all transaction rows.
	Transactions(ctx context.Context) ([]core.Transaction, error)

	// Products returns all product rows.
	Products(ctx context.Context) ([]core.Product, error)

	// Close releases resources.
	Close() error
}
