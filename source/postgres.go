package source

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/hubenschmidt/go-lookalike/core"
)

// PostgresSource loads the three tables from PostgreSQL. Table and column
// names follow the CSV schema in snake_case.
type PostgresSource struct {
	db *sql.DB
}

// NewPostgresSource opens a connection pool and verifies connectivity.
func NewPostgresSource(dsn string) (*PostgresSource, error) {
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

	return &PostgresSource{db: db}, nil
}

// Customers returns all customer rows.
func (s *PostgresSource) Customers(ctx context.Context) ([]core.Customer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT customer_id, region, signup_date
		FROM customers ORDER BY customer_id`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var customers []core.Customer
	for rows.Next() {
		var c core.Customer
		if err := rows.Scan(&c.ID, &c.Region, &c.SignupDate); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// Transactions returns all transaction rows in transaction ID order, which
// pins the favorite-category tie-break downstream.
func (s *PostgresSource) Transactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT transaction_id, customer_id, product_id, transaction_date, total_value
		FROM transactions ORDER BY transaction_id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []core.Transaction
	for rows.Next() {
		var t core.Transaction
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.ProductID, &t.Date, &t.TotalValue); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// Products returns all product rows.
func (s *PostgresSource) Products(ctx context.Context) ([]core.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, category, price
		FROM products ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []core.Product
	for rows.Next() {
		var p core.Product
		if err := rows.Scan(&p.ID, &p.Category, &p.Price); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Close closes the connection pool.
func (s *PostgresSource) Close() error {
	return s.db.Close()
}
