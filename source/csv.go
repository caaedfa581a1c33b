package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hubenschmidt/go-lookalike/core"
)

const dateLayout = "2006-01-02"

// CSVSource reads the three tables from comma-separated files with header
// rows. Columns are located by header name, not position.
type CSVSource struct {
	CustomersPath    string
	TransactionsPath string
	ProductsPath     string
}

// NewCSVSource creates a source from explicit file paths.
func NewCSVSource(customers, transactions, products string) *CSVSource {
	return &CSVSource{
		CustomersPath:    customers,
		TransactionsPath: transactions,
		ProductsPath:     products,
	}
}

// NewCSVDirSource creates a source from a directory using the conventional
// file names customers.csv, transactions.csv, and products.csv.
func NewCSVDirSource(dir string) *CSVSource {
	return &CSVSource{
		CustomersPath:    filepath.Join(dir, "customers.csv"),
		TransactionsPath: filepath.Join(dir, "transactions.csv"),
		ProductsPath:     filepath.Join(dir, "products.csv"),
	}
}

// Customers returns all customer rows.
func (s *CSVSource) Customers(ctx context.Context) ([]core.Customer, error) {
	var customers []core.Customer
	err := readTable(s.CustomersPath, []string{"CustomerID", "Region", "SignupDate"}, func(row int, get func(string) string) error {
		signup, err := time.Parse(dateLayout, get("SignupDate"))
		if err != nil {
			return fieldError(s.CustomersPath, row, "SignupDate", err)
		}
		customers = append(customers, core.Customer{
			ID:         get("CustomerID"),
			Region:     get("Region"),
			SignupDate: signup,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return customers, nil
}

// Transactions returns all transaction rows.
func (s *CSVSource) Transactions(ctx context.Context) ([]core.Transaction, error) {
	var transactions []core.Transaction
	cols := []string{"TransactionID", "CustomerID", "ProductID", "TransactionDate", "TotalValue"}
	err := readTable(s.TransactionsPath, cols, func(row int, get func(string) string) error {
		date, err := time.Parse(dateLayout, get("TransactionDate"))
		if err != nil {
			return fieldError(s.TransactionsPath, row, "TransactionDate", err)
		}
		value, err := strconv.ParseFloat(get("TotalValue"), 64)
		if err != nil {
			return fieldError(s.TransactionsPath, row, "TotalValue", err)
		}
		transactions = append(transactions, core.Transaction{
			ID:         get("TransactionID"),
			CustomerID: get("CustomerID"),
			ProductID:  get("ProductID"),
			Date:       date,
			TotalValue: value,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// Products returns all product rows.
func (s *CSVSource) Products(ctx context.Context) ([]core.Product, error) {
	var products []core.Product
	err := readTable(s.ProductsPath, []string{"ProductID", "Category", "Price"}, func(row int, get func(string) string) error {
		price, err := strconv.ParseFloat(get("Price"), 64)
		if err != nil {
			return fieldError(s.ProductsPath, row, "Price", err)
		}
		products = append(products, core.Product{
			ID:       get("ProductID"),
			Category: get("Category"),
			Price:    price,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Close is a no-op for CSV sources.
func (s *CSVSource) Close() error {
	return nil
}

// readTable opens a CSV file, validates that every required column is
// present in the header, and calls scan once per data row with a getter
// keyed by column name. Row numbers reported in errors are 1-based and
// include the header.
func readTable(path string, required []string, scan func(row int, get func(string) string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("read header of %s: %w", path, err)
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[name] = i
	}
	for _, name := range required {
		if _, ok := colIndex[name]; !ok {
			return fmt.Errorf("%s: %w: %q", path, core.ErrMissingColumn, name)
		}
	}

	row := 1
	for {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("read %s row %d: %w", path, row+1, err)
		}
		row++

		get := func(name string) string {
			i := colIndex[name]
			if i >= len(record) {
				return ""
			}
			return record[i]
		}
		if err := scan(row, get); err != nil {
			return err
		}
	}

	return nil
}

func fieldError(path string, row int, column string, err error) error {
	return fmt.Errorf("%s row %d column %s: %w: %v", path, row, column, core.ErrMalformedField, err)
}
