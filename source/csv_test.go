package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hubenschmidt/go-lookalike/core"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testSource(t *testing.T) *CSVSource {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "customers.csv",
		"CustomerID,Region,SignupDate\nC1,North,2024-01-15\nC2,South,2024-03-01\n")
	writeFile(t, dir, "transactions.csv",
		"TransactionID,CustomerID,ProductID,TransactionDate,TotalValue\nT1,C1,P1,2024-02-01,19.99\n")
	writeFile(t, dir, "products.csv",
		"ProductID,Category,Price\nP1,Books,9.99\n")
	return NewCSVDirSource(dir)
}

func TestCSVSourceReadsTables(t *testing.T) {
	src := testSource(t)
	ctx := context.Background()

	customers, err := src.Customers(ctx)
	if err != nil {
		t.Fatalf("Customers: %v", err)
	}
	if len(customers) != 2 {
		t.Fatalf("got %d customers, want 2", len(customers))
	}
	if customers[0].ID != "C1" || customers[0].Region != "North" {
		t.Errorf("customers[0] = %+v", customers[0])
	}
	if customers[0].SignupDate.Format("2006-01-02") != "2024-01-15" {
		t.Errorf("signup date = %v", customers[0].SignupDate)
	}

	transactions, err := src.Transactions(ctx)
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	if len(transactions) != 1 || transactions[0].TotalValue != 19.99 {
		t.Errorf("transactions = %+v", transactions)
	}

	products, err := src.Products(ctx)
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if len(products) != 1 || products[0].Category != "Books" || products[0].Price != 9.99 {
		t.Errorf("products = %+v", products)
	}
}

func TestCSVSourceHeaderByName(t *testing.T) {
	// Column order in the file should not matter.
	dir := t.TempDir()
	writeFile(t, dir, "customers.csv",
		"SignupDate,CustomerID,Region\n2024-01-15,C1,North\n")
	src := NewCSVDirSource(dir)

	customers, err := src.Customers(context.Background())
	if err != nil {
		t.Fatalf("Customers: %v", err)
	}
	if customers[0].ID != "C1" || customers[0].Region != "North" {
		t.Errorf("customers[0] = %+v", customers[0])
	}
}

func TestCSVSourceMissingColumn(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "customers.csv", "CustomerID,SignupDate\nC1,2024-01-15\n")
	src := NewCSVDirSource(dir)

	_, err := src.Customers(context.Background())
	if !errors.Is(err, core.ErrMissingColumn) {
		t.Fatalf("err = %v, want ErrMissingColumn", err)
	}
	// The message must name the column so the failure is actionable.
	if got := err.Error(); !strings.Contains(got, "Region") {
		t.Errorf("error %q does not name the missing column", got)
	}
}

func TestCSVSourceMalformedField(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "customers.csv",
		"CustomerID,Region,SignupDate\nC1,North,not-a-date\n")
	src := NewCSVDirSource(dir)

	_, err := src.Customers(context.Background())
	if !errors.Is(err, core.ErrMalformedField) {
		t.Fatalf("err = %v, want ErrMalformedField", err)
	}
	if got := err.Error(); !strings.Contains(got, "SignupDate") || !strings.Contains(got, "row 2") {
		t.Errorf("error %q does not name the row and column", got)
	}
}

func TestCSVSourceMissingFile(t *testing.T) {
	src := NewCSVDirSource(t.TempDir())
	_, err := src.Customers(context.Background())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFactoryPicksCSVForDirectories(t *testing.T) {
	src, err := New("some/dir")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := src.(*CSVSource); !ok {
		t.Errorf("New returned %T, want *CSVSource", src)
	}
}
