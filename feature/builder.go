// Package feature joins the customer, transaction, and product tables and
// builds one engineered feature vector per customer.
package feature

import (
	"sort"
	"time"

	"github.com/hubenschmidt/go-lookalike/core"
)

// Base numeric columns, in schema order, ahead of the one-hot indicators.
var baseColumns = []string{
	"tenure",
	"tx_count",
	"total_spend",
	"distinct_products",
	"avg_price",
}

// Table is the built feature table: a fixed schema plus one row per
// customer, ordered by customer ID ascending. Row order is the tie-break
// order used by the recommender, so it must be deterministic.
type Table struct {
	Schema []string
	Rows   []core.FeatureRow

	// SkippedTransactions counts transactions dropped for referencing an
	// unknown customer or product.
	SkippedTransactions int

	index map[string]int
}

// NewTable builds a feature table from prebuilt rows. Row order is kept
// as given; it becomes the recommender's tie-break order.
func NewTable(schema []string, rows []core.FeatureRow) *Table {
	t := &Table{Schema: schema, Rows: rows, index: make(map[string]int, len(rows))}
	for i, r := range rows {
		t.index[r.CustomerID] = i
	}
	return t
}

// Lookup returns the row index for a customer ID.
func (t *Table) Lookup(customerID string) (int, bool) {
	i, ok := t.index[customerID]
	return i, ok
}

// Matrix returns the feature values as a row-major matrix. The slices
// alias the table rows.
func (t *Table) Matrix() [][]float64 {
	m := make([][]float64, len(t.Rows))
	for i, r := range t.Rows {
		m[i] = r.Values
	}
	return m
}

// Builder configures feature construction.
type Builder struct {
	// ReferenceDate anchors the tenure calculation. Required; there is no
	// implicit "now".
	ReferenceDate time.Time

	// JoinPolicy controls whether customers without transactions are kept.
	JoinPolicy core.JoinPolicy

	// Vocab pins the one-hot columns. Empty lists are derived from the data.
	Vocab Vocabulary
}

// aggregate accumulates per-customer transaction statistics.
type aggregate struct {
	txCount        int
	totalSpend     float64
	priceSum       float64
	products       map[string]bool
	categoryCounts map[string]int
	categoryOrder  map[string]int // first-occurrence rank, breaks mode ties
}

// Build joins the three tables and produces the feature table.
func (b *Builder) Build(customers []core.Customer, transactions []core.Transaction, products []core.Product) (*Table, error) {
	if len(customers) == 0 {
		return nil, core.ErrNoCustomers
	}

	productIndex := make(map[string]core.Product, len(products))
	for _, p := range products {
		productIndex[p.ID] = p
	}
	customerIndex := make(map[string]core.Customer, len(customers))
	for _, c := range customers {
		customerIndex[c.ID] = c
	}

	t := &Table{}

	// Join transactions to products and customers, aggregating per customer.
	// Transactions are walked in input order so that the first-occurrence
	// tie-break for the favorite category is deterministic.
	aggs := make(map[string]*aggregate)
	for _, tx := range transactions {
		p, ok := productIndex[tx.ProductID]
		if !ok {
			t.SkippedTransactions++
			continue
		}
		if _, ok := customerIndex[tx.CustomerID]; !ok {
			t.SkippedTransactions++
			continue
		}

		agg, ok := aggs[tx.CustomerID]
		if !ok {
			agg = &aggregate{
				products:       make(map[string]bool),
				categoryCounts: make(map[string]int),
				categoryOrder:  make(map[string]int),
			}
			aggs[tx.CustomerID] = agg
		}

		agg.txCount++
		agg.totalSpend += tx.TotalValue
		agg.priceSum += p.Price
		agg.products[tx.ProductID] = true
		if _, seen := agg.categoryOrder[p.Category]; !seen {
			agg.categoryOrder[p.Category] = len(agg.categoryOrder)
		}
		agg.categoryCounts[p.Category]++
	}

	included := b.selectCustomers(customers, aggs)
	if len(included) == 0 {
		return nil, core.ErrNoFeatures
	}

	regions, categories := b.resolveVocab(included, aggs)

	t.Schema = make([]string, 0, len(baseColumns)+len(regions)+len(categories))
	t.Schema = append(t.Schema, baseColumns...)
	for _, r := range regions {
		t.Schema = append(t.Schema, "region_"+r)
	}
	for _, c := range categories {
		t.Schema = append(t.Schema, "cat_"+c)
	}

	t.Rows = make([]core.FeatureRow, 0, len(included))
	t.index = make(map[string]int, len(included))
	for _, c := range included {
		values := make([]float64, 0, len(t.Schema))

		agg := aggs[c.ID]
		favorite := ""
		if agg != nil {
			favorite = favoriteCategory(agg)
			values = append(values,
				float64(b.tenure(c.SignupDate)),
				float64(agg.txCount),
				agg.totalSpend,
				float64(len(agg.products)),
				agg.priceSum/float64(agg.txCount),
			)
		} else {
			values = append(values, float64(b.tenure(c.SignupDate)), 0, 0, 0, 0)
		}

		values = appendIndicators(values, regions, c.Region)
		values = appendIndicators(values, categories, favorite)

		t.index[c.ID] = len(t.Rows)
		t.Rows = append(t.Rows, core.FeatureRow{CustomerID: c.ID, Values: values})
	}

	return t, nil
}

// selectCustomers applies the join policy and pins row order by ID.
func (b *Builder) selectCustomers(customers []core.Customer, aggs map[string]*aggregate) []core.Customer {
	included := make([]core.Customer, 0, len(customers))
	for _, c := range customers {
		if b.JoinPolicy == core.JoinInner && aggs[c.ID] == nil {
			continue
		}
		included = append(included, c)
	}
	sort.Slice(included, func(i, j int) bool {
		return included[i].ID < included[j].ID
	})
	return included
}

// resolveVocab fills in any vocabulary list left empty from the values
// observed among the included customers.
func (b *Builder) resolveVocab(included []core.Customer, aggs map[string]*aggregate) (regions, categories []string) {
	regions = b.Vocab.Regions
	if len(regions) == 0 {
		seen := make(map[string]bool)
		for _, c := range included {
			seen[c.Region] = true
		}
		regions = sortedUnique(seen)
	}

	categories = b.Vocab.Categories
	if len(categories) == 0 {
		seen := make(map[string]bool)
		for _, c := range included {
			if agg := aggs[c.ID]; agg != nil {
				seen[favoriteCategory(agg)] = true
			}
		}
		categories = sortedUnique(seen)
	}

	return regions, categories
}

// tenure is the number of whole 30-day periods between signup and the
// reference date. Signups after the reference date count as zero.
func (b *Builder) tenure(signup time.Time) int {
	days := int(b.ReferenceDate.Sub(signup).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days / 30
}

// favoriteCategory returns the modal purchased category, ties broken by
// first occurrence in transaction order.
func favoriteCategory(agg *aggregate) string {
	best := ""
	bestCount := -1
	bestOrder := 0
	for cat, count := range agg.categoryCounts {
		order := agg.categoryOrder[cat]
		if count > bestCount || (count == bestCount && order < bestOrder) {
			best = cat
			bestCount = count
			bestOrder = order
		}
	}
	return best
}

// appendIndicators appends one binary column per vocabulary value. Values
// outside the vocabulary produce all-zero indicators.
func appendIndicators(values []float64, vocab []string, value string) []float64 {
	for _, v := range vocab {
		if v == value {
			values = append(values, 1)
		} else {
			values = append(values, 0)
		}
	}
	return values
}
