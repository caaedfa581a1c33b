// Package core defines the domain model and error taxonomy shared by the
// lookalike pipeline stages.
package core

import "time"

// Customer is one row of the customers table.
type Customer struct {
	ID         string    `json:"id"`
	Region     string    `json:"region"`
	SignupDate time.Time `json:"signup_date"`
}

// Transaction is one row of the transactions table.
type Transaction struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	ProductID  string    `json:"product_id"`
	Date       time.Time `json:"date"`
	TotalValue float64   `json:"total_value"`
}

// Product is one row of the products table.
type Product struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// FeatureRow is the engineered feature vector for a single customer.
// Values are ordered according to the FeatureSchema that produced them.
type FeatureRow struct {
	CustomerID string    `json:"customer_id"`
	Values     []float64 `json:"values"`
}

// Recommendation is a single scored lookalike candidate.
type Recommendation struct {
	CustomerID string  `json:"customer_id"`
	Score      float64 `json:"score"`
}

// TargetResult is the outcome of a lookalike lookup for one target customer.
// Either Recommendations is populated or Err explains why the target was
// skipped. A failed target never aborts the run.
type TargetResult struct {
	TargetID        string           `json:"target_id"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Err             error            `json:"-"`
}

// Failed reports whether the target was skipped.
func (r TargetResult) Failed() bool {
	return r.Err != nil
}

// JoinPolicy controls how customers with no transactions are treated when
// the three tables are joined.
type JoinPolicy int

const (
	// JoinInner drops customers that have no transactions. This matches the
	// historical behavior of the analysis.
	JoinInner JoinPolicy = iota

	// JoinOuter keeps every customer, zero-filling aggregates for those
	// without transactions.
	JoinOuter
)

var joinPolicyNames = map[JoinPolicy]string{
	JoinInner: "inner",
	JoinOuter: "outer",
}

var joinPolicyValues = map[string]JoinPolicy{
	"inner": JoinInner,
	"outer": JoinOuter,
}

func (p JoinPolicy) String() string {
	if name, ok := joinPolicyNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParseJoinPolicy parses "inner" or "outer".
func ParseJoinPolicy(s string) (JoinPolicy, bool) {
	p, ok := joinPolicyValues[s]
	return p, ok
}
