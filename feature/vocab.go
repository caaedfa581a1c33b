package feature

import "sort"

// Vocabulary pins the category values that become one-hot indicator
// columns. A fixed vocabulary keeps the output schema stable across runs
// regardless of which values appear in the input data. When a list is left
// empty, the builder derives it from the values observed in the run,
// sorted lexicographically.
type Vocabulary struct {
	Regions    []string `koanf:"regions" json:"regions"`
	Categories []string `koanf:"categories" json:"categories"`
}

// sortedUnique returns the distinct values of m's keys in sorted order.
func sortedUnique(seen map[string]bool) []string {
	out := make([]string, 0, len(seen))
	for v := range seen {
		if v != "" {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
