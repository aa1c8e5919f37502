// Package pathway ranks reaction pathways from a pathway report.
package pathway

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/rxnkit/pkg/rxnkit/internalerr"
)

// DefaultTopN is how many pathways per sink species are kept.
const DefaultTopN = 10

// Record is one pathway: the reaction indices it fires, its cost and how
// often the simulation followed it.
type Record struct {
	Reactions []string `json:"pathway"`
	Weight    float64  `json:"weight"`
	Frequency float64  `json:"frequency"`
}

// Order selects the sort direction of the frequency key.
type Order int

const (
	// OrderAscending sorts by weight then frequency, both ascending.
	OrderAscending Order = iota
	// OrderFrequencyDescending sorts by weight ascending, then by frequency
	// descending so that equally cheap pathways seen more often come first.
	OrderFrequencyDescending
)

func (o Order) String() string {
	switch o {
	case OrderAscending:
		return "ascending"
	case OrderFrequencyDescending:
		return "frequency-desc"
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

// ParseOrder maps a flag value onto an Order.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ascending", "asc":
		return OrderAscending, nil
	case "frequency-desc", "freq-desc", "frequency-descending":
		return OrderFrequencyDescending, nil
	}
	return OrderAscending, fmt.Errorf("pathway order %q: %w", s, internalerr.ErrInvalidInput)
}

// Rank returns a sorted copy of records truncated to the first n entries.
// The sort is stable, so records with equal keys keep their report order.
// n <= 0 keeps every record. records is not modified.
func Rank(records []Record, n int, order Order) []Record {
	out := make([]Record, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Weight != b.Weight {
			return a.Weight < b.Weight
		}
		if order == OrderFrequencyDescending {
			return a.Frequency > b.Frequency
		}
		return a.Frequency < b.Frequency
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Reactions flattens the reaction indices of records in pathway order,
// keeping repeats.
func Reactions(records []Record) []string {
	var out []string
	for _, rec := range records {
		out = append(out, rec.Reactions...)
	}
	return out
}
