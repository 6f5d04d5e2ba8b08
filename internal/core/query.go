package core

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"
)

const (
	SortByDate     SortField = "date"
	SortByAmount   SortField = "amount"
	SortByCategory SortField = "category"
	SortByName     SortField = "name"

	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"

	GroupByDate     GroupField = "date"
	GroupByCategory GroupField = "category"
)

type (
	SortField  string
	SortOrder  string
	GroupField string

	// FilterOptions narrows a transaction list. Zero-valued fields impose no
	// constraint; set fields are combined with AND.
	FilterOptions struct {
		Text      string   // case-insensitive substring of Name
		Category  Category // exact match, All matches everything
		AmountMin float64  // keep abs(Amount) >= AmountMin
		AmountMax float64  // keep abs(Amount) <= abs(AmountMax)
		Type      Type
		StartDate time.Time // inclusive
		EndDate   time.Time // inclusive
	}

	// SortOptions selects the sort key and direction. Defaults are date, asc.
	SortOptions struct {
		By    SortField
		Order SortOrder
	}
)

// Filter returns the transactions matching opts in their original order.
// The input slice is not modified.
func Filter(txs []Transaction, opts FilterOptions) []Transaction {
	text := strings.ToLower(opts.Text)
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if !opts.StartDate.IsZero() && t.Date.Before(opts.StartDate) {
			continue
		}
		if !opts.EndDate.IsZero() && t.Date.After(opts.EndDate) {
			continue
		}
		if text != "" && !strings.Contains(strings.ToLower(t.Name), text) {
			continue
		}
		if opts.Category != "" && opts.Category != All && t.Category != opts.Category {
			continue
		}
		abs := math.Abs(t.Amount)
		if opts.AmountMin != 0 && abs < opts.AmountMin {
			continue
		}
		if opts.AmountMax != 0 && abs > math.Abs(opts.AmountMax) {
			continue
		}
		if opts.Type != "" && t.Type != opts.Type {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Sort returns a sorted copy of txs. Only the selected field is compared;
// transactions with equal keys keep their input order.
func Sort(txs []Transaction, opts SortOptions) []Transaction {
	compare := comparator(opts.By)
	if opts.Order == Desc {
		asc := compare
		compare = func(a, b Transaction) int { return asc(b, a) }
	}
	out := slices.Clone(txs)
	slices.SortStableFunc(out, compare)
	return out
}

func comparator(by SortField) func(a, b Transaction) int {
	switch by {
	case SortByAmount:
		return func(a, b Transaction) int { return cmp.Compare(a.Amount, b.Amount) }
	case SortByCategory:
		return func(a, b Transaction) int { return strings.Compare(string(a.Category), string(b.Category)) }
	case SortByName:
		return func(a, b Transaction) int { return strings.Compare(a.Name, b.Name) }
	default:
		return func(a, b Transaction) int { return a.Date.Compare(b.Date) }
	}
}

// TotalAmount sums the signed amounts, which yields income minus expenses.
func TotalAmount(txs []Transaction) float64 {
	var total float64
	for _, t := range txs {
		total += t.Amount
	}
	return total
}

// Categories lists each category present in txs once, in order of first
// appearance.
func Categories(txs []Transaction) []Category {
	seen := map[Category]struct{}{}
	out := make([]Category, 0)
	for _, t := range txs {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	return out
}

// GroupBy partitions txs by key. Groups appear in order of the first
// occurrence of their key and keep the input order inside.
func GroupBy[K comparable](txs []Transaction, key func(Transaction) K) [][]Transaction {
	index := map[K]int{}
	var groups [][]Transaction
	for _, t := range txs {
		k := key(t)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], t)
	}
	return groups
}

// Group partitions txs by calendar day or by category.
func Group(txs []Transaction, field GroupField) [][]Transaction {
	if field == GroupByCategory {
		return GroupBy(txs, func(t Transaction) Category { return t.Category })
	}
	return GroupBy(txs, func(t Transaction) string { return t.Date.Format(time.DateOnly) })
}
