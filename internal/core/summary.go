package core

import (
	"cmp"
	"math"
	"slices"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Category Category
	Amount   float64
}

// MonthOverview is a compact summary of a set of transactions.
type MonthOverview struct {
	Range      DateRange
	Income     float64
	Expense    float64 // negative or zero
	Net        float64
	ByCategory []CategoryAmount
}

// CategoryTotals sums amounts per category, in order of first appearance.
func CategoryTotals(txs []Transaction) []CategoryAmount {
	groups := GroupBy(txs, func(t Transaction) Category { return t.Category })
	out := make([]CategoryAmount, 0, len(groups))
	for _, g := range groups {
		out = append(out, CategoryAmount{Category: g[0].Category, Amount: TotalAmount(g)})
	}
	return out
}

// SortCategoryAmounts orders amounts from largest to smallest in place.
func SortCategoryAmounts(amounts []CategoryAmount) {
	slices.SortStableFunc(amounts, func(a, b CategoryAmount) int {
		return cmp.Compare(b.Amount, a.Amount)
	})
}

// Summarize computes income, expense and per-category totals of txs.
func Summarize(r DateRange, txs []Transaction) MonthOverview {
	income := TotalAmount(Filter(txs, FilterOptions{Type: Income}))
	expense := TotalAmount(Filter(txs, FilterOptions{Type: Expense}))
	return MonthOverview{
		Range:      r,
		Income:     income,
		Expense:    expense,
		Net:        income + expense,
		ByCategory: CategoryTotals(txs),
	}
}

// Overspent reports whether expenses exceed income.
func (o MonthOverview) Overspent() bool {
	return o.Net < 0
}

// Section is a titled run of transactions, as produced by Sections.
type Section struct {
	Title        string
	Transactions []Transaction
}

// Sections groups txs by field and titles each group with its formatted
// date or its category name.
func Sections(txs []Transaction, field GroupField, style DateStyle) []Section {
	groups := Group(txs, field)
	out := make([]Section, 0, len(groups))
	for _, g := range groups {
		title := string(g[0].Category)
		if field != GroupByCategory {
			title = FormatDate(g[0].Date, style)
		}
		out = append(out, Section{Title: title, Transactions: g})
	}
	return out
}

// ChartSlice is one wedge of the expense breakdown.
type ChartSlice struct {
	Category Category
	Amount   float64 // absolute value
	Color    string
}

// ExpenseSlices returns one slice per category that has expenses in txs, in
// order of first appearance. Each slice carries the absolute total of every
// transaction of that category, income included.
func ExpenseSlices(txs []Transaction) []ChartSlice {
	cats := Categories(Filter(txs, FilterOptions{Type: Expense}))
	out := make([]ChartSlice, 0, len(cats))
	for _, c := range cats {
		out = append(out, ChartSlice{
			Category: c,
			Amount:   math.Abs(TotalAmount(Filter(txs, FilterOptions{Category: c}))),
			Color:    ColorForSeed(string(c)),
		})
	}
	return out
}
