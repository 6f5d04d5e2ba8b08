package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

// inputFlags are the transaction fields shared by add and edit.
type inputFlags struct {
	fs       *flag.FlagSet
	name     *string
	desc     *string
	amount   *string
	typ      *string
	category *string
	date     *string
}

func bindInputFlags(fs *flag.FlagSet) *inputFlags {
	return &inputFlags{
		fs:       fs,
		name:     fs.String("name", "", "Short name, e.g. the shop"),
		desc:     fs.String("desc", "", "Free text description"),
		amount:   fs.String("amount", "", "Amount, with comma or dot as decimal separator"),
		typ:      fs.String("type", "expense", "income or expense"),
		category: fs.String("category", "", "One of the categories listed by 'fintrack categories'"),
		date:     fs.String("date", "", "Date as YYYY-MM-DD (default today)"),
	}
}

// input builds a services.Input from the flags. With a base transaction only
// the flags given on the command line replace its fields. Every problem is
// reported before anything is saved.
func (f *inputFlags) input(base *core.Transaction) (services.Input, error) {
	set := map[string]bool{}
	f.fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	given := func(name string) bool { return base == nil || set[name] }

	var in services.Input
	if base != nil {
		in = services.Input{
			Name:        base.Name,
			Description: base.Description,
			Amount:      base.Amount,
			Type:        base.Type,
			Category:    base.Category,
			Date:        base.Date,
		}
	}

	if given("name") {
		in.Name = strings.TrimSpace(*f.name)
		if in.Name == "" {
			return in, errors.New("please enter a name")
		}
	}
	if given("desc") {
		in.Description = *f.desc
	}
	if given("amount") {
		amount, err := core.ParseAmount(*f.amount)
		if err != nil {
			return in, fmt.Errorf("please enter a valid amount: %w", err)
		}
		in.Amount = amount
	}
	if given("type") {
		typ, err := core.ParseType(*f.typ)
		if err != nil {
			return in, fmt.Errorf("%q: %w", *f.typ, err)
		}
		in.Type = typ
	}
	if given("category") {
		cat, err := core.ParseCategory(*f.category)
		if err != nil || cat == core.All {
			return in, fmt.Errorf("please pick a category, %q is not one", *f.category)
		}
		in.Category = cat
	}
	if given("date") {
		date, err := parseDate(*f.date, time.Now())
		if err != nil {
			return in, err
		}
		in.Date = date
	}
	return in, nil
}

// queryFlags select and shape the month shown by list and chart.
type queryFlags struct {
	month     *int
	text      *string
	category  *string
	typ       *string
	min       *float64
	max       *float64
	from      *string
	to        *string
	sortBy    *string
	order     *string
	group     *string
	dateStyle *string
}

func bindQueryFlags(fs *flag.FlagSet) *queryFlags {
	return &queryFlags{
		month:     fs.Int("month", 0, "Month offset from the current one, -1 is last month"),
		text:      fs.String("text", "", "Only names containing this text"),
		category:  fs.String("category", "", "Only this category"),
		typ:       fs.String("type", "", "Only income or expense"),
		min:       fs.Float64("min", 0, "Minimum absolute amount"),
		max:       fs.Float64("max", 0, "Maximum absolute amount"),
		from:      fs.String("from", "", "Only from this date on (YYYY-MM-DD)"),
		to:        fs.String("to", "", "Only up to this date (YYYY-MM-DD)"),
		sortBy:    fs.String("sort", "date", "date, amount, category or name"),
		order:     fs.String("order", "asc", "asc or desc"),
		group:     fs.String("group", "date", "date or category"),
		dateStyle: fs.String("date-style", "", "full, long, medium or short (default from DATE_STYLE)"),
	}
}

func (q *queryFlags) query(defaultStyle core.DateStyle) (services.MonthQuery, error) {
	mq := services.MonthQuery{
		Offset: *q.month,
		Filter: core.FilterOptions{
			Text:      *q.text,
			AmountMin: *q.min,
			AmountMax: *q.max,
		},
		DateStyle: defaultStyle,
	}

	if *q.category != "" {
		cat, err := core.ParseCategory(*q.category)
		if err != nil {
			return mq, fmt.Errorf("%q: %w", *q.category, err)
		}
		mq.Filter.Category = cat
	}
	if *q.typ != "" {
		typ, err := core.ParseType(*q.typ)
		if err != nil {
			return mq, fmt.Errorf("%q: %w", *q.typ, err)
		}
		mq.Filter.Type = typ
	}
	for _, bound := range []struct {
		value string
		dst   *time.Time
	}{{*q.from, &mq.Filter.StartDate}, {*q.to, &mq.Filter.EndDate}} {
		if bound.value == "" {
			continue
		}
		d, err := time.ParseInLocation(time.DateOnly, bound.value, time.Local)
		if err != nil {
			return mq, fmt.Errorf("invalid date %q, use YYYY-MM-DD", bound.value)
		}
		*bound.dst = d
	}

	switch by := core.SortField(strings.ToLower(*q.sortBy)); by {
	case core.SortByDate, core.SortByAmount, core.SortByCategory, core.SortByName:
		mq.Sort.By = by
	default:
		return mq, fmt.Errorf("cannot sort by %q", *q.sortBy)
	}
	switch order := core.SortOrder(strings.ToLower(*q.order)); order {
	case core.Asc, core.Desc:
		mq.Sort.Order = order
	default:
		return mq, fmt.Errorf("unknown sort order %q", *q.order)
	}
	switch group := core.GroupField(strings.ToLower(*q.group)); group {
	case core.GroupByDate, core.GroupByCategory:
		mq.GroupBy = group
	default:
		return mq, fmt.Errorf("cannot group by %q", *q.group)
	}
	if *q.dateStyle != "" {
		style := core.DateStyle(strings.ToLower(*q.dateStyle))
		if !style.IsValid() {
			return mq, fmt.Errorf("unknown date style %q", *q.dateStyle)
		}
		mq.DateStyle = style
	}
	return mq, nil
}

// parseDate reads YYYY-MM-DD in the local zone. An empty value is today.
func parseDate(s string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return core.StartOfDay(now), nil
	}
	d, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return d, nil
}
