package core

import "testing"

func TestCategoryTotals(t *testing.T) {
	totals := CategoryTotals(sample())
	if len(totals) != 5 || totals[2].Category != Grocery || totals[2].Amount != -79 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}

func TestSummarize(t *testing.T) {
	r := MonthRange(2022, 2)
	o := Summarize(r, sample())

	if o.Income != 800 || o.Expense != -719 || o.Net != 81 {
		t.Fatalf("totals = %v/%v/%v, want 800/-719/81", o.Income, o.Expense, o.Net)
	}
	if o.Overspent() {
		t.Fatal("81 left over should not be overspent")
	}
	if len(o.ByCategory) != 5 {
		t.Fatalf("categories = %d, want 5", len(o.ByCategory))
	}

	SortCategoryAmounts(o.ByCategory)
	want := []CategoryAmount{
		{Salary, 800}, {Hobby, -70}, {Grocery, -79}, {Insurance, -110}, {Housing, -460},
	}
	for i, w := range want {
		if o.ByCategory[i] != w {
			t.Fatalf("ByCategory[%d] = %+v, want %+v", i, o.ByCategory[i], w)
		}
	}
}

func TestOverspent(t *testing.T) {
	txs := []Transaction{
		New("", "Salary", "", 100, Income, Salary, day(2022, 2, 1)),
		New("", "Rent", "", 150, Expense, Housing, day(2022, 2, 2)),
	}
	if !Summarize(MonthRange(2022, 2), txs).Overspent() {
		t.Fatal("expected overspent")
	}
}

func TestSections(t *testing.T) {
	byDate := Sections(sample(), GroupByDate, DateLong)
	if len(byDate) != 7 {
		t.Fatalf("date sections = %d, want 7", len(byDate))
	}
	if byDate[1].Title != "February 2, 2022" || len(byDate[1].Transactions) != 2 {
		t.Fatalf("unexpected second section %q with %d items", byDate[1].Title, len(byDate[1].Transactions))
	}

	byCat := Sections(sample(), GroupByCategory, DateLong)
	titles := make([]string, len(byCat))
	for i, s := range byCat {
		titles[i] = s.Title
	}
	wantTitles := []string{"Salary", "Housing", "Grocery", "Hobby", "Insurance"}
	for i, w := range wantTitles {
		if titles[i] != w {
			t.Fatalf("titles = %v, want %v", titles, wantTitles)
		}
	}
	if len(byCat[2].Transactions) != 4 {
		t.Fatalf("grocery section has %d items", len(byCat[2].Transactions))
	}

	if got := Sections(nil, GroupByDate, DateLong); len(got) != 0 {
		t.Fatalf("expected no sections, got %d", len(got))
	}
}

func TestExpenseSlices(t *testing.T) {
	slices := ExpenseSlices(sample())
	want := []struct {
		cat    Category
		amount float64
	}{
		{Housing, 460}, {Grocery, 79}, {Hobby, 70}, {Insurance, 110},
	}
	if len(slices) != len(want) {
		t.Fatalf("slices = %d, want %d", len(slices), len(want))
	}
	for i, w := range want {
		s := slices[i]
		if s.Category != w.cat || s.Amount != w.amount {
			t.Errorf("slice %d = %+v, want %s %v", i, s, w.cat, w.amount)
		}
		if s.Color != ColorForSeed(string(w.cat)) {
			t.Errorf("slice %d color = %s", i, s.Color)
		}
	}
}
