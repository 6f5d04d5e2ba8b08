package services

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
	"fintrack/internal/storage/memory"
)

type fakeRepo struct {
	mu      sync.Mutex
	stored  []core.Transaction
	saves   int
	saveErr error
	loadErr error
}

func (r *fakeRepo) Load(context.Context) ([]core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return slices.Clone(r.stored), nil
}

func (r *fakeRepo) Save(_ context.Context, txs []core.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.stored = slices.Clone(txs)
	return nil
}

type notification struct {
	op, id string
	count  int
}

type fakeNotifier struct {
	sent []notification
	err  error
}

func (n *fakeNotifier) PublishChanged(_ context.Context, op, id string, count int) error {
	n.sent = append(n.sent, notification{op, id, count})
	return n.err
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func february() []core.Transaction {
	return []core.Transaction{
		core.New("1", "Salary", "", 800, core.Income, core.Salary, day(2022, 2, 1)),
		core.New("2", "Wohnung", "", 460, core.Expense, core.Housing, day(2022, 2, 2)),
		core.New("3", "Edeka", "", 20, core.Expense, core.Grocery, day(2022, 2, 2)),
		core.New("4", "Flink", "", 15, core.Expense, core.Grocery, day(2022, 2, 6)),
		core.New("5", "January rent", "", 460, core.Expense, core.Housing, day(2022, 1, 2)),
	}
}

func newLoaded(t *testing.T, txs []core.Transaction, opts ...Option) (*TransactionService, *fakeRepo) {
	t.Helper()
	repo := &fakeRepo{stored: txs}
	s := NewTransactionService(repo, opts...)
	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	return s, repo
}

func TestAddAppendsAndSaves(t *testing.T) {
	n := &fakeNotifier{}
	s, repo := newLoaded(t, february(), WithNotifier(n))

	tx, err := s.Add(context.Background(), Input{
		Name:     "Mouse",
		Amount:   70,
		Type:     core.Expense,
		Category: core.Hobby,
		Date:     time.Date(2022, 2, 14, 18, 30, 0, 0, time.Local),
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if tx.ID == "" || tx.Amount != -70 || !tx.Date.Equal(day(2022, 2, 14)) {
		t.Fatalf("unexpected transaction %+v", tx)
	}
	if len(repo.stored) != 6 || repo.stored[5].ID != tx.ID {
		t.Fatalf("stored list not overwritten with the appended transaction: %+v", repo.stored)
	}
	if len(s.All()) != 6 {
		t.Fatalf("in-memory list has %d items", len(s.All()))
	}
	if len(n.sent) != 1 || n.sent[0] != (notification{"create", tx.ID, 6}) {
		t.Fatalf("unexpected notifications %+v", n.sent)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want error
	}{
		{"empty name", Input{Name: " ", Amount: 1, Type: core.Income, Category: core.Salary, Date: day(2022, 2, 1)}, core.ErrEmptyName},
		{"bad type", Input{Name: "x", Amount: 1, Type: "gift", Category: core.Salary, Date: day(2022, 2, 1)}, core.ErrInvalidType},
		{"bad category", Input{Name: "x", Amount: 1, Type: core.Income, Category: "Lottery", Date: day(2022, 2, 1)}, core.ErrInvalidCategory},
		{"all is not a category", Input{Name: "x", Amount: 1, Type: core.Income, Category: core.All, Date: day(2022, 2, 1)}, core.ErrInvalidCategory},
		{"no date", Input{Name: "x", Amount: 1, Type: core.Income, Category: core.Salary}, core.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo := newLoaded(t, february())
			if _, err := s.Add(context.Background(), tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if repo.saves != 0 {
				t.Fatal("invalid input must not be saved")
			}
		})
	}
}

func TestMutationBeforeReloadKeepsStoredData(t *testing.T) {
	repo := &fakeRepo{stored: february()}
	s := NewTransactionService(repo)
	if _, err := s.Add(context.Background(), Input{Name: "x", Amount: 1, Type: core.Income, Category: core.Gift, Date: day(2022, 2, 3)}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(repo.stored) != 6 {
		t.Fatalf("stored = %d, want 6", len(repo.stored))
	}
}

func TestUpdatePreservesIDAndPosition(t *testing.T) {
	s, repo := newLoaded(t, february())
	tx, err := s.Update(context.Background(), "3", Input{
		Name: "Rewe", Amount: -25, Type: core.Expense, Category: core.Food, Date: day(2022, 2, 3),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if tx.ID != "3" || repo.stored[2].Name != "Rewe" || repo.stored[2].Amount != -25 {
		t.Fatalf("unexpected stored element %+v", repo.stored[2])
	}
	if len(repo.stored) != 5 {
		t.Fatalf("update changed list length to %d", len(repo.stored))
	}
}

func TestUpdateAndDeleteUnknownID(t *testing.T) {
	s, repo := newLoaded(t, february())
	ctx := context.Background()
	in := Input{Name: "x", Amount: 1, Type: core.Income, Category: core.Gift, Date: day(2022, 2, 3)}

	if _, err := s.Update(ctx, "nope", in); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update err = %v", err)
	}
	if err := s.Delete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete err = %v", err)
	}
	if _, err := s.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get err = %v", err)
	}
	if repo.saves != 0 {
		t.Fatal("nothing should be saved")
	}
}

func TestDelete(t *testing.T) {
	n := &fakeNotifier{err: errors.New("broker down")}
	s, repo := newLoaded(t, february(), WithNotifier(n))

	if err := s.Delete(context.Background(), "2"); err != nil {
		t.Fatalf("delete should succeed even when notifying fails: %v", err)
	}
	if len(repo.stored) != 4 {
		t.Fatalf("stored = %d, want 4", len(repo.stored))
	}
	for _, tx := range s.All() {
		if tx.ID == "2" {
			t.Fatal("deleted transaction still present")
		}
	}
}

func TestSaveFailureLeavesListUntouched(t *testing.T) {
	s, repo := newLoaded(t, february())
	repo.saveErr = errors.New("disk full")

	if err := s.Delete(context.Background(), "1"); err == nil {
		t.Fatal("expected save error")
	}
	if len(s.All()) != 5 {
		t.Fatal("failed save must not change the in-memory list")
	}
}

func TestReloadError(t *testing.T) {
	s := NewTransactionService(&fakeRepo{loadErr: errors.New("locked")})
	if err := s.Reload(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestHome(t *testing.T) {
	s, _ := newLoaded(t, february())
	o := s.Home(time.Date(2022, 2, 20, 12, 0, 0, 0, time.Local))
	if o.Income != 800 || o.Expense != -495 || o.Net != 305 {
		t.Fatalf("home = %+v", o)
	}
	if !o.Range.StartDate.Equal(day(2022, 2, 1)) || !o.Range.EndDate.Equal(day(2022, 2, 28)) {
		t.Fatalf("range = %+v", o.Range)
	}
}

func TestOverview(t *testing.T) {
	s, _ := newLoaded(t, february())
	o := s.Overview()
	if o.Net != 800-955 || !o.Overspent() {
		t.Fatalf("overview = %+v", o)
	}
	if o.ByCategory[0].Category != core.Salary || o.ByCategory[len(o.ByCategory)-1].Category != core.Housing {
		t.Fatalf("categories not sorted by amount: %+v", o.ByCategory)
	}
}

func TestMonth(t *testing.T) {
	s, _ := newLoaded(t, february())
	now := time.Date(2022, 3, 5, 0, 0, 0, 0, time.Local)

	v := s.Month(now, MonthQuery{
		Offset:    -1,
		Filter:    core.FilterOptions{Type: core.Expense},
		Sort:      core.SortOptions{By: core.SortByAmount, Order: core.Asc},
		GroupBy:   core.GroupByCategory,
		DateStyle: core.DateLong,
	})

	if len(v.Transactions) != 3 {
		t.Fatalf("transactions = %d, want 3", len(v.Transactions))
	}
	if v.Transactions[0].ID != "2" {
		t.Fatalf("ascending amount should start with the largest expense, got %s", v.Transactions[0].ID)
	}
	if len(v.Sections) != 2 || v.Sections[0].Title != "Housing" || v.Sections[1].Title != "Grocery" {
		t.Fatalf("sections = %+v", v.Sections)
	}
	if v.Income != 0 || v.Expense != -495 || v.Total != -495 {
		t.Fatalf("totals = %v/%v/%v", v.Income, v.Expense, v.Total)
	}
	if len(v.Slices) != 2 || v.Slices[0].Amount != 460 || v.Slices[1].Amount != 35 {
		t.Fatalf("slices = %+v", v.Slices)
	}

	empty := s.Month(now, MonthQuery{})
	if len(empty.Transactions) != 0 || len(empty.Sections) != 0 {
		t.Fatal("March has no transactions")
	}
}

func TestMonthGroupsByDateTitle(t *testing.T) {
	s, _ := newLoaded(t, february())
	v := s.Month(day(2022, 2, 10), MonthQuery{DateStyle: core.DateShort})
	if len(v.Sections) != 3 || v.Sections[0].Title != "2/1/22" {
		t.Fatalf("sections = %+v", v.Sections)
	}
}

func TestServiceOverMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := storage.NewTransactionRepository(store)
	s := NewTransactionService(repo)

	tx, err := s.Add(ctx, Input{Name: "Salary", Amount: 800, Type: core.Income, Category: core.Salary, Date: day(2022, 2, 1)})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	other := NewTransactionService(storage.NewTransactionRepository(store))
	if err := other.Reload(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, err := other.Get(tx.ID)
	if err != nil || got.Amount != 800 {
		t.Fatalf("second service sees %+v, %v", got, err)
	}
}

func TestResolve(t *testing.T) {
	s, _ := newLoaded(t, []core.Transaction{
		core.New("abc123", "a", "", 1, core.Income, core.Gift, day(2022, 2, 1)),
		core.New("abd456", "b", "", 1, core.Income, core.Gift, day(2022, 2, 1)),
		core.New("ab", "c", "", 1, core.Income, core.Gift, day(2022, 2, 1)),
	})
	tests := []struct {
		prefix string
		want   string
		err    error
	}{
		{"abc", "abc123", nil},
		{"abd456", "abd456", nil},
		{"ab", "ab", nil},
		{"a", "", ErrAmbiguousID},
		{"zzz", "", ErrNotFound},
		{"", "", ErrNotFound},
	}
	for _, tt := range tests {
		got, err := s.Resolve(tt.prefix)
		if got != tt.want || !errors.Is(err, tt.err) {
			t.Errorf("Resolve(%q) = %q, %v; want %q, %v", tt.prefix, got, err, tt.want, tt.err)
		}
	}
}
