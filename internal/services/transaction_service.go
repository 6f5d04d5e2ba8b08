package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

var (
	// ErrNotFound is returned when no transaction has the requested id.
	ErrNotFound = errors.New("transaction not found")
	// ErrAmbiguousID is returned when an id prefix matches several transactions.
	ErrAmbiguousID = errors.New("id prefix matches more than one transaction")
)

// Repository persists the full transaction list.
type Repository interface {
	Load(ctx context.Context) ([]core.Transaction, error)
	Save(ctx context.Context, txs []core.Transaction) error
}

// Notifier announces that the stored list changed.
type Notifier interface {
	PublishChanged(ctx context.Context, operation, id string, count int) error
}

// Input carries the user-editable fields of a transaction.
type Input struct {
	Name        string
	Description string
	Amount      float64
	Type        core.Type
	Category    core.Category
	Date        time.Time
}

// MonthQuery selects what the month view shows.
type MonthQuery struct {
	Offset    int // 0 is the month of now, -1 the one before
	Filter    core.FilterOptions
	Sort      core.SortOptions
	GroupBy   core.GroupField
	DateStyle core.DateStyle
}

// MonthView is the transactions screen of one month.
type MonthView struct {
	Range        core.DateRange
	Transactions []core.Transaction // filtered and sorted
	Sections     []core.Section
	Income       float64
	Expense      float64
	Total        float64
	Slices       []core.ChartSlice
}

// TransactionService owns the canonical transaction list. Every mutation
// computes the complete new list and overwrites the stored one.
type TransactionService struct {
	mu       sync.RWMutex
	repo     Repository
	notifier Notifier
	logger   *slog.Logger
	txs      []core.Transaction
	loaded   bool
}

// Option configures a TransactionService.
type Option func(*TransactionService)

// WithNotifier publishes a change message after each successful mutation.
func WithNotifier(n Notifier) Option {
	return func(s *TransactionService) { s.notifier = n }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *TransactionService) { s.logger = l }
}

func NewTransactionService(repo Repository, opts ...Option) *TransactionService {
	s := &TransactionService{
		repo:   repo,
		logger: slog.Default().With(log.FieldComponent, log.ComponentService),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reload replaces the in-memory list with the stored one.
func (s *TransactionService) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reload(ctx)
}

func (s *TransactionService) reload(ctx context.Context) error {
	txs, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	s.txs = txs
	s.loaded = true
	s.logger.DebugContext(ctx, "Transactions reloaded", log.FieldCount, len(txs))
	return nil
}

// All returns a copy of the current list in stored order.
func (s *TransactionService) All() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.txs)
}

// Get returns the transaction with the given id.
func (s *TransactionService) Get(id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return core.Transaction{}, ErrNotFound
	}
	return s.txs[i], nil
}

// Resolve expands an id prefix to the full id of the only transaction it
// matches. A complete id always resolves to itself.
func (s *TransactionService) Resolve(prefix string) (string, error) {
	if prefix == "" {
		return "", ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.indexOf(prefix) >= 0 {
		return prefix, nil
	}
	var match string
	for _, t := range s.txs {
		if !strings.HasPrefix(t.ID, prefix) {
			continue
		}
		if match != "" {
			return "", ErrAmbiguousID
		}
		match = t.ID
	}
	if match == "" {
		return "", ErrNotFound
	}
	return match, nil
}

// Add validates in, gives it a fresh id and appends it.
func (s *TransactionService) Add(ctx context.Context, in Input) (core.Transaction, error) {
	tx := core.New("", in.Name, in.Description, in.Amount, in.Type, in.Category, in.Date)
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return core.Transaction{}, err
	}

	next := append(slices.Clone(s.txs), tx)
	if err := s.commit(ctx, log.OpCreate, tx.ID, next); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

// Update replaces the transaction with the given id, keeping the id and the
// position in the list.
func (s *TransactionService) Update(ctx context.Context, id string, in Input) (core.Transaction, error) {
	tx := core.New(id, in.Name, in.Description, in.Amount, in.Type, in.Category, in.Date)
	if id == "" {
		return core.Transaction{}, ErrNotFound
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return core.Transaction{}, err
	}

	i := s.indexOf(id)
	if i < 0 {
		return core.Transaction{}, ErrNotFound
	}
	next := slices.Clone(s.txs)
	next[i] = tx
	if err := s.commit(ctx, log.OpUpdate, id, next); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

// Delete removes the transaction with the given id.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	if s.indexOf(id) < 0 {
		return ErrNotFound
	}
	next := slices.DeleteFunc(slices.Clone(s.txs), func(t core.Transaction) bool { return t.ID == id })
	return s.commit(ctx, log.OpDelete, id, next)
}

// Home summarizes the month containing now.
func (s *TransactionService) Home(now time.Time) core.MonthOverview {
	r := core.CurrentMonthRange(now, 0)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Summarize(r, core.Filter(s.txs, core.FilterOptions{StartDate: r.StartDate, EndDate: r.EndDate}))
}

// Overview summarizes every transaction, with per-category totals ordered
// from largest to smallest.
func (s *TransactionService) Overview() core.MonthOverview {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o := core.Summarize(core.DateRange{}, s.txs)
	core.SortCategoryAmounts(o.ByCategory)
	return o
}

// Month builds the transactions screen for the month q.Offset months away
// from now. The user filter is applied on top of the month range.
func (s *TransactionService) Month(now time.Time, q MonthQuery) MonthView {
	r := core.CurrentMonthRange(now, q.Offset)

	s.mu.RLock()
	inMonth := core.Filter(s.txs, core.FilterOptions{StartDate: r.StartDate, EndDate: r.EndDate})
	s.mu.RUnlock()

	txs := core.Sort(core.Filter(inMonth, q.Filter), q.Sort)
	o := core.Summarize(r, txs)
	return MonthView{
		Range:        r,
		Transactions: txs,
		Sections:     core.Sections(txs, q.GroupBy, q.DateStyle),
		Income:       o.Income,
		Expense:      o.Expense,
		Total:        o.Net,
		Slices:       core.ExpenseSlices(txs),
	}
}

// Categories lists the categories in use, in order of first appearance.
func (s *TransactionService) Categories() []core.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Categories(s.txs)
}

func (s *TransactionService) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.reload(ctx)
}

func (s *TransactionService) indexOf(id string) int {
	return slices.IndexFunc(s.txs, func(t core.Transaction) bool { return t.ID == id })
}

// commit saves next and makes it the canonical list. Caller holds mu.
func (s *TransactionService) commit(ctx context.Context, op, id string, next []core.Transaction) error {
	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save transactions",
			log.FieldOperation, op,
			log.FieldTxID, id,
			log.FieldError, err)
		return fmt.Errorf("save transactions: %w", err)
	}
	s.txs = next

	s.logger.InfoContext(ctx, "Transactions saved",
		log.FieldOperation, op,
		log.FieldTxID, id,
		log.FieldCount, len(next))

	if s.notifier == nil {
		return nil
	}
	if err := s.notifier.PublishChanged(ctx, op, id, len(next)); err != nil {
		// the list is saved, a lost notification only delays other readers
		s.logger.WarnContext(ctx, "Failed to publish change notification",
			log.FieldOperation, log.OpNotify,
			log.FieldTxID, id,
			log.FieldError, err)
	}
	return nil
}
