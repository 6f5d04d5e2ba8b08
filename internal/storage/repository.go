package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"fintrack/internal/cache"
	"fintrack/internal/core"
)

// TransactionRepository reads and writes the full transaction list as one
// JSON document under TransactionsKey.
type TransactionRepository struct {
	kv     KV
	key    string
	cache  cache.Cache[[]core.Transaction]
	loads  singleflight.Group
	logger *slog.Logger
}

// RepositoryOption configures a TransactionRepository.
type RepositoryOption func(*TransactionRepository)

// WithCache memoizes decoded lists by the hash of the stored document.
func WithCache(c cache.Cache[[]core.Transaction]) RepositoryOption {
	return func(r *TransactionRepository) { r.cache = c }
}

// WithLogger sets the logger used for warnings about unreadable data.
func WithLogger(l *slog.Logger) RepositoryOption {
	return func(r *TransactionRepository) { r.logger = l }
}

// WithKey stores the list under a key other than TransactionsKey.
func WithKey(key string) RepositoryOption {
	return func(r *TransactionRepository) { r.key = key }
}

func NewTransactionRepository(kv KV, opts ...RepositoryOption) *TransactionRepository {
	r := &TransactionRepository{
		kv:     kv,
		key:    TransactionsKey,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load returns the stored transactions. A missing key yields an empty list,
// and so does a document that cannot be decoded; only store failures are
// returned as errors. Concurrent calls share one read.
func (r *TransactionRepository) Load(ctx context.Context) ([]core.Transaction, error) {
	v, err, _ := r.loads.Do(r.key, func() (any, error) {
		return r.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	// callers may own and modify their copy
	return append([]core.Transaction(nil), v.([]core.Transaction)...), nil
}

func (r *TransactionRepository) load(ctx context.Context) ([]core.Transaction, error) {
	blob, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.key, err)
	}
	if !ok || blob == "" {
		return []core.Transaction{}, nil
	}

	sum := digest(blob)
	if r.cache != nil {
		if txs, hit := r.cache.Get(sum); hit {
			r.logger.DebugContext(ctx, "Transactions served from decode cache", "key", r.key, "count", len(txs))
			return txs, nil
		}
	}

	txs, err := DecodeTransactions([]byte(blob))
	if err != nil {
		r.logger.WarnContext(ctx, "Stored transactions are unreadable, starting from an empty list",
			"key", r.key,
			"bytes", len(blob),
			"error", err)
		return []core.Transaction{}, nil
	}

	if r.cache != nil {
		r.cache.Set(sum, txs)
	}
	r.logger.DebugContext(ctx, "Transactions loaded", "key", r.key, "count", len(txs))
	return txs, nil
}

// Save overwrites the stored document with txs.
func (r *TransactionRepository) Save(ctx context.Context, txs []core.Transaction) error {
	data, err := EncodeTransactions(txs)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := r.kv.Set(ctx, r.key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", r.key, err)
	}
	if r.cache != nil {
		r.cache.Set(digest(string(data)), append([]core.Transaction(nil), txs...))
	}
	r.logger.DebugContext(ctx, "Transactions saved", "key", r.key, "count", len(txs), "bytes", len(data))
	return nil
}

// record is the persisted shape. Dates are kept as strings so that every
// ISO-8601 variant written by older clients can be read back.
type record struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"desc"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly}

// EncodeTransactions marshals txs as a JSON array. A nil slice encodes as [].
func EncodeTransactions(txs []core.Transaction) ([]byte, error) {
	if txs == nil {
		txs = []core.Transaction{}
	}
	return json.Marshal(txs)
}

// DecodeTransactions parses a JSON array of transactions. Dates are moved to
// the local zone, as they were recorded as local midnights.
func DecodeTransactions(data []byte) ([]core.Transaction, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	txs := make([]core.Transaction, 0, len(records))
	for i, rec := range records {
		date, err := parseDate(rec.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction %d (%s): %w", i, rec.ID, err)
		}
		txs = append(txs, core.Transaction{
			ID:          rec.ID,
			Name:        rec.Name,
			Description: rec.Description,
			Amount:      rec.Amount,
			Type:        core.Type(rec.Type),
			Category:    core.Category(rec.Category),
			Date:        date,
		})
	}
	return txs, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if layout == time.RFC3339Nano {
			if t, err := time.Parse(layout, s); err == nil {
				return t.In(time.Local), nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
