// Package storage persists the transaction list as a single JSON blob in a
// key/value store.
package storage

import "context"

// TransactionsKey is the key the whole transaction list is stored under.
const TransactionsKey = "transactions"

// KV is the minimal contract of the persistent store: whole string values
// read and written by key.
type KV interface {
	// Get returns the value stored under key. ok is false when the key has
	// never been written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set overwrites the value stored under key.
	Set(ctx context.Context, key, value string) error
}
