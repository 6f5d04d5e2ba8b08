package worker

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/amqp"
)

type countingReloader struct {
	calls int
	err   error
}

func (r *countingReloader) Reload(context.Context) error {
	r.calls++
	return r.err
}

func TestHandleChanged(t *testing.T) {
	target := &countingReloader{}
	var seen []*amqp.TransactionsChangedMessage
	w := NewReloadWorker(target, func(_ context.Context, msg *amqp.TransactionsChangedMessage) {
		seen = append(seen, msg)
	})

	msg := amqp.NewTransactionsChangedMessage("delete", "abc", 4)
	if err := w.HandleChanged(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if target.calls != 1 {
		t.Fatalf("reloads = %d, want 1", target.calls)
	}
	if len(seen) != 1 || seen[0] != msg {
		t.Fatal("callback should receive the message")
	}
}

func TestHandleChangedReloadError(t *testing.T) {
	target := &countingReloader{err: errors.New("locked")}
	called := false
	w := NewReloadWorker(target, func(context.Context, *amqp.TransactionsChangedMessage) { called = true })

	err := w.HandleChanged(context.Background(), amqp.NewTransactionsChangedMessage("create", "abc", 1))
	if err == nil || !errors.Is(err, target.err) {
		t.Fatalf("err = %v, want wrapped reload error", err)
	}
	if called {
		t.Fatal("callback must not run when reload fails")
	}
}

func TestHandleChangedWithoutCallback(t *testing.T) {
	w := NewReloadWorker(&countingReloader{}, nil)
	if err := w.HandleChanged(context.Background(), amqp.NewTransactionsChangedMessage("update", "abc", 1)); err != nil {
		t.Fatalf("handle: %v", err)
	}
}
