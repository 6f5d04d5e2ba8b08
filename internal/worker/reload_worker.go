// Package worker reacts to change notifications published by other fintrack
// processes.
package worker

import (
	"context"
	"fmt"

	"fintrack/internal/amqp"
	"fintrack/internal/log"
)

// Reloader refreshes an in-memory view from the store.
type Reloader interface {
	Reload(ctx context.Context) error
}

// ReloadWorker reloads the transaction list whenever another process
// reports a change, then hands the message to an optional callback.
type ReloadWorker struct {
	target   Reloader
	onChange func(ctx context.Context, msg *amqp.TransactionsChangedMessage)
}

func NewReloadWorker(target Reloader, onChange func(ctx context.Context, msg *amqp.TransactionsChangedMessage)) *ReloadWorker {
	return &ReloadWorker{
		target:   target,
		onChange: onChange,
	}
}

// HandleChanged processes one change message. A returned error makes the
// consumer requeue the message.
func (w *ReloadWorker) HandleChanged(ctx context.Context, msg *amqp.TransactionsChangedMessage) error {
	logger := log.FromContext(ctx)
	logger.InfoContext(ctx, "Processing change message",
		log.FieldOperation, msg.Operation,
		log.FieldTxID, msg.ID,
		log.FieldCount, msg.Count)

	if err := w.target.Reload(ctx); err != nil {
		log.NewStructuredLogger(logger).LogError(ctx, "Failed to reload transactions", err,
			log.ErrorTypeDatabase, log.OpLoad, log.NewFields().WithOperation(msg.Operation))
		return fmt.Errorf("reload after %s: %w", msg.Operation, err)
	}

	if w.onChange != nil {
		w.onChange(ctx, msg)
	}
	return nil
}
