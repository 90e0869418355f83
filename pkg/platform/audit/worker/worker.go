// Package worker drains the audit archive inbox into the store and the
// optional stream publisher. Archival is fire-and-forget from the services'
// point of view: a full inbox drops the event with a log line rather than
// blocking a review request.
package worker

import (
	"context"
	"log/slog"
	"time"

	audit "caseline/pkg/platform/audit"
)

// Worker consumes audit events from a channel and persists them.
type Worker struct {
	store     audit.Store
	publisher audit.Publisher
	inbox     chan audit.Event
	logger    *slog.Logger
}

// New builds a worker with a bounded inbox. publisher may be nil.
func New(store audit.Store, publisher audit.Publisher, logger *slog.Logger, buffer int) *Worker {
	if buffer <= 0 {
		buffer = 1024
	}
	return &Worker{
		store:     store,
		publisher: publisher,
		inbox:     make(chan audit.Event, buffer),
		logger:    logger,
	}
}

// Emit enqueues an event without blocking. Dropped events are logged;
// the in-flight ledger still holds the authoritative record.
func (w *Worker) Emit(event audit.Event) {
	select {
	case w.inbox <- event:
	default:
		if w.logger != nil {
			w.logger.Warn("audit archive inbox full, dropping event",
				"case_id", event.CaseID,
				"action", event.Action,
			)
		}
	}
}

// Run drains the inbox until the context is canceled. Store failures are
// retried a few times before the event is dropped from the archive; ledger
// state is unaffected either way.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			w.archive(ctx, event)
		}
	}
}

// Transient append failures get a short retry ladder; the stores keep
// repeated appends of one event ID idempotent.
const (
	appendAttempts = 3
	appendBackoff  = 100 * time.Millisecond
)

func (w *Worker) archive(ctx context.Context, event audit.Event) {
	if err := w.appendWithRetry(ctx, event); err != nil && w.logger != nil {
		w.logger.Error("audit archive append failed",
			"case_id", event.CaseID,
			"action", event.Action,
			"error", err,
		)
	}
	if w.publisher == nil {
		return
	}
	if err := w.publisher.Publish(ctx, event); err != nil && w.logger != nil {
		w.logger.Error("audit archive publish failed",
			"case_id", event.CaseID,
			"action", event.Action,
			"error", err,
		)
	}
}

func (w *Worker) appendWithRetry(ctx context.Context, event audit.Event) error {
	var err error
	for attempt := 1; attempt <= appendAttempts; attempt++ {
		if err = w.store.Append(ctx, event); err == nil {
			return nil
		}
		if attempt == appendAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(attempt) * appendBackoff):
		}
	}
	return err
}
