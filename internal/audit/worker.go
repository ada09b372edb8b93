package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from the inbox and persists them to the
// configured sink. One worker per process is enough; ordering within the
// channel is preserved.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run processes events until ctx is cancelled. Sink failures are logged and
// the worker keeps going; a flaky Kafka broker must not wedge the trail.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to persist audit event",
					"error", err,
					"action", string(event.Action),
				)
			}
		}
	}
}
