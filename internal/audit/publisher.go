package audit

import (
	"context"
	"log/slog"
	"time"
)

// Publisher accepts audit events from domain services.
type Publisher interface {
	Emit(ctx context.Context, event Event)
}

// ChannelPublisher hands events to the worker without blocking the business
// operation. The trail here is operational, not regulatory: when the inbox is
// full the event is dropped and logged, never the request failed.
type ChannelPublisher struct {
	inbox  chan<- Event
	logger *slog.Logger
}

func NewChannelPublisher(inbox chan<- Event, logger *slog.Logger) *ChannelPublisher {
	return &ChannelPublisher{inbox: inbox, logger: logger}
}

func (p *ChannelPublisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit inbox full, dropping event",
			"action", string(event.Action),
			"subject", event.Subject,
		)
	}
}

// Nop discards events; tests that don't assert on the trail use it.
type Nop struct{}

func (Nop) Emit(context.Context, Event) {}
