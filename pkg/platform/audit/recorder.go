package audit

import (
	"context"
	"log/slog"
	"time"
)

// Sink receives audit events. Implementations: in-memory store and Kafka.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Recorder buffers events and hands them to the sink from a background
// worker, keeping audit off the request path.
type Recorder struct {
	sink   Sink
	logger *slog.Logger
	inbox  chan Event
}

// NewRecorder creates a recorder with the given buffer size.
func NewRecorder(sink Sink, logger *slog.Logger, buffer int) *Recorder {
	return &Recorder{
		sink:   sink,
		logger: logger,
		inbox:  make(chan Event, buffer),
	}
}

// Record enqueues an event. If the buffer is full the event is dropped with a
// warning rather than blocking the request.
func (r *Recorder) Record(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case r.inbox <- event:
	default:
		r.logger.WarnContext(ctx, "audit buffer full, dropping event",
			"action", event.Action,
			"entity_id", event.EntityID,
		)
	}
}

// Run consumes the inbox until ctx is cancelled, then drains what remains.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			r.drain()
			return ctx.Err()
		case event := <-r.inbox:
			r.publish(ctx, event)
		}
	}
}

func (r *Recorder) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case event := <-r.inbox:
			r.publish(ctx, event)
		default:
			return
		}
	}
}

func (r *Recorder) publish(ctx context.Context, event Event) {
	if err := r.sink.Publish(ctx, event); err != nil {
		r.logger.ErrorContext(ctx, "failed to publish audit event",
			"error", err,
			"action", event.Action,
			"entity_id", event.EntityID,
		)
	}
}
