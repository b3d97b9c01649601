package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/car-rental/internal/events"
	"github.com/spec-kit/car-rental/internal/messaging"
)

const defaultPublishTimeout = 5 * time.Second

// EventForwarder publishes events to the broker from a background goroutine
// so request handlers never wait on the broker. Events that do not fit in the
// buffer are dropped and logged.
type EventForwarder struct {
	publisher      messaging.Publisher
	queue          chan events.Event
	logger         *zap.Logger
	publishTimeout time.Duration

	closeOnce sync.Once
	done      chan struct{}
}

// NewEventForwarder builds a forwarder with a bounded buffer.
func NewEventForwarder(publisher messaging.Publisher, bufferSize int, logger *zap.Logger) *EventForwarder {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventForwarder{
		publisher:      publisher,
		queue:          make(chan events.Event, bufferSize),
		logger:         logger,
		publishTimeout: defaultPublishTimeout,
		done:           make(chan struct{}),
	}
}

// Enqueue schedules event for publishing without blocking.
func (f *EventForwarder) Enqueue(event events.Event) bool {
	select {
	case f.queue <- event:
		return true
	default:
		f.logger.Warn("event buffer full; dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID))
		return false
	}
}

// Run publishes queued events until Stop is called, then drains the buffer.
func (f *EventForwarder) Run(ctx context.Context) {
	defer close(f.done)
	for event := range f.queue {
		f.publish(ctx, event)
	}
}

// Stop closes the buffer and waits for Run to drain it.
func (f *EventForwarder) Stop() {
	f.closeOnce.Do(func() { close(f.queue) })
	<-f.done
}

func (f *EventForwarder) publish(ctx context.Context, event events.Event) {
	if f.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.publishTimeout)
	defer cancel()
	if err := f.publisher.PublishJSON(pubCtx, string(event.Type), event); err != nil {
		f.logger.Warn("publish event failed",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
}
