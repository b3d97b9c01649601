package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/car-rental/internal/events"
)

// EventSink accepts events for asynchronous delivery.
type EventSink interface {
	Enqueue(event events.Event) bool
}

// NotificationService fans booking events out to the log and the message broker.
type NotificationService struct {
	dispatcher events.Dispatcher
	sink       EventSink
	logger     *zap.Logger
}

// NewNotificationService creates the service. sink may be nil, in which case
// events are only logged.
func NewNotificationService(dispatcher events.Dispatcher, sink EventSink, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		sink:       sink,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(n.handleBookingEvent, events.BookingEventTypes...)
}

func (n *NotificationService) handleBookingEvent(_ context.Context, event events.Event) error {
	n.logger.Info("booking event",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
		zap.String("booking_id", event.BookingID),
		zap.String("actor_id", event.ActorID))

	if n.sink != nil {
		n.sink.Enqueue(event)
	}
	return nil
}
