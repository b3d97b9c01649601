package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/car-rental/internal/events"
)

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func TestEventForwarderPublishesAndDrainsOnStop(t *testing.T) {
	pub := &recordingPublisher{}
	f := NewEventForwarder(pub, 8, nil)
	go f.Run(context.Background())

	assert.True(t, f.Enqueue(events.Event{ID: "1", Type: events.EventBookingCreated}))
	assert.True(t, f.Enqueue(events.Event{ID: "2", Type: events.EventBookingCancelled}))
	f.Stop()

	assert.Equal(t, []string{"booking.created", "booking.cancelled"}, pub.keys)
}

func TestEventForwarderDropsWhenFull(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	f := NewEventForwarder(&recordingPublisher{}, 1, zap.New(core))

	assert.True(t, f.Enqueue(events.Event{ID: "1", Type: events.EventBookingCreated}))
	assert.False(t, f.Enqueue(events.Event{ID: "2", Type: events.EventBookingCreated}))
	assert.Equal(t, 1, logs.FilterMessage("event buffer full; dropping event").Len())
}

func TestEventForwarderLogsPublishFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	f := NewEventForwarder(&recordingPublisher{err: errors.New("broker down")}, 4, zap.New(core))
	go f.Run(context.Background())

	f.Enqueue(events.Event{ID: "1", Type: events.EventBookingUpdated})
	f.Stop()

	assert.Equal(t, 1, logs.FilterMessage("publish event failed").Len())
}
