package events

import (
	"time"

	"github.com/spec-kit/car-rental/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingUpdated   EventType = "booking.updated"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingConfirmed EventType = "booking.confirmed"
)

// BookingEventTypes lists every booking lifecycle event.
var BookingEventTypes = []EventType{
	EventBookingCreated,
	EventBookingUpdated,
	EventBookingCancelled,
	EventBookingConfirmed,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	BookingID string      `json:"booking_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// BookingPayload snapshots the booking at the time of the event.
type BookingPayload struct {
	UserID      string               `json:"user_id"`
	CarID       string               `json:"car_id"`
	StartDate   time.Time            `json:"start_date"`
	EndDate     time.Time            `json:"end_date"`
	TotalAmount float64              `json:"total_amount"`
	Status      domain.BookingStatus `json:"status"`
}

// NewBookingPayload builds the payload from a booking.
func NewBookingPayload(b *domain.Booking) BookingPayload {
	return BookingPayload{
		UserID:      b.UserID,
		CarID:       b.CarID,
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
		TotalAmount: b.TotalAmount,
		Status:      b.Status,
	}
}
