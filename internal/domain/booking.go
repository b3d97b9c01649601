package domain

import (
	"errors"
	"math"
	"time"
)

// BookingStatus enumerates lifecycle states for bookings.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// ErrInvalidRentalPeriod is returned when the end date is not after the start date.
var ErrInvalidRentalPeriod = errors.New("end date must be after start date")

var allowedTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCancelled},
	BookingStatusCancelled: {},
}

// CanTransitionTo reports whether a booking in status s may move to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, candidate := range allowedTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Booking reserves one car for one user over a date range.
type Booking struct {
	ID          string
	UserID      string
	CarID       string
	StartDate   time.Time
	EndDate     time.Time
	TotalAmount float64
	Status      BookingStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Populated by list queries only.
	Car  *CarSummary
	User *UserSummary
}

// OwnedBy reports whether userID created the booking.
func (b *Booking) OwnedBy(userID string) bool {
	return b != nil && userID != "" && b.UserID == userID
}

// RentalDays returns the number of calendar days between start and end,
// ignoring the time of day. Both dates are read in start's offset, so the
// count follows the caller's calendar rather than UTC.
func RentalDays(start, end time.Time) int {
	s := calendarDate(start)
	e := calendarDate(end.In(start.Location()))
	return int(e.Sub(s).Hours() / 24)
}

// QuoteTotal prices a rental of the given range at pricePerDay.
func QuoteTotal(start, end time.Time, pricePerDay float64) (int, float64, error) {
	days := RentalDays(start, end)
	if days <= 0 {
		return 0, 0, ErrInvalidRentalPeriod
	}
	total := math.Round(float64(days)*pricePerDay*100) / 100
	return days, total, nil
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
