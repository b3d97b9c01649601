package dto

import (
	"time"

	"github.com/spec-kit/car-rental/internal/domain"
)

// CreateBookingRequest payload.
type CreateBookingRequest struct {
	Car       string `json:"car" validate:"required" msg:"Car ID is required"`
	StartDate string `json:"startDate" validate:"required,iso8601" msg:"Valid start date is required"`
	EndDate   string `json:"endDate" validate:"required,iso8601" msg:"Valid end date is required"`
}

// UpdateBookingRequest payload. Only the dates are honoured; every other
// field a client sends is ignored.
type UpdateBookingRequest struct {
	StartDate *string `json:"startDate" validate:"omitempty,iso8601" msg:"Valid start date is required"`
	EndDate   *string `json:"endDate" validate:"omitempty,iso8601" msg:"Valid end date is required"`
}

// BookingCarResponse is the car projection in booking listings.
type BookingCarResponse struct {
	ID          string  `json:"id"`
	Make        string  `json:"make"`
	Model       string  `json:"model"`
	Year        int     `json:"year"`
	PricePerDay float64 `json:"pricePerDay"`
}

// BookingUserResponse is the owner projection in booking listings.
type BookingUserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// BookingResponse is the public view of a booking. Car and User hold either
// an id string or, in listings, a projection object.
type BookingResponse struct {
	ID          string               `json:"id"`
	User        any                  `json:"user"`
	Car         any                  `json:"car"`
	StartDate   time.Time            `json:"startDate"`
	EndDate     time.Time            `json:"endDate"`
	TotalAmount float64              `json:"totalAmount"`
	Status      domain.BookingStatus `json:"status"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// MessageResponse carries a confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// NewBookingResponse maps a domain booking, expanding projections when loaded.
func NewBookingResponse(b *domain.Booking) BookingResponse {
	resp := BookingResponse{
		ID:          b.ID,
		User:        b.UserID,
		Car:         b.CarID,
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
		TotalAmount: b.TotalAmount,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if b.Car != nil {
		resp.Car = BookingCarResponse{
			ID:          b.Car.ID,
			Make:        b.Car.Make,
			Model:       b.Car.Model,
			Year:        b.Car.Year,
			PricePerDay: b.Car.PricePerDay,
		}
	}
	if b.User != nil {
		resp.User = BookingUserResponse{ID: b.User.ID, Name: b.User.Name, Email: b.User.Email}
	}
	return resp
}
