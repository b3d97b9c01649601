package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/car-rental/internal/api/dto"
	"github.com/spec-kit/car-rental/internal/auth"
	"github.com/spec-kit/car-rental/internal/service"
	apperrors "github.com/spec-kit/car-rental/pkg/util/errorutil"
)

// BookingsHandler manages the caller's bookings.
type BookingsHandler struct {
	service *service.BookingService
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(bookingService *service.BookingService) *BookingsHandler {
	return &BookingsHandler{service: bookingService}
}

// ListBookings GET /bookings.
func (h *BookingsHandler) ListBookings(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	bookings, err := h.service.ListForUser(c.UserContext(), principal.ID())
	if err != nil {
		return err
	}
	items := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		items = append(items, dto.NewBookingResponse(&bookings[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateBooking POST /bookings.
func (h *BookingsHandler) CreateBooking(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateBookingRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	// Both dates passed the iso8601 tag.
	start, _ := dto.ParseISO8601(req.StartDate)
	end, _ := dto.ParseISO8601(req.EndDate)

	booking, err := h.service.Create(c.UserContext(), principal.ID(), service.BookingCreateInput{
		CarID:     req.Car,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewBookingResponse(booking)})
}

// UpdateBooking PUT /bookings/:id.
func (h *BookingsHandler) UpdateBooking(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateBookingRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	booking, err := h.service.Update(c.UserContext(), principal.ID(), c.Params("id"), service.BookingUpdateInput{
		StartDate: optionalDate(req.StartDate),
		EndDate:   optionalDate(req.EndDate),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookingResponse(booking)})
}

// CancelBooking DELETE /bookings/:id.
func (h *BookingsHandler) CancelBooking(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.service.Cancel(c.UserContext(), principal.ID(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.MessageResponse{Message: "booking cancelled"}})
}

// ConfirmBooking POST /bookings/:id/confirm.
func (h *BookingsHandler) ConfirmBooking(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	booking, err := h.service.Confirm(c.UserContext(), principal.ID(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookingResponse(booking)})
}

func optionalDate(value *string) *time.Time {
	if value == nil {
		return nil
	}
	t, err := dto.ParseISO8601(*value)
	if err != nil {
		return nil
	}
	return &t
}
