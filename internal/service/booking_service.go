package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/spec-kit/car-rental/internal/domain"
	"github.com/spec-kit/car-rental/internal/events"
	"github.com/spec-kit/car-rental/internal/repository"
	apperrors "github.com/spec-kit/car-rental/pkg/util/errorutil"
)

// TransitionRecorder counts bookings entering a status.
type TransitionRecorder interface {
	RecordBookingTransition(status string)
}

// BookingService coordinates the booking lifecycle.
//
// Creating a booking reads the car and inserts the booking as two independent
// store operations; the car's availability flag is not changed, so concurrent
// bookings of the same car all succeed.
type BookingService struct {
	bookings   repository.BookingRepository
	cars       repository.CarRepository
	dispatcher events.Dispatcher
	recorder   TransitionRecorder
	tracer     trace.Tracer
	now        func() time.Time
}

// BookingDependencies bundles repositories for booking service.
type BookingDependencies struct {
	BookingRepo repository.BookingRepository
	CarRepo     repository.CarRepository
	Dispatcher  events.Dispatcher
	Recorder    TransitionRecorder
}

// BookingCreateInput describes booking creation payload.
type BookingCreateInput struct {
	CarID     string
	StartDate time.Time
	EndDate   time.Time
}

// BookingUpdateInput lists the booking fields an owner may change. Nil means untouched.
type BookingUpdateInput struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// NewBookingService constructs the service.
func NewBookingService(deps BookingDependencies) *BookingService {
	return &BookingService{
		bookings:   deps.BookingRepo,
		cars:       deps.CarRepo,
		dispatcher: deps.Dispatcher,
		recorder:   deps.Recorder,
		tracer:     otel.Tracer("github.com/spec-kit/car-rental/internal/service"),
		now:        time.Now,
	}
}

// ListForUser returns every booking owned by userID with car and owner projections.
func (s *BookingService) ListForUser(ctx context.Context, userID string) (bookings []domain.Booking, err error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.ListForUser", trace.WithAttributes(attribute.String("user.id", userID)))
	defer func() { endSpan(span, err) }()

	bookings, err = s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return bookings, nil
}

// Create books an available car for userID.
func (s *BookingService) Create(ctx context.Context, userID string, input BookingCreateInput) (booking *domain.Booking, err error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.Create", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("car.id", input.CarID),
	))
	defer func() { endSpan(span, err) }()

	car, err := s.loadCar(ctx, input.CarID)
	if err != nil {
		return nil, err
	}
	if !car.Availability {
		return nil, apperrors.NewBadRequest("CAR_UNAVAILABLE", "car is not available")
	}

	_, total, err := domain.QuoteTotal(input.StartDate, input.EndDate, car.PricePerDay)
	if err != nil {
		return nil, rentalPeriodError(err)
	}

	booking = &domain.Booking{
		UserID:      userID,
		CarID:       car.ID,
		StartDate:   input.StartDate.UTC(),
		EndDate:     input.EndDate.UTC(),
		TotalAmount: total,
		Status:      domain.BookingStatusPending,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	span.SetAttributes(attribute.String("booking.id", booking.ID))
	s.record(booking.Status)
	s.publishEvent(ctx, events.EventBookingCreated, userID, booking)
	return booking, nil
}

// Update changes the dates of a booking owned by userID and reprices it from
// the car's current daily rate. Status, total, owner and car cannot be set.
func (s *BookingService) Update(ctx context.Context, userID, bookingID string, input BookingUpdateInput) (booking *domain.Booking, err error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.Update", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("booking.id", bookingID),
	))
	defer func() { endSpan(span, err) }()

	booking, err = s.loadOwned(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == domain.BookingStatusCancelled {
		return nil, apperrors.NewBadRequest("INVALID_STATE", "cancelled bookings cannot be changed")
	}
	if input.StartDate == nil && input.EndDate == nil {
		return booking, nil
	}

	// Days are counted in the offset the caller sent; stored dates are UTC.
	var loc *time.Location
	if input.StartDate != nil {
		loc = input.StartDate.Location()
	} else {
		loc = input.EndDate.Location()
	}
	start, end := booking.StartDate.In(loc), booking.EndDate.In(loc)
	if input.StartDate != nil {
		start = *input.StartDate
	}
	if input.EndDate != nil {
		end = input.EndDate.In(loc)
	}

	car, err := s.cars.GetByID(ctx, booking.CarID)
	if err != nil {
		return nil, notFoundOr(err, "car")
	}
	_, total, err := domain.QuoteTotal(start, end, car.PricePerDay)
	if err != nil {
		return nil, rentalPeriodError(err)
	}

	booking.StartDate = start.UTC()
	booking.EndDate = end.UTC()
	booking.TotalAmount = total
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, notFoundOr(err, "booking")
	}

	s.publishEvent(ctx, events.EventBookingUpdated, userID, booking)
	return booking, nil
}

// Cancel marks a booking owned by userID as cancelled. The record is kept.
// Cancelling an already cancelled booking succeeds without side effects.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID string) (err error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.Cancel", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("booking.id", bookingID),
	))
	defer func() { endSpan(span, err) }()

	booking, err := s.loadOwned(ctx, userID, bookingID)
	if err != nil {
		return err
	}
	if booking.Status == domain.BookingStatusCancelled {
		return nil
	}

	booking.Status = domain.BookingStatusCancelled
	if err := s.bookings.Update(ctx, booking); err != nil {
		return notFoundOr(err, "booking")
	}

	s.record(booking.Status)
	s.publishEvent(ctx, events.EventBookingCancelled, userID, booking)
	return nil
}

// Confirm moves a pending booking to confirmed. Callers must be admins.
func (s *BookingService) Confirm(ctx context.Context, adminID, bookingID string) (booking *domain.Booking, err error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.Confirm", trace.WithAttributes(
		attribute.String("user.id", adminID),
		attribute.String("booking.id", bookingID),
	))
	defer func() { endSpan(span, err) }()

	booking, err = s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(domain.BookingStatusConfirmed) {
		return nil, apperrors.NewBadRequest("INVALID_STATE", "only pending bookings can be confirmed")
	}

	booking.Status = domain.BookingStatusConfirmed
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, notFoundOr(err, "booking")
	}

	s.record(booking.Status)
	s.publishEvent(ctx, events.EventBookingConfirmed, adminID, booking)
	return booking, nil
}

func (s *BookingService) loadCar(ctx context.Context, carID string) (*domain.Car, error) {
	if !validID(carID) {
		return nil, apperrors.NewNotFound("car", nil)
	}
	car, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		return nil, notFoundOr(err, "car")
	}
	return car, nil
}

func (s *BookingService) load(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if !validID(bookingID) {
		return nil, apperrors.NewNotFound("booking", nil)
	}
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, notFoundOr(err, "booking")
	}
	return booking, nil
}

// loadOwned answers 401 when the caller is not the owner, matching the
// public API contract for booking mutations.
func (s *BookingService) loadOwned(ctx context.Context, userID, bookingID string) (*domain.Booking, error) {
	booking, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.OwnedBy(userID) {
		return nil, apperrors.NewUnauthorized("not authorized")
	}
	return booking, nil
}

func (s *BookingService) record(status domain.BookingStatus) {
	if s.recorder != nil {
		s.recorder.RecordBookingTransition(string(status))
	}
}

func (s *BookingService) publishEvent(ctx context.Context, eventType events.EventType, actorID string, booking *domain.Booking) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		BookingID: booking.ID,
		ActorID:   actorID,
		Timestamp: s.now().UTC(),
		Payload:   events.NewBookingPayload(booking),
	})
}

func rentalPeriodError(err error) error {
	if errors.Is(err, domain.ErrInvalidRentalPeriod) {
		return apperrors.NewFieldValidationError([]apperrors.FieldError{
			{Field: "endDate", Message: "End date must be at least one day after start date"},
		})
	}
	return apperrors.NewInternalError(err)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
