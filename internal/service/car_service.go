package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/car-rental/internal/domain"
	"github.com/spec-kit/car-rental/internal/repository"
	apperrors "github.com/spec-kit/car-rental/pkg/util/errorutil"
)

// CarListCache stores the public car listing.
type CarListCache interface {
	GetCarList(ctx context.Context) ([]domain.Car, bool, error)
	ListVersion(ctx context.Context) (int64, error)
	SetCarList(ctx context.Context, cars []domain.Car, version int64) (bool, error)
	InvalidateCarList(ctx context.Context) error
}

// CarService manages the car inventory.
type CarService struct {
	cars   repository.CarRepository
	cache  CarListCache
	logger *zap.Logger
}

// CarDependencies bundles collaborators for the car service.
type CarDependencies struct {
	CarRepo repository.CarRepository
	Cache   CarListCache
	Logger  *zap.Logger
}

// NewCarService constructs the service. Cache is optional.
func NewCarService(deps CarDependencies) *CarService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CarService{cars: deps.CarRepo, cache: deps.Cache, logger: logger}
}

// List returns every car, newest first.
//
// On a cache miss the cache version is read before the database, so a
// listing loaded across a concurrent mutation is not written back.
func (s *CarService) List(ctx context.Context) ([]domain.Car, error) {
	var (
		version   int64
		cacheable bool
	)
	if s.cache != nil {
		cars, ok, err := s.cache.GetCarList(ctx)
		if err != nil {
			s.logger.Warn("car list cache read failed", zap.Error(err))
		} else if ok {
			return cars, nil
		}
		if err == nil {
			if version, err = s.cache.ListVersion(ctx); err != nil {
				s.logger.Warn("car list cache version read failed", zap.Error(err))
			} else {
				cacheable = true
			}
		}
	}

	cars, err := s.cars.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if cacheable {
		if _, err := s.cache.SetCarList(ctx, cars, version); err != nil {
			s.logger.Warn("car list cache write failed", zap.Error(err))
		}
	}
	return cars, nil
}

// Get fetches one car.
func (s *CarService) Get(ctx context.Context, id string) (*domain.Car, error) {
	if !validID(id) {
		return nil, apperrors.NewNotFound("car", nil)
	}
	car, err := s.cars.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "car")
	}
	return car, nil
}

// Create adds a car to the inventory.
func (s *CarService) Create(ctx context.Context, car *domain.Car) (*domain.Car, error) {
	if err := normalizeCar(car); err != nil {
		return nil, err
	}
	if err := s.cars.Create(ctx, car); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.invalidate(ctx)
	return car, nil
}

// Update applies patch to the stored car.
func (s *CarService) Update(ctx context.Context, id string, patch domain.CarPatch) (*domain.Car, error) {
	car, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(car)
	if err := normalizeCar(car); err != nil {
		return nil, err
	}
	if err := s.cars.Update(ctx, car); err != nil {
		return nil, notFoundOr(err, "car")
	}
	s.invalidate(ctx)
	return car, nil
}

// Delete removes a car. Cars referenced by bookings cannot be removed.
func (s *CarService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperrors.NewNotFound("car", nil)
	}
	if err := s.cars.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrInUse) {
			return apperrors.NewConflict("car has bookings and cannot be deleted", nil)
		}
		return notFoundOr(err, "car")
	}
	s.invalidate(ctx)
	return nil
}

func (s *CarService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCarList(ctx); err != nil {
		s.logger.Warn("car list cache invalidation failed", zap.Error(err))
	}
}

// normalizeCar trims the descriptive fields and rejects blank ones or a
// non-positive price.
func normalizeCar(car *domain.Car) error {
	car.Make = strings.TrimSpace(car.Make)
	car.Model = strings.TrimSpace(car.Model)
	car.Category = strings.TrimSpace(car.Category)

	var fields []apperrors.FieldError
	for _, f := range []struct{ name, value, message string }{
		{"make", car.Make, "Make is required"},
		{"model", car.Model, "Model is required"},
		{"category", car.Category, "Category is required"},
	} {
		if f.value == "" {
			fields = append(fields, apperrors.FieldError{Field: f.name, Message: f.message})
		}
	}
	if car.PricePerDay <= 0 {
		fields = append(fields, apperrors.FieldError{Field: "pricePerDay", Message: "Price per day must be a positive number"})
	}
	if len(fields) > 0 {
		return apperrors.NewFieldValidationError(fields)
	}
	return nil
}
