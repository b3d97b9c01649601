package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/car-rental/internal/domain"
	"github.com/spec-kit/car-rental/internal/repository"
	"github.com/spec-kit/car-rental/internal/repository/repotest"
	apperrors "github.com/spec-kit/car-rental/pkg/util/errorutil"
)

type memoryCarCache struct {
	cars        []domain.Car
	cached      bool
	version     int64
	reads       int
	invalidated int
	failReads   bool
}

func (c *memoryCarCache) GetCarList(context.Context) ([]domain.Car, bool, error) {
	c.reads++
	if c.failReads {
		return nil, false, errors.New("redis down")
	}
	return c.cars, c.cached, nil
}

func (c *memoryCarCache) ListVersion(context.Context) (int64, error) {
	return c.version, nil
}

func (c *memoryCarCache) SetCarList(_ context.Context, cars []domain.Car, version int64) (bool, error) {
	if version != c.version {
		return false, nil
	}
	c.cars = cars
	c.cached = true
	return true, nil
}

func (c *memoryCarCache) InvalidateCarList(context.Context) error {
	c.cars = nil
	c.cached = false
	c.version++
	c.invalidated++
	return nil
}

// interleavedCarRepo runs duringList once, after the listing has been read.
type interleavedCarRepo struct {
	repository.CarRepository
	duringList func()
}

func (r *interleavedCarRepo) List(ctx context.Context) ([]domain.Car, error) {
	cars, err := r.CarRepository.List(ctx)
	if r.duringList != nil {
		hook := r.duringList
		r.duringList = nil
		hook()
	}
	return cars, err
}

func newCarService(t *testing.T) (*CarService, *repotest.Store, *memoryCarCache) {
	t.Helper()
	store := repotest.NewStore()
	cache := &memoryCarCache{}
	return NewCarService(CarDependencies{CarRepo: store.Cars(), Cache: cache}), store, cache
}

func sampleCar(brand string) *domain.Car {
	return &domain.Car{Make: brand, Model: "Model", Year: 2023, Category: "suv", PricePerDay: 70, Availability: true}
}

func TestCarServiceListIsNewestFirstAndCached(t *testing.T) {
	svc, store, cache := newCarService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, sampleCar("Honda"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, sampleCar("Kia"))
	require.NoError(t, err)

	cars, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, cars, 2)
	assert.Equal(t, "Kia", cars[0].Make)
	assert.True(t, cache.cached)

	// A car written behind the service's back is invisible until invalidation.
	require.NoError(t, store.Cars().Create(ctx, sampleCar("Audi")))
	cars, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, cars, 2)
}

func TestCarServiceListDoesNotCacheListingReadAcrossUpdate(t *testing.T) {
	store := repotest.NewStore()
	cache := &memoryCarCache{}
	repo := &interleavedCarRepo{CarRepository: store.Cars()}
	svc := NewCarService(CarDependencies{CarRepo: repo, Cache: cache})
	ctx := context.Background()

	car, err := svc.Create(ctx, sampleCar("Honda"))
	require.NoError(t, err)

	price := 120.0
	repo.duringList = func() {
		_, err := svc.Update(ctx, car.ID, domain.CarPatch{PricePerDay: &price})
		require.NoError(t, err)
	}
	cars, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, 70.0, cars[0].PricePerDay)
	assert.False(t, cache.cached)

	cars, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 120.0, cars[0].PricePerDay)
	assert.True(t, cache.cached)
}

func TestCarServiceListFallsBackWhenCacheFails(t *testing.T) {
	svc, _, cache := newCarService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, sampleCar("Honda"))
	require.NoError(t, err)
	cache.failReads = true

	cars, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, cars, 1)
}

func TestCarServiceMutationsInvalidateCache(t *testing.T) {
	svc, _, cache := newCarService(t)
	ctx := context.Background()

	car, err := svc.Create(ctx, sampleCar(" Honda "))
	require.NoError(t, err)
	assert.Equal(t, "Honda", car.Make)

	price := 99.5
	updated, err := svc.Update(ctx, car.ID, domain.CarPatch{PricePerDay: &price})
	require.NoError(t, err)
	assert.Equal(t, 99.5, updated.PricePerDay)
	assert.Equal(t, "Honda", updated.Make)

	require.NoError(t, svc.Delete(ctx, car.ID))
	assert.Equal(t, 3, cache.invalidated)

	_, err = svc.Get(ctx, car.ID)
	requireDomainError(t, err, http.StatusNotFound, "NOT_FOUND")
}

func TestCarServiceUpdateRejectsNonPositivePrice(t *testing.T) {
	svc, _, _ := newCarService(t)
	ctx := context.Background()
	car, err := svc.Create(ctx, sampleCar("Honda"))
	require.NoError(t, err)

	zero := 0.0
	_, err = svc.Update(ctx, car.ID, domain.CarPatch{PricePerDay: &zero})
	requireDomainError(t, err, http.StatusBadRequest, "VALIDATION_FAILED")
}

func TestCarServiceRejectsBlankFields(t *testing.T) {
	svc, store, _ := newCarService(t)
	ctx := context.Background()

	car := sampleCar("   ")
	car.Category = "\t"
	_, err := svc.Create(ctx, car)
	de := requireDomainError(t, err, http.StatusBadRequest, "VALIDATION_FAILED")
	fields, ok := de.Details["errors"].([]apperrors.FieldError)
	require.True(t, ok)
	require.Len(t, fields, 2)
	assert.Equal(t, "make", fields[0].Field)
	assert.Equal(t, "category", fields[1].Field)

	stored, err := svc.Create(ctx, sampleCar("Honda"))
	require.NoError(t, err)
	blank := "  "
	_, err = svc.Update(ctx, stored.ID, domain.CarPatch{Model: &blank})
	requireDomainError(t, err, http.StatusBadRequest, "VALIDATION_FAILED")

	cars, err := store.Cars().List(ctx)
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, "Honda", cars[0].Make)
	assert.NotEmpty(t, cars[0].Model)
}

func TestCarServiceGetAndDeleteUnknown(t *testing.T) {
	svc, _, _ := newCarService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "not-a-uuid")
	requireDomainError(t, err, http.StatusNotFound, "NOT_FOUND")
	_, err = svc.Get(ctx, uuid.NewString())
	requireDomainError(t, err, http.StatusNotFound, "NOT_FOUND")
	requireDomainError(t, svc.Delete(ctx, uuid.NewString()), http.StatusNotFound, "NOT_FOUND")
}

func TestCarServiceDeleteBookedCarConflicts(t *testing.T) {
	store := repotest.NewStore()
	svc := NewCarService(CarDependencies{CarRepo: store.Cars()})
	ctx := context.Background()

	car, err := svc.Create(ctx, sampleCar("Honda"))
	require.NoError(t, err)
	require.NoError(t, store.Bookings().Create(ctx, &domain.Booking{
		UserID: uuid.NewString(), CarID: car.ID, Status: domain.BookingStatusPending,
	}))

	requireDomainError(t, svc.Delete(ctx, car.ID), http.StatusConflict, "CONFLICT")
}
