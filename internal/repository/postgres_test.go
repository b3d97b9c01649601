package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/car-rental/internal/domain"
	"github.com/spec-kit/car-rental/internal/persistence"
)

// Set TEST_POSTGRES_DSN to a disposable database to run these tests.
// Every test truncates users, cars and bookings.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, persistence.ApplyMigrations(ctx, pool, os.DirFS("../../migrations"), zap.NewNop()))
	_, err = pool.Exec(ctx, `TRUNCATE bookings, cars, users`)
	require.NoError(t, err)
	return pool
}

func seedUserAndCar(t *testing.T, pool *pgxpool.Pool) (*domain.User, *domain.Car) {
	t.Helper()
	ctx := context.Background()
	user := &domain.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "hash"}
	require.NoError(t, NewUserRepository(pool).Create(ctx, user))
	car := &domain.Car{Make: "Toyota", Model: "Yaris", Year: 2022, Category: "compact", PricePerDay: 49.99, Availability: true}
	require.NoError(t, NewCarRepository(pool).Create(ctx, car))
	return user, car
}

func TestPostgresUserRepository(t *testing.T) {
	pool := newTestPool(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	user := &domain.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, domain.RoleCustomer, user.Role)

	found, err := repo.GetByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	err = repo.Create(ctx, &domain.User{Name: "Dup", Email: "Ana@Example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = repo.GetByID(ctx, "7f1d3c36-5f0a-4d0e-9c41-2d6c1f9b0a11")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestPostgresCarRepository(t *testing.T) {
	pool := newTestPool(t)
	repo := NewCarRepository(pool)
	ctx := context.Background()

	first := &domain.Car{Make: "Honda", Model: "Civic", Year: 2021, Category: "sedan", PricePerDay: 40, Availability: true}
	require.NoError(t, repo.Create(ctx, first))
	second := &domain.Car{Make: "Kia", Model: "Rio", Year: 2023, Category: "compact", PricePerDay: 35.5, Features: []string{"AC"}}
	require.NoError(t, repo.Create(ctx, second))

	cars, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, cars, 2)
	assert.Equal(t, second.ID, cars[0].ID)
	assert.Equal(t, []string{"AC"}, cars[0].Features)
	assert.Empty(t, cars[1].Features)

	first.PricePerDay = 0
	assert.ErrorIs(t, repo.Update(ctx, first), ErrConstraint)

	first.PricePerDay = 42.25
	require.NoError(t, repo.Update(ctx, first))
	stored, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 42.25, stored.PricePerDay)

	require.NoError(t, repo.Delete(ctx, first.ID))
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), pgx.ErrNoRows)
}

func TestPostgresBookingRepository(t *testing.T) {
	pool := newTestPool(t)
	repo := NewBookingRepository(pool)
	ctx := context.Background()
	user, car := seedUserAndCar(t, pool)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := &domain.Booking{UserID: user.ID, CarID: car.ID, StartDate: start, EndDate: start.AddDate(0, 0, 3), TotalAmount: 149.97, Status: domain.BookingStatusPending}
	require.NoError(t, repo.Create(ctx, older))
	newer := &domain.Booking{UserID: user.ID, CarID: car.ID, StartDate: start.AddDate(0, 1, 0), EndDate: start.AddDate(0, 1, 1), TotalAmount: 49.99, Status: domain.BookingStatusPending}
	require.NoError(t, repo.Create(ctx, newer))

	list, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
	require.NotNil(t, list[1].Car)
	assert.Equal(t, "Toyota", list[1].Car.Make)
	assert.Equal(t, 49.99, list[1].Car.PricePerDay)
	require.NotNil(t, list[1].User)
	assert.Equal(t, "ana@example.com", list[1].User.Email)
	assert.Equal(t, 149.97, list[1].TotalAmount)
	assert.True(t, start.Equal(list[1].StartDate))

	older.Status = domain.BookingStatusCancelled
	require.NoError(t, repo.Update(ctx, older))
	stored, err := repo.GetByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, stored.Status)

	older.EndDate = older.StartDate
	assert.ErrorIs(t, repo.Update(ctx, older), ErrConstraint)

	assert.ErrorIs(t, NewCarRepository(pool).Delete(ctx, car.ID), ErrInUse)

	missing := &domain.Booking{ID: "7f1d3c36-5f0a-4d0e-9c41-2d6c1f9b0a11", StartDate: start, EndDate: start.AddDate(0, 0, 1), Status: domain.BookingStatusPending}
	assert.ErrorIs(t, repo.Update(ctx, missing), pgx.ErrNoRows)
}
