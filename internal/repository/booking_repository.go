package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/car-rental/internal/domain"
)

// BookingRepository encapsulates booking persistence. Bookings are never deleted.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	Update(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository instantiates repository.
func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	const query = `
        INSERT INTO bookings (user_id, car_id, start_date, end_date, total_amount, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		booking.UserID,
		booking.CarID,
		booking.StartDate,
		booking.EndDate,
		booking.TotalAmount,
		booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	return translate(err)
}

func (r *bookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	const query = `
        UPDATE bookings SET start_date=$1, end_date=$2, total_amount=$3, status=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		booking.StartDate,
		booking.EndDate,
		booking.TotalAmount,
		booking.Status,
		booking.ID,
	).Scan(&booking.UpdatedAt)
	return translate(err)
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	const query = `
        SELECT id, user_id, car_id, start_date, end_date, total_amount, status, created_at, updated_at
        FROM bookings WHERE id=$1`
	var b domain.Booking
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.UserID,
		&b.CarID,
		&b.StartDate,
		&b.EndDate,
		&b.TotalAmount,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	const query = `
        SELECT b.id, b.user_id, b.car_id, b.start_date, b.end_date, b.total_amount, b.status,
               b.created_at, b.updated_at,
               c.make, c.model, c.year, c.price_per_day,
               u.name, u.email
        FROM bookings b
        JOIN cars c ON c.id = b.car_id
        JOIN users u ON u.id = b.user_id
        WHERE b.user_id=$1
        ORDER BY b.created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Booking, error) {
		var (
			b    domain.Booking
			car  domain.CarSummary
			user domain.UserSummary
		)
		err := row.Scan(
			&b.ID,
			&b.UserID,
			&b.CarID,
			&b.StartDate,
			&b.EndDate,
			&b.TotalAmount,
			&b.Status,
			&b.CreatedAt,
			&b.UpdatedAt,
			&car.Make,
			&car.Model,
			&car.Year,
			&car.PricePerDay,
			&user.Name,
			&user.Email,
		)
		if err != nil {
			return b, err
		}
		car.ID = b.CarID
		user.ID = b.UserID
		b.Car = &car
		b.User = &user
		return b, nil
	})
}
