package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/car-rental/internal/domain"
)

// CarRepository encapsulates car inventory persistence.
type CarRepository interface {
	Create(ctx context.Context, car *domain.Car) error
	Update(ctx context.Context, car *domain.Car) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Car, error)
	List(ctx context.Context) ([]domain.Car, error)
}

type carRepository struct {
	pool *pgxpool.Pool
}

// NewCarRepository instantiates repository.
func NewCarRepository(pool *pgxpool.Pool) CarRepository {
	return &carRepository{pool: pool}
}

const carColumns = `id, make, model, year, category, price_per_day, availability,
               features, images, location, created_at, updated_at`

func (r *carRepository) Create(ctx context.Context, car *domain.Car) error {
	const query = `
        INSERT INTO cars (make, model, year, category, price_per_day, availability, features, images, location)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		car.Make,
		car.Model,
		car.Year,
		car.Category,
		car.PricePerDay,
		car.Availability,
		nonNil(car.Features),
		nonNil(car.Images),
		car.Location,
	).Scan(&car.ID, &car.CreatedAt, &car.UpdatedAt)
	return translate(err)
}

func (r *carRepository) Update(ctx context.Context, car *domain.Car) error {
	const query = `
        UPDATE cars SET make=$1, model=$2, year=$3, category=$4, price_per_day=$5,
            availability=$6, features=$7, images=$8, location=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		car.Make,
		car.Model,
		car.Year,
		car.Category,
		car.PricePerDay,
		car.Availability,
		nonNil(car.Features),
		nonNil(car.Images),
		car.Location,
		car.ID,
	).Scan(&car.UpdatedAt)
	return translate(err)
}

func (r *carRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cars WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *carRepository) GetByID(ctx context.Context, id string) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id=$1`
	car, err := scanCar(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return car, nil
}

func (r *carRepository) List(ctx context.Context) ([]domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cars := []domain.Car{}
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, *car)
	}
	return cars, rows.Err()
}

func scanCar(row pgx.Row) (*domain.Car, error) {
	var car domain.Car
	if err := row.Scan(
		&car.ID,
		&car.Make,
		&car.Model,
		&car.Year,
		&car.Category,
		&car.PricePerDay,
		&car.Availability,
		&car.Features,
		&car.Images,
		&car.Location,
		&car.CreatedAt,
		&car.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &car, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
