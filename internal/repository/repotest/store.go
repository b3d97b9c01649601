// Package repotest provides in-memory implementations of the repository
// interfaces for tests.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/car-rental/internal/domain"
	"github.com/spec-kit/car-rental/internal/repository"
)

// Store keeps users, cars and bookings in memory with the same error
// contract as the Postgres repositories.
type Store struct {
	mu       sync.Mutex
	seq      int
	clock    time.Time
	users    map[string]domain.User
	cars     map[string]domain.Car
	bookings map[string]domain.Booking
	order    map[string]int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:    map[string]domain.User{},
		cars:     map[string]domain.Car{},
		bookings: map[string]domain.Booking{},
		order:    map[string]int{},
	}
}

// Users returns the user repository view.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Cars returns the car repository view.
func (s *Store) Cars() repository.CarRepository { return carRepo{s} }

// Bookings returns the booking repository view.
func (s *Store) Bookings() repository.BookingRepository { return bookingRepo{s} }

// Booking returns a copy of the stored booking.
func (s *Store) Booking(id string) (domain.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	return b, ok
}

// BookingCount reports how many bookings are stored.
func (s *Store) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

// tick must be called with mu held. Timestamps advance so ordering is stable.
func (s *Store) tick(id string) time.Time {
	s.seq++
	s.order[id] = s.seq
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = domain.RoleCustomer
	}
	now := r.s.tick(user.ID)
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type carRepo struct{ s *Store }

func (r carRepo) Create(_ context.Context, car *domain.Car) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if car.ID == "" {
		car.ID = uuid.NewString()
	}
	now := r.s.tick(car.ID)
	car.CreatedAt, car.UpdatedAt = now, now
	r.s.cars[car.ID] = *car
	return nil
}

func (r carRepo) Update(_ context.Context, car *domain.Car) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.cars[car.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.s.clock = r.s.clock.Add(time.Second)
	car.UpdatedAt = r.s.clock
	r.s.cars[car.ID] = *car
	return nil
}

func (r carRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.cars[id]; !ok {
		return pgx.ErrNoRows
	}
	for _, b := range r.s.bookings {
		if b.CarID == id {
			return repository.ErrInUse
		}
	}
	delete(r.s.cars, id)
	return nil
}

func (r carRepo) GetByID(_ context.Context, id string) (*domain.Car, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cars[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &c, nil
}

func (r carRepo) List(_ context.Context) ([]domain.Car, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cars := make([]domain.Car, 0, len(r.s.cars))
	for _, c := range r.s.cars {
		cars = append(cars, c)
	}
	sort.Slice(cars, func(i, j int) bool { return r.s.order[cars[i].ID] > r.s.order[cars[j].ID] })
	return cars, nil
}

type bookingRepo struct{ s *Store }

func (r bookingRepo) Create(_ context.Context, booking *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.cars[booking.CarID]; !ok {
		return repository.ErrInUse
	}
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := r.s.tick(booking.ID)
	booking.CreatedAt, booking.UpdatedAt = now, now
	r.s.bookings[booking.ID] = *booking
	return nil
}

func (r bookingRepo) Update(_ context.Context, booking *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.bookings[booking.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	r.s.clock = r.s.clock.Add(time.Second)
	stored.StartDate = booking.StartDate
	stored.EndDate = booking.EndDate
	stored.TotalAmount = booking.TotalAmount
	stored.Status = booking.Status
	stored.UpdatedAt = r.s.clock
	booking.UpdatedAt = stored.UpdatedAt
	r.s.bookings[booking.ID] = stored
	return nil
}

func (r bookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &b, nil
}

func (r bookingRepo) ListByUser(_ context.Context, userID string) ([]domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Booking, 0)
	for _, b := range r.s.bookings {
		if b.UserID != userID {
			continue
		}
		if c, ok := r.s.cars[b.CarID]; ok {
			b.Car = &domain.CarSummary{ID: c.ID, Make: c.Make, Model: c.Model, Year: c.Year, PricePerDay: c.PricePerDay}
		}
		if u, ok := r.s.users[b.UserID]; ok {
			b.User = &domain.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return r.s.order[out[i].ID] > r.s.order[out[j].ID] })
	return out, nil
}
