package dto

import (
	"time"

	"github.com/spec-kit/car-rental/internal/domain"
)

// CreateCarRequest payload.
type CreateCarRequest struct {
	Make         string   `json:"make" validate:"required,notblank" msg:"Make is required"`
	Model        string   `json:"model" validate:"required,notblank" msg:"Model is required"`
	Year         *int     `json:"year" validate:"required,gte=1886,lte=2100" msg:"Year must be a number"`
	Category     string   `json:"category" validate:"required,notblank" msg:"Category is required"`
	PricePerDay  *float64 `json:"pricePerDay" validate:"required,gt=0" msg:"Price per day must be a positive number"`
	Availability *bool    `json:"availability"`
	Features     []string `json:"features" validate:"omitempty,dive,required" msg:"Features must be non-empty strings"`
	Images       []string `json:"images" validate:"omitempty,dive,required" msg:"Images must be non-empty strings"`
	Location     string   `json:"location"`
}

// ToDomain builds a car; availability defaults to true.
func (r CreateCarRequest) ToDomain() *domain.Car {
	car := &domain.Car{
		Make:         r.Make,
		Model:        r.Model,
		Category:     r.Category,
		Availability: true,
		Features:     r.Features,
		Images:       r.Images,
		Location:     r.Location,
	}
	if r.Year != nil {
		car.Year = *r.Year
	}
	if r.PricePerDay != nil {
		car.PricePerDay = *r.PricePerDay
	}
	if r.Availability != nil {
		car.Availability = *r.Availability
	}
	return car
}

// UpdateCarRequest payload; absent fields stay unchanged.
type UpdateCarRequest struct {
	Make         *string   `json:"make" validate:"omitempty,notblank" msg:"Make cannot be empty"`
	Model        *string   `json:"model" validate:"omitempty,notblank" msg:"Model cannot be empty"`
	Year         *int      `json:"year" validate:"omitempty,gte=1886,lte=2100" msg:"Year must be a number"`
	Category     *string   `json:"category" validate:"omitempty,notblank" msg:"Category cannot be empty"`
	PricePerDay  *float64  `json:"pricePerDay" validate:"omitempty,gt=0" msg:"Price per day must be a positive number"`
	Availability *bool     `json:"availability"`
	Features     *[]string `json:"features"`
	Images       *[]string `json:"images"`
	Location     *string   `json:"location"`
}

// ToPatch maps the request to a domain patch.
func (r UpdateCarRequest) ToPatch() domain.CarPatch {
	return domain.CarPatch{
		Make:         r.Make,
		Model:        r.Model,
		Year:         r.Year,
		Category:     r.Category,
		PricePerDay:  r.PricePerDay,
		Availability: r.Availability,
		Features:     r.Features,
		Images:       r.Images,
		Location:     r.Location,
	}
}

// CarResponse is the public view of a car.
type CarResponse struct {
	ID           string    `json:"id"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	Category     string    `json:"category"`
	PricePerDay  float64   `json:"pricePerDay"`
	Availability bool      `json:"availability"`
	Features     []string  `json:"features"`
	Images       []string  `json:"images"`
	Location     string    `json:"location"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewCarResponse maps a domain car.
func NewCarResponse(c *domain.Car) CarResponse {
	return CarResponse{
		ID:           c.ID,
		Make:         c.Make,
		Model:        c.Model,
		Year:         c.Year,
		Category:     c.Category,
		PricePerDay:  c.PricePerDay,
		Availability: c.Availability,
		Features:     orEmpty(c.Features),
		Images:       orEmpty(c.Images),
		Location:     c.Location,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
