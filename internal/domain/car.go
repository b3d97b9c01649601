package domain

import "time"

// Car is a rentable vehicle. Availability is a static flag set by admins;
// bookings never change it.
type Car struct {
	ID           string
	Make         string
	Model        string
	Year         int
	Category     string
	PricePerDay  float64
	Availability bool
	Features     []string
	Images       []string
	Location     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CarSummary is the car projection attached to bookings.
type CarSummary struct {
	ID          string
	Make        string
	Model       string
	Year        int
	PricePerDay float64
}

// CarPatch lists the car fields an admin may change. Nil means untouched.
type CarPatch struct {
	Make         *string
	Model        *string
	Year         *int
	Category     *string
	PricePerDay  *float64
	Availability *bool
	Features     *[]string
	Images       *[]string
	Location     *string
}

// Apply merges the non-nil fields of p into car.
func (p CarPatch) Apply(car *Car) {
	if p.Make != nil {
		car.Make = *p.Make
	}
	if p.Model != nil {
		car.Model = *p.Model
	}
	if p.Year != nil {
		car.Year = *p.Year
	}
	if p.Category != nil {
		car.Category = *p.Category
	}
	if p.PricePerDay != nil {
		car.PricePerDay = *p.PricePerDay
	}
	if p.Availability != nil {
		car.Availability = *p.Availability
	}
	if p.Features != nil {
		car.Features = *p.Features
	}
	if p.Images != nil {
		car.Images = *p.Images
	}
	if p.Location != nil {
		car.Location = *p.Location
	}
}
