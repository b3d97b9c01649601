package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/car-rental/internal/api/dto"
	"github.com/spec-kit/car-rental/internal/service"
)

// CarsHandler serves the car directory.
type CarsHandler struct {
	service *service.CarService
}

// NewCarsHandler constructs handler.
func NewCarsHandler(carService *service.CarService) *CarsHandler {
	return &CarsHandler{service: carService}
}

// ListCars GET /cars.
func (h *CarsHandler) ListCars(c *fiber.Ctx) error {
	cars, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.CarResponse, 0, len(cars))
	for i := range cars {
		items = append(items, dto.NewCarResponse(&cars[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetCar GET /cars/:id.
func (h *CarsHandler) GetCar(c *fiber.Ctx) error {
	car, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCarResponse(car)})
}

// CreateCar POST /cars.
func (h *CarsHandler) CreateCar(c *fiber.Ctx) error {
	var req dto.CreateCarRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	car, err := h.service.Create(c.UserContext(), req.ToDomain())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCarResponse(car)})
}

// UpdateCar PUT /cars/:id.
func (h *CarsHandler) UpdateCar(c *fiber.Ctx) error {
	var req dto.UpdateCarRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	car, err := h.service.Update(c.UserContext(), c.Params("id"), req.ToPatch())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCarResponse(car)})
}

// DeleteCar DELETE /cars/:id.
func (h *CarsHandler) DeleteCar(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.MessageResponse{Message: "car removed"}})
}
