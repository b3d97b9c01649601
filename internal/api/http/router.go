package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/car-rental/internal/api/http/handlers"
	"github.com/spec-kit/car-rental/internal/auth"
	"github.com/spec-kit/car-rental/internal/observability"
)

// apiPrefix is the base path the browser client uses.
const apiPrefix = "/api"

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Cars           *handlers.CarsHandler
	Bookings       *handlers.BookingsHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimiter    *RateLimiter
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes at the root and again under /api.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	registerAPI(app, cfg)
	registerAPI(app.Group(apiPrefix), cfg)
}

func registerAPI(router fiber.Router, cfg RouteConfig) {
	authenticated := cfg.AuthMiddleware.Handle
	admin := auth.RequireAdmin()

	authGroup := router.Group("/auth")
	if cfg.RateLimiter != nil {
		authGroup.Post("/register", cfg.RateLimiter.Handle, cfg.Auth.Register)
		authGroup.Post("/login", cfg.RateLimiter.Handle, cfg.Auth.Login)
	} else {
		authGroup.Post("/register", cfg.Auth.Register)
		authGroup.Post("/login", cfg.Auth.Login)
	}
	authGroup.Get("/profile", authenticated, cfg.Auth.Profile)

	cars := router.Group("/cars")
	cars.Get("/", cfg.Cars.ListCars)
	cars.Get("/:id", cfg.Cars.GetCar)
	cars.Post("/", authenticated, admin, cfg.Cars.CreateCar)
	cars.Put("/:id", authenticated, admin, cfg.Cars.UpdateCar)
	cars.Delete("/:id", authenticated, admin, cfg.Cars.DeleteCar)

	bookings := router.Group("/bookings", authenticated)
	bookings.Get("/", cfg.Bookings.ListBookings)
	bookings.Post("/", cfg.Bookings.CreateBooking)
	bookings.Put("/:id", cfg.Bookings.UpdateBooking)
	bookings.Delete("/:id", cfg.Bookings.CancelBooking)
	bookings.Post("/:id/confirm", admin, cfg.Bookings.ConfirmBooking)
}
