package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/car-rental/internal/api/dto"
)

// bind decodes the JSON body into req and runs its struct-tag validation.
func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return dto.DecodeError(err)
	}
	return dto.Validate(req)
}
