package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/car-rental/internal/domain"
	apperrors "github.com/spec-kit/car-rental/pkg/util/errorutil"
)

// RequireRole ensures the authenticated user holds one of the allowed roles.
// It must run after AuthMiddleware.Handle.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if _, exists := allowedSet[principal.User.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAdmin gates inventory and booking administration.
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}
