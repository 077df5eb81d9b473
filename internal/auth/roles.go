package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusvoice/issue-service/internal/domain"
	apperrors "github.com/campusvoice/issue-service/pkg/util/errorutil"
)

// RequireRole ensures the identity holds one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[identity.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAdmin restricts a route group to administrators.
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}

// RequireStudent restricts a route group to students.
func RequireStudent() fiber.Handler {
	return RequireRole(domain.RoleStudent)
}
