package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campusvoice/issue-service/internal/domain"
	apperrors "github.com/campusvoice/issue-service/pkg/util/errorutil"
)

const (
	identityKey = "auth_identity"
	tokenKey    = "auth_token"
)

// SessionRestorer resolves a bearer token to the persisted identity.
type SessionRestorer interface {
	RestoreSession(ctx context.Context, token string) (*domain.Identity, bool)
}

// AuthMiddleware validates bearer tokens and loads identities.
type AuthMiddleware struct {
	sessions SessionRestorer
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(sessions SessionRestorer) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	identity, ok := m.sessions.RestoreSession(c.UserContext(), parts[1])
	if !ok {
		return apperrors.NewUnauthorized("session expired or invalid")
	}

	c.Locals(identityKey, identity)
	c.Locals(tokenKey, parts[1])
	return c.Next()
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(*domain.Identity)
	return identity, ok && identity != nil
}

// TokenFromContext returns the bearer token accepted by Handle.
func TokenFromContext(c *fiber.Ctx) string {
	token, _ := c.Locals(tokenKey).(string)
	return token
}
