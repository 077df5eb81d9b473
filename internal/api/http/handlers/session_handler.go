package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusvoice/issue-service/internal/api/dto"
	"github.com/campusvoice/issue-service/internal/auth"
	"github.com/campusvoice/issue-service/internal/domain"
	"github.com/campusvoice/issue-service/internal/service"
	apperrors "github.com/campusvoice/issue-service/pkg/util/errorutil"
)

// SessionHandler exposes login, logout and identity endpoints.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler constructs handler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Login handles POST /auth/login.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	session, err := h.sessions.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	message := "Logged in successfully"
	if session.Identity.IsAdmin() {
		message = "Logged in as Administrator"
	}
	return c.JSON(fiber.Map{
		"data": dto.SessionResponse{
			Identity: identityResponse(session.Identity),
			Auth:     dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
			Message:  message,
		},
	})
}

// Logout handles POST /auth/logout.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	h.sessions.EndSession(c.UserContext(), *identity, auth.TokenFromContext(c))
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "Logged out successfully"}})
}

// Me handles GET /auth/me.
func (h *SessionHandler) Me(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": identityResponse(*identity)})
}

func currentIdentity(c *fiber.Ctx) (*domain.Identity, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return identity, nil
}

func identityResponse(identity domain.Identity) dto.IdentityResponse {
	return dto.IdentityResponse{
		ID:    identity.ID,
		Name:  identity.Name,
		Email: identity.Email,
		Role:  identity.Role,
	}
}
