package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/campusvoice/issue-service/internal/auth"
	"github.com/campusvoice/issue-service/internal/config"
	"github.com/campusvoice/issue-service/internal/domain"
	"github.com/campusvoice/issue-service/internal/events"
	"github.com/campusvoice/issue-service/internal/repository"
	apperrors "github.com/campusvoice/issue-service/pkg/util/errorutil"
)

// studentNamespace seeds the deterministic student ids derived from emails.
var studentNamespace = uuid.MustParse("8f1d7c52-3c1e-4c55-9a43-6d1f0b2a7e10")

// Session is the result of a successful authentication.
type Session struct {
	ID        string
	Identity  domain.Identity
	Token     string
	ExpiresAt time.Time
}

// SessionService coordinates login, logout and session restoration.
type SessionService struct {
	sessions   repository.SessionRepository
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	admin      domain.Identity
	adminHash  string
	now        func() time.Time
}

// SessionDependencies bundles collaborators for the session service.
type SessionDependencies struct {
	SessionRepo repository.SessionRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewSessionService builds the service and hashes the privileged secret.
func NewSessionService(cfg config.AuthConfig, deps SessionDependencies) (*SessionService, error) {
	hash, err := auth.HashSecret(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		sessions:   deps.SessionRepo,
		tokens:     auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL()),
		dispatcher: deps.Dispatcher,
		logger:     logger,
		admin: domain.Identity{
			ID:    cfg.AdminID,
			Name:  cfg.AdminName,
			Email: strings.ToLower(cfg.AdminEmail),
			Role:  domain.RoleAdmin,
		},
		adminHash: hash,
		now:       defaultClock,
	}, nil
}

// Authenticate exchanges credentials for a persisted session. The configured
// admin pair yields the admin identity; any other non-empty pair yields a
// student identity derived from the email.
func (s *SessionService) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.NewAuthenticationError("email and password required")
	}

	var identity domain.Identity
	message := "Logged in successfully"
	if email == s.admin.Email {
		if !auth.SecretMatches(s.adminHash, password) {
			return nil, apperrors.NewAuthenticationError("invalid credentials")
		}
		identity = s.admin
		message = "Logged in as Administrator"
	} else {
		identity = studentIdentity(email)
	}

	sessionID := uuid.NewString()
	if err := s.sessions.Save(ctx, sessionID, identity, s.tokens.TTL()); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	token, expiresAt, err := s.tokens.GenerateToken(identity, sessionID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventSessionStarted,
		Actor:   actorOf(identity),
		Message: message,
	}, s.now)
	return &Session{ID: sessionID, Identity: identity, Token: token, ExpiresAt: expiresAt}, nil
}

// EndSession removes the session record named by token. Other sessions of
// the same identity stay valid. It never fails.
func (s *SessionService) EndSession(ctx context.Context, identity domain.Identity, token string) {
	claims, err := s.tokens.ParseToken(token)
	switch {
	case err != nil:
		s.logger.Warn("cannot resolve session to end", zap.String("identity_id", identity.ID), zap.Error(err))
	case claims.Subject != identity.ID:
		s.logger.Warn("session belongs to another identity", zap.String("identity_id", identity.ID))
	default:
		if err := s.sessions.Delete(ctx, claims.ID); err != nil {
			s.logger.Warn("failed to remove session record", zap.String("identity_id", identity.ID), zap.Error(err))
		}
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventSessionEnded,
		Actor:   actorOf(identity),
		Message: "Logged out successfully",
	}, s.now)
}

// RestoreSession resolves a token to its persisted identity. Missing, expired
// or unreadable state reports ok == false.
func (s *SessionService) RestoreSession(ctx context.Context, token string) (*domain.Identity, bool) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, false
	}
	identity, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("failed to read session record", zap.String("session_id", claims.ID), zap.Error(err))
		}
		return nil, false
	}
	if identity.ID != claims.Subject || identity.Role != claims.Role || !identity.Role.Valid() {
		return nil, false
	}
	return identity, true
}

// TokenManager exposes the underlying token manager.
func (s *SessionService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func studentIdentity(email string) domain.Identity {
	return domain.Identity{
		ID:    uuid.NewSHA1(studentNamespace, []byte(email)).String(),
		Name:  displayName(email),
		Email: email,
		Role:  domain.RoleStudent,
	}
}

// displayName turns "jane.doe@campus.edu" into "Jane Doe".
func displayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(local)
	local = strings.Join(strings.Fields(local), " ")
	if local == "" {
		return email
	}
	return cases.Title(language.English).String(local)
}
