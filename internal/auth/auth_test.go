package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusvoice/issue-service/internal/domain"
	apperrors "github.com/campusvoice/issue-service/pkg/util/errorutil"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	identity := domain.Identity{ID: "admin-1", Role: domain.RoleAdmin}

	token, exp, err := tm.GenerateToken(identity, "session-1")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if time.Until(exp) <= 59*time.Minute {
		t.Fatalf("unexpected expiry %s", exp)
	}
	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken returned error: %v", err)
	}
	if claims.Subject != "admin-1" || claims.ID != "session-1" || claims.Role != domain.RoleAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestTokenRejectsForeignSecretAndExpiry(t *testing.T) {
	issuer := NewTokenManager("secret", time.Minute)
	token, _, err := issuer.GenerateToken(domain.Identity{ID: "s1", Role: domain.RoleStudent}, "session-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenManager("other", time.Minute).ParseToken(token); err == nil {
		t.Fatal("expected signature error")
	}

	late := NewTokenManager("secret", time.Minute)
	late.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := late.ParseToken(token); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestTokenRequiresSessionID(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	token, _, err := tm.GenerateToken(domain.Identity{ID: "s1", Role: domain.RoleStudent}, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tm.ParseToken(token); err == nil {
		t.Fatal("token without a session id must be rejected")
	}
}

func TestSecretHashing(t *testing.T) {
	hash, err := HashSecret("admin123", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if !SecretMatches(hash, "admin123") {
		t.Fatal("expected match")
	}
	if SecretMatches(hash, "wrong") {
		t.Fatal("expected mismatch")
	}
	if _, err := HashSecret("", bcrypt.MinCost); err == nil {
		t.Fatal("empty secret should be rejected")
	}
}

func TestHashSecretClampsCost(t *testing.T) {
	hash, err := HashSecret("admin123", 99)
	if err != nil {
		t.Fatal(err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil || cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d (%v)", cost, err)
	}
}

type stubRestorer map[string]*domain.Identity

func (s stubRestorer) RestoreSession(_ context.Context, token string) (*domain.Identity, bool) {
	identity, ok := s[token]
	return identity, ok
}

func newProtectedApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	mw := NewAuthMiddleware(stubRestorer{
		"student-token": {ID: "s1", Role: domain.RoleStudent},
		"admin-token":   {ID: "a1", Role: domain.RoleAdmin},
	})
	app.Get("/admin", mw.Handle, RequireAdmin(), func(c *fiber.Ctx) error {
		identity, _ := IdentityFromContext(c)
		return c.SendString(identity.ID + "|" + TokenFromContext(c))
	})
	return app
}

func TestAuthMiddlewareAndRoles(t *testing.T) {
	app := newProtectedApp()
	cases := []struct {
		header string
		want   int
	}{
		{"", http.StatusUnauthorized},
		{"Token abc", http.StatusUnauthorized},
		{"Bearer unknown", http.StatusUnauthorized},
		{"Bearer student-token", http.StatusForbidden},
		{"bearer admin-token", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != tc.want {
			t.Errorf("header %q: got status %d, want %d", tc.header, resp.StatusCode, tc.want)
		}
	}
}

func TestAuthMiddlewareExposesToken(t *testing.T) {
	app := newProtectedApp()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "a1|admin-token" {
		t.Fatalf("unexpected body %q", body)
	}
}
