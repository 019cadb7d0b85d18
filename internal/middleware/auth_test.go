package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/firmdata/dataroom/internal/config"
	"github.com/firmdata/dataroom/internal/errs"
	"github.com/firmdata/dataroom/internal/repository"
	"github.com/firmdata/dataroom/internal/server"
	"github.com/firmdata/dataroom/internal/service"
	"github.com/firmdata/dataroom/internal/token"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type stubUserStore struct {
	users map[string]*repository.AppUser
}

func (s *stubUserStore) GetByAuthID(_ context.Context, authUserID string) (*repository.AppUser, error) {
	u, ok := s.users[authUserID]
	if !ok {
		return nil, fmt.Errorf("table:app_users: %w", pgx.ErrNoRows)
	}
	return u, nil
}

const testSecret = "test-secret-key"

func newTestAuthMiddleware(users map[string]*repository.AppUser) *AuthMiddleware {
	log := zerolog.Nop()

	s := &server.Server{
		Config: &config.Config{
			Auth: config.AuthConfig{
				SecretKey:       testSecret,
				TokenTTLMinutes: 15,
			},
		},
		Logger: &log,
	}

	services := &service.Services{
		Identity: service.NewIdentityService(&stubUserStore{users: users}),
	}

	return NewAuthMiddleware(s, services)
}

func runRequireAuth(t *testing.T, auth *AuthMiddleware, header string) (*repository.AppUser, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *repository.AppUser
	next := func(c echo.Context) error {
		seen = GetCurrentUser(c)
		return nil
	}

	err := auth.RequireAuth(next)(c)
	return seen, err
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", httpErr.Status)
	}
}

func TestRequireAuthMissingHeader(t *testing.T) {
	t.Parallel()

	auth := newTestAuthMiddleware(nil)

	_, err := runRequireAuth(t, auth, "")
	assertUnauthorized(t, err)
}

func TestRequireAuthWrongScheme(t *testing.T) {
	t.Parallel()

	auth := newTestAuthMiddleware(nil)

	_, err := runRequireAuth(t, auth, "Basic dXNlcjpwYXNz")
	assertUnauthorized(t, err)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	t.Parallel()

	auth := newTestAuthMiddleware(nil)

	_, err := runRequireAuth(t, auth, "Bearer not.a.token")
	assertUnauthorized(t, err)
}

func TestRequireAuthWrongSecret(t *testing.T) {
	t.Parallel()

	auth := newTestAuthMiddleware(nil)

	signed, err := token.Issue("auth-1", "firm1", "analyst", "a@example.com", []byte("other-secret"), time.Minute)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	_, authErr := runRequireAuth(t, auth, "Bearer "+signed)
	assertUnauthorized(t, authErr)
}

func TestRequireAuthUnknownSubject(t *testing.T) {
	t.Parallel()

	auth := newTestAuthMiddleware(map[string]*repository.AppUser{})

	signed, err := token.Issue("auth-ghost", "firm1", "analyst", "a@example.com", []byte(testSecret), time.Minute)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	_, authErr := runRequireAuth(t, auth, "Bearer "+signed)
	assertUnauthorized(t, authErr)
}

func TestRequireAuthSuccess(t *testing.T) {
	t.Parallel()

	want := &repository.AppUser{
		ID:         "u1",
		AuthUserID: "auth-1",
		FirmID:     "firm1",
		Role:       "analyst",
		Email:      "a@example.com",
	}
	auth := newTestAuthMiddleware(map[string]*repository.AppUser{
		"auth-1": want,
	})

	signed, err := token.Issue("auth-1", "firm1", "analyst", "a@example.com", []byte(testSecret), time.Minute)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	seen, authErr := runRequireAuth(t, auth, "Bearer "+signed)
	if authErr != nil {
		t.Fatalf("unexpected error: %v", authErr)
	}
	if seen == nil || seen.ID != "u1" {
		t.Fatalf("expected current user u1, got %+v", seen)
	}
}
