package middleware

import (
	"strings"
	"time"

	"github.com/firmdata/dataroom/internal/errs"
	"github.com/firmdata/dataroom/internal/repository"
	"github.com/firmdata/dataroom/internal/server"
	"github.com/firmdata/dataroom/internal/service"
	"github.com/firmdata/dataroom/internal/token"
	"github.com/labstack/echo/v4"
)

const (
	// CurrentUserKey stores the resolved *repository.AppUser in Echo
	// context for handlers to read.
	CurrentUserKey = "current_user"
)

// AuthMiddleware verifies bearer tokens and resolves the token subject
// to an app user before handlers run.
type AuthMiddleware struct {
	server   *server.Server
	identity *service.IdentityService
}

func NewAuthMiddleware(s *server.Server, services *service.Services) *AuthMiddleware {
	return &AuthMiddleware{
		server:   s,
		identity: services.Identity,
	}
}

// RequireAuth enforces authentication on a route group.
//
// Behavior:
//  1. Read Authorization: Bearer <token>.
//  2. Verify signature and expiry against the configured secret.
//  3. Resolve the token subject to an app_users row; an unknown subject
//     is a 401, never a 404.
//  4. Store the user in Echo context under CurrentUserKey, plus
//     user_id/user_role for logging middleware.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return errs.NewUnauthorizedError("Missing authorization header", false)
		}

		scheme, tokenString, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
			return errs.NewUnauthorizedError("Invalid authorization header", false)
		}

		claims, err := token.Parse(tokenString, []byte(auth.server.Config.Auth.SecretKey))
		if err != nil {
			auth.server.Logger.Warn().
				Str("function", "RequireAuth").
				Str("request_id", GetRequestID(c)).
				Dur("duration", time.Since(start)).
				Err(err).
				Msg("token verification failed")

			if err == token.ErrTokenExpired {
				return errs.NewUnauthorizedError("Token expired", false)
			}
			return errs.NewUnauthorizedError("Invalid token", false)
		}

		user, err := auth.identity.ResolveAuthSubject(c.Request().Context(), claims.Subject)
		if err != nil {
			return err
		}

		c.Set(CurrentUserKey, user)
		c.Set(UserIDKey, user.ID)
		c.Set(UserRoleKey, user.Role)

		auth.server.Logger.Info().
			Str("function", "RequireAuth").
			Str("user_id", user.ID).
			Str("request_id", GetRequestID(c)).
			Dur("duration", time.Since(start)).
			Msg("user authenticated successfully")

		return next(c)
	}
}

// GetCurrentUser returns the authenticated user stored by RequireAuth,
// or nil when the route is unauthenticated.
func GetCurrentUser(c echo.Context) *repository.AppUser {
	if user, ok := c.Get(CurrentUserKey).(*repository.AppUser); ok {
		return user
	}
	return nil
}
