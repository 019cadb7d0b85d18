package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/firmdata/dataroom/internal/errs"
	"github.com/firmdata/dataroom/internal/repository"
	"github.com/jackc/pgx/v5"
)

// UserStore is the subset of the users repository the identity service
// needs.
type UserStore interface {
	GetByAuthID(ctx context.Context, authUserID string) (*repository.AppUser, error)
}

// IdentityService resolves verified token subjects to app-user rows.
type IdentityService struct {
	users UserStore
}

func NewIdentityService(users UserStore) *IdentityService {
	return &IdentityService{users: users}
}

// ResolveAuthSubject returns the app user behind an auth subject.
//
// A valid token whose subject has no app_users row is treated as
// unauthenticated (401), not as a missing resource: the caller has no
// identity inside any firm.
func (s *IdentityService) ResolveAuthSubject(ctx context.Context, authUserID string) (*repository.AppUser, error) {
	user, err := s.users.GetByAuthID(ctx, authUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NewUnauthorizedError("Unknown user", false)
		}
		return nil, err
	}

	return user, nil
}
