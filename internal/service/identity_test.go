package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/firmdata/dataroom/internal/repository"
	"github.com/jackc/pgx/v5"
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

func TestResolveAuthSubjectKnownUser(t *testing.T) {
	t.Parallel()

	svc := NewIdentityService(&stubUserStore{users: map[string]*repository.AppUser{
		"auth-1": {ID: "u1", AuthUserID: "auth-1", FirmID: "firm1"},
	}})

	user, err := svc.ResolveAuthSubject(context.Background(), "auth-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("expected u1, got %q", user.ID)
	}
}

func TestResolveAuthSubjectUnknownUserIsUnauthorized(t *testing.T) {
	t.Parallel()

	svc := NewIdentityService(&stubUserStore{users: map[string]*repository.AppUser{}})

	// A valid token over a subject with no app_users row is treated as
	// unauthenticated, not as a missing resource.
	_, err := svc.ResolveAuthSubject(context.Background(), "auth-ghost")
	if err == nil {
		t.Fatal("expected error for unknown subject")
	}
	assertStatus(t, err, http.StatusUnauthorized)
}
