package service

import (
	"context"

	"github.com/firmdata/dataroom/internal/repository"
)

// ClientStore is the subset of the clients repository used here.
type ClientStore interface {
	ListByIDs(ctx context.Context, firmID string, clientIDs []string) ([]repository.Client, error)
}

// AccessStore exposes the access-grant table. A grant row is the sole
// source of a user's authority over a client.
type AccessStore interface {
	GrantExists(ctx context.Context, userID, firmID, clientID string) (bool, error)
	AccessibleClientIDs(ctx context.Context, userID, firmID string) ([]string, error)
}

// ClientService lists the clients a user may act on.
type ClientService struct {
	clients ClientStore
	access  AccessStore
}

func NewClientService(clients ClientStore, access AccessStore) *ClientService {
	return &ClientService{clients: clients, access: access}
}

// ListAccessible returns the caller's firm's clients restricted to
// those the caller holds an access grant for. No grants means an empty
// list, not an error.
func (s *ClientService) ListAccessible(ctx context.Context, user *repository.AppUser) ([]repository.Client, error) {
	clientIDs, err := s.access.AccessibleClientIDs(ctx, user.ID, user.FirmID)
	if err != nil {
		return nil, err
	}

	return s.clients.ListByIDs(ctx, user.FirmID, clientIDs)
}
