package service

import (
	"context"
	"testing"

	"github.com/firmdata/dataroom/internal/repository"
)

type stubClientStore struct {
	byFirm map[string][]repository.Client
	gotIDs []string
}

func (s *stubClientStore) ListByIDs(_ context.Context, firmID string, clientIDs []string) ([]repository.Client, error) {
	s.gotIDs = clientIDs
	if len(clientIDs) == 0 {
		return []repository.Client{}, nil
	}

	out := []repository.Client{}
	want := map[string]bool{}
	for _, id := range clientIDs {
		want[id] = true
	}
	for _, c := range s.byFirm[firmID] {
		if want[c.ID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func TestListAccessibleWithoutGrantsIsEmpty(t *testing.T) {
	t.Parallel()

	clients := &stubClientStore{byFirm: map[string][]repository.Client{
		"firm1": {{ID: "c1", FirmID: "firm1", Name: "Acme"}},
	}}
	access := &stubAccessStore{accessible: []string{}}
	svc := NewClientService(clients, access)

	out, err := svc.ListAccessible(context.Background(), testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty list, got %d clients", len(out))
	}
}

func TestListAccessibleFiltersToGrantedClients(t *testing.T) {
	t.Parallel()

	clients := &stubClientStore{byFirm: map[string][]repository.Client{
		"firm1": {
			{ID: "c1", FirmID: "firm1", Name: "Acme"},
			{ID: "c2", FirmID: "firm1", Name: "Globex"},
		},
	}}
	access := &stubAccessStore{accessible: []string{"c2"}}
	svc := NewClientService(clients, access)

	out, err := svc.ListAccessible(context.Background(), testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].ID != "c2" {
		t.Fatalf("expected only c2, got %+v", out)
	}
	if len(clients.gotIDs) != 1 || clients.gotIDs[0] != "c2" {
		t.Fatalf("expected granted ids forwarded, got %v", clients.gotIDs)
	}
}
