package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/firmdata/dataroom/internal/errs"
	"github.com/firmdata/dataroom/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type stubAccessStore struct {
	grants      map[string]bool
	accessible  []string
	grantCalls  int
	accessCalls int
}

func grantKey(userID, firmID, clientID string) string {
	return userID + "|" + firmID + "|" + clientID
}

func (s *stubAccessStore) GrantExists(_ context.Context, userID, firmID, clientID string) (bool, error) {
	s.grantCalls++
	return s.grants[grantKey(userID, firmID, clientID)], nil
}

func (s *stubAccessStore) AccessibleClientIDs(_ context.Context, userID, firmID string) ([]string, error) {
	s.accessCalls++
	return s.accessible, nil
}

type stubDatasetStore struct {
	byID       map[string]*repository.Dataset
	listed     []repository.Dataset
	inserted   *repository.Dataset
	statusSets map[string]string
	listArgs   []string
}

func (s *stubDatasetStore) Insert(_ context.Context, firmID, clientID, name string, notes *string, createdBy string) (*repository.Dataset, error) {
	s.inserted = &repository.Dataset{
		ID:        "d-new",
		FirmID:    firmID,
		ClientID:  clientID,
		Name:      name,
		Notes:     notes,
		Status:    repository.DatasetStatusCreated,
		CreatedBy: &createdBy,
	}
	return s.inserted, nil
}

func (s *stubDatasetStore) GetByID(_ context.Context, datasetID, firmID string) (*repository.Dataset, error) {
	d, ok := s.byID[datasetID]
	if !ok || d.FirmID != firmID {
		return nil, fmt.Errorf("table:upload_batches: %w", pgx.ErrNoRows)
	}
	return d, nil
}

func (s *stubDatasetStore) ListByClients(_ context.Context, firmID string, clientIDs []string) ([]repository.Dataset, error) {
	s.listArgs = clientIDs
	if len(clientIDs) == 0 {
		return []repository.Dataset{}, nil
	}
	return s.listed, nil
}

func (s *stubDatasetStore) ListByStatus(_ context.Context, firmID string, clientIDs []string, status string) ([]repository.Dataset, error) {
	if len(clientIDs) == 0 {
		return []repository.Dataset{}, nil
	}
	out := []repository.Dataset{}
	for _, d := range s.listed {
		if d.Status == status {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *stubDatasetStore) UpdateStatus(_ context.Context, datasetID, firmID, status string) (int64, error) {
	if s.statusSets == nil {
		s.statusSets = map[string]string{}
	}
	s.statusSets[datasetID] = status
	return 1, nil
}

type stubFileStore struct {
	files     map[string][]repository.DatasetFile
	inserted  *repository.DatasetFile
	processed map[string]int64
}

func (s *stubFileStore) Insert(_ context.Context, f *repository.DatasetFile) (*repository.DatasetFile, error) {
	out := *f
	out.ID = "f-new"
	out.Status = repository.FileStatusUploaded
	s.inserted = &out
	return &out, nil
}

func (s *stubFileStore) ListByDataset(_ context.Context, datasetID, firmID string) ([]repository.DatasetFile, error) {
	return s.files[datasetID], nil
}

func (s *stubFileStore) CountByDatasetAndStatus(_ context.Context, datasetID, firmID, status string) (int, error) {
	n := 0
	for _, f := range s.files[datasetID] {
		if f.Status == status {
			n++
		}
	}
	return n, nil
}

func (s *stubFileStore) MarkProcessed(_ context.Context, datasetID, firmID string) (int64, error) {
	if s.processed == nil {
		s.processed = map[string]int64{}
	}
	n := int64(len(s.files[datasetID]))
	s.processed[datasetID] = n
	return n, nil
}

func testUser() *repository.AppUser {
	return &repository.AppUser{
		ID:     "u1",
		FirmID: "firm1",
		Role:   "analyst",
		Email:  "analyst@example.com",
	}
}

func newTestDatasetService(datasets *stubDatasetStore, files *stubFileStore, access *stubAccessStore) *DatasetService {
	log := zerolog.Nop()
	return NewDatasetService(&log, datasets, files, access, nil)
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.Status != want {
		t.Fatalf("expected status %d, got %d", want, httpErr.Status)
	}
}

func TestDatasetCreateWithoutGrant(t *testing.T) {
	t.Parallel()

	access := &stubAccessStore{grants: map[string]bool{}}
	svc := newTestDatasetService(&stubDatasetStore{}, &stubFileStore{}, access)

	_, err := svc.Create(context.Background(), testUser(), "c1", "Q3 exports", nil)
	if err == nil {
		t.Fatal("expected error for missing grant")
	}
	assertStatus(t, err, http.StatusForbidden)
}

func TestDatasetCreateWithGrant(t *testing.T) {
	t.Parallel()

	access := &stubAccessStore{grants: map[string]bool{
		grantKey("u1", "firm1", "c1"): true,
	}}
	datasets := &stubDatasetStore{}
	svc := newTestDatasetService(datasets, &stubFileStore{}, access)

	d, err := svc.Create(context.Background(), testUser(), "c1", "Q3 exports", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Status != repository.DatasetStatusCreated {
		t.Fatalf("expected status created, got %q", d.Status)
	}
	if d.FirmID != "firm1" || d.ClientID != "c1" {
		t.Fatalf("dataset scoped wrong: firm=%q client=%q", d.FirmID, d.ClientID)
	}
	if d.CreatedBy == nil || *d.CreatedBy != "u1" {
		t.Fatalf("expected created_by u1, got %v", d.CreatedBy)
	}
}

func TestDatasetListWithoutGrantsIsEmpty(t *testing.T) {
	t.Parallel()

	access := &stubAccessStore{accessible: []string{}}
	datasets := &stubDatasetStore{listed: []repository.Dataset{{ID: "d1"}}}
	svc := newTestDatasetService(datasets, &stubFileStore{}, access)

	out, err := svc.List(context.Background(), testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty list, got %d datasets", len(out))
	}
}

func TestDatasetListRestrictedToAccessibleClients(t *testing.T) {
	t.Parallel()

	access := &stubAccessStore{accessible: []string{"c1", "c2"}}
	datasets := &stubDatasetStore{listed: []repository.Dataset{
		{ID: "d1", ClientID: "c1"},
		{ID: "d2", ClientID: "c2"},
	}}
	svc := newTestDatasetService(datasets, &stubFileStore{}, access)

	out, err := svc.List(context.Background(), testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 datasets, got %d", len(out))
	}
	if len(datasets.listArgs) != 2 || datasets.listArgs[0] != "c1" {
		t.Fatalf("expected accessible client ids forwarded, got %v", datasets.listArgs)
	}
}

func TestDatasetDetailCrossFirmIsNotFound(t *testing.T) {
	t.Parallel()

	// Dataset exists but under another firm. Lookup is firm-scoped, so
	// the row is invisible and the grant check never runs.
	access := &stubAccessStore{grants: map[string]bool{}}
	datasets := &stubDatasetStore{byID: map[string]*repository.Dataset{
		"d1": {ID: "d1", FirmID: "firm2", ClientID: "c1"},
	}}
	svc := newTestDatasetService(datasets, &stubFileStore{}, access)

	_, err := svc.Detail(context.Background(), testUser(), "d1")
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected no-rows error, got %v", err)
	}
	if access.grantCalls != 0 {
		t.Fatalf("grant check ran %d times before existence was settled", access.grantCalls)
	}
}

func TestDatasetDetailWithoutGrantIsForbidden(t *testing.T) {
	t.Parallel()

	access := &stubAccessStore{grants: map[string]bool{}}
	datasets := &stubDatasetStore{byID: map[string]*repository.Dataset{
		"d1": {ID: "d1", FirmID: "firm1", ClientID: "c1"},
	}}
	svc := newTestDatasetService(datasets, &stubFileStore{}, access)

	_, err := svc.Detail(context.Background(), testUser(), "d1")
	assertStatus(t, err, http.StatusForbidden)
}

func TestDatasetDetailCountsProcessedFiles(t *testing.T) {
	t.Parallel()

	access := &stubAccessStore{grants: map[string]bool{
		grantKey("u1", "firm1", "c1"): true,
	}}
	datasets := &stubDatasetStore{byID: map[string]*repository.Dataset{
		"d1": {ID: "d1", FirmID: "firm1", ClientID: "c1", Status: repository.DatasetStatusCreated},
	}}
	files := &stubFileStore{files: map[string][]repository.DatasetFile{
		"d1": {
			{ID: "f1", Status: repository.FileStatusProcessed},
			{ID: "f2", Status: repository.FileStatusUploaded},
			{ID: "f3", Status: repository.FileStatusProcessed},
		},
	}}
	svc := newTestDatasetService(datasets, files, access)

	detail, err := svc.Detail(context.Background(), testUser(), "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Integrity.FilesTotal != 3 {
		t.Fatalf("expected 3 files total, got %d", detail.Integrity.FilesTotal)
	}
	if detail.Integrity.FilesProcessed != 2 {
		t.Fatalf("expected 2 processed, got %d", detail.Integrity.FilesProcessed)
	}
}

func TestDatasetAddFileInheritsDatasetScope(t *testing.T) {
	t.Parallel()

	access := &stubAccessStore{grants: map[string]bool{
		grantKey("u1", "firm1", "c1"): true,
	}}
	datasets := &stubDatasetStore{byID: map[string]*repository.Dataset{
		"d1": {ID: "d1", FirmID: "firm1", ClientID: "c1"},
	}}
	files := &stubFileStore{}
	svc := newTestDatasetService(datasets, files, access)

	f, err := svc.AddFile(context.Background(), testUser(), "d1", FileInput{
		Filename:    "export.csv",
		FileType:    "text/csv",
		StoragePath: "firms/firm1/datasets/d1/export.csv",
		SizeBytes:   1024,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.FirmID != "firm1" || f.ClientID != "c1" || f.DatasetID != "d1" {
		t.Fatalf("file scoped wrong: %+v", f)
	}
	if f.Status != repository.FileStatusUploaded {
		t.Fatalf("expected status uploaded, got %q", f.Status)
	}
}

func TestDatasetProcessMarksReadyAndFilesProcessed(t *testing.T) {
	t.Parallel()

	access := &stubAccessStore{grants: map[string]bool{
		grantKey("u1", "firm1", "c1"): true,
	}}
	datasets := &stubDatasetStore{byID: map[string]*repository.Dataset{
		"d1": {ID: "d1", FirmID: "firm1", ClientID: "c1", Name: "Q3 exports"},
	}}
	files := &stubFileStore{files: map[string][]repository.DatasetFile{
		"d1": {
			{ID: "f1", Status: repository.FileStatusUploaded},
			{ID: "f2", Status: repository.FileStatusUploaded},
		},
	}}
	svc := newTestDatasetService(datasets, files, access)

	result, err := svc.Process(context.Background(), testUser(), "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != repository.DatasetStatusReady {
		t.Fatalf("expected status ready, got %q", result.Status)
	}
	if datasets.statusSets["d1"] != repository.DatasetStatusReady {
		t.Fatalf("dataset status not persisted: %v", datasets.statusSets)
	}
	if files.processed["d1"] != 2 {
		t.Fatalf("expected 2 files marked processed, got %d", files.processed["d1"])
	}
	if result.Integrity.FilesProcessed != 2 || result.Integrity.FilesTotal != 2 {
		t.Fatalf("unexpected integrity: %+v", result.Integrity)
	}
}

func TestDatasetProcessWithoutGrantIsForbidden(t *testing.T) {
	t.Parallel()

	access := &stubAccessStore{grants: map[string]bool{}}
	datasets := &stubDatasetStore{byID: map[string]*repository.Dataset{
		"d1": {ID: "d1", FirmID: "firm1", ClientID: "c1"},
	}}
	svc := newTestDatasetService(datasets, &stubFileStore{}, access)

	_, err := svc.Process(context.Background(), testUser(), "d1")
	assertStatus(t, err, http.StatusForbidden)

	if datasets.statusSets != nil {
		t.Fatalf("status must not change on denied access: %v", datasets.statusSets)
	}
}
