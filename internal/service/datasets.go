package service

import (
	"context"

	"github.com/firmdata/dataroom/internal/errs"
	"github.com/firmdata/dataroom/internal/lib/job"
	"github.com/firmdata/dataroom/internal/repository"
	"github.com/rs/zerolog"
)

// DatasetStore is the subset of the datasets repository used here.
type DatasetStore interface {
	Insert(ctx context.Context, firmID, clientID, name string, notes *string, createdBy string) (*repository.Dataset, error)
	GetByID(ctx context.Context, datasetID, firmID string) (*repository.Dataset, error)
	ListByClients(ctx context.Context, firmID string, clientIDs []string) ([]repository.Dataset, error)
	ListByStatus(ctx context.Context, firmID string, clientIDs []string, status string) ([]repository.Dataset, error)
	UpdateStatus(ctx context.Context, datasetID, firmID, status string) (int64, error)
}

// FileStore is the subset of the files repository used here.
type FileStore interface {
	Insert(ctx context.Context, f *repository.DatasetFile) (*repository.DatasetFile, error)
	ListByDataset(ctx context.Context, datasetID, firmID string) ([]repository.DatasetFile, error)
	CountByDatasetAndStatus(ctx context.Context, datasetID, firmID, status string) (int, error)
	MarkProcessed(ctx context.Context, datasetID, firmID string) (int64, error)
}

// Integrity summarizes a dataset's file-level state.
type Integrity struct {
	FilesTotal     int      `json:"files_total"`
	FilesProcessed int      `json:"files_processed"`
	Errors         []string `json:"errors"`
	Warnings       []string `json:"warnings"`
}

// DatasetDetail is a dataset with its files and integrity summary.
type DatasetDetail struct {
	Dataset   *repository.Dataset      `json:"dataset"`
	Files     []repository.DatasetFile `json:"files"`
	Integrity Integrity                `json:"integrity"`
}

// ProcessResult reports the outcome of processing a dataset.
type ProcessResult struct {
	DatasetID string    `json:"dataset_id"`
	Status    string    `json:"status"`
	Integrity Integrity `json:"integrity"`
}

// FileInput is the metadata registered for an uploaded file.
type FileInput struct {
	Filename    string
	FileType    string
	StoragePath string
	SizeBytes   int64
}

// DatasetService implements dataset CRUD plus processing, enforcing
// the access-grant rule on every operation.
type DatasetService struct {
	log      *zerolog.Logger
	datasets DatasetStore
	files    FileStore
	access   AccessStore

	// jobs is optional; when nil (tests, degraded redis) processing
	// skips the follow-up notification.
	jobs *job.JobService
}

func NewDatasetService(log *zerolog.Logger, datasets DatasetStore, files FileStore, access AccessStore, jobs *job.JobService) *DatasetService {
	return &DatasetService{
		log:      log,
		datasets: datasets,
		files:    files,
		access:   access,
		jobs:     jobs,
	}
}

// requireClientAccess enforces the core access rule: a user may act on
// a client only if an access-grant row joins (user, firm, client).
func (s *DatasetService) requireClientAccess(ctx context.Context, user *repository.AppUser, clientID string) error {
	ok, err := s.access.GrantExists(ctx, user.ID, user.FirmID, clientID)
	if err != nil {
		return err
	}
	if !ok {
		return errs.NewForbiddenError("User does not have access to this client", false)
	}
	return nil
}

// Create creates a dataset for a client the caller has access to.
func (s *DatasetService) Create(ctx context.Context, user *repository.AppUser, clientID, name string, notes *string) (*repository.Dataset, error) {
	if err := s.requireClientAccess(ctx, user, clientID); err != nil {
		return nil, err
	}

	return s.datasets.Insert(ctx, user.FirmID, clientID, name, notes, user.ID)
}

// List returns the caller's firm's datasets restricted to accessible
// clients. No grants means an empty list.
func (s *DatasetService) List(ctx context.Context, user *repository.AppUser) ([]repository.Dataset, error) {
	clientIDs, err := s.access.AccessibleClientIDs(ctx, user.ID, user.FirmID)
	if err != nil {
		return nil, err
	}

	return s.datasets.ListByClients(ctx, user.FirmID, clientIDs)
}

// fetchAuthorized loads a firm-scoped dataset and verifies the caller's
// grant for its client. Missing rows (including other firms' rows)
// surface as 404 before the grant check runs, so cross-firm probing
// cannot distinguish "absent" from "forbidden".
func (s *DatasetService) fetchAuthorized(ctx context.Context, user *repository.AppUser, datasetID string) (*repository.Dataset, error) {
	dataset, err := s.datasets.GetByID(ctx, datasetID, user.FirmID)
	if err != nil {
		return nil, err
	}

	if err := s.requireClientAccess(ctx, user, dataset.ClientID); err != nil {
		return nil, err
	}

	return dataset, nil
}

// Detail returns a dataset with its files and integrity summary.
func (s *DatasetService) Detail(ctx context.Context, user *repository.AppUser, datasetID string) (*DatasetDetail, error) {
	dataset, err := s.fetchAuthorized(ctx, user, datasetID)
	if err != nil {
		return nil, err
	}

	files, err := s.files.ListByDataset(ctx, datasetID, user.FirmID)
	if err != nil {
		return nil, err
	}

	processed := 0
	for _, f := range files {
		if f.Status == repository.FileStatusProcessed {
			processed++
		}
	}

	return &DatasetDetail{
		Dataset: dataset,
		Files:   files,
		Integrity: Integrity{
			FilesTotal:     len(files),
			FilesProcessed: processed,
			Errors:         []string{},
			Warnings:       []string{},
		},
	}, nil
}

// AddFile registers an uploaded file against a dataset.
func (s *DatasetService) AddFile(ctx context.Context, user *repository.AppUser, datasetID string, input FileInput) (*repository.DatasetFile, error) {
	dataset, err := s.fetchAuthorized(ctx, user, datasetID)
	if err != nil {
		return nil, err
	}

	return s.files.Insert(ctx, &repository.DatasetFile{
		FirmID:      user.FirmID,
		ClientID:    dataset.ClientID,
		DatasetID:   datasetID,
		Filename:    input.Filename,
		FileType:    input.FileType,
		StoragePath: input.StoragePath,
		SizeBytes:   input.SizeBytes,
	})
}

// Process marks a dataset ready and its files processed, then enqueues
// a notification for the caller. The status flip is synchronous; only
// the email rides the queue.
func (s *DatasetService) Process(ctx context.Context, user *repository.AppUser, datasetID string) (*ProcessResult, error) {
	dataset, err := s.fetchAuthorized(ctx, user, datasetID)
	if err != nil {
		return nil, err
	}

	if _, err := s.datasets.UpdateStatus(ctx, datasetID, user.FirmID, repository.DatasetStatusReady); err != nil {
		return nil, err
	}

	filesProcessed, err := s.files.MarkProcessed(ctx, datasetID, user.FirmID)
	if err != nil {
		return nil, err
	}

	s.notifyProcessed(user, dataset, int(filesProcessed))

	return &ProcessResult{
		DatasetID: datasetID,
		Status:    repository.DatasetStatusReady,
		Integrity: Integrity{
			FilesTotal:     int(filesProcessed),
			FilesProcessed: int(filesProcessed),
			Errors:         []string{},
			Warnings:       []string{},
		},
	}, nil
}

// notifyProcessed enqueues the dataset-processed email. Enqueue
// failures are logged, never surfaced: the dataset is already ready.
func (s *DatasetService) notifyProcessed(user *repository.AppUser, dataset *repository.Dataset, filesProcessed int) {
	if s.jobs == nil {
		return
	}

	task, err := job.NewDatasetProcessedTask(user.Email, dataset.Name, dataset.ID, filesProcessed)
	if err != nil {
		s.log.Error().Err(err).Str("dataset_id", dataset.ID).Msg("failed to build dataset processed task")
		return
	}

	if _, err := s.jobs.Client.Enqueue(task); err != nil {
		s.log.Error().Err(err).Str("dataset_id", dataset.ID).Msg("failed to enqueue dataset processed task")
	}
}
