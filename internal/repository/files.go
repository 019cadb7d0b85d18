package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Uploaded file statuses; the schema CHECK constraint enforces the set.
const (
	FileStatusUploaded  = "uploaded"
	FileStatusProcessed = "processed"
	FileStatusError     = "error"
)

// DatasetFile is a row in uploaded_files: metadata for an object that
// was (or will be) written to storage under StoragePath.
type DatasetFile struct {
	ID          string    `json:"id"`
	FirmID      string    `json:"firm_id"`
	ClientID    string    `json:"client_id"`
	DatasetID   string    `json:"dataset_id"`
	Filename    string    `json:"filename"`
	FileType    string    `json:"file_type"`
	StoragePath string    `json:"storage_path"`
	SizeBytes   int64     `json:"size_bytes"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// FilesRepository reads and writes uploaded_files.
type FilesRepository struct {
	pool *pgxpool.Pool
}

func NewFilesRepository(pool *pgxpool.Pool) *FilesRepository {
	return &FilesRepository{pool: pool}
}

// Insert registers an uploaded file in status "uploaded".
func (r *FilesRepository) Insert(ctx context.Context, f *DatasetFile) (*DatasetFile, error) {
	query := `
		INSERT INTO uploaded_files (firm_id, client_id, dataset_id, filename, file_type, storage_path, size_bytes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id::text, status, created_at`

	stored := *f
	err := r.pool.QueryRow(ctx, query,
		f.FirmID, f.ClientID, f.DatasetID, f.Filename, f.FileType, f.StoragePath, f.SizeBytes, FileStatusUploaded,
	).Scan(&stored.ID, &stored.Status, &stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("table:uploaded_files: %w", err)
	}

	return &stored, nil
}

// ListByDataset returns a dataset's files in upload order.
func (r *FilesRepository) ListByDataset(ctx context.Context, datasetID, firmID string) ([]DatasetFile, error) {
	query := `
		SELECT id::text, firm_id::text, client_id::text, dataset_id::text,
		       filename, file_type, storage_path, size_bytes, status, created_at
		FROM uploaded_files
		WHERE dataset_id = $1 AND firm_id = $2
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, datasetID, firmID)
	if err != nil {
		return nil, fmt.Errorf("table:uploaded_files: %w", err)
	}
	defer rows.Close()

	files := []DatasetFile{}
	for rows.Next() {
		var f DatasetFile
		if err := rows.Scan(
			&f.ID, &f.FirmID, &f.ClientID, &f.DatasetID,
			&f.Filename, &f.FileType, &f.StoragePath, &f.SizeBytes, &f.Status, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("table:uploaded_files: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("table:uploaded_files: %w", err)
	}

	return files, nil
}

// CountByDatasetAndStatus counts a dataset's files in a given status.
func (r *FilesRepository) CountByDatasetAndStatus(ctx context.Context, datasetID, firmID, status string) (int, error) {
	query := `
		SELECT count(*)
		FROM uploaded_files
		WHERE dataset_id = $1 AND firm_id = $2 AND status = $3`

	var count int
	if err := r.pool.QueryRow(ctx, query, datasetID, firmID, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("table:uploaded_files: %w", err)
	}

	return count, nil
}

// MarkProcessed flips all of a dataset's files to "processed" and
// reports how many rows changed.
func (r *FilesRepository) MarkProcessed(ctx context.Context, datasetID, firmID string) (int64, error) {
	query := `
		UPDATE uploaded_files
		SET status = $3
		WHERE dataset_id = $1 AND firm_id = $2`

	tag, err := r.pool.Exec(ctx, query, datasetID, firmID, FileStatusProcessed)
	if err != nil {
		return 0, fmt.Errorf("table:uploaded_files: %w", err)
	}

	return tag.RowsAffected(), nil
}
