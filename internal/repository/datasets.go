package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Dataset statuses. Transitions are one-way in practice: created ->
// processing -> ready, with error as a terminal side exit. The schema
// CHECK constraint rejects anything else.
const (
	DatasetStatusCreated    = "created"
	DatasetStatusProcessing = "processing"
	DatasetStatusReady      = "ready"
	DatasetStatusError      = "error"
)

// Dataset is a row in upload_batches: a named collection of uploaded
// files belonging to one of a firm's clients.
type Dataset struct {
	ID        string    `json:"id"`
	FirmID    string    `json:"firm_id"`
	ClientID  string    `json:"client_id"`
	Name      string    `json:"name"`
	Notes     *string   `json:"notes"`
	Status    string    `json:"status"`
	CreatedBy *string   `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// DatasetsRepository reads and writes upload_batches.
type DatasetsRepository struct {
	pool *pgxpool.Pool
}

func NewDatasetsRepository(pool *pgxpool.Pool) *DatasetsRepository {
	return &DatasetsRepository{pool: pool}
}

// Insert creates a dataset in status "created" and returns the stored row.
func (r *DatasetsRepository) Insert(ctx context.Context, firmID, clientID, name string, notes *string, createdBy string) (*Dataset, error) {
	query := `
		INSERT INTO upload_batches (firm_id, client_id, name, notes, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text, firm_id::text, client_id::text, name, notes, status, created_by::text, created_at`

	d := &Dataset{}
	err := r.pool.QueryRow(ctx, query, firmID, clientID, name, notes, DatasetStatusCreated, createdBy).Scan(
		&d.ID, &d.FirmID, &d.ClientID, &d.Name, &d.Notes, &d.Status, &d.CreatedBy, &d.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("table:upload_batches: %w", err)
	}

	return d, nil
}

// GetByID fetches a dataset scoped to a firm. Rows belonging to another
// firm surface as not-found, never as forbidden.
func (r *DatasetsRepository) GetByID(ctx context.Context, datasetID, firmID string) (*Dataset, error) {
	query := `
		SELECT id::text, firm_id::text, client_id::text, name, notes, status, created_by::text, created_at
		FROM upload_batches
		WHERE id = $1 AND firm_id = $2`

	d := &Dataset{}
	err := r.pool.QueryRow(ctx, query, datasetID, firmID).Scan(
		&d.ID, &d.FirmID, &d.ClientID, &d.Name, &d.Notes, &d.Status, &d.CreatedBy, &d.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("table:upload_batches: %w", err)
	}

	return d, nil
}

// ListByClients returns the firm's datasets restricted to the given
// client ids, newest first. An empty id list short-circuits.
func (r *DatasetsRepository) ListByClients(ctx context.Context, firmID string, clientIDs []string) ([]Dataset, error) {
	datasets := []Dataset{}
	if len(clientIDs) == 0 {
		return datasets, nil
	}

	query := `
		SELECT id::text, firm_id::text, client_id::text, name, notes, status, created_by::text, created_at
		FROM upload_batches
		WHERE firm_id = $1 AND client_id = ANY($2::uuid[])
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, firmID, clientIDs)
	if err != nil {
		return nil, fmt.Errorf("table:upload_batches: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d Dataset
		if err := rows.Scan(&d.ID, &d.FirmID, &d.ClientID, &d.Name, &d.Notes, &d.Status, &d.CreatedBy, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("table:upload_batches: %w", err)
		}
		datasets = append(datasets, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("table:upload_batches: %w", err)
	}

	return datasets, nil
}

// ListByStatus returns the firm's datasets with the given status,
// restricted to the given client ids, newest first.
func (r *DatasetsRepository) ListByStatus(ctx context.Context, firmID string, clientIDs []string, status string) ([]Dataset, error) {
	datasets := []Dataset{}
	if len(clientIDs) == 0 {
		return datasets, nil
	}

	query := `
		SELECT id::text, firm_id::text, client_id::text, name, notes, status, created_by::text, created_at
		FROM upload_batches
		WHERE firm_id = $1 AND client_id = ANY($2::uuid[]) AND status = $3
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, firmID, clientIDs, status)
	if err != nil {
		return nil, fmt.Errorf("table:upload_batches: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d Dataset
		if err := rows.Scan(&d.ID, &d.FirmID, &d.ClientID, &d.Name, &d.Notes, &d.Status, &d.CreatedBy, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("table:upload_batches: %w", err)
		}
		datasets = append(datasets, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("table:upload_batches: %w", err)
	}

	return datasets, nil
}

// UpdateStatus sets a dataset's status within its firm and reports how
// many rows changed.
func (r *DatasetsRepository) UpdateStatus(ctx context.Context, datasetID, firmID, status string) (int64, error) {
	query := `
		UPDATE upload_batches
		SET status = $3
		WHERE id = $1 AND firm_id = $2`

	tag, err := r.pool.Exec(ctx, query, datasetID, firmID, status)
	if err != nil {
		return 0, fmt.Errorf("table:upload_batches: %w", err)
	}

	return tag.RowsAffected(), nil
}
