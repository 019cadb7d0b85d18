package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AccessRepository reads client_user_access, the access-grant table
// joining user, firm, and client. A row there is the sole source of a
// user's authority over a client.
type AccessRepository struct {
	pool *pgxpool.Pool
}

func NewAccessRepository(pool *pgxpool.Pool) *AccessRepository {
	return &AccessRepository{pool: pool}
}

// GrantExists reports whether an access-grant row exists for the
// (user, firm, client) triple.
func (r *AccessRepository) GrantExists(ctx context.Context, userID, firmID, clientID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM client_user_access
			WHERE user_id = $1 AND firm_id = $2 AND client_id = $3
		)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, firmID, clientID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("table:client_user_access: %w", err)
	}

	return exists, nil
}

// AccessibleClientIDs returns every client id the user holds a grant
// for within the firm.
func (r *AccessRepository) AccessibleClientIDs(ctx context.Context, userID, firmID string) ([]string, error) {
	query := `
		SELECT client_id::text
		FROM client_user_access
		WHERE user_id = $1 AND firm_id = $2`

	rows, err := r.pool.Query(ctx, query, userID, firmID)
	if err != nil {
		return nil, fmt.Errorf("table:client_user_access: %w", err)
	}
	defer rows.Close()

	clientIDs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("table:client_user_access: %w", err)
		}
		clientIDs = append(clientIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("table:client_user_access: %w", err)
	}

	return clientIDs, nil
}
