package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Client is a row in clients: a firm's managed customer entity.
type Client struct {
	ID        string    `json:"id"`
	FirmID    string    `json:"firm_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ClientsRepository reads clients.
type ClientsRepository struct {
	pool *pgxpool.Pool
}

func NewClientsRepository(pool *pgxpool.Pool) *ClientsRepository {
	return &ClientsRepository{pool: pool}
}

// ListByIDs returns the firm's clients restricted to the given ids,
// ordered by name. An empty id list short-circuits to an empty slice.
func (r *ClientsRepository) ListByIDs(ctx context.Context, firmID string, clientIDs []string) ([]Client, error) {
	clients := []Client{}
	if len(clientIDs) == 0 {
		return clients, nil
	}

	query := `
		SELECT id::text, firm_id::text, name, created_at
		FROM clients
		WHERE firm_id = $1 AND id = ANY($2::uuid[])
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query, firmID, clientIDs)
	if err != nil {
		return nil, fmt.Errorf("table:clients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.FirmID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("table:clients: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("table:clients: %w", err)
	}

	return clients, nil
}
