package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AppUser is a row in app_users: the application identity behind an
// auth subject, scoped to a firm.
type AppUser struct {
	ID         string    `json:"id"`
	AuthUserID string    `json:"auth_user_id"`
	FirmID     string    `json:"firm_id"`
	Role       string    `json:"role"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
}

// UsersRepository reads app_users.
type UsersRepository struct {
	pool *pgxpool.Pool
}

func NewUsersRepository(pool *pgxpool.Pool) *UsersRepository {
	return &UsersRepository{pool: pool}
}

// GetByAuthID looks up the app user for an auth subject. Not-found is
// annotated with the table name so the error funnel can phrase a 404.
func (r *UsersRepository) GetByAuthID(ctx context.Context, authUserID string) (*AppUser, error) {
	query := `
		SELECT id::text, auth_user_id, firm_id::text, role, email, created_at
		FROM app_users
		WHERE auth_user_id = $1`

	user := &AppUser{}
	err := r.pool.QueryRow(ctx, query, authUserID).Scan(
		&user.ID, &user.AuthUserID, &user.FirmID, &user.Role, &user.Email, &user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("table:app_users: %w", err)
	}

	return user, nil
}
