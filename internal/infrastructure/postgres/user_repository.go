package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"finch/internal/models"
)

// UserRepository implements models.UserRepository for PostgreSQL. Users
// are owned by the (external) auth layer; this repository only reads what
// the sync pipeline and scheduler need.
type UserRepository struct {
	db *DB
}

var _ models.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, email, name, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// ListWithLinkedItems returns the users that have at least one active
// item, i.e. the users the scheduler should enqueue sync jobs for.
func (r *UserRepository) ListWithLinkedItems(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT DISTINCT u.id, u.email, u.name, u.created_at, u.updated_at
		FROM users u
		JOIN items i ON i.user_id = u.id
		WHERE i.is_active = TRUE
		ORDER BY u.id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users with linked items: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}
