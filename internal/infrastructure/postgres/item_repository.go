package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"finch/internal/models"
)

// ItemRepository implements models.ItemRepository for PostgreSQL.
type ItemRepository struct {
	db *DB
}

var _ models.ItemRepository = (*ItemRepository)(nil)

func NewItemRepository(db *DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Create(ctx context.Context, params models.CreateItemParams) (*models.Item, error) {
	query := `
		INSERT INTO items (id, user_id, aggregator_item_id, access_token, institution_id, institution_name, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING id, user_id, aggregator_item_id, access_token, institution_id, institution_name, error, is_active, created_at, updated_at
	`

	var item models.Item
	var itemErr sql.NullString

	err := r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.UserID, params.AggregatorItemID, params.AccessToken,
		params.InstitutionID, params.InstitutionName,
	).Scan(
		&item.ID, &item.UserID, &item.AggregatorItemID, &item.AccessToken,
		&item.InstitutionID, &item.InstitutionName, &itemErr, &item.IsActive,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	if itemErr.Valid {
		item.Error = &itemErr.String
	}

	return &item, nil
}

func (r *ItemRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Item, error) {
	query := `
		SELECT id, user_id, aggregator_item_id, access_token, institution_id, institution_name, error, is_active, created_at, updated_at
		FROM items
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		var item models.Item
		var itemErr sql.NullString

		err := rows.Scan(
			&item.ID, &item.UserID, &item.AggregatorItemID, &item.AccessToken,
			&item.InstitutionID, &item.InstitutionName, &itemErr, &item.IsActive,
			&item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if itemErr.Valid {
			item.Error = &itemErr.String
		}
		items = append(items, &item)
	}

	return items, rows.Err()
}

func (r *ItemRepository) GetByAggregatorItemID(ctx context.Context, aggregatorItemID string) (*models.Item, error) {
	query := `
		SELECT id, user_id, aggregator_item_id, access_token, institution_id, institution_name, error, is_active, created_at, updated_at
		FROM items
		WHERE aggregator_item_id = $1
	`

	var item models.Item
	var itemErr sql.NullString

	err := r.db.QueryRowContext(ctx, query, aggregatorItemID).Scan(
		&item.ID, &item.UserID, &item.AggregatorItemID, &item.AccessToken,
		&item.InstitutionID, &item.InstitutionName, &itemErr, &item.IsActive,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	if itemErr.Valid {
		item.Error = &itemErr.String
	}

	return &item, nil
}

// SetError records or clears (message == nil) the item-level error state
// reported by the aggregator.
func (r *ItemRepository) SetError(ctx context.Context, id string, message *string) error {
	query := `UPDATE items SET error = $2, updated_at = NOW() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, message); err != nil {
		return fmt.Errorf("failed to set item error: %w", err)
	}
	return nil
}

// Deactivate marks the item inactive and cascades to its accounts. Items
// are never deleted; deactivation is the explicit end of a connection.
func (r *ItemRepository) Deactivate(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE items SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to deactivate item: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET is_active = FALSE, updated_at = NOW() WHERE item_id = $1`, id); err != nil {
		return fmt.Errorf("failed to deactivate item accounts: %w", err)
	}

	return nil
}
