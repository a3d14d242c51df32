package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"finch/internal/models"
)

// AccountRepository implements models.AccountRepository for PostgreSQL.
type AccountRepository struct {
	db *DB
}

var _ models.AccountRepository = (*AccountRepository)(nil)

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, user_id, item_id, aggregator_account_id, name, account_type, subtype,
	       available_balance, current_balance, credit_limit, currency, is_active, last_synced_at, created_at, updated_at`

func scanAccount(scan func(dest ...any) error) (*models.Account, error) {
	var acc models.Account
	var lastSyncedAt sql.NullTime

	err := scan(
		&acc.ID, &acc.UserID, &acc.ItemID, &acc.AggregatorAccountID, &acc.Name,
		&acc.AccountType, &acc.Subtype,
		&acc.AvailableBalance, &acc.CurrentBalance, &acc.CreditLimit,
		&acc.Currency, &acc.IsActive, &lastSyncedAt,
		&acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastSyncedAt.Valid {
		acc.LastSyncedAt = &lastSyncedAt.Time
	}
	return &acc, nil
}

func (r *AccountRepository) Create(ctx context.Context, params models.CreateAccountParams) (*models.Account, error) {
	query := `
		INSERT INTO accounts (user_id, item_id, aggregator_account_id, name, account_type, subtype,
		                      available_balance, current_balance, credit_limit, currency, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE)
		RETURNING ` + accountColumns

	acc, err := scanAccount(r.db.QueryRowContext(
		ctx, query,
		params.UserID, params.ItemID, params.AggregatorAccountID, params.Name,
		params.AccountType, params.Subtype,
		params.AvailableBalance, params.CurrentBalance, params.CreditLimit, params.Currency,
	).Scan)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return acc, nil
}

func (r *AccountRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		acc, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}

	return accounts, rows.Err()
}

func (r *AccountRepository) GetByAggregatorAccountID(ctx context.Context, aggregatorAccountID string) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE aggregator_account_id = $1
	`

	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, aggregatorAccountID).Scan)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return acc, nil
}

// UpdateBalances writes a fresh balance snapshot and stamps last_synced_at
// in the same statement.
func (r *AccountRepository) UpdateBalances(ctx context.Context, id int64, balances models.BalanceSnapshot, syncedAt time.Time) error {
	query := `
		UPDATE accounts
		SET available_balance = $2, current_balance = $3, credit_limit = $4,
		    last_synced_at = $5, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, id, balances.Available, balances.Current, balances.Limit, syncedAt); err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}
	return nil
}

// TouchLastSynced stamps last_synced_at without touching balance fields.
func (r *AccountRepository) TouchLastSynced(ctx context.Context, id int64, syncedAt time.Time) error {
	query := `UPDATE accounts SET last_synced_at = $2, updated_at = NOW() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, syncedAt); err != nil {
		return fmt.Errorf("failed to stamp last_synced_at: %w", err)
	}
	return nil
}

// Deactivate soft-deletes the account. Balances are frozen, not deleted,
// and historical transactions keep referencing the row.
func (r *AccountRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE accounts SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to deactivate account: %w", err)
	}
	return nil
}
