package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"finch/internal/models"
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations, used to detect dedup insert races.
const uniqueViolation = "23505"

// TransactionRepository implements models.TransactionRepository for
// PostgreSQL. The sync pipeline is insert-only here: imported records are
// never overwritten by a re-sync.
type TransactionRepository struct {
	db *DB
}

var _ models.TransactionRepository = (*TransactionRepository)(nil)

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, user_id, account_id, amount, category, name, date, pending,
	       aggregator_transaction_id, metadata, created_at, updated_at`

func scanTransaction(scan func(dest ...any) error) (*models.Transaction, error) {
	var tx models.Transaction
	var category, aggregatorID sql.NullString
	var metadata []byte

	err := scan(
		&tx.ID, &tx.UserID, &tx.AccountID, &tx.Amount, &category, &tx.Name,
		&tx.Date, &tx.Pending, &aggregatorID, &metadata,
		&tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if category.Valid {
		tx.Category = &category.String
	}
	if aggregatorID.Valid {
		tx.AggregatorTransactionID = &aggregatorID.String
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &tx.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode transaction metadata: %w", err)
		}
	}
	return &tx, nil
}

// Create persists a new transaction. A unique violation on the aggregator
// transaction id is reported as models.ErrDuplicateTransaction so callers
// can treat the race as a skip rather than a failure.
func (r *TransactionRepository) Create(ctx context.Context, params models.CreateTransactionParams) (*models.Transaction, error) {
	var metadata []byte
	if params.Metadata != nil {
		var err error
		metadata, err = json.Marshal(params.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to encode transaction metadata: %w", err)
		}
	}

	query := `
		INSERT INTO transactions (id, user_id, account_id, amount, category, name, date, pending, aggregator_transaction_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + transactionColumns

	tx, err := scanTransaction(r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.UserID, params.AccountID, params.Amount,
		params.Category, params.Name, params.Date, params.Pending,
		params.AggregatorTransactionID, metadata,
	).Scan)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, models.ErrDuplicateTransaction
		}
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return tx, nil
}

func (r *TransactionRepository) GetByAggregatorTransactionID(ctx context.Context, aggregatorTransactionID string) (*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE aggregator_transaction_id = $1
	`

	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, aggregatorTransactionID).Scan)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return tx, nil
}

func (r *TransactionRepository) ListByAccountID(ctx context.Context, accountID int64, limit, offset int) ([]*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}
