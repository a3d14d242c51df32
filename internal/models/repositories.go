package models

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateTransaction is returned by TransactionRepository.Create when
// the aggregator transaction ID already exists in the store.
var ErrDuplicateTransaction = errors.New("duplicate aggregator transaction id")

// ItemRepository defines data access for Items.
type ItemRepository interface {
	Create(ctx context.Context, params CreateItemParams) (*Item, error)
	ListByUserID(ctx context.Context, userID int64) ([]*Item, error)
	GetByAggregatorItemID(ctx context.Context, aggregatorItemID string) (*Item, error)
	SetError(ctx context.Context, id string, message *string) error
	Deactivate(ctx context.Context, id string) error
}

// AccountRepository defines data access for Accounts.
type AccountRepository interface {
	Create(ctx context.Context, params CreateAccountParams) (*Account, error)
	ListByUserID(ctx context.Context, userID int64) ([]*Account, error)
	GetByAggregatorAccountID(ctx context.Context, aggregatorAccountID string) (*Account, error)
	UpdateBalances(ctx context.Context, id int64, balances BalanceSnapshot, syncedAt time.Time) error
	TouchLastSynced(ctx context.Context, id int64, syncedAt time.Time) error
	Deactivate(ctx context.Context, id int64) error
}

// TransactionRepository defines data access for Transactions.
type TransactionRepository interface {
	Create(ctx context.Context, params CreateTransactionParams) (*Transaction, error)
	GetByAggregatorTransactionID(ctx context.Context, aggregatorTransactionID string) (*Transaction, error)
	ListByAccountID(ctx context.Context, accountID int64, limit, offset int) ([]*Transaction, error)
}

// UserRepository defines the data access the sync pipeline and scheduler
// need for Users.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	ListWithLinkedItems(ctx context.Context) ([]*User, error)
}
