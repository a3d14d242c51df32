package sync

import (
	"context"
	"time"

	"finch/internal/infrastructure/aggregator"
	"finch/internal/models"
)

type MockClient struct {
	CreateLinkTokenFunc   func(ctx context.Context, userID int64) (string, error)
	ExchangeTokenFunc     func(ctx context.Context, publicToken string) (*aggregator.TokenExchange, error)
	FetchAccountsFunc     func(ctx context.Context, accessToken string) ([]aggregator.RawAccount, error)
	FetchTransactionsFunc func(ctx context.Context, accessToken string, query aggregator.TransactionQuery) ([]aggregator.RawTransaction, error)
}

func (m *MockClient) CreateLinkToken(ctx context.Context, userID int64) (string, error) {
	if m.CreateLinkTokenFunc != nil {
		return m.CreateLinkTokenFunc(ctx, userID)
	}
	return "", nil
}

func (m *MockClient) ExchangeToken(ctx context.Context, publicToken string) (*aggregator.TokenExchange, error) {
	if m.ExchangeTokenFunc != nil {
		return m.ExchangeTokenFunc(ctx, publicToken)
	}
	return nil, nil
}

func (m *MockClient) FetchAccounts(ctx context.Context, accessToken string) ([]aggregator.RawAccount, error) {
	if m.FetchAccountsFunc != nil {
		return m.FetchAccountsFunc(ctx, accessToken)
	}
	return nil, nil
}

func (m *MockClient) FetchTransactions(ctx context.Context, accessToken string, query aggregator.TransactionQuery) ([]aggregator.RawTransaction, error) {
	if m.FetchTransactionsFunc != nil {
		return m.FetchTransactionsFunc(ctx, accessToken, query)
	}
	return nil, nil
}

type MockItemRepo struct {
	CreateFunc                func(ctx context.Context, params models.CreateItemParams) (*models.Item, error)
	ListByUserIDFunc          func(ctx context.Context, userID int64) ([]*models.Item, error)
	GetByAggregatorItemIDFunc func(ctx context.Context, aggregatorItemID string) (*models.Item, error)
	SetErrorFunc              func(ctx context.Context, id string, message *string) error
	DeactivateFunc            func(ctx context.Context, id string) error
}

func (m *MockItemRepo) Create(ctx context.Context, params models.CreateItemParams) (*models.Item, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockItemRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.Item, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockItemRepo) GetByAggregatorItemID(ctx context.Context, aggregatorItemID string) (*models.Item, error) {
	if m.GetByAggregatorItemIDFunc != nil {
		return m.GetByAggregatorItemIDFunc(ctx, aggregatorItemID)
	}
	return nil, nil
}

func (m *MockItemRepo) SetError(ctx context.Context, id string, message *string) error {
	if m.SetErrorFunc != nil {
		return m.SetErrorFunc(ctx, id, message)
	}
	return nil
}

func (m *MockItemRepo) Deactivate(ctx context.Context, id string) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, id)
	}
	return nil
}

type MockAccountRepo struct {
	CreateFunc                   func(ctx context.Context, params models.CreateAccountParams) (*models.Account, error)
	ListByUserIDFunc             func(ctx context.Context, userID int64) ([]*models.Account, error)
	GetByAggregatorAccountIDFunc func(ctx context.Context, aggregatorAccountID string) (*models.Account, error)
	UpdateBalancesFunc           func(ctx context.Context, id int64, balances models.BalanceSnapshot, syncedAt time.Time) error
	TouchLastSyncedFunc          func(ctx context.Context, id int64, syncedAt time.Time) error
	DeactivateFunc               func(ctx context.Context, id int64) error
}

func (m *MockAccountRepo) Create(ctx context.Context, params models.CreateAccountParams) (*models.Account, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.Account, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockAccountRepo) GetByAggregatorAccountID(ctx context.Context, aggregatorAccountID string) (*models.Account, error) {
	if m.GetByAggregatorAccountIDFunc != nil {
		return m.GetByAggregatorAccountIDFunc(ctx, aggregatorAccountID)
	}
	return nil, nil
}

func (m *MockAccountRepo) UpdateBalances(ctx context.Context, id int64, balances models.BalanceSnapshot, syncedAt time.Time) error {
	if m.UpdateBalancesFunc != nil {
		return m.UpdateBalancesFunc(ctx, id, balances, syncedAt)
	}
	return nil
}

func (m *MockAccountRepo) TouchLastSynced(ctx context.Context, id int64, syncedAt time.Time) error {
	if m.TouchLastSyncedFunc != nil {
		return m.TouchLastSyncedFunc(ctx, id, syncedAt)
	}
	return nil
}

func (m *MockAccountRepo) Deactivate(ctx context.Context, id int64) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, id)
	}
	return nil
}

type MockTransactionRepo struct {
	CreateFunc                       func(ctx context.Context, params models.CreateTransactionParams) (*models.Transaction, error)
	GetByAggregatorTransactionIDFunc func(ctx context.Context, aggregatorTransactionID string) (*models.Transaction, error)
	ListByAccountIDFunc              func(ctx context.Context, accountID int64, limit, offset int) ([]*models.Transaction, error)
}

func (m *MockTransactionRepo) Create(ctx context.Context, params models.CreateTransactionParams) (*models.Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockTransactionRepo) GetByAggregatorTransactionID(ctx context.Context, aggregatorTransactionID string) (*models.Transaction, error) {
	if m.GetByAggregatorTransactionIDFunc != nil {
		return m.GetByAggregatorTransactionIDFunc(ctx, aggregatorTransactionID)
	}
	return nil, nil
}

func (m *MockTransactionRepo) ListByAccountID(ctx context.Context, accountID int64, limit, offset int) ([]*models.Transaction, error) {
	if m.ListByAccountIDFunc != nil {
		return m.ListByAccountIDFunc(ctx, accountID, limit, offset)
	}
	return nil, nil
}

// plainDecryptor returns tokens unchanged; test items store plaintext.
type plainDecryptor struct{}

func (plainDecryptor) Decrypt(ciphertext string) (string, error) {
	return ciphertext, nil
}
