package link

import (
	"context"
	"errors"
	"testing"

	"finch/internal/infrastructure/aggregator"
	"finch/internal/models"
)

type MockClient struct {
	CreateLinkTokenFunc func(ctx context.Context, userID int64) (string, error)
	ExchangeTokenFunc   func(ctx context.Context, publicToken string) (*aggregator.TokenExchange, error)
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
	return nil, nil
}

func (m *MockClient) FetchTransactions(ctx context.Context, accessToken string, query aggregator.TransactionQuery) ([]aggregator.RawTransaction, error) {
	return nil, nil
}

type MockItemRepo struct {
	CreateFunc func(ctx context.Context, params models.CreateItemParams) (*models.Item, error)
}

func (m *MockItemRepo) Create(ctx context.Context, params models.CreateItemParams) (*models.Item, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockItemRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.Item, error) {
	return nil, nil
}

func (m *MockItemRepo) GetByAggregatorItemID(ctx context.Context, aggregatorItemID string) (*models.Item, error) {
	return nil, nil
}

func (m *MockItemRepo) SetError(ctx context.Context, id string, message *string) error { return nil }
func (m *MockItemRepo) Deactivate(ctx context.Context, id string) error                { return nil }

// prefixEncryptor marks sealed tokens so tests can tell them apart from
// plaintext.
type prefixEncryptor struct{}

func (prefixEncryptor) Encrypt(plaintext string) (string, error) {
	return "sealed:" + plaintext, nil
}

func TestExchangeTokenStoresEncryptedItem(t *testing.T) {
	ctx := context.Background()

	client := &MockClient{
		ExchangeTokenFunc: func(ctx context.Context, publicToken string) (*aggregator.TokenExchange, error) {
			if publicToken != "public-abc" {
				t.Errorf("unexpected public token %q", publicToken)
			}
			return &aggregator.TokenExchange{
				AccessToken:     "access-xyz",
				ItemID:          "agg-item-1",
				InstitutionID:   "ins-1",
				InstitutionName: "First National",
			}, nil
		},
	}

	var stored models.CreateItemParams
	itemRepo := &MockItemRepo{
		CreateFunc: func(ctx context.Context, params models.CreateItemParams) (*models.Item, error) {
			stored = params
			return &models.Item{ID: "item-1", UserID: params.UserID, InstitutionName: params.InstitutionName}, nil
		},
	}

	svc := NewService(client, itemRepo, prefixEncryptor{})
	item, err := svc.ExchangeToken(ctx, 1, "public-abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.InstitutionName != "First National" {
		t.Errorf("unexpected institution name %q", item.InstitutionName)
	}
	if stored.AccessToken != "sealed:access-xyz" {
		t.Errorf("access token must be stored encrypted, got %q", stored.AccessToken)
	}
	if stored.AggregatorItemID != "agg-item-1" || stored.UserID != 1 {
		t.Errorf("unexpected item params: %+v", stored)
	}
}

func TestExchangeTokenPropagatesExchangeFailure(t *testing.T) {
	ctx := context.Background()

	client := &MockClient{
		ExchangeTokenFunc: func(ctx context.Context, publicToken string) (*aggregator.TokenExchange, error) {
			return nil, errors.New("exchange rejected")
		},
	}

	created := false
	itemRepo := &MockItemRepo{
		CreateFunc: func(ctx context.Context, params models.CreateItemParams) (*models.Item, error) {
			created = true
			return nil, nil
		},
	}

	svc := NewService(client, itemRepo, prefixEncryptor{})
	if _, err := svc.ExchangeToken(ctx, 1, "public-abc"); err == nil {
		t.Fatal("expected error")
	}
	if created {
		t.Error("no item must be stored when the exchange fails")
	}
}

func TestCreateLinkToken(t *testing.T) {
	svc := NewService(&MockClient{
		CreateLinkTokenFunc: func(ctx context.Context, userID int64) (string, error) {
			return "link-token-1", nil
		},
	}, &MockItemRepo{}, prefixEncryptor{})

	token, err := svc.CreateLinkToken(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "link-token-1" {
		t.Errorf("unexpected token %q", token)
	}
}
