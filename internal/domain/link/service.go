package link

import (
	"context"
	"fmt"

	"finch/internal/infrastructure/aggregator"
	"finch/internal/models"
)

// TokenEncryptor seals access tokens before they reach storage.
type TokenEncryptor interface {
	Encrypt(plaintext string) (string, error)
}

// Service handles the aggregator link flow at its interface boundary:
// issuing link tokens and exchanging public tokens for stored items.
// Consent UI and bank-login flows live entirely on the aggregator side.
type Service struct {
	client    aggregator.Client
	itemRepo  models.ItemRepository
	encryptor TokenEncryptor
}

// NewService creates a link service.
func NewService(client aggregator.Client, itemRepo models.ItemRepository, encryptor TokenEncryptor) *Service {
	return &Service{
		client:    client,
		itemRepo:  itemRepo,
		encryptor: encryptor,
	}
}

// CreateLinkToken issues a link token for starting the link flow.
func (s *Service) CreateLinkToken(ctx context.Context, userID int64) (string, error) {
	token, err := s.client.CreateLinkToken(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to create link token: %w", err)
	}
	return token, nil
}

// ExchangeToken trades a public token for a persistent access credential
// and records the new item. The access token is encrypted at rest.
func (s *Service) ExchangeToken(ctx context.Context, userID int64, publicToken string) (*models.Item, error) {
	exchange, err := s.client.ExchangeToken(ctx, publicToken)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange public token: %w", err)
	}

	sealed, err := s.encryptor.Encrypt(exchange.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}

	item, err := s.itemRepo.Create(ctx, models.CreateItemParams{
		UserID:           userID,
		AggregatorItemID: exchange.ItemID,
		AccessToken:      sealed,
		InstitutionID:    exchange.InstitutionID,
		InstitutionName:  exchange.InstitutionName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store item: %w", err)
	}

	return item, nil
}
