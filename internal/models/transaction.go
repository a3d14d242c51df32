package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one imported (or manually entered) transaction.
// AggregatorTransactionID is unique across the whole store when present;
// it is nil only for manually entered transactions, which the sync
// pipeline never produces.
type Transaction struct {
	ID                      string          `json:"id"`
	UserID                  int64           `json:"userId"`
	AccountID               int64           `json:"accountId"`
	Amount                  decimal.Decimal `json:"amount"`
	Category                *string         `json:"category,omitempty"`
	Name                    string          `json:"name"`
	Date                    time.Time       `json:"date"`
	Pending                 bool            `json:"pending"`
	AggregatorTransactionID *string         `json:"aggregatorTransactionId,omitempty"`
	Metadata                map[string]any  `json:"metadata,omitempty"`
	CreatedAt               time.Time       `json:"createdAt"`
	UpdatedAt               time.Time       `json:"updatedAt"`
}

type CreateTransactionParams struct {
	UserID                  int64
	AccountID               int64
	Amount                  decimal.Decimal
	Category                *string
	Name                    string
	Date                    time.Time
	Pending                 bool
	AggregatorTransactionID *string
	Metadata                map[string]any
}
