package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is one bank account under an Item. The aggregator account ID is
// unique and immutable after creation. IsActive=false marks soft deletion:
// balances are frozen, not deleted.
type Account struct {
	ID                  int64               `json:"id"`
	UserID              int64               `json:"userId"`
	ItemID              string              `json:"itemId"`
	AggregatorAccountID string              `json:"aggregatorAccountId"`
	Name                string              `json:"name"`
	AccountType         string              `json:"accountType"`
	Subtype             string              `json:"subtype"`
	AvailableBalance    decimal.NullDecimal `json:"availableBalance"`
	CurrentBalance      decimal.NullDecimal `json:"currentBalance"`
	CreditLimit         decimal.NullDecimal `json:"creditLimit"`
	Currency            string              `json:"currency"`
	IsActive            bool                `json:"isActive"`
	LastSyncedAt        *time.Time          `json:"lastSyncedAt,omitempty"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

type CreateAccountParams struct {
	UserID              int64
	ItemID              string
	AggregatorAccountID string
	Name                string
	AccountType         string
	Subtype             string
	AvailableBalance    decimal.NullDecimal
	CurrentBalance      decimal.NullDecimal
	CreditLimit         decimal.NullDecimal
	Currency            string
}

// BalanceSnapshot carries the balance fields applied to an account after a
// successful fetch from the aggregator.
type BalanceSnapshot struct {
	Available decimal.NullDecimal
	Current   decimal.NullDecimal
	Limit     decimal.NullDecimal
}
