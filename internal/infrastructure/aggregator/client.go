package aggregator

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Client is the capability boundary to the third-party bank-data
// aggregator. Two implementations exist: the live HTTP client and the
// deterministic sandbox client. Selection happens via explicit
// configuration in Resolve, never via ambient environment inspection.
type Client interface {
	CreateLinkToken(ctx context.Context, userID int64) (string, error)
	ExchangeToken(ctx context.Context, publicToken string) (*TokenExchange, error)
	FetchAccounts(ctx context.Context, accessToken string) ([]RawAccount, error)
	FetchTransactions(ctx context.Context, accessToken string, query TransactionQuery) ([]RawTransaction, error)
}

// TokenExchange is the result of exchanging a public token for a
// persistent access token.
type TokenExchange struct {
	AccessToken     string `json:"access_token"`
	ItemID          string `json:"item_id"`
	InstitutionID   string `json:"institution_id"`
	InstitutionName string `json:"institution_name"`
}

// TransactionQuery describes one page request against the aggregator.
// AccountIDs, when set, is passed through unchanged on every page.
type TransactionQuery struct {
	StartDate  time.Time
	EndDate    time.Time
	AccountIDs []string
	Count      int
	Offset     int
}

// RawAccount is an account as reported by the aggregator.
type RawAccount struct {
	AccountID        string              `json:"account_id"`
	Name             string              `json:"name"`
	Type             string              `json:"type"`
	Subtype          string              `json:"subtype"`
	Currency         string              `json:"iso_currency_code"`
	AvailableBalance decimal.NullDecimal `json:"available"`
	CurrentBalance   decimal.NullDecimal `json:"current"`
	CreditLimit      decimal.NullDecimal `json:"limit"`
}

// RawTransaction is a transaction as reported by the aggregator.
type RawTransaction struct {
	TransactionID string          `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Name          string          `json:"name"`
	Category      *string         `json:"category,omitempty"`
	Pending       bool            `json:"pending"`
	Metadata      map[string]any  `json:"metadata,omitempty"`
}
