package aggregator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultTimeout    = 180 * time.Second // Large transaction fetches can be slow
	linkTokenPath     = "/link/token/create"
	exchangeTokenPath = "/item/public_token/exchange"
	accountsPath      = "/accounts/get"
	transactionsPath  = "/transactions/get"
	wireDateLayout    = "2006-01-02"
)

// LiveClient talks to the real aggregator API over HTTPS.
type LiveClient struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
}

var _ Client = (*LiveClient)(nil)

// NewLiveClient creates a client for the given aggregator environment.
func NewLiveClient(baseURL, clientID, clientSecret string) *LiveClient {
	return &LiveClient{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

type wireError struct {
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

type linkTokenRequest struct {
	ClientID   string `json:"client_id"`
	Secret     string `json:"secret"`
	ClientName string `json:"client_name"`
	UserID     string `json:"client_user_id"`
}

type linkTokenResponse struct {
	LinkToken string `json:"link_token"`
}

type exchangeRequest struct {
	ClientID    string `json:"client_id"`
	Secret      string `json:"secret"`
	PublicToken string `json:"public_token"`
}

type accountsRequest struct {
	ClientID    string `json:"client_id"`
	Secret      string `json:"secret"`
	AccessToken string `json:"access_token"`
}

type wireBalances struct {
	Available decimal.NullDecimal `json:"available"`
	Current   decimal.NullDecimal `json:"current"`
	Limit     decimal.NullDecimal `json:"limit"`
	Currency  string              `json:"iso_currency_code"`
}

type wireAccount struct {
	AccountID string       `json:"account_id"`
	Name      string       `json:"name"`
	Type      string       `json:"type"`
	Subtype   string       `json:"subtype"`
	Balances  wireBalances `json:"balances"`
}

type accountsResponse struct {
	Accounts []wireAccount `json:"accounts"`
}

type transactionsRequest struct {
	ClientID    string             `json:"client_id"`
	Secret      string             `json:"secret"`
	AccessToken string             `json:"access_token"`
	StartDate   string             `json:"start_date"`
	EndDate     string             `json:"end_date"`
	Options     transactionOptions `json:"options"`
}

type transactionOptions struct {
	Count      int      `json:"count"`
	Offset     int      `json:"offset"`
	AccountIDs []string `json:"account_ids,omitempty"`
}

type wireTransaction struct {
	TransactionID string          `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Name          string          `json:"name"`
	Category      *string         `json:"category"`
	Pending       bool            `json:"pending"`
	Metadata      map[string]any  `json:"metadata"`
}

type transactionsResponse struct {
	Transactions []wireTransaction `json:"transactions"`
}

// CreateLinkToken generates a link token for initializing the link flow.
func (c *LiveClient) CreateLinkToken(ctx context.Context, userID int64) (string, error) {
	req := linkTokenRequest{
		ClientID:   c.clientID,
		Secret:     c.clientSecret,
		ClientName: "finch",
		UserID:     fmt.Sprintf("%d", userID),
	}

	var resp linkTokenResponse
	if err := c.post(ctx, linkTokenPath, req, &resp); err != nil {
		return "", err
	}
	return resp.LinkToken, nil
}

// ExchangeToken exchanges a public token from the link flow for a
// persistent access token.
func (c *LiveClient) ExchangeToken(ctx context.Context, publicToken string) (*TokenExchange, error) {
	req := exchangeRequest{
		ClientID:    c.clientID,
		Secret:      c.clientSecret,
		PublicToken: publicToken,
	}

	var resp TokenExchange
	if err := c.post(ctx, exchangeTokenPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchAccounts retrieves all accounts reachable through an access token.
func (c *LiveClient) FetchAccounts(ctx context.Context, accessToken string) ([]RawAccount, error) {
	req := accountsRequest{
		ClientID:    c.clientID,
		Secret:      c.clientSecret,
		AccessToken: accessToken,
	}

	var resp accountsResponse
	if err := c.post(ctx, accountsPath, req, &resp); err != nil {
		return nil, err
	}

	accounts := make([]RawAccount, 0, len(resp.Accounts))
	for _, a := range resp.Accounts {
		accounts = append(accounts, RawAccount{
			AccountID:        a.AccountID,
			Name:             a.Name,
			Type:             a.Type,
			Subtype:          a.Subtype,
			Currency:         a.Balances.Currency,
			AvailableBalance: a.Balances.Available,
			CurrentBalance:   a.Balances.Current,
			CreditLimit:      a.Balances.Limit,
		})
	}
	return accounts, nil
}

// FetchTransactions retrieves one page of transactions for the query's
// date window.
func (c *LiveClient) FetchTransactions(ctx context.Context, accessToken string, query TransactionQuery) ([]RawTransaction, error) {
	req := transactionsRequest{
		ClientID:    c.clientID,
		Secret:      c.clientSecret,
		AccessToken: accessToken,
		StartDate:   query.StartDate.Format(wireDateLayout),
		EndDate:     query.EndDate.Format(wireDateLayout),
		Options: transactionOptions{
			Count:      query.Count,
			Offset:     query.Offset,
			AccountIDs: query.AccountIDs,
		},
	}

	var resp transactionsResponse
	if err := c.post(ctx, transactionsPath, req, &resp); err != nil {
		return nil, err
	}

	transactions := make([]RawTransaction, 0, len(resp.Transactions))
	for _, wt := range resp.Transactions {
		date, err := time.Parse(wireDateLayout, wt.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse transaction date '%s': %w", wt.Date, err)
		}
		transactions = append(transactions, RawTransaction{
			TransactionID: wt.TransactionID,
			AccountID:     wt.AccountID,
			Amount:        wt.Amount,
			Date:          date,
			Name:          wt.Name,
			Category:      wt.Category,
			Pending:       wt.Pending,
			Metadata:      wt.Metadata,
		})
	}
	return transactions, nil
}

// post executes one JSON request against the aggregator and decodes the
// response into out. Non-200 responses are surfaced as *APIError.
func (c *LiveClient) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var wireErr wireError
		if err := json.Unmarshal(respBody, &wireErr); err != nil || wireErr.ErrorCode == "" {
			return &APIError{
				Code:       CodeInternalError,
				Message:    fmt.Sprintf("request failed with status %d: %s", resp.StatusCode, string(respBody)),
				StatusCode: resp.StatusCode,
			}
		}
		return &APIError{
			Code:       wireErr.ErrorCode,
			Message:    wireErr.ErrorMessage,
			StatusCode: resp.StatusCode,
		}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
