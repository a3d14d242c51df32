package aggregator

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// sandboxTokenPrefix marks synthetic access tokens. The pseudo-user key is
// whatever follows the prefix, so the same credential always maps to the
// same synthetic account and transaction set.
const sandboxTokenPrefix = "sandbox-"

var sandboxInstitutions = []struct {
	id   string
	name string
}{
	{"ins_sbx_001", "First Platypus Bank"},
	{"ins_sbx_002", "Tartan Credit Union"},
	{"ins_sbx_003", "Houndstooth Savings"},
}

var sandboxAccountTypes = []struct {
	name    string
	typ     string
	subtype string
}{
	{"Checking", "depository", "checking"},
	{"Savings", "depository", "savings"},
	{"Rewards Card", "credit", "credit card"},
}

var sandboxMerchants = []struct {
	name     string
	category string
	maxCents int64
}{
	{"Golden Crepe Cafe", "dining", 6500},
	{"Hillside Grocers", "groceries", 18000},
	{"Transit Authority", "transport", 350},
	{"Nimbus Streaming", "entertainment", 1599},
	{"Corner Fuel Stop", "gas", 9000},
	{"Atlas Air Travel", "travel", 62000},
	{"Bluebird Pharmacy", "health", 4200},
	{"Marble Hardware", "shopping", 12500},
}

// SandboxClient is a pure, deterministic Client implementation. The same
// access token and date window always produce the same accounts and
// transactions, which makes it usable as a test fixture for the sync
// pipeline without network calls.
type SandboxClient struct{}

var _ Client = (*SandboxClient)(nil)

// NewSandboxClient creates a synthetic-data client.
func NewSandboxClient() *SandboxClient {
	return &SandboxClient{}
}

func sandboxHash(parts ...string) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

// userKey derives the pseudo-user identifier from an access token by
// stripping the fixed sandbox prefix.
func userKey(accessToken string) string {
	return strings.TrimPrefix(accessToken, sandboxTokenPrefix)
}

// CreateLinkToken returns a synthetic link token for the user.
func (c *SandboxClient) CreateLinkToken(_ context.Context, userID int64) (string, error) {
	return fmt.Sprintf("%slink-%d", sandboxTokenPrefix, userID), nil
}

// ExchangeToken derives a stable access token and item from the public
// token so repeated exchanges are reproducible.
func (c *SandboxClient) ExchangeToken(_ context.Context, publicToken string) (*TokenExchange, error) {
	key := userKey(publicToken)
	inst := sandboxInstitutions[sandboxHash(key)%uint64(len(sandboxInstitutions))]
	return &TokenExchange{
		AccessToken:     sandboxTokenPrefix + key,
		ItemID:          fmt.Sprintf("sbx-item-%016x", sandboxHash("item", key)),
		InstitutionID:   inst.id,
		InstitutionName: inst.name,
	}, nil
}

// FetchAccounts returns the synthetic account set for the token's
// pseudo-user: two depository accounts plus, for some users, a credit card.
func (c *SandboxClient) FetchAccounts(_ context.Context, accessToken string) ([]RawAccount, error) {
	key := userKey(accessToken)
	seed := sandboxHash(key)

	count := 2 + int(seed%2)
	accounts := make([]RawAccount, 0, count)
	for i := 0; i < count; i++ {
		at := sandboxAccountTypes[i%len(sandboxAccountTypes)]
		h := sandboxHash("account", key, fmt.Sprintf("%d", i))

		current := decimal.NewFromInt(int64(h%900000) + 5000).Div(decimal.NewFromInt(100))
		available := current.Sub(decimal.NewFromInt(int64(h%5000)).Div(decimal.NewFromInt(100)))

		acc := RawAccount{
			AccountID:        fmt.Sprintf("sbx-acc-%016x", h),
			Name:             at.name,
			Type:             at.typ,
			Subtype:          at.subtype,
			Currency:         "USD",
			AvailableBalance: decimal.NewNullDecimal(available),
			CurrentBalance:   decimal.NewNullDecimal(current),
		}
		if at.typ == "credit" {
			acc.CreditLimit = decimal.NewNullDecimal(decimal.NewFromInt(int64(h%20000) + 1000))
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// FetchTransactions generates the full synthetic transaction set for the
// window, then applies the caller's account filter and offset/count page
// bounds. Transaction identifiers depend only on the pseudo-user, account
// and calendar date, so overlapping windows re-produce the same ids.
func (c *SandboxClient) FetchTransactions(ctx context.Context, accessToken string, query TransactionQuery) ([]RawTransaction, error) {
	accounts, err := c.FetchAccounts(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	filter := make(map[string]bool, len(query.AccountIDs))
	for _, id := range query.AccountIDs {
		filter[id] = true
	}

	key := userKey(accessToken)
	var all []RawTransaction
	for _, acc := range accounts {
		if len(filter) > 0 && !filter[acc.AccountID] {
			continue
		}
		for day := query.StartDate; !day.After(query.EndDate); day = day.AddDate(0, 0, 1) {
			date := day.Format("2006-01-02")
			h := sandboxHash("txn", key, acc.AccountID, date)
			for j := 0; j < int(h%3); j++ {
				hj := sandboxHash("txn", key, acc.AccountID, date, fmt.Sprintf("%d", j))
				m := sandboxMerchants[hj%uint64(len(sandboxMerchants))]
				amount := decimal.NewFromInt(int64(hj%uint64(m.maxCents)) + 100).Div(decimal.NewFromInt(100))

				category := m.category
				all = append(all, RawTransaction{
					TransactionID: fmt.Sprintf("sbx-txn-%016x", hj),
					AccountID:     acc.AccountID,
					Amount:        amount,
					Date:          day,
					Name:          m.name,
					Category:      &category,
					Pending:       false,
					Metadata:      map[string]any{"synthetic": true},
				})
			}
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.Before(all[j].Date)
		}
		return all[i].TransactionID < all[j].TransactionID
	})

	if query.Offset >= len(all) {
		return []RawTransaction{}, nil
	}
	end := len(all)
	if query.Count > 0 && query.Offset+query.Count < end {
		end = query.Offset + query.Count
	}
	return all[query.Offset:end], nil
}
