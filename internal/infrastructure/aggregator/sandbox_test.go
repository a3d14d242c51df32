package aggregator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sandboxWindow() (time.Time, time.Time) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 13)
}

func TestSandboxFetchTransactionsIsDeterministic(t *testing.T) {
	ctx := context.Background()
	client := NewSandboxClient()
	start, end := sandboxWindow()

	query := TransactionQuery{StartDate: start, EndDate: end, Count: 500}
	first, err := client.FetchTransactions(ctx, "sandbox-user-a", query)
	require.NoError(t, err)
	second, err := client.FetchTransactions(ctx, "sandbox-user-a", query)
	require.NoError(t, err)

	require.NotEmpty(t, first, "a two-week window should hold synthetic transactions")
	assert.Equal(t, first, second, "same token and window must produce identical transactions")
}

func TestSandboxDifferentUsersGetDifferentData(t *testing.T) {
	ctx := context.Background()
	client := NewSandboxClient()
	start, end := sandboxWindow()

	query := TransactionQuery{StartDate: start, EndDate: end, Count: 500}
	a, err := client.FetchTransactions(ctx, "sandbox-user-a", query)
	require.NoError(t, err)
	b, err := client.FetchTransactions(ctx, "sandbox-user-b", query)
	require.NoError(t, err)

	ids := make(map[string]bool, len(a))
	for _, txn := range a {
		ids[txn.TransactionID] = true
	}
	for _, txn := range b {
		assert.False(t, ids[txn.TransactionID], "transaction id %s shared between users", txn.TransactionID)
	}
}

func TestSandboxOverlappingWindowsReuseIDs(t *testing.T) {
	ctx := context.Background()
	client := NewSandboxClient()
	start, end := sandboxWindow()

	wide, err := client.FetchTransactions(ctx, "sandbox-user-a", TransactionQuery{StartDate: start, EndDate: end, Count: 500})
	require.NoError(t, err)
	// A window shifted forward by a week overlaps the last seven days.
	narrow, err := client.FetchTransactions(ctx, "sandbox-user-a", TransactionQuery{StartDate: start.AddDate(0, 0, 7), EndDate: end.AddDate(0, 0, 7), Count: 500})
	require.NoError(t, err)

	wideIDs := make(map[string]bool, len(wide))
	for _, txn := range wide {
		wideIDs[txn.TransactionID] = true
	}

	overlap := 0
	for _, txn := range narrow {
		if !txn.Date.Before(start.AddDate(0, 0, 7)) && !txn.Date.After(end) && wideIDs[txn.TransactionID] {
			overlap++
		}
	}
	assert.Positive(t, overlap, "overlapping windows must reproduce identical transaction ids, enabling dedup")
}

func TestSandboxPagination(t *testing.T) {
	ctx := context.Background()
	client := NewSandboxClient()
	start, end := sandboxWindow()

	full, err := client.FetchTransactions(ctx, "sandbox-user-a", TransactionQuery{StartDate: start, EndDate: end, Count: 500})
	require.NoError(t, err)
	if len(full) < 4 {
		t.Skipf("window too sparse for pagination check: %d transactions", len(full))
	}

	pageSize := 3
	var paged []RawTransaction
	for offset := 0; ; offset += pageSize {
		page, err := client.FetchTransactions(ctx, "sandbox-user-a", TransactionQuery{
			StartDate: start, EndDate: end, Count: pageSize, Offset: offset,
		})
		require.NoError(t, err)
		paged = append(paged, page...)
		if len(page) < pageSize {
			break
		}
	}

	assert.Equal(t, full, paged, "paged fetch must reassemble the full window")
}

func TestSandboxAccountFilter(t *testing.T) {
	ctx := context.Background()
	client := NewSandboxClient()
	start, end := sandboxWindow()

	accounts, err := client.FetchAccounts(ctx, "sandbox-user-a")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(accounts), 2, "expected at least 2 synthetic accounts")

	only := accounts[0].AccountID
	filtered, err := client.FetchTransactions(ctx, "sandbox-user-a", TransactionQuery{
		StartDate: start, EndDate: end, Count: 500, AccountIDs: []string{only},
	})
	require.NoError(t, err)
	for _, txn := range filtered {
		assert.Equal(t, only, txn.AccountID, "filter leaked another account")
	}
}

func TestSandboxFetchAccountsIsStable(t *testing.T) {
	ctx := context.Background()
	client := NewSandboxClient()

	first, err := client.FetchAccounts(ctx, "sandbox-user-a")
	require.NoError(t, err)
	second, err := client.FetchAccounts(ctx, "sandbox-user-a")
	require.NoError(t, err)
	assert.Equal(t, first, second, "account set must be stable for a given token")
}

func TestSandboxExchangeTokenIsReproducible(t *testing.T) {
	ctx := context.Background()
	client := NewSandboxClient()

	first, err := client.ExchangeToken(ctx, "public-user-a")
	require.NoError(t, err)
	second, err := client.ExchangeToken(ctx, "public-user-a")
	require.NoError(t, err)

	assert.Equal(t, first, second, "repeated exchanges must yield the same item")
	assert.NotEmpty(t, first.AccessToken)
	assert.NotEmpty(t, first.ItemID)
	assert.NotEmpty(t, first.InstitutionName)
}
