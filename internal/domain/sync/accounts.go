package sync

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"finch/internal/models"
)

// AccountSyncResult summarizes one account inventory sync.
type AccountSyncResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

// SyncAccounts refreshes the user's account inventory from the
// aggregator: unknown accounts are created (the aggregator account id is
// immutable afterwards), known ones get their balances reconciled.
// Transactions can only be mapped to accounts this step has seen.
func (s *Service) SyncAccounts(ctx context.Context, userID int64) (*AccountSyncResult, error) {
	items, accountsByAggregatorID, err := s.prepare(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &AccountSyncResult{Errors: []string{}}
	now := time.Now().UTC()

	for _, si := range items {
		raws, err := s.client.FetchAccounts(ctx, si.accessToken)
		if err != nil {
			err = fmt.Errorf("fetching accounts for item %s: %w", si.item.ID, err)
			s.recordItemError(ctx, si.item, err)
			return result, err
		}

		for _, raw := range raws {
			if account, ok := accountsByAggregatorID[raw.AccountID]; ok {
				updated, err := s.applyBalances(ctx, account, models.BalanceSnapshot{
					Available: raw.AvailableBalance,
					Current:   raw.CurrentBalance,
					Limit:     raw.CreditLimit,
				}, now)
				if err != nil {
					result.Errors = append(result.Errors, fmt.Sprintf("failed to update account %s: %v", raw.AccountID, err))
					continue
				}
				if updated {
					result.Updated++
				}
				continue
			}

			account, err := s.accountRepo.Create(ctx, models.CreateAccountParams{
				UserID:              userID,
				ItemID:              si.item.ID,
				AggregatorAccountID: raw.AccountID,
				Name:                raw.Name,
				AccountType:         raw.Type,
				Subtype:             raw.Subtype,
				AvailableBalance:    raw.AvailableBalance,
				CurrentBalance:      raw.CurrentBalance,
				CreditLimit:         raw.CreditLimit,
				Currency:            raw.Currency,
			})
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("failed to create account %s: %v", raw.AccountID, err))
				continue
			}
			accountsByAggregatorID[account.AggregatorAccountID] = account
			result.Created++
		}
	}

	log.Printf("Account sync completed for user %d: created=%d, updated=%d, errors=%d",
		userID, result.Created, result.Updated, len(result.Errors))

	return result, nil
}

func nullDecimalEqual(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	if !a.Valid {
		return true
	}
	return a.Decimal.Equal(b.Decimal)
}
