package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"finch/internal/infrastructure/aggregator"
	"finch/internal/models"
)

const (
	// DefaultPageSize is the fixed page size requested from the
	// aggregator. A returned page shorter than this signals the end of
	// the window's data.
	DefaultPageSize = 500

	// DefaultInterPageDelay is the fixed pause between page requests,
	// kept to stay under the aggregator's rate limit. It is not a retry
	// mechanism; fetch failures still abort.
	DefaultInterPageDelay = 100 * time.Millisecond
)

// TokenDecryptor recovers the plaintext access token stored on an Item.
type TokenDecryptor interface {
	Decrypt(ciphertext string) (string, error)
}

// Service drives transaction synchronization for one user at a time:
// paged fetch from the aggregator, idempotent per-record persistence,
// balance reconciliation, and structured result aggregation. Concurrent
// invocations for the same user must be serialized by the caller.
type Service struct {
	client          aggregator.Client
	itemRepo        models.ItemRepository
	accountRepo     models.AccountRepository
	transactionRepo models.TransactionRepository
	decryptor       TokenDecryptor

	pageSize       int
	interPageDelay time.Duration
}

// NewService creates a sync service with the default paging policy.
func NewService(
	client aggregator.Client,
	itemRepo models.ItemRepository,
	accountRepo models.AccountRepository,
	transactionRepo models.TransactionRepository,
	decryptor TokenDecryptor,
) *Service {
	return &Service{
		client:          client,
		itemRepo:        itemRepo,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		decryptor:       decryptor,
		pageSize:        DefaultPageSize,
		interPageDelay:  DefaultInterPageDelay,
	}
}

// NewServiceWithPaging creates a sync service with a custom page size and
// inter-page delay. Used by tests; production wiring keeps the defaults.
func NewServiceWithPaging(
	client aggregator.Client,
	itemRepo models.ItemRepository,
	accountRepo models.AccountRepository,
	transactionRepo models.TransactionRepository,
	decryptor TokenDecryptor,
	pageSize int,
	interPageDelay time.Duration,
) *Service {
	s := NewService(client, itemRepo, accountRepo, transactionRepo, decryptor)
	if pageSize > 0 {
		s.pageSize = pageSize
	}
	s.interPageDelay = interPageDelay
	return s
}

// syncItem pairs an active item with its decrypted access token.
type syncItem struct {
	item        *models.Item
	accessToken string
}

// SyncTransactions imports all transactions in the inclusive window
// [startDate, endDate] for every active item of the user. It never
// returns a Go error: every failure mode lands in the Result.
func (s *Service) SyncTransactions(ctx context.Context, userID int64, startDate, endDate time.Time) *Result {
	items, accountsByAggregatorID, err := s.prepare(ctx, userID)
	if err != nil {
		return processingFailed(err)
	}

	result := newResult()
	for _, si := range items {
		if !s.syncItemWindow(ctx, si, startDate, endDate, accountsByAggregatorID, result) {
			break
		}
	}

	log.Printf("Transaction sync completed for user %d: success=%v, synced=%d, skipped=%d, errors=%d",
		userID, result.Success, result.SyncedCount, result.SkippedCount, result.ErrorCount)

	return result
}

// prepare loads and decrypts everything the sync needs before any
// aggregator I/O. A failure here means the sync could not run at all.
func (s *Service) prepare(ctx context.Context, userID int64) ([]syncItem, map[string]*models.Account, error) {
	items, err := s.itemRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	accounts, err := s.accountRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	accountsByAggregatorID := make(map[string]*models.Account, len(accounts))
	for _, acc := range accounts {
		accountsByAggregatorID[acc.AggregatorAccountID] = acc
	}

	prepared := make([]syncItem, 0, len(items))
	for _, item := range items {
		if !item.IsActive {
			continue
		}
		token, err := s.decryptor.Decrypt(item.AccessToken)
		if err != nil {
			return nil, nil, fmt.Errorf("decrypting access token for item %s: %w", item.ID, err)
		}
		prepared = append(prepared, syncItem{item: item, accessToken: token})
	}

	return prepared, accountsByAggregatorID, nil
}

// syncItemWindow fetches and persists one item's window. It returns false
// when the sync must stop (page-level failure or cancellation).
func (s *Service) syncItemWindow(
	ctx context.Context,
	si syncItem,
	startDate, endDate time.Time,
	accountsByAggregatorID map[string]*models.Account,
	result *Result,
) bool {
	if err := s.importWindow(ctx, si, startDate, endDate, nil, accountsByAggregatorID, result); err != nil {
		s.recordItemError(ctx, si.item, err)
		result.fatal(err.Error())
		return false
	}

	snapshot, err := s.client.FetchAccounts(ctx, si.accessToken)
	if err != nil {
		err = fmt.Errorf("fetching balances for item %s: %w", si.item.ID, err)
		s.recordItemError(ctx, si.item, err)
		result.fatal(err.Error())
		return false
	}
	s.reconcileBalances(ctx, snapshot, accountsByAggregatorID, result)

	// A completed pass clears any stale item-level error state.
	if si.item.Error != nil {
		if err := s.itemRepo.SetError(ctx, si.item.ID, nil); err != nil {
			log.Printf("Warning: failed to clear error on item %s: %v", si.item.ID, err)
		}
	}

	return true
}

// importWindow runs the pagination loop for one item. Pages are requested
// sequentially at a fixed size and each page is persisted before the next
// is requested; a short page terminates the loop, so a window holding an
// exact multiple of the page size costs one extra empty-page request. A
// page failure aborts immediately with the offset at which it occurred
// and contributes no records; earlier pages' work stands. Cancellation is
// polled between pages, never mid-page.
func (s *Service) importWindow(
	ctx context.Context,
	si syncItem,
	startDate, endDate time.Time,
	accountIDs []string,
	accountsByAggregatorID map[string]*models.Account,
	result *Result,
) error {
	for offset := 0; ; offset += s.pageSize {
		if offset > 0 {
			if err := s.interPagePause(ctx); err != nil {
				return fmt.Errorf("sync cancelled at offset %d: %w", offset, err)
			}
		}

		page, err := s.client.FetchTransactions(ctx, si.accessToken, aggregator.TransactionQuery{
			StartDate:  startDate,
			EndDate:    endDate,
			AccountIDs: accountIDs,
			Count:      s.pageSize,
			Offset:     offset,
		})
		if err != nil {
			return fmt.Errorf("fetching transactions at offset %d: %w", offset, err)
		}

		for _, raw := range page {
			outcome, message := s.upsertTransaction(ctx, si.item.UserID, raw, accountsByAggregatorID)
			result.record(outcome, message)
		}

		if len(page) < s.pageSize {
			return nil
		}
	}
}

// interPagePause waits the fixed inter-page delay without holding any
// lock or transaction, and doubles as the between-page cancellation poll.
func (s *Service) interPagePause(ctx context.Context) error {
	if s.interPageDelay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.interPageDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// upsertTransaction applies the dedup contract for one raw transaction:
// exactly one stored record per aggregator transaction id, first import
// wins, later syncs are no-ops even if upstream mutable fields changed.
func (s *Service) upsertTransaction(
	ctx context.Context,
	userID int64,
	raw aggregator.RawTransaction,
	accountsByAggregatorID map[string]*models.Account,
) (Outcome, string) {
	existing, err := s.transactionRepo.GetByAggregatorTransactionID(ctx, raw.TransactionID)
	if err != nil {
		return OutcomeFailed, fmt.Sprintf("failed to process transaction %s: %v", raw.TransactionID, err)
	}
	if existing != nil {
		return OutcomeSkipped, ""
	}

	account, ok := accountsByAggregatorID[raw.AccountID]
	if !ok {
		return OutcomeFailed, fmt.Sprintf("failed to process transaction %s: unmapped account %s", raw.TransactionID, raw.AccountID)
	}

	aggregatorID := raw.TransactionID
	_, err = s.transactionRepo.Create(ctx, models.CreateTransactionParams{
		UserID:                  userID,
		AccountID:               account.ID,
		Amount:                  raw.Amount,
		Category:                raw.Category,
		Name:                    raw.Name,
		Date:                    raw.Date,
		Pending:                 raw.Pending,
		AggregatorTransactionID: &aggregatorID,
		Metadata:                raw.Metadata,
	})
	if errors.Is(err, models.ErrDuplicateTransaction) {
		// Lost an insert race to a concurrent writer; the stored record wins.
		return OutcomeSkipped, ""
	}
	if err != nil {
		return OutcomeFailed, fmt.Sprintf("failed to process transaction %s: %v", raw.TransactionID, err)
	}

	return OutcomeInserted, ""
}

// reconcileBalances applies the fetched balance snapshot to the stored
// accounts. Every known account gets its last-synced timestamp stamped,
// whether or not a balance field changed: a completed sync attempt is
// itself meaningful state.
func (s *Service) reconcileBalances(
	ctx context.Context,
	snapshot []aggregator.RawAccount,
	accountsByAggregatorID map[string]*models.Account,
	result *Result,
) {
	now := time.Now().UTC()
	seen := make(map[int64]bool, len(snapshot))

	for _, rawAccount := range snapshot {
		account, ok := accountsByAggregatorID[rawAccount.AccountID]
		if !ok {
			// Unknown to us; account sync owns creation.
			continue
		}
		seen[account.ID] = true

		updated, err := s.applyBalances(ctx, account, models.BalanceSnapshot{
			Available: rawAccount.AvailableBalance,
			Current:   rawAccount.CurrentBalance,
			Limit:     rawAccount.CreditLimit,
		}, now)
		if err != nil {
			result.record(OutcomeFailed, fmt.Sprintf("failed to update balances for account %d: %v", account.ID, err))
			continue
		}
		if updated {
			log.Printf("Updated balances for account %d", account.ID)
		}
	}

	// Accounts missing from the snapshot still had a sync attempted.
	for _, account := range accountsByAggregatorID {
		if seen[account.ID] {
			continue
		}
		if err := s.accountRepo.TouchLastSynced(ctx, account.ID, now); err != nil {
			log.Printf("Warning: failed to stamp last_synced_at for account %d: %v", account.ID, err)
		}
	}
}

// applyBalances writes the snapshot and reports whether any balance field
// actually changed. The last-synced stamp is written unconditionally.
func (s *Service) applyBalances(ctx context.Context, account *models.Account, balances models.BalanceSnapshot, syncedAt time.Time) (bool, error) {
	if err := s.accountRepo.UpdateBalances(ctx, account.ID, balances, syncedAt); err != nil {
		return false, err
	}

	changed := !nullDecimalEqual(account.AvailableBalance, balances.Available) ||
		!nullDecimalEqual(account.CurrentBalance, balances.Current) ||
		!nullDecimalEqual(account.CreditLimit, balances.Limit)

	account.AvailableBalance = balances.Available
	account.CurrentBalance = balances.Current
	account.CreditLimit = balances.Limit
	account.LastSyncedAt = &syncedAt

	return changed, nil
}

// recordItemError stores a fetch-layer failure on the item so the request
// layer can surface the connection's health.
func (s *Service) recordItemError(ctx context.Context, item *models.Item, cause error) {
	message := cause.Error()
	if err := s.itemRepo.SetError(ctx, item.ID, &message); err != nil {
		log.Printf("Warning: failed to record error on item %s: %v", item.ID, err)
	}
}
