package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"finch/internal/domain/sync"
)

// UserSyncJob refreshes one user's data: account inventory first, then
// the transaction window. Accounts must be synced first so transactions
// have something to map to.
type UserSyncJob struct {
	userID      int64
	windowDays  int
	syncService *sync.Service
}

// NewUserSyncJob creates a sync job covering the trailing windowDays.
func NewUserSyncJob(userID int64, windowDays int, syncService *sync.Service) *UserSyncJob {
	return &UserSyncJob{
		userID:      userID,
		windowDays:  windowDays,
		syncService: syncService,
	}
}

// Execute runs account sync, then transaction sync.
func (j *UserSyncJob) Execute(ctx context.Context) error {
	accountResult, err := j.syncService.SyncAccounts(ctx, j.userID)
	if err != nil {
		return fmt.Errorf("account sync failed, skipping transaction sync: %w", err)
	}
	if len(accountResult.Errors) > 0 {
		log.Printf("Account sync for user %d completed with errors: created=%d, updated=%d, errors=%d",
			j.userID, accountResult.Created, accountResult.Updated, len(accountResult.Errors))
	}

	endDate := time.Now().UTC().Truncate(24 * time.Hour)
	startDate := endDate.AddDate(0, 0, -j.windowDays)

	result := j.syncService.SyncTransactions(ctx, j.userID, startDate, endDate)
	if !result.Success {
		return fmt.Errorf("transaction sync failed: %v", result.Errors)
	}
	if result.ErrorCount > 0 {
		// Per-record failures don't fail the job; they're already in the
		// result and logged by the service.
		log.Printf("Transaction sync for user %d completed with %d record errors", j.userID, result.ErrorCount)
	}

	return nil
}

// UserID returns the user ID associated with this job.
func (j *UserSyncJob) UserID() string {
	return strconv.FormatInt(j.userID, 10)
}

// Description returns a human-readable description of the job.
func (j *UserSyncJob) Description() string {
	return fmt.Sprintf("Full sync (accounts + transactions) for user %d", j.userID)
}
