package sync

import (
	"fmt"
	"strings"
)

// processingFailedPrefix marks sync results produced by an unexpected
// failure before any page work happened, as opposed to fetch-layer aborts.
const processingFailedPrefix = "Processing failed: "

// Outcome classifies the handling of a single raw transaction.
type Outcome int

const (
	// OutcomeInserted means a new transaction record was persisted.
	OutcomeInserted Outcome = iota
	// OutcomeSkipped means the transaction already existed; the stored
	// record is authoritative and was not mutated.
	OutcomeSkipped
	// OutcomeFailed means the transaction could not be persisted; the
	// batch continues.
	OutcomeFailed
)

// Result is the structured outcome of one sync invocation. Success means
// the pipeline ran to completion, not that every record was imported:
// per-transaction failures are counted without flipping the flag, while
// page-level fetch failures and cancellation set Success=false.
type Result struct {
	Success      bool     `json:"success"`
	SyncedCount  int      `json:"syncedCount"`
	SkippedCount int      `json:"skippedCount"`
	ErrorCount   int      `json:"errorCount"`
	Errors       []string `json:"errors"`
}

func newResult() *Result {
	return &Result{
		Success: true,
		Errors:  []string{},
	}
}

// record folds one per-transaction outcome into the result.
func (r *Result) record(outcome Outcome, message string) {
	switch outcome {
	case OutcomeInserted:
		r.SyncedCount++
	case OutcomeSkipped:
		r.SkippedCount++
	case OutcomeFailed:
		r.ErrorCount++
		r.Errors = append(r.Errors, message)
	}
}

// fatal marks the sync aborted. The fatal message becomes the sole entry
// in the error list; synced/skipped counts keep reflecting the work that
// completed before the abort.
func (r *Result) fatal(message string) {
	r.Success = false
	r.Errors = []string{message}
}

// ProcessingFailed reports whether the sync never started, as opposed to
// a run that aborted partway or finished with record-level errors.
func (r *Result) ProcessingFailed() bool {
	return !r.Success && len(r.Errors) == 1 && strings.HasPrefix(r.Errors[0], processingFailedPrefix)
}

// processingFailed builds the zero-progress result for an unexpected
// failure raised before any fetching started.
func processingFailed(err error) *Result {
	return &Result{
		Success: false,
		Errors:  []string{fmt.Sprintf("%s%v", processingFailedPrefix, err)},
	}
}
