package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"finch/internal/domain/sync"
)

var errWindowOrder = errors.New("endDate must not be before startDate")

func errInvalidDate(field string) error {
	return fmt.Errorf("%s must be formatted as YYYY-MM-DD", field)
}

// SyncHandler triggers on-demand syncs over HTTP. The scheduler covers
// the periodic case; this endpoint exists for manual refresh.
type SyncHandler struct {
	syncService *sync.Service
	windowDays  int
}

// NewSyncHandler creates a new sync handler. windowDays sets the default
// trailing window when the request does not specify dates.
func NewSyncHandler(syncService *sync.Service, windowDays int) *SyncHandler {
	return &SyncHandler{syncService: syncService, windowDays: windowDays}
}

type syncRequest struct {
	UserID    int64  `json:"userId"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

const requestDateLayout = "2006-01-02"

// HandleSync runs a transaction sync for the requested user and window.
// Per-record failures still return 200 with the counts; only a sync that
// could not run at all maps to 500.
func (h *SyncHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID <= 0 {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	startDate, endDate, err := h.resolveWindow(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := h.syncService.SyncTransactions(r.Context(), req.UserID, startDate, endDate)
	if result.ProcessingFailed() {
		log.Printf("Sync for user %d could not run: %v", req.UserID, result.Errors)
	}

	w.Header().Set("Content-Type", "application/json")
	if result.ProcessingFailed() {
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(result)
}

func (h *SyncHandler) resolveWindow(req syncRequest) (time.Time, time.Time, error) {
	if req.StartDate == "" && req.EndDate == "" {
		end := time.Now().UTC().Truncate(24 * time.Hour)
		return end.AddDate(0, 0, -h.windowDays), end, nil
	}

	startDate, err := time.Parse(requestDateLayout, req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidDate("startDate")
	}
	endDate, err := time.Parse(requestDateLayout, req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidDate("endDate")
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, errWindowOrder
	}
	return startDate, endDate, nil
}
