package http

import (
	"encoding/json"
	"log"
	"net/http"

	"finch/internal/domain/link"
)

// LinkHandler exposes the institution-linking flow.
type LinkHandler struct {
	linkService *link.Service
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(linkService *link.Service) *LinkHandler {
	return &LinkHandler{linkService: linkService}
}

type createLinkTokenRequest struct {
	UserID int64 `json:"userId"`
}

type createLinkTokenResponse struct {
	LinkToken string `json:"linkToken"`
}

type exchangeTokenRequest struct {
	UserID      int64  `json:"userId"`
	PublicToken string `json:"publicToken"`
}

type exchangeTokenResponse struct {
	ItemID          string `json:"itemId"`
	InstitutionName string `json:"institutionName"`
}

// HandleCreateLinkToken issues a short-lived token used to start the link flow.
func (h *LinkHandler) HandleCreateLinkToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createLinkTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID <= 0 {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	token, err := h.linkService.CreateLinkToken(r.Context(), req.UserID)
	if err != nil {
		log.Printf("Error creating link token for user %d: %v", req.UserID, err)
		http.Error(w, "Failed to create link token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(createLinkTokenResponse{LinkToken: token})
}

// HandleExchangeToken finalizes the link flow and stores the new item.
func (h *LinkHandler) HandleExchangeToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req exchangeTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID <= 0 || req.PublicToken == "" {
		http.Error(w, "userId and publicToken are required", http.StatusBadRequest)
		return
	}

	item, err := h.linkService.ExchangeToken(r.Context(), req.UserID, req.PublicToken)
	if err != nil {
		log.Printf("Error exchanging public token for user %d: %v", req.UserID, err)
		http.Error(w, "Failed to exchange token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(exchangeTokenResponse{
		ItemID:          item.ID,
		InstitutionName: item.InstitutionName,
	})
}
