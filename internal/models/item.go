package models

import (
	"time"
)

// Item represents a connection with a financial institution via the
// aggregator (one bank login). One Item can have multiple Accounts
// (e.g., checking + credit card from the same bank).
type Item struct {
	ID               string    `json:"id"`
	UserID           int64     `json:"userId"`
	AggregatorItemID string    `json:"aggregatorItemId"`
	AccessToken      string    `json:"-"` // Stored encrypted, never exposed
	InstitutionID    string    `json:"institutionId"`
	InstitutionName  string    `json:"institutionName"`
	Error            *string   `json:"error,omitempty"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type CreateItemParams struct {
	UserID           int64
	AggregatorItemID string
	AccessToken      string
	InstitutionID    string
	InstitutionName  string
}
