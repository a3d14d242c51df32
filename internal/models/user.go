package models

import (
	"time"
)

// User is the owning entity for items, accounts and transactions.
// Authentication lives outside this service; only the fields the sync
// pipeline and scheduler need are modeled here.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
