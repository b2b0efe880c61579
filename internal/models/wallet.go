package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/status-marketplace/backend/internal/money"
)

// CreatorWallet holds a creator's balances, one row per user. Balances
// are only ever changed by atomic increments at the storage layer:
// escrow release adds to available/total_earned, a withdrawal moves
// available -> pending in a single UPDATE. Both balances stay >= 0.
type CreatorWallet struct {
	ID               uuid.UUID   `json:"id"`
	UserID           uuid.UUID   `json:"user_id"`
	AvailableBalance money.Cents `json:"available_balance"`
	PendingBalance   money.Cents `json:"pending_balance"`
	TotalEarned      money.Cents `json:"total_earned"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}
