package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/status-marketplace/backend/internal/money"
)

// Transaction types
const (
	TxTypeEscrowHold    = "escrow_hold"
	TxTypeEscrowRelease = "escrow_release"
	TxTypeWithdrawal    = "withdrawal"
	TxTypeRefund        = "refund"
	TxTypePenalty       = "penalty"
)

// Transaction statuses
const (
	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusFailed    = "failed"
)

// Transaction is an append-only ledger entry. Rows are inserted once
// per fund movement; historical amounts are never mutated, only the
// status and completed_at of a pending row may advance.
type Transaction struct {
	ID              uuid.UUID   `json:"id"`
	CampaignID      *uuid.UUID  `json:"campaign_id,omitempty"` // nil for non-campaign movements
	PayerID         uuid.UUID   `json:"payer_id"`
	PayeeID         uuid.UUID   `json:"payee_id"`
	Amount          money.Cents `json:"amount"`
	PlatformFee     money.Cents `json:"platform_fee"`
	NetAmount       money.Cents `json:"net_amount"`
	Type            string      `json:"type"`
	Status          string      `json:"status"`
	PaymentIntentID *string     `json:"payment_intent_id,omitempty"`
	Description     *string     `json:"description,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	CompletedAt     *time.Time  `json:"completed_at,omitempty"`
}
