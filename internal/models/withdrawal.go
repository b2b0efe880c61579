package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/status-marketplace/backend/internal/money"
)

// MinWithdrawalCents is the minimum payout per request (R$ 50).
const MinWithdrawalCents = money.Cents(5000)

// Withdrawal statuses. Requested withdrawals sit in the creator's
// pending balance until the weekly settlement batch (external process)
// marks them paid.
const (
	WithdrawalStatusRequested = "requested"
	WithdrawalStatusPaid      = "paid"
	WithdrawalStatusRejected  = "rejected"
)

type Withdrawal struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	Amount    money.Cents `json:"amount"`
	PixKey    string      `json:"pix_key"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	PaidAt    *time.Time  `json:"paid_at,omitempty"`
}
