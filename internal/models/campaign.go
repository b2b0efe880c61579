package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/status-marketplace/backend/internal/money"
)

// Campaign business lifecycle.
const (
	CampaignStatusPending   = "pending"
	CampaignStatusActive    = "active"
	CampaignStatusCompleted = "completed"
)

// Escrow (money) lifecycle. Independent from the business and
// verification lifecycles, but causally ordered: escrow must be at
// least payment_pending before verification matters, and verification
// must reach verified before escrow may be released.
const (
	EscrowStatusNone           = "none"
	EscrowStatusPaymentPending = "payment_pending"
	EscrowStatusHeld           = "held"
	EscrowStatusReleased       = "released"
)

// Proof (verification) lifecycle.
const (
	VerificationNotStarted     = "not_started"
	VerificationProofSubmitted = "proof_submitted"
	VerificationUnderReview    = "under_review"
	VerificationVerified       = "verified"
	VerificationRejected       = "rejected"
)

// ValidVerificationTransitions: from -> []to. Rejected loops back to
// proof_submitted through a new proof row; the rejected row is kept.
var ValidVerificationTransitions = map[string][]string{
	VerificationNotStarted:     {VerificationProofSubmitted},
	VerificationProofSubmitted: {VerificationUnderReview, VerificationVerified, VerificationRejected},
	VerificationUnderReview:    {VerificationVerified, VerificationRejected},
	VerificationVerified:       {},
	VerificationRejected:       {VerificationProofSubmitted},
}

func IsValidVerificationTransition(from, to string) bool {
	allowed, ok := ValidVerificationTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// EscrowReleasable reports whether escrow in the given status may be
// released. This mirrors the conditional UPDATE guard in the campaign
// repo; the repo guard is the one that is race-safe.
func EscrowReleasable(escrowStatus string) bool {
	return escrowStatus == EscrowStatusPaymentPending || escrowStatus == EscrowStatusHeld
}

type Campaign struct {
	ID           uuid.UUID `json:"id"`
	AdvertiserID uuid.UUID `json:"advertiser_id"`
	CreatorID    uuid.UUID `json:"creator_id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`

	// Commercial fields, in centavos. CreatorPayout is derived once at
	// funding time (EscrowAmount - PlatformFee) and never recomputed.
	Price         money.Cents `json:"price"`
	EscrowAmount  money.Cents `json:"escrow_amount"`
	PlatformFee   money.Cents `json:"platform_fee"`
	CreatorPayout money.Cents `json:"creator_payout"`
	CPVRate       money.Cents `json:"cpv_rate"`
	ExpectedViews int64       `json:"expected_views"`

	Status             string  `json:"status"`
	EscrowStatus       string  `json:"escrow_status"`
	VerificationStatus string  `json:"verification_status"`
	PaymentIntentID    *string `json:"payment_intent_id,omitempty"`
	DeadlineNotified   bool    `json:"deadline_notified"`

	PublishDeadline *time.Time `json:"publish_deadline,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
