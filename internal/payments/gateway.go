package payments

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/status-marketplace/backend/internal/money"
)

// EscrowIntentParams carries everything the gateway needs to open an
// escrow payment intent. The metadata written to the gateway is the
// recoverable source of truth for the fund split: if the local campaign
// stamp fails after intent creation, the split can be reconstructed
// from the gateway side.
type EscrowIntentParams struct {
	CampaignID    uuid.UUID
	CreatorID     uuid.UUID
	AdvertiserID  uuid.UUID
	CustomerID    string
	Amount        money.Cents
	PlatformFee   money.Cents
	CreatorPayout money.Cents
	CPVRate       money.Cents
	ExpectedViews int64
}

type EscrowIntent struct {
	ID           string
	ClientSecret string
}

// WebhookEvent is the gateway-agnostic view of a verified webhook
// delivery. Only escrow payment events carry a CampaignID.
type WebhookEvent struct {
	Type            string
	PaymentIntentID string
	CampaignID      *uuid.UUID
}

const (
	WebhookPaymentSucceeded = "payment_intent.succeeded"
	WebhookPaymentFailed    = "payment_intent.payment_failed"
)

// Gateway is the card-payment processor boundary. The concrete Stripe
// implementation lives in this package; tests substitute a fake.
type Gateway interface {
	// EnsureCustomer finds an existing customer by email or creates
	// one. Idempotent per email.
	EnsureCustomer(ctx context.Context, email string) (string, error)
	// CreateEscrowIntent opens a payment intent for the escrow amount
	// in minor currency units, tagged with escrow metadata.
	CreateEscrowIntent(ctx context.Context, p EscrowIntentParams) (*EscrowIntent, error)
	// VerifyWebhook checks the delivery signature and extracts the
	// event. Rejects anything not signed with the webhook secret.
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

// IdempotencyKey derives a deterministic gateway idempotency key from
// the campaign id, so a retried funding call reuses the same payment
// intent instead of opening a second one.
func IdempotencyKey(campaignID uuid.UUID) string {
	return fmt.Sprintf("escrow:%s", campaignID)
}

// EscrowMetadata renders the intent params as gateway metadata.
// Amounts are in centavos, stringified.
func EscrowMetadata(p EscrowIntentParams) map[string]string {
	return map[string]string{
		"type":           "escrow",
		"campaign_id":    p.CampaignID.String(),
		"creator_id":     p.CreatorID.String(),
		"advertiser_id":  p.AdvertiserID.String(),
		"platform_fee":   strconv.FormatInt(int64(p.PlatformFee), 10),
		"creator_payout": strconv.FormatInt(int64(p.CreatorPayout), 10),
		"cpv_rate":       strconv.FormatInt(int64(p.CPVRate), 10),
		"expected_views": strconv.FormatInt(p.ExpectedViews, 10),
	}
}
