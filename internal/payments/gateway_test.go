package payments

import (
	"testing"

	"github.com/google/uuid"
)

func TestIdempotencyKeyDeterministic(t *testing.T) {
	id := uuid.New()
	if IdempotencyKey(id) != IdempotencyKey(id) {
		t.Error("same campaign must yield the same idempotency key")
	}
	if IdempotencyKey(id) == IdempotencyKey(uuid.New()) {
		t.Error("different campaigns must yield different idempotency keys")
	}
	if IdempotencyKey(id) != "escrow:"+id.String() {
		t.Errorf("unexpected key format: %s", IdempotencyKey(id))
	}
}

func TestEscrowMetadata(t *testing.T) {
	p := EscrowIntentParams{
		CampaignID:    uuid.New(),
		CreatorID:     uuid.New(),
		AdvertiserID:  uuid.New(),
		Amount:        20000,
		PlatformFee:   3600,
		CreatorPayout: 16400,
		CPVRate:       5,
		ExpectedViews: 10000,
	}

	meta := EscrowMetadata(p)

	want := map[string]string{
		"type":           "escrow",
		"campaign_id":    p.CampaignID.String(),
		"creator_id":     p.CreatorID.String(),
		"advertiser_id":  p.AdvertiserID.String(),
		"platform_fee":   "3600",
		"creator_payout": "16400",
		"cpv_rate":       "5",
		"expected_views": "10000",
	}

	for k, v := range want {
		if meta[k] != v {
			t.Errorf("metadata[%q] = %q, want %q", k, meta[k], v)
		}
	}
}
