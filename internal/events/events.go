package events

import "context"

// Stream all campaign-related events are published on.
const StreamCampaign = "events:campaign"

// Event types
const (
	EventCampaignStatusChanged = "campaign_status_changed"
	EventEscrowFunded          = "escrow_funded"
	EventEscrowHeld            = "escrow_held"
	EventEscrowReleased        = "escrow_released"
	EventProofSubmitted        = "proof_submitted"
	EventProofReviewed         = "proof_reviewed"
	EventWithdrawalRequested   = "withdrawal_requested"
	EventDeadlineExpired       = "publish_deadline_expired"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
