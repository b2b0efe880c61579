package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/status-marketplace/backend/internal/config"
	"github.com/status-marketplace/backend/internal/events"
	"github.com/status-marketplace/backend/internal/models"
	"github.com/status-marketplace/backend/internal/money"
	"github.com/status-marketplace/backend/internal/payments"
	"github.com/status-marketplace/backend/internal/rbac"
	"github.com/status-marketplace/backend/internal/repositories"
)

type EscrowService struct {
	pool         *pgxpool.Pool
	campaignRepo *repositories.CampaignRepo
	txRepo       *repositories.TransactionRepo
	walletRepo   *repositories.WalletRepo
	userRepo     *repositories.UserRepo
	auditRepo    *repositories.AuditRepo
	gateway      payments.Gateway
	publisher    events.Publisher
	cfg          *config.Config
	log          *zap.Logger
}

func NewEscrowService(
	pool *pgxpool.Pool,
	campaignRepo *repositories.CampaignRepo,
	txRepo *repositories.TransactionRepo,
	walletRepo *repositories.WalletRepo,
	userRepo *repositories.UserRepo,
	auditRepo *repositories.AuditRepo,
	gateway payments.Gateway,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *EscrowService {
	return &EscrowService{
		pool:         pool,
		campaignRepo: campaignRepo,
		txRepo:       txRepo,
		walletRepo:   walletRepo,
		userRepo:     userRepo,
		auditRepo:    auditRepo,
		gateway:      gateway,
		publisher:    publisher,
		cfg:          cfg,
		log:          log,
	}
}

type FundResult struct {
	ClientSecret    string
	PaymentIntentID string
	Amount          money.Cents
	PlatformFee     money.Cents
	CreatorPayout   money.Cents
}

// Fund opens a gateway payment intent for the campaign's escrow amount
// and stamps the fee split on the campaign. Safe to retry: the intent
// idempotency key is derived from the campaign id, so a second call
// for a still-pending escrow returns the same intent.
func (s *EscrowService) Fund(ctx context.Context, actor rbac.Actor, campaignID, creatorID uuid.UUID, amount, cpvRate money.Cents, expectedViews int64) (*FundResult, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("campaign %s: %w", campaignID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if !rbac.CanFundEscrow(actor, campaign.AdvertiserID) {
		return nil, fmt.Errorf("only the campaign advertiser can fund escrow: %w", ErrForbidden)
	}
	if creatorID != campaign.CreatorID {
		return nil, fmt.Errorf("creator_id does not match the campaign: %w", ErrValidation)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("escrow amount must be positive: %w", ErrValidation)
	}
	if campaign.EscrowStatus == models.EscrowStatusHeld || campaign.EscrowStatus == models.EscrowStatusReleased {
		return nil, fmt.Errorf("escrow already %s: %w", campaign.EscrowStatus, ErrConflict)
	}

	fee, payout := money.SplitFee(amount, s.cfg.PlatformFeePercent)

	advertiser, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	customerID, err := s.gateway.EnsureCustomer(ctx, advertiser.Email)
	if err != nil {
		return nil, fmt.Errorf("gateway customer: %w", err)
	}

	intent, err := s.gateway.CreateEscrowIntent(ctx, payments.EscrowIntentParams{
		CampaignID:    campaign.ID,
		CreatorID:     campaign.CreatorID,
		AdvertiserID:  campaign.AdvertiserID,
		CustomerID:    customerID,
		Amount:        amount,
		PlatformFee:   fee,
		CreatorPayout: payout,
		CPVRate:       cpvRate,
		ExpectedViews: expectedViews,
	})
	if err != nil {
		return nil, fmt.Errorf("gateway intent: %w", err)
	}

	// The intent exists at the gateway from here on. A failed local
	// stamp is logged, not returned: the split lives in the intent
	// metadata and can be reconciled, while failing the request would
	// leave the advertiser a live intent the campaign knows nothing
	// about either way.
	deadline := time.Now().Add(s.cfg.PublishDeadline)
	if err := s.campaignRepo.StampEscrow(ctx, campaign.ID, amount, fee, payout, cpvRate, expectedViews, intent.ID, deadline); err != nil {
		s.log.Error("stamp escrow on campaign failed after intent creation",
			zap.String("campaign_id", campaign.ID.String()),
			zap.String("payment_intent_id", intent.ID),
			zap.Error(err))
	}

	desc := fmt.Sprintf("Escrow hold for campaign %q", campaign.Title)
	if err := s.txRepo.Create(ctx, &models.Transaction{
		CampaignID:      &campaign.ID,
		PayerID:         campaign.AdvertiserID,
		PayeeID:         campaign.CreatorID,
		Type:            models.TxTypeEscrowHold,
		Status:          models.TxStatusPending,
		Amount:          amount,
		PlatformFee:     fee,
		NetAmount:       payout,
		PaymentIntentID: &intent.ID,
		Description:     &desc,
	}); err != nil {
		s.log.Error("escrow hold ledger insert failed",
			zap.String("campaign_id", campaign.ID.String()),
			zap.Error(err))
	}

	s.audit(ctx, &actor.UserID, "user", "escrow_funded", campaign.ID, map[string]any{
		"amount": int64(amount), "platform_fee": int64(fee), "creator_payout": int64(payout),
	})
	s.publish(ctx, events.EventEscrowFunded, campaign.ID, map[string]any{
		"payment_intent_id": intent.ID,
		"amount":            int64(amount),
	})

	return &FundResult{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Amount:          amount,
		PlatformFee:     fee,
		CreatorPayout:   payout,
	}, nil
}

// Release settles the escrow into the creator's wallet. Wallet credit,
// campaign flip and ledger entry commit in one transaction; the
// conditional campaign update is the double-release guard, so the
// second of two concurrent calls finds no releasable row and fails
// without touching the wallet.
func (s *EscrowService) Release(ctx context.Context, actor rbac.Actor, campaignID uuid.UUID) (money.Cents, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err == pgx.ErrNoRows {
		return 0, fmt.Errorf("campaign %s: %w", campaignID, ErrNotFound)
	}
	if err != nil {
		return 0, err
	}

	if !rbac.CanReleaseEscrow(actor, campaign.AdvertiserID) {
		return 0, fmt.Errorf("only the campaign advertiser or an admin can release escrow: %w", ErrForbidden)
	}
	if campaign.VerificationStatus != models.VerificationVerified && !actor.IsAdmin() {
		return 0, fmt.Errorf("campaign verification is %s, not verified: %w", campaign.VerificationStatus, ErrConflict)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	released, err := s.campaignRepo.WithTx(tx).ReleaseEscrow(ctx, campaignID)
	if err != nil {
		return 0, err
	}
	if released == nil {
		return 0, fmt.Errorf("escrow is %s, not releasable: %w", campaign.EscrowStatus, ErrConflict)
	}

	if err := s.walletRepo.WithTx(tx).CreditRelease(ctx, released.CreatorID, released.CreatorPayout); err != nil {
		return 0, fmt.Errorf("wallet credit: %w", err)
	}

	now := time.Now()
	desc := fmt.Sprintf("Escrow release for campaign %q", released.Title)
	entry := &models.Transaction{
		CampaignID:      &released.ID,
		PayerID:         released.AdvertiserID,
		PayeeID:         released.CreatorID,
		Type:            models.TxTypeEscrowRelease,
		Status:          models.TxStatusCompleted,
		Amount:          released.CreatorPayout,
		PlatformFee:     0,
		NetAmount:       released.CreatorPayout,
		PaymentIntentID: released.PaymentIntentID,
		Description:     &desc,
		CompletedAt:     &now,
	}
	if err := s.txRepo.WithTx(tx).Create(ctx, entry); err != nil {
		return 0, fmt.Errorf("release ledger insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	actorType := "user"
	if actor.IsAdmin() {
		actorType = "admin"
	}
	s.audit(ctx, &actor.UserID, actorType, "escrow_released", released.ID, map[string]any{
		"creator_payout": int64(released.CreatorPayout),
	})
	s.publish(ctx, events.EventEscrowReleased, released.ID, map[string]any{
		"creator_id": released.CreatorID.String(),
		"payout":     int64(released.CreatorPayout),
	})

	return released.CreatorPayout, nil
}

// HandleWebhook processes a verified gateway delivery. Duplicate
// deliveries are no-ops: the payment_pending guard in MarkEscrowHeld
// absorbs them.
func (s *EscrowService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		return fmt.Errorf("webhook verification: %w", err)
	}

	switch event.Type {
	case payments.WebhookPaymentSucceeded:
		campaign, err := s.campaignRepo.MarkEscrowHeld(ctx, event.PaymentIntentID)
		if err != nil {
			return err
		}
		if campaign == nil {
			s.log.Info("webhook for unknown or already-held intent",
				zap.String("payment_intent_id", event.PaymentIntentID))
			return nil
		}
		if _, err := s.txRepo.CompleteByIntent(ctx, event.PaymentIntentID); err != nil {
			s.log.Error("complete hold ledger entry failed",
				zap.String("payment_intent_id", event.PaymentIntentID),
				zap.Error(err))
		}
		s.audit(ctx, nil, "gateway", "escrow_held", campaign.ID, map[string]any{
			"payment_intent_id": event.PaymentIntentID,
		})
		s.publish(ctx, events.EventEscrowHeld, campaign.ID, map[string]any{
			"payment_intent_id": event.PaymentIntentID,
		})

	case payments.WebhookPaymentFailed:
		// Escrow stays payment_pending; the advertiser can retry with
		// the same intent.
		s.log.Warn("escrow payment failed at gateway",
			zap.String("payment_intent_id", event.PaymentIntentID))
		if event.CampaignID != nil {
			s.audit(ctx, nil, "gateway", "escrow_payment_failed", *event.CampaignID, map[string]any{
				"payment_intent_id": event.PaymentIntentID,
			})
		}
	}

	return nil
}

func (s *EscrowService) audit(ctx context.Context, actorID *uuid.UUID, actorType, action string, entityID uuid.UUID, meta map[string]any) {
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: actorID,
		ActorType:   actorType,
		Action:      action,
		EntityType:  "campaign",
		EntityID:    &entityID,
		Meta:        meta,
	})
}

func (s *EscrowService) publish(ctx context.Context, eventType string, campaignID uuid.UUID, payload map[string]any) {
	payload["campaign_id"] = campaignID.String()
	_ = s.publisher.Publish(ctx, events.StreamCampaign, events.Event{
		Type:    eventType,
		Payload: payload,
	})
}
