package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/status-marketplace/backend/internal/events"
	"github.com/status-marketplace/backend/internal/models"
	"github.com/status-marketplace/backend/internal/rbac"
	"github.com/status-marketplace/backend/internal/repositories"
	"github.com/status-marketplace/backend/internal/storage"
)

type ProofService struct {
	pool         *pgxpool.Pool
	proofRepo    *repositories.ProofRepo
	campaignRepo *repositories.CampaignRepo
	auditRepo    *repositories.AuditRepo
	store        *storage.ProofStore
	publisher    events.Publisher
	log          *zap.Logger
}

func NewProofService(
	pool *pgxpool.Pool,
	proofRepo *repositories.ProofRepo,
	campaignRepo *repositories.CampaignRepo,
	auditRepo *repositories.AuditRepo,
	store *storage.ProofStore,
	publisher events.Publisher,
	log *zap.Logger,
) *ProofService {
	return &ProofService{
		pool:         pool,
		proofRepo:    proofRepo,
		campaignRepo: campaignRepo,
		auditRepo:    auditRepo,
		store:        store,
		publisher:    publisher,
		log:          log,
	}
}

type SubmitProofInput struct {
	ProofType string
	// File proofs (screenshot, video)
	FileData    []byte
	FileName    string
	ContentType string
	// Link proofs
	LinkURL string

	ViewCount *int64
}

// Submit attaches evidence to a campaign and advances its verification
// state. Resubmission after rejection inserts a new proof row; the
// rejected one keeps its reviewer notes.
func (s *ProofService) Submit(ctx context.Context, actor rbac.Actor, campaignID uuid.UUID, in SubmitProofInput) (*models.CampaignProof, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("campaign %s: %w", campaignID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if !rbac.CanSubmitProof(actor, campaign.CreatorID) {
		return nil, fmt.Errorf("only the assigned creator submits proofs: %w", ErrForbidden)
	}
	if !models.IsValidProofType(in.ProofType) {
		return nil, fmt.Errorf("unknown proof type %q: %w", in.ProofType, ErrValidation)
	}
	if campaign.EscrowStatus == models.EscrowStatusNone {
		return nil, fmt.Errorf("campaign is not funded yet: %w", ErrConflict)
	}
	if campaign.VerificationStatus == models.VerificationVerified {
		return nil, fmt.Errorf("campaign already verified: %w", ErrConflict)
	}

	var fileURL string
	var fileName *string
	switch in.ProofType {
	case models.ProofTypeLink:
		parsed, err := url.ParseRequestURI(in.LinkURL)
		if err != nil || parsed.Host == "" {
			return nil, fmt.Errorf("link proof needs a valid URL: %w", ErrValidation)
		}
		fileURL = in.LinkURL
	default:
		if len(in.FileData) == 0 {
			return nil, fmt.Errorf("%s proof needs a file: %w", in.ProofType, ErrValidation)
		}
		path := storage.ObjectPath(actor.UserID, campaignID, in.FileName, time.Now())
		publicURL, err := s.store.Upload(ctx, path, in.ContentType, in.FileData)
		if err != nil {
			return nil, fmt.Errorf("proof upload: %w", err)
		}
		fileURL = publicURL
		fileName = &in.FileName
	}

	proof := &models.CampaignProof{
		CampaignID: campaignID,
		CreatorID:  actor.UserID,
		ProofType:  in.ProofType,
		FileURL:    fileURL,
		FileName:   fileName,
		ViewCount:  in.ViewCount,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.proofRepo.WithTx(tx).Create(ctx, proof); err != nil {
		return nil, err
	}
	// A proof submitted while an earlier one is still pending review
	// does not move the campaign; it just joins the queue.
	if _, err := s.campaignRepo.WithTx(tx).SetVerificationStatus(ctx, campaignID,
		[]string{models.VerificationNotStarted, models.VerificationRejected},
		models.VerificationProofSubmitted); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.UserID,
		ActorType:   "user",
		Action:      "proof_submitted",
		EntityType:  "campaign_proof",
		EntityID:    &proof.ID,
		Meta:        map[string]any{"campaign_id": campaignID.String(), "proof_type": in.ProofType},
	})
	_ = s.publisher.Publish(ctx, events.StreamCampaign, events.Event{
		Type: events.EventProofSubmitted,
		Payload: map[string]any{
			"campaign_id": campaignID.String(),
			"proof_id":    proof.ID.String(),
			"proof_type":  in.ProofType,
		},
	})

	return proof, nil
}

func (s *ProofService) ListByCampaign(ctx context.Context, actor rbac.Actor, campaignID uuid.UUID) ([]*models.CampaignProof, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("campaign %s: %w", campaignID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !rbac.CanViewCampaign(actor, campaign.AdvertiserID, campaign.CreatorID) {
		return nil, fmt.Errorf("not a campaign participant: %w", ErrForbidden)
	}
	return s.proofRepo.ListByCampaign(ctx, campaignID)
}

// Review stamps a verdict on a pending proof and cascades the campaign
// state in the same transaction: approval moves verification to
// verified and the campaign to completed, rejection moves verification
// to rejected and leaves the campaign open for resubmission. Reviewing
// an already-reviewed proof is a guarded conflict, so the cascade
// cannot run twice.
func (s *ProofService) Review(ctx context.Context, actor rbac.Actor, proofID uuid.UUID, approve bool, notes *string) (*models.CampaignProof, error) {
	proof, err := s.proofRepo.GetByID(ctx, proofID)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("proof %s: %w", proofID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	campaign, err := s.campaignRepo.GetByID(ctx, proof.CampaignID)
	if err != nil {
		return nil, err
	}
	if !rbac.CanReviewProof(actor, campaign.AdvertiserID, campaign.CreatorID) {
		return nil, fmt.Errorf("not authorized to review this proof: %w", ErrForbidden)
	}

	status := models.ProofStatusRejected
	if approve {
		status = models.ProofStatusApproved
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	reviewed, err := s.proofRepo.WithTx(tx).Review(ctx, proofID, status, actor.UserID, notes)
	if err != nil {
		return nil, err
	}
	if reviewed == nil {
		return nil, fmt.Errorf("proof already reviewed: %w", ErrConflict)
	}

	reviewableFrom := []string{models.VerificationProofSubmitted, models.VerificationUnderReview}
	if approve {
		moved, err := s.campaignRepo.WithTx(tx).SetVerificationStatus(ctx, proof.CampaignID, reviewableFrom, models.VerificationVerified)
		if err != nil {
			return nil, err
		}
		if !moved {
			return nil, fmt.Errorf("campaign verification is %s, not reviewable: %w", campaign.VerificationStatus, ErrConflict)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE campaigns SET status = 'completed', completed_at = now(), updated_at = now()
			WHERE id = $1 AND status <> 'completed'
		`, proof.CampaignID); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.campaignRepo.WithTx(tx).SetVerificationStatus(ctx, proof.CampaignID, reviewableFrom, models.VerificationRejected); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	actorType := "user"
	if actor.IsAdmin() {
		actorType = "admin"
	}
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.UserID,
		ActorType:   actorType,
		Action:      "proof_" + status,
		EntityType:  "campaign_proof",
		EntityID:    &proofID,
		Meta:        map[string]any{"campaign_id": proof.CampaignID.String()},
	})
	_ = s.publisher.Publish(ctx, events.StreamCampaign, events.Event{
		Type: events.EventProofReviewed,
		Payload: map[string]any{
			"campaign_id": proof.CampaignID.String(),
			"proof_id":    proofID.String(),
			"status":      status,
		},
	})

	return reviewed, nil
}
