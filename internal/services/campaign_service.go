package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/status-marketplace/backend/internal/events"
	"github.com/status-marketplace/backend/internal/models"
	"github.com/status-marketplace/backend/internal/money"
	"github.com/status-marketplace/backend/internal/rbac"
	"github.com/status-marketplace/backend/internal/repositories"
)

type CampaignService struct {
	campaignRepo *repositories.CampaignRepo
	userRepo     *repositories.UserRepo
	auditRepo    *repositories.AuditRepo
	publisher    events.Publisher
	log          *zap.Logger
}

func NewCampaignService(
	campaignRepo *repositories.CampaignRepo,
	userRepo *repositories.UserRepo,
	auditRepo *repositories.AuditRepo,
	publisher events.Publisher,
	log *zap.Logger,
) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		userRepo:     userRepo,
		auditRepo:    auditRepo,
		publisher:    publisher,
		log:          log,
	}
}

func (s *CampaignService) Create(ctx context.Context, actor rbac.Actor, creatorID uuid.UUID, title string, description *string, price money.Cents) (*models.Campaign, error) {
	if actor.Role != rbac.RoleAdvertiser {
		return nil, fmt.Errorf("only advertisers create campaigns: %w", ErrForbidden)
	}
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", ErrValidation)
	}
	if price <= 0 {
		return nil, fmt.Errorf("price must be positive: %w", ErrValidation)
	}

	creator, err := s.userRepo.GetByID(ctx, creatorID)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("creator %s: %w", creatorID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if creator.Role != string(rbac.RoleCreator) {
		return nil, fmt.Errorf("user %s is not a creator: %w", creatorID, ErrValidation)
	}

	campaign := &models.Campaign{
		AdvertiserID: actor.UserID,
		CreatorID:    creatorID,
		Title:        title,
		Description:  description,
		Price:        price,
	}
	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.UserID,
		ActorType:   "user",
		Action:      "campaign_created",
		EntityType:  "campaign",
		EntityID:    &campaign.ID,
		Meta:        map[string]any{"creator_id": creatorID.String(), "price": int64(price)},
	})

	return campaign, nil
}

func (s *CampaignService) Get(ctx context.Context, actor rbac.Actor, id uuid.UUID) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("campaign %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !rbac.CanViewCampaign(actor, campaign.AdvertiserID, campaign.CreatorID) {
		return nil, fmt.Errorf("not a campaign participant: %w", ErrForbidden)
	}
	return campaign, nil
}

// List returns the actor's campaigns, both sides. Admins see all.
func (s *CampaignService) List(ctx context.Context, actor rbac.Actor, status string, limit, offset int) ([]*models.Campaign, error) {
	filter := repositories.CampaignFilter{Status: status, Limit: limit, Offset: offset}
	if !actor.IsAdmin() {
		filter.ParticipantID = &actor.UserID
	}
	return s.campaignRepo.List(ctx, filter)
}

// Activate marks the campaign as in progress once the creator starts
// the work. Only moves pending campaigns.
func (s *CampaignService) Activate(ctx context.Context, actor rbac.Actor, id uuid.UUID) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("campaign %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if actor.UserID != campaign.CreatorID && !actor.IsAdmin() {
		return nil, fmt.Errorf("only the assigned creator activates a campaign: %w", ErrForbidden)
	}
	if campaign.Status != models.CampaignStatusPending {
		return nil, fmt.Errorf("campaign is %s, not pending: %w", campaign.Status, ErrConflict)
	}
	if campaign.EscrowStatus == models.EscrowStatusNone {
		return nil, fmt.Errorf("campaign is not funded yet: %w", ErrConflict)
	}

	if err := s.campaignRepo.UpdateStatus(ctx, id, models.CampaignStatusActive); err != nil {
		return nil, err
	}
	campaign.Status = models.CampaignStatusActive

	_ = s.publisher.Publish(ctx, events.StreamCampaign, events.Event{
		Type: events.EventCampaignStatusChanged,
		Payload: map[string]any{
			"campaign_id": id.String(),
			"old_status":  models.CampaignStatusPending,
			"new_status":  models.CampaignStatusActive,
		},
	})

	return campaign, nil
}
