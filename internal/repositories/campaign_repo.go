package repositories

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/status-marketplace/backend/internal/models"
	"github.com/status-marketplace/backend/internal/money"
)

type CampaignRepo struct {
	db Querier
}

func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{db: pool}
}

// WithTx returns a copy of the repo bound to the given transaction.
func (r *CampaignRepo) WithTx(tx pgx.Tx) *CampaignRepo {
	return &CampaignRepo{db: tx}
}

const campaignColumns = `
	id, advertiser_id, creator_id, title, description, status,
	escrow_status, verification_status, price, escrow_amount,
	platform_fee, creator_payout, cpv_rate, expected_views,
	payment_intent_id, publish_deadline, deadline_notified,
	created_at, updated_at, completed_at`

func scanCampaign(row pgx.Row) (*models.Campaign, error) {
	var c models.Campaign
	err := row.Scan(
		&c.ID, &c.AdvertiserID, &c.CreatorID, &c.Title, &c.Description, &c.Status,
		&c.EscrowStatus, &c.VerificationStatus, &c.Price, &c.EscrowAmount,
		&c.PlatformFee, &c.CreatorPayout, &c.CPVRate, &c.ExpectedViews,
		&c.PaymentIntentID, &c.PublishDeadline, &c.DeadlineNotified,
		&c.CreatedAt, &c.UpdatedAt, &c.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO campaigns (advertiser_id, creator_id, title, description, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, escrow_status, verification_status, created_at, updated_at
	`, c.AdvertiserID, c.CreatorID, c.Title, c.Description, c.Price).Scan(
		&c.ID, &c.Status, &c.EscrowStatus, &c.VerificationStatus, &c.CreatedAt, &c.UpdatedAt,
	)
}

func (r *CampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	return scanCampaign(r.db.QueryRow(ctx, `SELECT`+campaignColumns+` FROM campaigns WHERE id = $1`, id))
}

type CampaignFilter struct {
	ParticipantID *uuid.UUID
	Status        string
	Limit         int
	Offset        int
}

func (r *CampaignRepo) List(ctx context.Context, f CampaignFilter) ([]*models.Campaign, error) {
	query := `SELECT` + campaignColumns + ` FROM campaigns WHERE 1=1`
	args := []any{}
	argN := 1

	if f.ParticipantID != nil {
		query += ` AND (advertiser_id = $1 OR creator_id = $1)`
		args = append(args, *f.ParticipantID)
		argN++
	}
	if f.Status != "" {
		query += ` AND status = $` + strconv.Itoa(argN)
		args = append(args, f.Status)
		argN++
	}
	query += ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT $` + strconv.Itoa(argN)
		args = append(args, f.Limit)
		argN++
	}
	if f.Offset > 0 {
		query += ` OFFSET $` + strconv.Itoa(argN)
		args = append(args, f.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []*models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// StampEscrow records the escrow breakdown and gateway intent on a
// campaign after the payment intent was created, moving escrow_status
// to payment_pending.
func (r *CampaignRepo) StampEscrow(ctx context.Context, id uuid.UUID, amount, fee, payout money.Cents, cpvRate money.Cents, expectedViews int64, intentID string, deadline time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE campaigns SET
			escrow_status = 'payment_pending',
			escrow_amount = $2,
			platform_fee = $3,
			creator_payout = $4,
			cpv_rate = $5,
			expected_views = $6,
			payment_intent_id = $7,
			publish_deadline = $8,
			updated_at = now()
		WHERE id = $1
	`, id, amount, fee, payout, cpvRate, expectedViews, intentID, deadline)
	return err
}

// MarkEscrowHeld confirms gateway payment for the intent. The guard on
// escrow_status makes duplicate webhook deliveries no-ops; the returned
// campaign is nil when nothing transitioned.
func (r *CampaignRepo) MarkEscrowHeld(ctx context.Context, intentID string) (*models.Campaign, error) {
	c, err := scanCampaign(r.db.QueryRow(ctx, `
		UPDATE campaigns SET escrow_status = 'held', updated_at = now()
		WHERE payment_intent_id = $1 AND escrow_status = 'payment_pending'
		RETURNING`+campaignColumns, intentID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// ReleaseEscrow flips the campaign to released/completed in a single
// conditional statement. Zero rows means the escrow was never funded or
// was already released; concurrent releases race on this guard and only
// one of them gets the row back.
func (r *CampaignRepo) ReleaseEscrow(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	c, err := scanCampaign(r.db.QueryRow(ctx, `
		UPDATE campaigns SET
			escrow_status = 'released',
			status = 'completed',
			completed_at = now(),
			updated_at = now()
		WHERE id = $1 AND escrow_status IN ('payment_pending', 'held')
		RETURNING`+campaignColumns, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// SetVerificationStatus moves verification_status to the target only
// when the current value is one of from. Returns false when the guard
// rejected the transition.
func (r *CampaignRepo) SetVerificationStatus(ctx context.Context, id uuid.UUID, from []string, to string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE campaigns SET verification_status = $2, updated_at = now()
		WHERE id = $1 AND verification_status = ANY($3)
	`, id, to, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *CampaignRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.db.Exec(ctx, `UPDATE campaigns SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	return err
}

// ListDeadlineExpired returns funded campaigns whose publish deadline
// has passed and that have not been flagged yet.
func (r *CampaignRepo) ListDeadlineExpired(ctx context.Context, now time.Time) ([]*models.Campaign, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+campaignColumns+` FROM campaigns
		WHERE escrow_status IN ('payment_pending', 'held')
		  AND status <> 'completed'
		  AND publish_deadline IS NOT NULL
		  AND publish_deadline < $1
		  AND NOT deadline_notified
		ORDER BY publish_deadline
	`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []*models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepo) MarkDeadlineNotified(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE campaigns SET deadline_notified = TRUE, updated_at = now() WHERE id = $1`, id)
	return err
}
