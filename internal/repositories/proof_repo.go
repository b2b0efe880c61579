package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/status-marketplace/backend/internal/models"
)

type ProofRepo struct {
	db Querier
}

func NewProofRepo(pool *pgxpool.Pool) *ProofRepo {
	return &ProofRepo{db: pool}
}

func (r *ProofRepo) WithTx(tx pgx.Tx) *ProofRepo {
	return &ProofRepo{db: tx}
}

const proofColumns = `
	id, campaign_id, creator_id, proof_type, file_url, file_name,
	view_count, scanned_views, status, submitted_at,
	reviewed_at, reviewed_by, reviewer_notes`

func scanProof(row pgx.Row) (*models.CampaignProof, error) {
	var p models.CampaignProof
	err := row.Scan(
		&p.ID, &p.CampaignID, &p.CreatorID, &p.ProofType, &p.FileURL, &p.FileName,
		&p.ViewCount, &p.ScannedViews, &p.Status, &p.SubmittedAt,
		&p.ReviewedAt, &p.ReviewedBy, &p.ReviewerNotes,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProofRepo) Create(ctx context.Context, p *models.CampaignProof) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO campaign_proofs (campaign_id, creator_id, proof_type, file_url, file_name, view_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, status, submitted_at
	`, p.CampaignID, p.CreatorID, p.ProofType, p.FileURL, p.FileName, p.ViewCount,
	).Scan(&p.ID, &p.Status, &p.SubmittedAt)
}

func (r *ProofRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CampaignProof, error) {
	return scanProof(r.db.QueryRow(ctx, `SELECT`+proofColumns+` FROM campaign_proofs WHERE id = $1`, id))
}

func (r *ProofRepo) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]*models.CampaignProof, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+proofColumns+` FROM campaign_proofs
		WHERE campaign_id = $1
		ORDER BY submitted_at DESC
	`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var proofs []*models.CampaignProof
	for rows.Next() {
		p, err := scanProof(rows)
		if err != nil {
			return nil, err
		}
		proofs = append(proofs, p)
	}
	return proofs, rows.Err()
}

// Review stamps the verdict on a proof. The status guard makes a proof
// reviewable exactly once; the second of two concurrent reviews gets
// nil back.
func (r *ProofRepo) Review(ctx context.Context, id uuid.UUID, status string, reviewerID uuid.UUID, notes *string) (*models.CampaignProof, error) {
	p, err := scanProof(r.db.QueryRow(ctx, `
		UPDATE campaign_proofs SET
			status = $2,
			reviewed_at = now(),
			reviewed_by = $3,
			reviewer_notes = $4
		WHERE id = $1 AND status = 'pending'
		RETURNING`+proofColumns, id, status, reviewerID, notes))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// ListPendingLinkProofs returns link proofs the worker has not scanned
// yet.
func (r *ProofRepo) ListPendingLinkProofs(ctx context.Context, limit int) ([]*models.CampaignProof, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT`+proofColumns+` FROM campaign_proofs
		WHERE proof_type = 'link' AND status = 'pending' AND scanned_views IS NULL
		ORDER BY submitted_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var proofs []*models.CampaignProof
	for rows.Next() {
		p, err := scanProof(rows)
		if err != nil {
			return nil, err
		}
		proofs = append(proofs, p)
	}
	return proofs, rows.Err()
}

func (r *ProofRepo) SetScannedViews(ctx context.Context, id uuid.UUID, views int64) error {
	_, err := r.db.Exec(ctx, `UPDATE campaign_proofs SET scanned_views = $2 WHERE id = $1`, id, views)
	return err
}
