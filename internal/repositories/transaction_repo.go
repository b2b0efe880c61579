package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/status-marketplace/backend/internal/models"
)

type TransactionRepo struct {
	db Querier
}

func NewTransactionRepo(pool *pgxpool.Pool) *TransactionRepo {
	return &TransactionRepo{db: pool}
}

func (r *TransactionRepo) WithTx(tx pgx.Tx) *TransactionRepo {
	return &TransactionRepo{db: tx}
}

func (r *TransactionRepo) Create(ctx context.Context, t *models.Transaction) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO transactions (campaign_id, payer_id, payee_id, type, status,
			amount, platform_fee, net_amount, payment_intent_id, description, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`, t.CampaignID, t.PayerID, t.PayeeID, t.Type, t.Status,
		t.Amount, t.PlatformFee, t.NetAmount, t.PaymentIntentID, t.Description, t.CompletedAt,
	).Scan(&t.ID, &t.CreatedAt)
}

// CompleteByIntent marks the pending escrow-hold ledger entry for the
// given gateway intent as completed. Returns false when no pending
// entry matched, which a duplicate webhook delivery will hit.
func (r *TransactionRepo) CompleteByIntent(ctx context.Context, intentID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE transactions SET status = 'completed', completed_at = now()
		WHERE payment_intent_id = $1 AND status = 'pending'
	`, intentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *TransactionRepo) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, campaign_id, payer_id, payee_id, type, status,
			amount, platform_fee, net_amount, payment_intent_id, description,
			created_at, completed_at
		FROM transactions
		WHERE payer_id = $1 OR payee_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []*models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(
			&t.ID, &t.CampaignID, &t.PayerID, &t.PayeeID, &t.Type, &t.Status,
			&t.Amount, &t.PlatformFee, &t.NetAmount, &t.PaymentIntentID, &t.Description,
			&t.CreatedAt, &t.CompletedAt,
		); err != nil {
			return nil, err
		}
		txs = append(txs, &t)
	}
	return txs, rows.Err()
}

func (r *TransactionRepo) ListForCampaign(ctx context.Context, campaignID uuid.UUID) ([]*models.Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, campaign_id, payer_id, payee_id, type, status,
			amount, platform_fee, net_amount, payment_intent_id, description,
			created_at, completed_at
		FROM transactions
		WHERE campaign_id = $1
		ORDER BY created_at
	`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []*models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(
			&t.ID, &t.CampaignID, &t.PayerID, &t.PayeeID, &t.Type, &t.Status,
			&t.Amount, &t.PlatformFee, &t.NetAmount, &t.PaymentIntentID, &t.Description,
			&t.CreatedAt, &t.CompletedAt,
		); err != nil {
			return nil, err
		}
		txs = append(txs, &t)
	}
	return txs, rows.Err()
}
