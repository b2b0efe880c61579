package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/status-marketplace/backend/internal/models"
)

type WithdrawalRepo struct {
	db Querier
}

func NewWithdrawalRepo(pool *pgxpool.Pool) *WithdrawalRepo {
	return &WithdrawalRepo{db: pool}
}

func (r *WithdrawalRepo) WithTx(tx pgx.Tx) *WithdrawalRepo {
	return &WithdrawalRepo{db: tx}
}

func (r *WithdrawalRepo) Create(ctx context.Context, w *models.Withdrawal) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO withdrawals (user_id, amount, pix_key)
		VALUES ($1, $2, $3)
		RETURNING id, status, created_at
	`, w.UserID, w.Amount, w.PixKey).Scan(&w.ID, &w.Status, &w.CreatedAt)
}

func (r *WithdrawalRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, amount, pix_key, status, created_at, paid_at
		FROM withdrawals WHERE id = $1
	`, id).Scan(&w.ID, &w.UserID, &w.Amount, &w.PixKey, &w.Status, &w.CreatedAt, &w.PaidAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WithdrawalRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Withdrawal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, amount, pix_key, status, created_at, paid_at
		FROM withdrawals
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ws []*models.Withdrawal
	for rows.Next() {
		var w models.Withdrawal
		if err := rows.Scan(&w.ID, &w.UserID, &w.Amount, &w.PixKey, &w.Status, &w.CreatedAt, &w.PaidAt); err != nil {
			return nil, err
		}
		ws = append(ws, &w)
	}
	return ws, rows.Err()
}

// SetStatus moves a requested withdrawal to paid or rejected. Guarded
// so a settlement run cannot double-apply.
func (r *WithdrawalRepo) SetStatus(ctx context.Context, id uuid.UUID, status string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE withdrawals SET status = $2, paid_at = CASE WHEN $2 = 'paid' THEN now() END
		WHERE id = $1 AND status = 'requested'
	`, id, status)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
