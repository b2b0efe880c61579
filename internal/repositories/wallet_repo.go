package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/status-marketplace/backend/internal/models"
	"github.com/status-marketplace/backend/internal/money"
)

type WalletRepo struct {
	db Querier
}

func NewWalletRepo(pool *pgxpool.Pool) *WalletRepo {
	return &WalletRepo{db: pool}
}

func (r *WalletRepo) WithTx(tx pgx.Tx) *WalletRepo {
	return &WalletRepo{db: tx}
}

// Get returns the creator's wallet, or a zero-balance wallet when no
// row exists yet. The row is only materialized on first credit.
func (r *WalletRepo) Get(ctx context.Context, userID uuid.UUID) (*models.CreatorWallet, error) {
	var w models.CreatorWallet
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, available_balance, pending_balance, total_earned, created_at, updated_at
		FROM creator_wallets WHERE user_id = $1
	`, userID).Scan(&w.ID, &w.UserID, &w.AvailableBalance, &w.PendingBalance, &w.TotalEarned, &w.CreatedAt, &w.UpdatedAt)
	if err == pgx.ErrNoRows {
		return &models.CreatorWallet{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// CreditRelease adds a released payout to the creator's available
// balance, creating the wallet row if needed. The increment happens in
// SQL so concurrent releases never read-modify-write a stale balance.
func (r *WalletRepo) CreditRelease(ctx context.Context, userID uuid.UUID, amount money.Cents) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO creator_wallets (user_id, available_balance, pending_balance, total_earned)
		VALUES ($1, $2, 0, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			available_balance = creator_wallets.available_balance + EXCLUDED.available_balance,
			total_earned = creator_wallets.total_earned + EXCLUDED.total_earned,
			updated_at = now()
	`, userID, amount)
	return err
}

// MoveToPending shifts amount from available to pending in a single
// guarded statement. Returns false when the available balance does not
// cover the amount; two concurrent withdrawals cannot both pass the
// guard for the same funds.
func (r *WalletRepo) MoveToPending(ctx context.Context, userID uuid.UUID, amount money.Cents) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE creator_wallets SET
			available_balance = available_balance - $2,
			pending_balance = pending_balance + $2,
			updated_at = now()
		WHERE user_id = $1 AND available_balance >= $2
	`, userID, amount)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SettlePending clears amount out of pending once an operator marks
// the withdrawal paid, or moves it back to available on rejection.
func (r *WalletRepo) SettlePending(ctx context.Context, userID uuid.UUID, amount money.Cents, refund bool) (bool, error) {
	var query string
	if refund {
		query = `
			UPDATE creator_wallets SET
				pending_balance = pending_balance - $2,
				available_balance = available_balance + $2,
				updated_at = now()
			WHERE user_id = $1 AND pending_balance >= $2`
	} else {
		query = `
			UPDATE creator_wallets SET
				pending_balance = pending_balance - $2,
				updated_at = now()
			WHERE user_id = $1 AND pending_balance >= $2`
	}
	tag, err := r.db.Exec(ctx, query, userID, amount)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
