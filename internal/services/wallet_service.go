package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/status-marketplace/backend/internal/config"
	"github.com/status-marketplace/backend/internal/events"
	"github.com/status-marketplace/backend/internal/models"
	"github.com/status-marketplace/backend/internal/money"
	"github.com/status-marketplace/backend/internal/rbac"
	"github.com/status-marketplace/backend/internal/repositories"
)

type WalletService struct {
	pool           *pgxpool.Pool
	walletRepo     *repositories.WalletRepo
	txRepo         *repositories.TransactionRepo
	withdrawalRepo *repositories.WithdrawalRepo
	auditRepo      *repositories.AuditRepo
	publisher      events.Publisher
	cfg            *config.Config
	log            *zap.Logger
}

func NewWalletService(
	pool *pgxpool.Pool,
	walletRepo *repositories.WalletRepo,
	txRepo *repositories.TransactionRepo,
	withdrawalRepo *repositories.WithdrawalRepo,
	auditRepo *repositories.AuditRepo,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *WalletService {
	return &WalletService{
		pool:           pool,
		walletRepo:     walletRepo,
		txRepo:         txRepo,
		withdrawalRepo: withdrawalRepo,
		auditRepo:      auditRepo,
		publisher:      publisher,
		cfg:            cfg,
		log:            log,
	}
}

type WalletView struct {
	Wallet       *models.CreatorWallet  `json:"wallet"`
	Transactions []*models.Transaction  `json:"transactions"`
	Withdrawals  []*models.Withdrawal   `json:"withdrawals"`
}

func (s *WalletService) Get(ctx context.Context, actor rbac.Actor) (*WalletView, error) {
	wallet, err := s.walletRepo.Get(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	txs, err := s.txRepo.ListForUser(ctx, actor.UserID, 50)
	if err != nil {
		return nil, err
	}
	ws, err := s.withdrawalRepo.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return &WalletView{Wallet: wallet, Transactions: txs, Withdrawals: ws}, nil
}

// RequestWithdrawal moves funds from available to pending and records
// the request, in one transaction. The guarded balance move is the
// overdraw defense: a release racing a withdrawal, or two concurrent
// withdrawals, contend on the single-statement decrement and the loser
// sees an insufficient balance.
func (s *WalletService) RequestWithdrawal(ctx context.Context, actor rbac.Actor, amount money.Cents, pixKey string) (*models.Withdrawal, error) {
	if !rbac.CanWithdraw(actor) {
		return nil, fmt.Errorf("only creators withdraw: %w", ErrForbidden)
	}
	if amount < s.cfg.MinWithdrawal {
		return nil, fmt.Errorf("minimum withdrawal is %.2f BRL: %w", s.cfg.MinWithdrawal.BRL(), ErrValidation)
	}
	if pixKey == "" {
		return nil, fmt.Errorf("pix key is required: %w", ErrValidation)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ok, err := s.walletRepo.WithTx(tx).MoveToPending(ctx, actor.UserID, amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("insufficient available balance: %w", ErrConflict)
	}

	w := &models.Withdrawal{
		UserID: actor.UserID,
		Amount: amount,
		PixKey: pixKey,
	}
	if err := s.withdrawalRepo.WithTx(tx).Create(ctx, w); err != nil {
		return nil, err
	}

	desc := "Withdrawal request"
	if err := s.txRepo.WithTx(tx).Create(ctx, &models.Transaction{
		PayerID:     actor.UserID,
		PayeeID:     actor.UserID,
		Type:        models.TxTypeWithdrawal,
		Status:      models.TxStatusPending,
		Amount:      amount,
		NetAmount:   amount,
		Description: &desc,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.UserID,
		ActorType:   "user",
		Action:      "withdrawal_requested",
		EntityType:  "withdrawal",
		EntityID:    &w.ID,
		Meta:        map[string]any{"amount": int64(amount)},
	})
	_ = s.publisher.Publish(ctx, events.StreamCampaign, events.Event{
		Type: events.EventWithdrawalRequested,
		Payload: map[string]any{
			"withdrawal_id": w.ID.String(),
			"user_id":       actor.UserID.String(),
			"amount":        int64(amount),
		},
	})

	return w, nil
}

// SettleWithdrawal is the admin hook the manual settlement batch calls:
// paid clears the pending balance, rejected refunds it to available.
func (s *WalletService) SettleWithdrawal(ctx context.Context, actor rbac.Actor, withdrawalID uuid.UUID, paid bool) (*models.Withdrawal, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("settlement is admin only: %w", ErrForbidden)
	}

	w, err := s.withdrawalRepo.GetByID(ctx, withdrawalID)
	if err != nil {
		return nil, fmt.Errorf("withdrawal %s: %w", withdrawalID, ErrNotFound)
	}

	status := models.WithdrawalStatusRejected
	if paid {
		status = models.WithdrawalStatusPaid
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	moved, err := s.withdrawalRepo.WithTx(tx).SetStatus(ctx, withdrawalID, status)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, fmt.Errorf("withdrawal already settled: %w", ErrConflict)
	}
	settled, err := s.walletRepo.WithTx(tx).SettlePending(ctx, w.UserID, w.Amount, !paid)
	if err != nil {
		return nil, err
	}
	if !settled {
		// Pending balance does not cover the withdrawal; rolling back
		// keeps the row in requested rather than settling it unpaid.
		return nil, fmt.Errorf("pending balance does not cover withdrawal: %w", ErrConflict)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.UserID,
		ActorType:   "admin",
		Action:      "withdrawal_" + status,
		EntityType:  "withdrawal",
		EntityID:    &withdrawalID,
		Meta:        map[string]any{"amount": int64(w.Amount)},
	})

	w.Status = status
	return w, nil
}
