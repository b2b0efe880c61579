package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/status-marketplace/backend/internal/config"
	"github.com/status-marketplace/backend/internal/money"
	"github.com/status-marketplace/backend/internal/rbac"
)

// All three withdrawal guards run before the first database call, so
// the service can be constructed without a pool for these cases.
func TestRequestWithdrawalValidation(t *testing.T) {
	cfg := &config.Config{MinWithdrawal: 5000}
	svc := NewWalletService(nil, nil, nil, nil, nil, nil, cfg, zap.NewNop())

	creator := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleCreator}
	advertiser := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleAdvertiser}

	tests := []struct {
		name    string
		actor   rbac.Actor
		amount  money.Cents
		pixKey  string
		wantErr error
	}{
		{"advertiser cannot withdraw", advertiser, 10000, "chave@pix.br", ErrForbidden},
		{"below minimum threshold", creator, 4999, "chave@pix.br", ErrValidation},
		{"exactly one centavo short", creator, cfg.MinWithdrawal - 1, "chave@pix.br", ErrValidation},
		{"missing pix key", creator, 10000, "", ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RequestWithdrawal(context.Background(), tt.actor, tt.amount, tt.pixKey)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RequestWithdrawal(%d, %q) error = %v, want %v", tt.amount, tt.pixKey, err, tt.wantErr)
			}
		})
	}
}

func TestSettleWithdrawalAdminOnly(t *testing.T) {
	cfg := &config.Config{MinWithdrawal: 5000}
	svc := NewWalletService(nil, nil, nil, nil, nil, nil, cfg, zap.NewNop())

	creator := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleCreator}
	_, err := svc.SettleWithdrawal(context.Background(), creator, uuid.New(), true)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("SettleWithdrawal as creator error = %v, want ErrForbidden", err)
	}
}
