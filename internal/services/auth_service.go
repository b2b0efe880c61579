package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/status-marketplace/backend/internal/auth"
	"github.com/status-marketplace/backend/internal/config"
	"github.com/status-marketplace/backend/internal/models"
	"github.com/status-marketplace/backend/internal/rbac"
	"github.com/status-marketplace/backend/internal/repositories"
)

type AuthService struct {
	userRepo *repositories.UserRepo
	cfg      *config.Config
	log      *zap.Logger
}

func NewAuthService(userRepo *repositories.UserRepo, cfg *config.Config, log *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, cfg: cfg, log: log}
}

func (s *AuthService) Register(ctx context.Context, email, password, displayName, role string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("valid email is required: %w", ErrValidation)
	}
	parsedRole, ok := rbac.ParseRole(role)
	if !ok || parsedRole == rbac.RoleAdmin {
		return nil, "", fmt.Errorf("role must be advertiser or creator: %w", ErrValidation)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", err, ErrValidation)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         string(parsedRole),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Unique violation on email lands here; no separate existence
		// check to avoid leaking timing on registered emails.
		return nil, "", fmt.Errorf("email already registered: %w", ErrConflict)
	}

	token, err := auth.GenerateJWT(s.cfg.JWTSecret, user.ID, parsedRole, s.cfg.JWTExpiration)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err == pgx.ErrNoRows {
		return nil, "", fmt.Errorf("invalid credentials: %w", ErrForbidden)
	}
	if err != nil {
		return nil, "", err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", fmt.Errorf("invalid credentials: %w", ErrForbidden)
	}

	role, ok := rbac.ParseRole(user.Role)
	if !ok {
		return nil, "", fmt.Errorf("user %s has unknown role %q", user.ID, user.Role)
	}
	token, err := auth.GenerateJWT(s.cfg.JWTSecret, user.ID, role, s.cfg.JWTExpiration)
	if err != nil {
		return nil, "", err
	}

	if err := s.userRepo.UpdateLastActive(ctx, user.ID); err != nil {
		s.log.Warn("update last active failed", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	return user, token, nil
}
