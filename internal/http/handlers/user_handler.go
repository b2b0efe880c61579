package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/status-marketplace/backend/internal/http/dto"
	"github.com/status-marketplace/backend/internal/middleware"
	"github.com/status-marketplace/backend/internal/repositories"
)

type UserHandler struct {
	userRepo *repositories.UserRepo
	log      *zap.Logger
}

func NewUserHandler(userRepo *repositories.UserRepo, log *zap.Logger) *UserHandler {
	return &UserHandler{userRepo: userRepo, log: log}
}

func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	user, err := h.userRepo.GetByID(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "user not found"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: user})
}

func (h *UserHandler) Ping(c *fiber.Ctx) error {
	if err := h.userRepo.UpdateLastActive(c.Context(), middleware.GetUserID(c)); err != nil {
		h.log.Warn("ping update failed", zap.Error(err))
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
