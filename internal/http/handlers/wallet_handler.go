package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/status-marketplace/backend/internal/http/dto"
	"github.com/status-marketplace/backend/internal/middleware"
	"github.com/status-marketplace/backend/internal/money"
	"github.com/status-marketplace/backend/internal/services"
)

type WalletHandler struct {
	walletService *services.WalletService
	log           *zap.Logger
}

func NewWalletHandler(walletService *services.WalletService, log *zap.Logger) *WalletHandler {
	return &WalletHandler{walletService: walletService, log: log}
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	view, err := h.walletService.Get(c.Context(), middleware.GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: view})
}

func (h *WalletHandler) RequestWithdrawal(c *fiber.Ctx) error {
	var req dto.WithdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	w, err := h.walletService.RequestWithdrawal(c.Context(), middleware.GetActor(c), money.FromBRL(req.Amount), req.PixKey)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: w})
}

func (h *WalletHandler) SettleWithdrawal(c *fiber.Ctx) error {
	withdrawalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid withdrawal id"})
	}

	var req dto.SettleWithdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	w, err := h.walletService.SettleWithdrawal(c.Context(), middleware.GetActor(c), withdrawalID, req.Paid)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: w})
}
