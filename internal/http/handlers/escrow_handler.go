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

type EscrowHandler struct {
	escrowService *services.EscrowService
	log           *zap.Logger
}

func NewEscrowHandler(escrowService *services.EscrowService, log *zap.Logger) *EscrowHandler {
	return &EscrowHandler{escrowService: escrowService, log: log}
}

func (h *EscrowHandler) FundEscrow(c *fiber.Ctx) error {
	campaignID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	var req dto.FundEscrowRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}
	creatorID, err := uuid.Parse(req.CreatorID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid creator_id"})
	}

	actor := middleware.GetActor(c)
	result, err := h.escrowService.Fund(c.Context(), actor, campaignID, creatorID,
		money.FromBRL(req.Amount), money.FromBRL(req.CPVRate), req.ExpectedViews)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.FundEscrowResponse{
		ClientSecret:    result.ClientSecret,
		PaymentIntentID: result.PaymentIntentID,
		Amount:          result.Amount.BRL(),
		PlatformFee:     result.PlatformFee.BRL(),
		CreatorPayout:   result.CreatorPayout.BRL(),
	}})
}

func (h *EscrowHandler) ReleaseEscrow(c *fiber.Ctx) error {
	campaignID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	payout, err := h.escrowService.Release(c.Context(), middleware.GetActor(c), campaignID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.ReleaseEscrowResponse{Payout: payout.BRL()}})
}
