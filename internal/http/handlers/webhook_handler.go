package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/status-marketplace/backend/internal/http/dto"
	"github.com/status-marketplace/backend/internal/services"
)

type WebhookHandler struct {
	escrowService *services.EscrowService
	log           *zap.Logger
}

func NewWebhookHandler(escrowService *services.EscrowService, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{escrowService: escrowService, log: log}
}

// StripeWebhook verifies and processes gateway deliveries. Runs outside
// the auth middleware; the signature is the authentication.
func (h *WebhookHandler) StripeWebhook(c *fiber.Ctx) error {
	signature := c.Get("Stripe-Signature")
	if signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "missing signature"})
	}

	if err := h.escrowService.HandleWebhook(c.Context(), c.Body(), signature); err != nil {
		h.log.Warn("webhook rejected", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "webhook rejected"})
	}

	return c.JSON(dto.SuccessResponse{OK: true})
}
