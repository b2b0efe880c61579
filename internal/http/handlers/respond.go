package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/status-marketplace/backend/internal/http/dto"
	"github.com/status-marketplace/backend/internal/middleware"
	"github.com/status-marketplace/backend/internal/services"
)

// respondError maps service sentinel errors onto HTTP status codes.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrConflict):
		status = fiber.StatusConflict
	}

	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "internal error"
	}

	reqID, _ := c.Locals(middleware.CtxRequestID).(string)
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg, RequestID: reqID})
}
