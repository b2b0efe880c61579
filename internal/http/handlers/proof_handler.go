package handlers

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/status-marketplace/backend/internal/http/dto"
	"github.com/status-marketplace/backend/internal/middleware"
	"github.com/status-marketplace/backend/internal/models"
	"github.com/status-marketplace/backend/internal/services"
)

type ProofHandler struct {
	proofService *services.ProofService
	log          *zap.Logger
}

func NewProofHandler(proofService *services.ProofService, log *zap.Logger) *ProofHandler {
	return &ProofHandler{proofService: proofService, log: log}
}

// SubmitProof accepts either multipart (screenshot/video file upload)
// or JSON (link proof). Multipart fields: proof_type, file, view_count.
func (h *ProofHandler) SubmitProof(c *fiber.Ctx) error {
	campaignID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	actor := middleware.GetActor(c)
	var in services.SubmitProofInput

	if form, err := c.MultipartForm(); err == nil && form != nil {
		in.ProofType = c.FormValue("proof_type")
		if v := c.FormValue("view_count"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				in.ViewCount = &n
			}
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "file is required"})
		}
		file, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cannot read file"})
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cannot read file"})
		}
		in.FileData = data
		in.FileName = fileHeader.Filename
		in.ContentType = fileHeader.Header.Get("Content-Type")
	} else {
		var req dto.SubmitLinkProofRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
		}
		in.ProofType = req.ProofType
		if in.ProofType == "" {
			in.ProofType = models.ProofTypeLink
		}
		in.LinkURL = req.LinkURL
		in.ViewCount = req.ViewCount
	}

	proof, err := h.proofService.Submit(c.Context(), actor, campaignID, in)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: proof})
}

func (h *ProofHandler) ListProofs(c *fiber.Ctx) error {
	campaignID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	proofs, err := h.proofService.ListByCampaign(c.Context(), middleware.GetActor(c), campaignID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: proofs})
}

func (h *ProofHandler) ReviewProof(c *fiber.Ctx) error {
	proofID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid proof id"})
	}

	var req dto.ReviewProofRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}
	if req.Decision != models.ProofStatusApproved && req.Decision != models.ProofStatusRejected {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "decision must be approved or rejected"})
	}

	proof, err := h.proofService.Review(c.Context(), middleware.GetActor(c), proofID,
		req.Decision == models.ProofStatusApproved, req.Notes)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: proof})
}
