package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/status-marketplace/backend/internal/config"
	"github.com/status-marketplace/backend/internal/http/handlers"
	"github.com/status-marketplace/backend/internal/middleware"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	campaignHandler *handlers.CampaignHandler,
	escrowHandler *handlers.EscrowHandler,
	proofHandler *handlers.ProofHandler,
	walletHandler *handlers.WalletHandler,
	webhookHandler *handlers.WebhookHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Gateway webhooks (public, signature-authenticated, no rate limit:
	// the gateway retries aggressively and must not be throttled)
	app.Post("/webhooks/stripe", webhookHandler.StripeWebhook)

	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	api.Use(middleware.RateLimitMiddleware(rdb, 100, time.Minute))

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	// User
	protected.Get("/me", userHandler.GetMe)
	protected.Post("/me/ping", userHandler.Ping)

	// Campaigns
	protected.Post("/campaigns", campaignHandler.CreateCampaign)
	protected.Get("/campaigns", campaignHandler.ListCampaigns)
	protected.Get("/campaigns/:id", campaignHandler.GetCampaign)
	protected.Post("/campaigns/:id/activate", campaignHandler.ActivateCampaign)

	// Escrow
	protected.Post("/campaigns/:id/escrow", escrowHandler.FundEscrow)
	protected.Post("/campaigns/:id/escrow/release", escrowHandler.ReleaseEscrow)

	// Proofs
	protected.Post("/campaigns/:id/proofs", proofHandler.SubmitProof)
	protected.Get("/campaigns/:id/proofs", proofHandler.ListProofs)
	protected.Post("/proofs/:id/review", proofHandler.ReviewProof)

	// Wallet
	protected.Get("/wallet", walletHandler.GetWallet)
	protected.Post("/wallet/withdrawals", walletHandler.RequestWithdrawal)

	// Admin settlement
	admin := protected.Group("/admin", middleware.AdminMiddleware())
	admin.Post("/withdrawals/:id/settle", walletHandler.SettleWithdrawal)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
