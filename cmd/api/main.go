package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/status-marketplace/backend/internal/config"
	"github.com/status-marketplace/backend/internal/db"
	"github.com/status-marketplace/backend/internal/events"
	apphttp "github.com/status-marketplace/backend/internal/http"
	"github.com/status-marketplace/backend/internal/http/handlers"
	"github.com/status-marketplace/backend/internal/payments"
	"github.com/status-marketplace/backend/internal/repositories"
	"github.com/status-marketplace/backend/internal/services"
	"github.com/status-marketplace/backend/internal/storage"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	txRepo := repositories.NewTransactionRepo(pool)
	walletRepo := repositories.NewWalletRepo(pool)
	proofRepo := repositories.NewProofRepo(pool)
	withdrawalRepo := repositories.NewWithdrawalRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Gateway and storage
	gateway := payments.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret, log)
	proofStore := storage.NewProofStore(cfg.StorageURL, cfg.StorageServiceKey, cfg.StorageBucket, log)

	// Services
	authService := services.NewAuthService(userRepo, cfg, log)
	campaignService := services.NewCampaignService(campaignRepo, userRepo, auditRepo, publisher, log)
	escrowService := services.NewEscrowService(pool, campaignRepo, txRepo, walletRepo, userRepo, auditRepo, gateway, publisher, cfg, log)
	proofService := services.NewProofService(pool, proofRepo, campaignRepo, auditRepo, proofStore, publisher, log)
	walletService := services.NewWalletService(pool, walletRepo, txRepo, withdrawalRepo, auditRepo, publisher, cfg, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, log)
	userHandler := handlers.NewUserHandler(userRepo, log)
	campaignHandler := handlers.NewCampaignHandler(campaignService, log)
	escrowHandler := handlers.NewEscrowHandler(escrowService, log)
	proofHandler := handlers.NewProofHandler(proofService, log)
	walletHandler := handlers.NewWalletHandler(walletService, log)
	webhookHandler := handlers.NewWebhookHandler(escrowService, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: 32 * 1024 * 1024, // video proofs
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, authHandler, userHandler, campaignHandler, escrowHandler, proofHandler, walletHandler, webhookHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
