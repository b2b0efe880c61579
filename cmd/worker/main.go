package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/status-marketplace/backend/internal/config"
	"github.com/status-marketplace/backend/internal/db"
	"github.com/status-marketplace/backend/internal/events"
	"github.com/status-marketplace/backend/internal/linkmeta"
	"github.com/status-marketplace/backend/internal/models"
	"github.com/status-marketplace/backend/internal/repositories"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repos
	campaignRepo := repositories.NewCampaignRepo(pool)
	proofRepo := repositories.NewProofRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	publisher := events.NewRedisPublisher(rdb, log)
	scanner := linkmeta.NewScanner(cfg.ProofFetchTimeoutMS, cfg.ProofFetchMaxRetries, log)

	log.Info("worker started")

	proofTicker := time.NewTicker(cfg.ProofScanInterval)
	deadlineTicker := time.NewTicker(cfg.DeadlineScanInterval)
	defer proofTicker.Stop()
	defer deadlineTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-proofTicker.C:
			runProofScan(ctx, proofRepo, campaignRepo, scanner, log)
		case <-deadlineTicker.C:
			runDeadlineSweep(ctx, campaignRepo, auditRepo, publisher, log)
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

// runProofScan fetches each unscanned link proof and records the view
// count the public page exposes, so reviewers see the claimed and
// scanned numbers side by side. A scanned campaign moves to
// under_review, signalling the reviewer the numbers are in.
func runProofScan(ctx context.Context, proofRepo *repositories.ProofRepo, campaignRepo *repositories.CampaignRepo, scanner *linkmeta.Scanner, log *zap.Logger) {
	proofs, err := proofRepo.ListPendingLinkProofs(ctx, 50)
	if err != nil {
		log.Error("failed to list pending link proofs", zap.Error(err))
		return
	}

	for _, proof := range proofs {
		stats, found, err := scanner.Fetch(ctx, proof.FileURL)
		if err != nil {
			log.Warn("link proof fetch failed",
				zap.String("proof_id", proof.ID.String()),
				zap.String("url", proof.FileURL),
				zap.Error(err))
			continue
		}
		if !found {
			// Post deleted. Record zero so reviewers see the link is dead.
			if err := proofRepo.SetScannedViews(ctx, proof.ID, 0); err != nil {
				log.Error("record dead link failed", zap.String("proof_id", proof.ID.String()), zap.Error(err))
			}
			continue
		}

		var views int64
		if stats.Views != nil {
			views = *stats.Views
		}
		if err := proofRepo.SetScannedViews(ctx, proof.ID, views); err != nil {
			log.Error("record scanned views failed", zap.String("proof_id", proof.ID.String()), zap.Error(err))
			continue
		}
		if _, err := campaignRepo.SetVerificationStatus(ctx, proof.CampaignID,
			[]string{models.VerificationProofSubmitted}, models.VerificationUnderReview); err != nil {
			log.Error("move campaign to under_review failed",
				zap.String("campaign_id", proof.CampaignID.String()), zap.Error(err))
		}
		log.Info("link proof scanned",
			zap.String("proof_id", proof.ID.String()),
			zap.Int64("views", views))
	}
}

// runDeadlineSweep flags funded campaigns whose publish deadline passed
// with no completion, once each.
func runDeadlineSweep(ctx context.Context, campaignRepo *repositories.CampaignRepo, auditRepo *repositories.AuditRepo, publisher events.Publisher, log *zap.Logger) {
	campaigns, err := campaignRepo.ListDeadlineExpired(ctx, time.Now())
	if err != nil {
		log.Error("failed to list deadline-expired campaigns", zap.Error(err))
		return
	}

	for _, campaign := range campaigns {
		if err := campaignRepo.MarkDeadlineNotified(ctx, campaign.ID); err != nil {
			log.Error("mark deadline notified failed", zap.String("campaign_id", campaign.ID.String()), zap.Error(err))
			continue
		}

		log.Info("publish deadline expired",
			zap.String("campaign_id", campaign.ID.String()),
			zap.String("escrow_status", campaign.EscrowStatus))

		_ = auditRepo.Log(ctx, models.AuditLog{
			ActorType:  "system",
			Action:     "publish_deadline_expired",
			EntityType: "campaign",
			EntityID:   &campaign.ID,
			Meta:       map[string]any{"escrow_status": campaign.EscrowStatus},
		})
		_ = publisher.Publish(ctx, events.StreamCampaign, events.Event{
			Type: events.EventDeadlineExpired,
			Payload: map[string]any{
				"campaign_id": campaign.ID.String(),
			},
		})
	}
}
