package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cuearena/tournament-engine/config"
	"github.com/cuearena/tournament-engine/db"
	"github.com/cuearena/tournament-engine/handlers"
	"github.com/cuearena/tournament-engine/repositories"
	"github.com/cuearena/tournament-engine/routes"
	"github.com/cuearena/tournament-engine/services"
	"github.com/cuearena/tournament-engine/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	database, err := db.Connect(cfg.DatabaseURL, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()
	logger.Info("database connection established")

	userRepo := repositories.NewPostgresUserRepository(database)
	tournamentRepo := repositories.NewPostgresTournamentRepository(database)
	participantRepo := repositories.NewPostgresParticipantRepository(database)
	matchRepo := repositories.NewPostgresMatchRepository(database)
	walletRepo := repositories.NewPostgresWalletRepository(database)
	payoutRepo := repositories.NewPostgresPayoutRepository(database)
	historyRepo := repositories.NewPostgresHistoryRepository(database)
	evidenceRepo := repositories.NewPostgresEvidenceRepository(database)

	uploader := storage.NewDisabledUploader()
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to configure evidence storage: %w", err)
		}
	}

	gate := services.NewRoleGate()
	rating := services.NewEloEngine()
	notifier := services.NewSlogNotifier(logger)
	activity := services.NewSlogActivityLog(logger)
	provider := services.NewLoggingPaymentProvider(logger)

	walletService := services.NewWalletService(database, walletRepo)
	participantService := services.NewParticipantService(database, tournamentRepo, participantRepo, userRepo, walletService, gate, activity, logger)
	bracketService := services.NewBracketService(matchRepo, participantRepo, logger)
	advancer := services.NewAdvancer(matchRepo, participantRepo, tournamentRepo, bracketService, logger)
	matchService := services.NewMatchService(database, matchRepo, participantRepo, tournamentRepo, userRepo, historyRepo, advancer, rating, gate, notifier, activity, logger)
	tournamentService := services.NewTournamentService(database, tournamentRepo, participantRepo, userRepo, bracketService, walletService, gate, activity, logger)
	payoutService := services.NewPayoutService(database, payoutRepo, walletRepo, userRepo, provider, gate, notifier, activity, logger)
	evidenceService := services.NewEvidenceService(evidenceRepo, matchRepo, participantRepo, tournamentRepo, uploader, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler, err := services.NewExpiryScheduler(matchService, cfg.ExpirySweepInterval, logger)
	if err != nil {
		return err
	}
	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := scheduler.Stop(); err != nil {
			logger.Warn("failed to stop scheduler", slog.Any("error", err))
		}
	}()
	logger.Info("expiry scheduler started", slog.Duration("interval", cfg.ExpirySweepInterval))

	router := routes.InitRoutes(routes.Handlers{
		Tournament:  handlers.NewTournamentHandler(tournamentService, bracketService, participantService),
		Participant: handlers.NewParticipantHandler(participantService),
		Match:       handlers.NewMatchHandler(matchService),
		Payout:      handlers.NewPayoutHandler(payoutService),
		Wallet:      handlers.NewWalletHandler(walletService),
		Evidence:    handlers.NewEvidenceHandler(evidenceService),
		Webhook:     handlers.NewWebhookHandler(payoutService, cfg.WebhookSecret, logger),
	}, cfg.JWTSecretKey)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.Int("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
