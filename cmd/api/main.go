package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/securelife/insurance-backend/api/routes"
	"github.com/securelife/insurance-backend/internal/config"
	"github.com/securelife/insurance-backend/internal/handlers"
	mongorepo "github.com/securelife/insurance-backend/internal/repositories/mongodb"
	"github.com/securelife/insurance-backend/internal/services"
	"github.com/securelife/insurance-backend/pkg/blobstore"
	"github.com/securelife/insurance-backend/pkg/mongodb"
	"github.com/securelife/insurance-backend/pkg/token"
)

func main() {
	// A missing .env is fine; real deployments use environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx := context.Background()
	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
	if err != nil {
		logger.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)
	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		logger.Error("failed to create indexes", "error", err)
		os.Exit(1)
	}

	store, err := newBlobStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialise document storage", "error", err)
		os.Exit(1)
	}

	tokens := token.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiresIn)*time.Second)

	userRepo := mongorepo.NewUserRepository(db)
	planRepo := mongorepo.NewPlanRepository(db)
	policyRepo := mongorepo.NewPolicyRepository(db)
	claimRepo := mongorepo.NewClaimRepository(db)

	authService := services.NewAuthService(userRepo, tokens, logger)
	planService := services.NewPlanService(planRepo, logger)
	policyService := services.NewPolicyService(policyRepo, planRepo, logger)
	claimService := services.NewClaimService(claimRepo, policyRepo, store, logger)
	adminService := services.NewAdminService(userRepo, planRepo, policyRepo, claimRepo, logger)

	router := routes.SetupRouter(cfg, tokens, routes.Handlers{
		Auth:   handlers.NewAuthHandler(authService, logger),
		Plan:   handlers.NewPlanHandler(planService, logger),
		Policy: handlers.NewPolicyHandler(policyService, logger),
		Claim:  handlers.NewClaimHandler(claimService, logger),
		Admin:  handlers.NewAdminHandler(adminService, logger),
	}, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server exiting")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func newBlobStore(ctx context.Context, cfg *config.Config) (blobstore.Store, error) {
	if cfg.Storage.Provider == "s3" {
		return blobstore.NewS3Store(ctx, cfg.Storage.Bucket, cfg.Storage.Region)
	}
	return blobstore.NewMockStore(), nil
}
