// Command seed loads the sample plan catalogue and a bootstrap
// administrator account into the database.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/securelife/insurance-backend/internal/config"
	"github.com/securelife/insurance-backend/internal/models"
	"github.com/securelife/insurance-backend/internal/repositories"
	mongorepo "github.com/securelife/insurance-backend/internal/repositories/mongodb"
	"github.com/securelife/insurance-backend/pkg/mongodb"
	"github.com/securelife/insurance-backend/pkg/sentinel"
	"golang.org/x/crypto/bcrypt"
)

var samplePlans = []models.InsurancePlan{
	{
		PlanID:             "PLAN-001",
		PlanName:           "Family Protection Term Life",
		PlanType:           models.PlanTypeTermLife,
		Description:        "Comprehensive term life coverage for your family's financial security. Provides death benefit to protect your loved ones.",
		MinCoverage:        500000,
		MaxCoverage:        10000000,
		MonthlyPremiumRate: 2500,
		MinAge:             18,
		MaxAge:             65,
		Duration:           20,
		IsActive:           true,
	},
	{
		PlanID:             "PLAN-002",
		PlanName:           "Wealth Builder Savings Plan",
		PlanType:           models.PlanTypeSavings,
		Description:        "Build wealth over time with guaranteed returns. Combines insurance protection with savings benefits.",
		MinCoverage:        1000000,
		MaxCoverage:        15000000,
		MonthlyPremiumRate: 3000,
		MinAge:             18,
		MaxAge:             60,
		Duration:           15,
		IsActive:           true,
	},
	{
		PlanID:             "PLAN-003",
		PlanName:           "Golden Years Retirement Plan",
		PlanType:           models.PlanTypeRetirement,
		Description:        "Secure your retirement with guaranteed pension income. Start planning your golden years today.",
		MinCoverage:        2000000,
		MaxCoverage:        20000000,
		MonthlyPremiumRate: 4000,
		MinAge:             25,
		MaxAge:             55,
		Duration:           25,
		IsActive:           true,
	},
	{
		PlanID:             "PLAN-004",
		PlanName:           "Future Scholars Child Education Plan",
		PlanType:           models.PlanTypeChildEducation,
		Description:        "Invest in your child's education future. Guaranteed funds for university and higher education.",
		MinCoverage:        1500000,
		MaxCoverage:        12000000,
		MonthlyPremiumRate: 3500,
		MinAge:             20,
		MaxAge:             50,
		Duration:           18,
		IsActive:           true,
	},
	{
		PlanID:             "PLAN-005",
		PlanName:           "Secure Future Term Life",
		PlanType:           models.PlanTypeTermLife,
		Description:        "Affordable term life insurance with flexible coverage options. Simple, straightforward protection.",
		MinCoverage:        300000,
		MaxCoverage:        5000000,
		MonthlyPremiumRate: 1500,
		MinAge:             18,
		MaxAge:             70,
		Duration:           15,
		IsActive:           true,
	},
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
	if err != nil {
		logger.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDB.Database)
	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		logger.Error("failed to create indexes", "error", err)
		os.Exit(1)
	}

	planRepo := mongorepo.NewPlanRepository(db)
	seeded := 0
	for i := range samplePlans {
		plan := samplePlans[i]
		err := planRepo.Create(ctx, &plan)
		switch {
		case err == nil:
			seeded++
		case errors.Is(err, sentinel.ErrConflict):
			logger.Info("plan already present, skipping", "planId", plan.PlanID)
		default:
			logger.Error("failed to seed plan", "planId", plan.PlanID, "error", err)
			os.Exit(1)
		}
	}
	logger.Info("plan catalogue seeded", "created", seeded, "total", len(samplePlans))

	userRepo := mongorepo.NewUserRepository(db)
	if err := seedAdmin(ctx, userRepo, logger); err != nil {
		logger.Error("failed to seed admin account", "error", err)
		os.Exit(1)
	}
}

// seedAdmin creates the bootstrap administrator unless one already exists.
// Credentials come from ADMIN_EMAIL and ADMIN_PASSWORD.
func seedAdmin(ctx context.Context, userRepo repositories.UserRepository, logger *slog.Logger) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Info("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		FullName: "System Administrator",
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	err = userRepo.Create(ctx, admin)
	if errors.Is(err, sentinel.ErrConflict) {
		logger.Info("admin account already present, skipping", "email", email)
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("admin account created", "email", email)
	return nil
}
