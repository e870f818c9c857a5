package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/securelife/insurance-backend/internal/models"
	"github.com/securelife/insurance-backend/internal/repositories"
	"github.com/securelife/insurance-backend/pkg/sentinel"
)

// PlanService defines the interface for insurance plan operations
type PlanService interface {
	// ListPlans returns the active plan catalogue matching the filter
	ListPlans(ctx context.Context, filter models.PlanFilter) ([]*models.InsurancePlan, error)
	// ListPlanTypes returns the plan types currently on offer
	ListPlanTypes(ctx context.Context) ([]string, error)
	// GetPlan returns an active plan by its business reference
	GetPlan(ctx context.Context, planID string) (*models.InsurancePlan, error)
	CreatePlan(ctx context.Context, req *models.CreatePlanRequest) (*models.InsurancePlan, error)
	UpdatePlan(ctx context.Context, planID string, req *models.UpdatePlanRequest) (*models.InsurancePlan, error)
	// DeactivatePlan soft-deletes a plan. Existing policies keep their
	// snapshot of it.
	DeactivatePlan(ctx context.Context, planID string) (*models.InsurancePlan, error)
}

type planService struct {
	planRepo repositories.PlanRepository
	logger   *slog.Logger
}

// NewPlanService creates a new PlanService implementation
func NewPlanService(planRepo repositories.PlanRepository, logger *slog.Logger) PlanService {
	return &planService{planRepo: planRepo, logger: logger}
}

func (s *planService) ListPlans(ctx context.Context, filter models.PlanFilter) ([]*models.InsurancePlan, error) {
	if filter.PlanType != "" && !models.ValidPlanType(filter.PlanType) {
		return nil, fmt.Errorf("%w: unknown plan type %q", sentinel.ErrValidation, filter.PlanType)
	}
	return s.planRepo.FindAll(ctx, filter)
}

func (s *planService) ListPlanTypes(ctx context.Context) ([]string, error) {
	return s.planRepo.DistinctTypes(ctx)
}

func (s *planService) GetPlan(ctx context.Context, planID string) (*models.InsurancePlan, error) {
	return s.planRepo.FindByPlanID(ctx, planID, true)
}

func (s *planService) CreatePlan(ctx context.Context, req *models.CreatePlanRequest) (*models.InsurancePlan, error) {
	if !models.ValidPlanType(req.PlanType) {
		return nil, fmt.Errorf("%w: unknown plan type %q", sentinel.ErrValidation, req.PlanType)
	}
	if req.MaxCoverage < req.MinCoverage {
		return nil, fmt.Errorf("%w: maxCoverage must not be below minCoverage", sentinel.ErrValidation)
	}
	if req.MaxAge < req.MinAge {
		return nil, fmt.Errorf("%w: maxAge must not be below minAge", sentinel.ErrValidation)
	}

	plan := &models.InsurancePlan{
		PlanID:             req.PlanID,
		PlanName:           req.PlanName,
		PlanType:           req.PlanType,
		Description:        req.Description,
		MinCoverage:        req.MinCoverage,
		MaxCoverage:        req.MaxCoverage,
		MonthlyPremiumRate: req.MonthlyPremiumRate,
		MinAge:             req.MinAge,
		MaxAge:             req.MaxAge,
		Duration:           req.Duration,
		IsActive:           true,
	}
	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}
	s.logger.Info("plan created", "planId", plan.PlanID, "planType", plan.PlanType)
	return plan, nil
}

func (s *planService) UpdatePlan(ctx context.Context, planID string, req *models.UpdatePlanRequest) (*models.InsurancePlan, error) {
	plan, err := s.planRepo.FindByPlanID(ctx, planID, false)
	if err != nil {
		return nil, err
	}

	if req.PlanName != nil {
		plan.PlanName = *req.PlanName
	}
	if req.PlanType != nil {
		if !models.ValidPlanType(*req.PlanType) {
			return nil, fmt.Errorf("%w: unknown plan type %q", sentinel.ErrValidation, *req.PlanType)
		}
		plan.PlanType = *req.PlanType
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.MinCoverage != nil {
		plan.MinCoverage = *req.MinCoverage
	}
	if req.MaxCoverage != nil {
		plan.MaxCoverage = *req.MaxCoverage
	}
	if req.MonthlyPremiumRate != nil {
		plan.MonthlyPremiumRate = *req.MonthlyPremiumRate
	}
	if req.MinAge != nil {
		plan.MinAge = *req.MinAge
	}
	if req.MaxAge != nil {
		plan.MaxAge = *req.MaxAge
	}
	if req.Duration != nil {
		plan.Duration = *req.Duration
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}

	if plan.MaxCoverage < plan.MinCoverage {
		return nil, fmt.Errorf("%w: maxCoverage must not be below minCoverage", sentinel.ErrValidation)
	}
	if plan.MaxAge < plan.MinAge {
		return nil, fmt.Errorf("%w: maxAge must not be below minAge", sentinel.ErrValidation)
	}

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	s.logger.Info("plan updated", "planId", plan.PlanID)
	return plan, nil
}

func (s *planService) DeactivatePlan(ctx context.Context, planID string) (*models.InsurancePlan, error) {
	plan, err := s.planRepo.FindByPlanID(ctx, planID, false)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return plan, nil
	}
	plan.IsActive = false
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	s.logger.Info("plan deactivated", "planId", plan.PlanID)
	return plan, nil
}
