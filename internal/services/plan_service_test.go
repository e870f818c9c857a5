package services

import (
	"context"
	"testing"

	"github.com/securelife/insurance-backend/internal/models"
	"github.com/securelife/insurance-backend/internal/repositories/memory"
	"github.com/securelife/insurance-backend/pkg/sentinel"
	"github.com/stretchr/testify/suite"
)

type PlanServiceSuite struct {
	suite.Suite
	ctx     context.Context
	repo    *memory.PlanRepository
	service PlanService
}

func (s *PlanServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = memory.NewPlanRepository()
	s.service = NewPlanService(s.repo, testLogger())
}

func (s *PlanServiceSuite) create() *models.CreatePlanRequest {
	return &models.CreatePlanRequest{
		PlanID:             "PLAN-001",
		PlanName:           "Family Protection Term Life",
		PlanType:           models.PlanTypeTermLife,
		Description:        "Term life coverage for families",
		MinCoverage:        500_000,
		MaxCoverage:        10_000_000,
		MonthlyPremiumRate: 2500,
		MinAge:             18,
		MaxAge:             65,
		Duration:           20,
	}
}

func (s *PlanServiceSuite) TestCreatePlan() {
	plan, err := s.service.CreatePlan(s.ctx, s.create())
	s.Require().NoError(err)
	s.True(plan.IsActive)
	s.Equal("PLAN-001", plan.PlanID)

	_, err = s.service.CreatePlan(s.ctx, s.create())
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *PlanServiceSuite) TestCreatePlanValidatesRanges() {
	req := s.create()
	req.MaxCoverage = 100_000
	_, err := s.service.CreatePlan(s.ctx, req)
	s.ErrorIs(err, sentinel.ErrValidation)

	req = s.create()
	req.MaxAge = 17
	_, err = s.service.CreatePlan(s.ctx, req)
	s.ErrorIs(err, sentinel.ErrValidation)

	req = s.create()
	req.PlanType = "Pet Insurance"
	_, err = s.service.CreatePlan(s.ctx, req)
	s.ErrorIs(err, sentinel.ErrValidation)
}

func (s *PlanServiceSuite) TestUpdatePlanOnlyTouchesSuppliedFields() {
	_, err := s.service.CreatePlan(s.ctx, s.create())
	s.Require().NoError(err)

	rate := 3000.0
	updated, err := s.service.UpdatePlan(s.ctx, "PLAN-001", &models.UpdatePlanRequest{
		MonthlyPremiumRate: &rate,
	})
	s.Require().NoError(err)
	s.Equal(3000.0, updated.MonthlyPremiumRate)
	s.Equal("Family Protection Term Life", updated.PlanName)
	s.Equal(20, updated.Duration)
}

func (s *PlanServiceSuite) TestDeactivatePlanHidesItFromTheCatalogue() {
	_, err := s.service.CreatePlan(s.ctx, s.create())
	s.Require().NoError(err)

	plan, err := s.service.DeactivatePlan(s.ctx, "PLAN-001")
	s.Require().NoError(err)
	s.False(plan.IsActive)

	_, err = s.service.GetPlan(s.ctx, "PLAN-001")
	s.ErrorIs(err, sentinel.ErrNotFound)

	plans, err := s.service.ListPlans(s.ctx, models.PlanFilter{})
	s.Require().NoError(err)
	s.Empty(plans)

	// A deactivated plan can still be edited and reactivated
	active := true
	reactivated, err := s.service.UpdatePlan(s.ctx, "PLAN-001", &models.UpdatePlanRequest{IsActive: &active})
	s.Require().NoError(err)
	s.True(reactivated.IsActive)
}

func (s *PlanServiceSuite) TestListPlansFilters() {
	_, err := s.service.CreatePlan(s.ctx, s.create())
	s.Require().NoError(err)

	req := s.create()
	req.PlanID = "PLAN-002"
	req.PlanName = "Wealth Builder Savings Plan"
	req.PlanType = models.PlanTypeSavings
	req.Description = "Savings with protection"
	_, err = s.service.CreatePlan(s.ctx, req)
	s.Require().NoError(err)

	savings, err := s.service.ListPlans(s.ctx, models.PlanFilter{PlanType: models.PlanTypeSavings})
	s.Require().NoError(err)
	s.Require().Len(savings, 1)
	s.Equal("PLAN-002", savings[0].PlanID)

	matched, err := s.service.ListPlans(s.ctx, models.PlanFilter{Search: "wealth"})
	s.Require().NoError(err)
	s.Len(matched, 1)

	_, err = s.service.ListPlans(s.ctx, models.PlanFilter{PlanType: "Bogus"})
	s.ErrorIs(err, sentinel.ErrValidation)

	types, err := s.service.ListPlanTypes(s.ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"Term Life", "Savings"}, types)
}

func TestPlanServiceSuite(t *testing.T) {
	suite.Run(t, new(PlanServiceSuite))
}
