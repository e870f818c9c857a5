package services

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/securelife/insurance-backend/internal/models"
	"github.com/securelife/insurance-backend/internal/repositories/memory"
	"github.com/securelife/insurance-backend/pkg/sentinel"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type PolicyServiceSuite struct {
	suite.Suite
	ctx      context.Context
	planRepo *memory.PlanRepository
	repo     *memory.PolicyRepository
	service  PolicyService
	plan     *models.InsurancePlan
	customer models.Caller
	admin    models.Caller
}

func (s *PolicyServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.planRepo = memory.NewPlanRepository()
	s.repo = memory.NewPolicyRepository()
	s.service = NewPolicyService(s.repo, s.planRepo, testLogger())

	s.plan = &models.InsurancePlan{
		PlanID:             "PLAN-001",
		PlanName:           "Family Protection Term Life",
		PlanType:           models.PlanTypeTermLife,
		MinCoverage:        500_000,
		MaxCoverage:        10_000_000,
		MonthlyPremiumRate: 2500,
		MinAge:             18,
		MaxAge:             65,
		Duration:           20,
		IsActive:           true,
	}
	s.Require().NoError(s.planRepo.Create(s.ctx, s.plan))

	s.customer = models.Caller{UserID: primitive.NewObjectID(), Role: models.RoleCustomer}
	s.admin = models.Caller{UserID: primitive.NewObjectID(), Role: models.RoleAdmin}
}

func (s *PolicyServiceSuite) request() *models.RequestPolicyRequest {
	return &models.RequestPolicyRequest{
		PlanID:           "PLAN-001",
		CoverageAmount:   2_000_000,
		PremiumFrequency: models.FrequencyMonthly,
		Beneficiaries: []models.Beneficiary{
			{Name: "Amara Perera", Relationship: "spouse", NIC: "857290114V", Percentage: 60},
			{Name: "Nimal Perera", Relationship: "child", NIC: "200112345678", Percentage: 40},
		},
	}
}

func (s *PolicyServiceSuite) TestRequestPolicy() {
	policy, err := s.service.RequestPolicy(s.ctx, s.customer, s.request())
	s.Require().NoError(err)

	s.Equal(models.PolicyStatusRequested, policy.Status)
	s.Equal(s.customer.UserID, policy.UserID)
	s.Equal(float64(5000), policy.PremiumAmount)
	s.Regexp(regexp.MustCompile(`^POL-\d{4}-\d{6}$`), policy.PolicyID)

	s.Equal("PLAN-001", policy.PlanID)
	s.Equal(s.plan.PlanName, policy.PlanName)
	s.Equal(s.plan.PlanType, policy.PlanType)

	s.WithinDuration(time.Now().Add(7*24*time.Hour), policy.StartDate, time.Minute)
	s.Equal(policy.StartDate.AddDate(20, 0, 0), policy.EndDate)
}

func (s *PolicyServiceSuite) TestRequestPolicyBeneficiarySharesMustTotalHundred() {
	req := s.request()
	req.Beneficiaries[0].Percentage = 50
	req.Beneficiaries[1].Percentage = 40

	_, err := s.service.RequestPolicy(s.ctx, s.customer, req)
	s.ErrorIs(err, sentinel.ErrValidation)
	s.ErrorContains(err, "100")
}

func (s *PolicyServiceSuite) TestRequestPolicyCoverageBounds() {
	req := s.request()
	req.CoverageAmount = 100_000
	_, err := s.service.RequestPolicy(s.ctx, s.customer, req)
	s.ErrorIs(err, sentinel.ErrValidation)

	req.CoverageAmount = 50_000_000
	_, err = s.service.RequestPolicy(s.ctx, s.customer, req)
	s.ErrorIs(err, sentinel.ErrValidation)
}

func (s *PolicyServiceSuite) TestRequestPolicyRejectsInactivePlan() {
	s.plan.IsActive = false
	s.Require().NoError(s.planRepo.Update(s.ctx, s.plan))

	_, err := s.service.RequestPolicy(s.ctx, s.customer, s.request())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PolicyServiceSuite) TestQuote() {
	quote, err := s.service.Quote(s.ctx, &models.QuoteRequest{
		PlanID:           "PLAN-001",
		CoverageAmount:   1_000_000,
		PremiumFrequency: models.FrequencyAnnually,
	})
	s.Require().NoError(err)

	s.Equal(float64(27000), quote.PremiumAmount)
	s.Equal(10, quote.DiscountPercent)
	s.Equal(20, quote.DurationYears)
	s.Equal(s.plan.PlanName, quote.PlanName)
}

func (s *PolicyServiceSuite) TestApprovePolicy() {
	policy, err := s.service.RequestPolicy(s.ctx, s.customer, s.request())
	s.Require().NoError(err)

	approved, err := s.service.ApprovePolicy(s.ctx, s.admin, policy.ID)
	s.Require().NoError(err)
	s.Equal(models.PolicyStatusActive, approved.Status)
	s.Equal("https://res.cloudinary.com/demo/policy_"+policy.PolicyID+".pdf", approved.PolicyDocumentURL)

	// A second approval finds the policy no longer REQUESTED
	_, err = s.service.ApprovePolicy(s.ctx, s.admin, policy.ID)
	s.ErrorIs(err, sentinel.ErrInvalidState)
}

func (s *PolicyServiceSuite) TestRejectPolicy() {
	policy, err := s.service.RequestPolicy(s.ctx, s.customer, s.request())
	s.Require().NoError(err)

	rejected, err := s.service.RejectPolicy(s.ctx, s.admin, policy.ID)
	s.Require().NoError(err)
	s.Equal(models.PolicyStatusCancelled, rejected.Status)
	s.Empty(rejected.PolicyDocumentURL)

	_, err = s.service.ApprovePolicy(s.ctx, s.admin, policy.ID)
	s.ErrorIs(err, sentinel.ErrInvalidState)
}

func (s *PolicyServiceSuite) TestConcurrentApprovalsOnlyOneSucceeds() {
	policy, err := s.service.RequestPolicy(s.ctx, s.customer, s.request())
	s.Require().NoError(err)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.service.ApprovePolicy(s.ctx, s.admin, policy.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.ErrorIs(err, sentinel.ErrInvalidState)
		}
	}
	s.Equal(1, succeeded)
}

func (s *PolicyServiceSuite) TestForceStatus() {
	policy, err := s.service.RequestPolicy(s.ctx, s.customer, s.request())
	s.Require().NoError(err)

	_, err = s.service.ForceStatus(s.ctx, s.admin, policy.ID, "SUSPENDED")
	s.ErrorIs(err, sentinel.ErrValidation)

	// The override imposes no transition graph
	updated, err := s.service.ForceStatus(s.ctx, s.admin, policy.ID, models.PolicyStatusMatured)
	s.Require().NoError(err)
	s.Equal(models.PolicyStatusMatured, updated.Status)

	updated, err = s.service.ForceStatus(s.ctx, s.admin, policy.ID, models.PolicyStatusLapsed)
	s.Require().NoError(err)
	s.Equal(models.PolicyStatusLapsed, updated.Status)
}

func (s *PolicyServiceSuite) TestGetPolicyAuthorization() {
	policy, err := s.service.RequestPolicy(s.ctx, s.customer, s.request())
	s.Require().NoError(err)

	_, err = s.service.GetPolicy(s.ctx, s.customer, policy.ID)
	s.NoError(err)

	_, err = s.service.GetPolicy(s.ctx, s.admin, policy.ID)
	s.NoError(err)

	stranger := models.Caller{UserID: primitive.NewObjectID(), Role: models.RoleCustomer}
	_, err = s.service.GetPolicy(s.ctx, stranger, policy.ID)
	s.ErrorIs(err, sentinel.ErrForbidden)
}

func (s *PolicyServiceSuite) TestPlanEditsNeverTouchExistingPolicies() {
	policy, err := s.service.RequestPolicy(s.ctx, s.customer, s.request())
	s.Require().NoError(err)

	s.plan.PlanName = "Renamed Plan"
	s.plan.MonthlyPremiumRate = 9000
	s.Require().NoError(s.planRepo.Update(s.ctx, s.plan))

	got, err := s.service.GetPolicy(s.ctx, s.customer, policy.ID)
	s.Require().NoError(err)
	s.Equal("Family Protection Term Life", got.PlanName)
	s.Equal(float64(5000), got.PremiumAmount)
}

func (s *PolicyServiceSuite) TestListMyPoliciesScopesToCaller() {
	_, err := s.service.RequestPolicy(s.ctx, s.customer, s.request())
	s.Require().NoError(err)

	other := models.Caller{UserID: primitive.NewObjectID(), Role: models.RoleCustomer}
	_, err = s.service.RequestPolicy(s.ctx, other, s.request())
	s.Require().NoError(err)

	mine, err := s.service.ListMyPolicies(s.ctx, s.customer, "")
	s.Require().NoError(err)
	s.Len(mine, 1)
	s.Equal(s.customer.UserID, mine[0].UserID)

	all, err := s.service.ListPolicies(s.ctx, models.PolicyFilter{})
	s.Require().NoError(err)
	s.Len(all, 2)
}

func TestPolicyServiceSuite(t *testing.T) {
	suite.Run(t, new(PolicyServiceSuite))
}
