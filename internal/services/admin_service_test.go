package services

import (
	"context"
	"testing"
	"time"

	"github.com/securelife/insurance-backend/internal/models"
	"github.com/securelife/insurance-backend/internal/repositories/memory"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdminServiceSuite struct {
	suite.Suite
	ctx        context.Context
	userRepo   *memory.UserRepository
	planRepo   *memory.PlanRepository
	policyRepo *memory.PolicyRepository
	claimRepo  *memory.ClaimRepository
	service    AdminService
	customer   *models.User
}

func (s *AdminServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.userRepo = memory.NewUserRepository()
	s.planRepo = memory.NewPlanRepository()
	s.policyRepo = memory.NewPolicyRepository()
	s.claimRepo = memory.NewClaimRepository()
	s.service = NewAdminService(s.userRepo, s.planRepo, s.policyRepo, s.claimRepo, testLogger())

	s.customer = &models.User{
		FullName: "Amara Perera",
		Email:    "amara@example.com",
		NIC:      "857290114V",
		Role:     models.RoleCustomer,
	}
	s.Require().NoError(s.userRepo.Create(s.ctx, s.customer))
	s.Require().NoError(s.userRepo.Create(s.ctx, &models.User{
		FullName: "Ops Admin", Email: "ops@example.com", Role: models.RoleAdmin,
	}))

	s.Require().NoError(s.planRepo.Create(s.ctx, &models.InsurancePlan{
		PlanID: "PLAN-001", PlanName: "Family Protection Term Life",
		PlanType: models.PlanTypeTermLife, MonthlyPremiumRate: 2500,
		MinCoverage: 500_000, MaxCoverage: 10_000_000, Duration: 20, IsActive: true,
	}))
}

func (s *AdminServiceSuite) addPolicy(status models.PolicyStatus, frequency models.PremiumFrequency, premium, coverage float64) *models.Policy {
	policy := &models.Policy{
		PolicyID:         "POL-2025-" + primitive.NewObjectID().Hex()[18:],
		UserID:           s.customer.ID,
		PlanID:           "PLAN-001",
		PlanType:         models.PlanTypeTermLife,
		CoverageAmount:   coverage,
		PremiumAmount:    premium,
		PremiumFrequency: frequency,
		Status:           status,
	}
	s.Require().NoError(s.policyRepo.Create(s.ctx, policy))
	return policy
}

func (s *AdminServiceSuite) addClaim(status models.ClaimStatus, amount float64) *models.Claim {
	claim := &models.Claim{
		ClaimID:     "CLM-2025-" + primitive.NewObjectID().Hex()[18:],
		PolicyID:    "POL-2025-000001",
		UserID:      s.customer.ID,
		ClaimType:   models.ClaimTypeAccident,
		ClaimAmount: amount,
		Status:      status,
	}
	s.Require().NoError(s.claimRepo.Create(s.ctx, claim))
	return claim
}

func (s *AdminServiceSuite) TestDashboard() {
	s.addPolicy(models.PolicyStatusActive, models.FrequencyMonthly, 5000, 2_000_000)
	s.addPolicy(models.PolicyStatusActive, models.FrequencyAnnually, 54000, 2_000_000)
	s.addPolicy(models.PolicyStatusRequested, models.FrequencyMonthly, 2500, 1_000_000)
	s.addClaim(models.ClaimStatusFiled, 100_000)
	s.addClaim(models.ClaimStatusApproved, 250_000)

	stats, err := s.service.Dashboard(s.ctx)
	s.Require().NoError(err)

	overview := stats.Overview
	s.Equal(int64(1), overview.TotalCustomers, "admins are not customers")
	s.Equal(int64(1), overview.TotalPlans)
	s.Equal(int64(3), overview.TotalPolicies)
	s.Equal(int64(2), overview.TotalClaims)
	s.Equal(int64(2), overview.ActivePolicies)
	s.Equal(int64(1), overview.PendingPolicies)
	s.Equal(int64(1), overview.PendingClaims)
	// 5000 monthly plus the annual premium normalised to a month
	s.InDelta(5000+54000.0/12, overview.TotalMonthlyRevenue, 0.01)
	s.Equal(float64(250_000), overview.TotalApprovedClaims)

	s.NotEmpty(stats.PolicyStats)
	s.NotEmpty(stats.ClaimStats)
	s.NotEmpty(stats.TypeBreakdown)
	s.Len(stats.RecentPolicies, 3)
	s.Len(stats.RecentClaims, 2)
}

func (s *AdminServiceSuite) TestListCustomers() {
	s.addPolicy(models.PolicyStatusActive, models.FrequencyMonthly, 5000, 2_000_000)
	s.addClaim(models.ClaimStatusFiled, 100_000)

	customers, err := s.service.ListCustomers(s.ctx, "")
	s.Require().NoError(err)
	s.Require().Len(customers, 1, "admin accounts are excluded")
	s.Equal(int64(1), customers[0].PolicyCount)
	s.Equal(int64(1), customers[0].ClaimCount)

	matched, err := s.service.ListCustomers(s.ctx, "amara")
	s.Require().NoError(err)
	s.Len(matched, 1)

	none, err := s.service.ListCustomers(s.ctx, "zzz")
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *AdminServiceSuite) TestGetCustomer() {
	s.addPolicy(models.PolicyStatusActive, models.FrequencyQuarterly, 7200, 2_000_000)
	s.addPolicy(models.PolicyStatusCancelled, models.FrequencyMonthly, 2500, 1_000_000)
	s.addClaim(models.ClaimStatusPaid, 250_000)

	details, err := s.service.GetCustomer(s.ctx, s.customer.ID)
	s.Require().NoError(err)

	s.Equal(2, details.Statistics.TotalPolicies)
	s.Equal(1, details.Statistics.ActivePolicies)
	s.Equal(1, details.Statistics.TotalClaims)
	s.Equal(1, details.Statistics.ApprovedClaims)
	s.Equal(float64(2_000_000), details.Statistics.TotalCoverage)
	s.InDelta(7200.0/3, details.Statistics.TotalMonthlyPremiums, 0.01)
	s.Len(details.Policies, 2)
	s.Len(details.Claims, 1)
}

func (s *AdminServiceSuite) TestClaimStatisticsRates() {
	s.addClaim(models.ClaimStatusApproved, 100_000)
	s.addClaim(models.ClaimStatusPaid, 100_000)
	s.addClaim(models.ClaimStatusRejected, 100_000)
	s.addClaim(models.ClaimStatusFiled, 100_000)

	stats, err := s.service.ClaimStatistics(s.ctx)
	s.Require().NoError(err)

	s.Equal(int64(4), stats.Rates.TotalClaims)
	s.Equal(int64(2), stats.Rates.ApprovedClaims)
	s.Equal(int64(1), stats.Rates.RejectedClaims)
	s.InDelta(50.0, stats.Rates.ApprovalRate, 0.01)
	s.InDelta(25.0, stats.Rates.RejectionRate, 0.01)
	s.NotEmpty(stats.MonthlyTrend)
}

func (s *AdminServiceSuite) TestClaimStatisticsWithNoClaims() {
	stats, err := s.service.ClaimStatistics(s.ctx)
	s.Require().NoError(err)
	s.Zero(stats.Rates.ApprovalRate)
	s.Zero(stats.Rates.RejectionRate)
}

func (s *AdminServiceSuite) TestRevenueStatistics() {
	s.addPolicy(models.PolicyStatusActive, models.FrequencyMonthly, 5000, 2_000_000)
	s.addPolicy(models.PolicyStatusActive, models.FrequencyQuarterly, 7200, 2_000_000)
	s.addPolicy(models.PolicyStatusActive, models.FrequencyAnnually, 27000, 1_000_000)
	// Lapsed policies contribute no revenue
	s.addPolicy(models.PolicyStatusLapsed, models.FrequencyMonthly, 9000, 3_000_000)
	s.addClaim(models.ClaimStatusApproved, 400_000)

	stats, err := s.service.RevenueStatistics(s.ctx)
	s.Require().NoError(err)

	wantProjected := 5000.0*12 + 7200.0*4 + 27000.0
	s.InDelta(wantProjected, stats.ProjectedAnnualRevenue, 0.01)
	s.Equal(float64(5_000_000), stats.TotalCoverage)
	s.Equal(float64(400_000), stats.TotalClaimsPayout)
	s.InDelta(wantProjected-400_000, stats.NetPosition, 0.01)
	s.Len(stats.ActiveRevenue, 3)
}

func (s *AdminServiceSuite) TestPolicyStatistics() {
	s.addPolicy(models.PolicyStatusActive, models.FrequencyMonthly, 5000, 2_000_000)
	s.addPolicy(models.PolicyStatusRequested, models.FrequencyAnnually, 27000, 1_000_000)

	stats, err := s.service.PolicyStatistics(s.ctx)
	s.Require().NoError(err)

	s.Len(stats.ByStatus, 2)
	s.Len(stats.ByType, 1)
	s.Len(stats.ByFrequency, 2)
	s.Require().Len(stats.MonthlyTrend, 1)
	s.Equal(int64(2), stats.MonthlyTrend[0].Count)
	s.Equal(time.Now().Year(), stats.MonthlyTrend[0].Year)
}

func TestAdminServiceSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceSuite))
}
