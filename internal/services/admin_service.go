package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/securelife/insurance-backend/internal/models"
	"github.com/securelife/insurance-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// recentListLimit caps the recent-activity lists on the dashboard
const recentListLimit = 5

// claimPayoutStatuses are the claim states that represent money owed or
// already paid out
var claimPayoutStatuses = []models.ClaimStatus{models.ClaimStatusApproved, models.ClaimStatusPaid}

// AdminService defines the interface for the admin dashboard and reports
type AdminService interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
	ListCustomers(ctx context.Context, search string) ([]models.CustomerSummary, error)
	GetCustomer(ctx context.Context, id primitive.ObjectID) (*models.CustomerDetails, error)
	PolicyStatistics(ctx context.Context) (*models.PolicyStatistics, error)
	ClaimStatistics(ctx context.Context) (*models.ClaimStatistics, error)
	RevenueStatistics(ctx context.Context) (*models.RevenueStatistics, error)
}

type adminService struct {
	userRepo   repositories.UserRepository
	planRepo   repositories.PlanRepository
	policyRepo repositories.PolicyRepository
	claimRepo  repositories.ClaimRepository
	logger     *slog.Logger
}

// NewAdminService creates a new AdminService implementation
func NewAdminService(userRepo repositories.UserRepository, planRepo repositories.PlanRepository, policyRepo repositories.PolicyRepository, claimRepo repositories.ClaimRepository, logger *slog.Logger) AdminService {
	return &adminService{
		userRepo:   userRepo,
		planRepo:   planRepo,
		policyRepo: policyRepo,
		claimRepo:  claimRepo,
		logger:     logger,
	}
}

func (s *adminService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	overview := models.DashboardOverview{}

	var err error
	if overview.TotalCustomers, err = s.userRepo.CountByRole(ctx, models.RoleCustomer); err != nil {
		return nil, err
	}
	if overview.TotalPlans, err = s.planRepo.CountActive(ctx); err != nil {
		return nil, err
	}
	if overview.TotalPolicies, err = s.policyRepo.Count(ctx); err != nil {
		return nil, err
	}
	if overview.TotalClaims, err = s.claimRepo.Count(ctx); err != nil {
		return nil, err
	}
	if overview.ActivePolicies, err = s.policyRepo.CountByStatus(ctx, models.PolicyStatusActive); err != nil {
		return nil, err
	}
	if overview.PendingPolicies, err = s.policyRepo.CountByStatus(ctx, models.PolicyStatusRequested); err != nil {
		return nil, err
	}
	pending := []models.ClaimStatus{models.ClaimStatusFiled, models.ClaimStatusUnderReview}
	if overview.PendingClaims, err = s.claimRepo.CountByStatus(ctx, pending); err != nil {
		return nil, err
	}

	activeByFrequency, err := s.policyRepo.AggregateByFrequency(ctx, []models.PolicyStatus{models.PolicyStatusActive})
	if err != nil {
		return nil, err
	}
	overview.TotalMonthlyRevenue = monthlyEquivalent(activeByFrequency)

	if overview.TotalApprovedClaims, err = s.claimRepo.TotalAmount(ctx, claimPayoutStatuses); err != nil {
		return nil, err
	}

	policyStats, err := s.policyRepo.AggregateByStatus(ctx)
	if err != nil {
		return nil, err
	}
	claimStats, err := s.claimRepo.AggregateByStatus(ctx)
	if err != nil {
		return nil, err
	}
	typeBreakdown, err := s.policyRepo.AggregateByType(ctx, nil)
	if err != nil {
		return nil, err
	}
	recentPolicies, err := s.policyRepo.FindRecent(ctx, recentListLimit)
	if err != nil {
		return nil, err
	}
	recentClaims, err := s.claimRepo.FindRecent(ctx, recentListLimit)
	if err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		Overview:       overview,
		PolicyStats:    policyStats,
		ClaimStats:     claimStats,
		TypeBreakdown:  typeBreakdown,
		RecentPolicies: recentPolicies,
		RecentClaims:   recentClaims,
	}, nil
}

func (s *adminService) ListCustomers(ctx context.Context, search string) ([]models.CustomerSummary, error) {
	customers, err := s.userRepo.FindCustomers(ctx, search)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.CustomerSummary, 0, len(customers))
	for _, customer := range customers {
		policyCount, err := s.policyRepo.CountByUser(ctx, customer.ID)
		if err != nil {
			return nil, err
		}
		claimCount, err := s.claimRepo.CountByUser(ctx, customer.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, models.CustomerSummary{
			User:        customer,
			PolicyCount: policyCount,
			ClaimCount:  claimCount,
		})
	}
	return summaries, nil
}

func (s *adminService) GetCustomer(ctx context.Context, id primitive.ObjectID) (*models.CustomerDetails, error) {
	customer, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	policies, err := s.policyRepo.FindAll(ctx, models.PolicyFilter{UserID: id})
	if err != nil {
		return nil, err
	}
	claims, err := s.claimRepo.FindAll(ctx, models.ClaimFilter{UserID: id})
	if err != nil {
		return nil, err
	}

	stats := models.CustomerStatistics{TotalPolicies: len(policies), TotalClaims: len(claims)}
	for _, p := range policies {
		if p.Status != models.PolicyStatusActive {
			continue
		}
		stats.ActivePolicies++
		stats.TotalCoverage += p.CoverageAmount
		stats.TotalMonthlyPremiums += monthlyShare(p.PremiumFrequency, p.PremiumAmount)
	}
	for _, c := range claims {
		if c.Status == models.ClaimStatusApproved || c.Status == models.ClaimStatusPaid {
			stats.ApprovedClaims++
		}
	}

	return &models.CustomerDetails{
		Customer:   customer,
		Statistics: stats,
		Policies:   policies,
		Claims:     claims,
	}, nil
}

func (s *adminService) PolicyStatistics(ctx context.Context) (*models.PolicyStatistics, error) {
	byStatus, err := s.policyRepo.AggregateByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byType, err := s.policyRepo.AggregateByType(ctx, nil)
	if err != nil {
		return nil, err
	}
	byFrequency, err := s.policyRepo.AggregateByFrequency(ctx, nil)
	if err != nil {
		return nil, err
	}
	trend, err := s.policyRepo.MonthlyTrend(ctx, yearAgo())
	if err != nil {
		return nil, err
	}
	return &models.PolicyStatistics{
		ByStatus:     byStatus,
		ByType:       byType,
		ByFrequency:  byFrequency,
		MonthlyTrend: trend,
	}, nil
}

func (s *adminService) ClaimStatistics(ctx context.Context) (*models.ClaimStatistics, error) {
	byStatus, err := s.claimRepo.AggregateByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byType, err := s.claimRepo.AggregateByType(ctx)
	if err != nil {
		return nil, err
	}
	trend, err := s.claimRepo.MonthlyTrend(ctx, yearAgo())
	if err != nil {
		return nil, err
	}

	rates := models.ClaimRates{}
	if rates.TotalClaims, err = s.claimRepo.Count(ctx); err != nil {
		return nil, err
	}
	if rates.ApprovedClaims, err = s.claimRepo.CountByStatus(ctx, claimPayoutStatuses); err != nil {
		return nil, err
	}
	if rates.RejectedClaims, err = s.claimRepo.CountByStatus(ctx, []models.ClaimStatus{models.ClaimStatusRejected}); err != nil {
		return nil, err
	}
	if rates.TotalClaims > 0 {
		rates.ApprovalRate = float64(rates.ApprovedClaims) / float64(rates.TotalClaims) * 100
		rates.RejectionRate = float64(rates.RejectedClaims) / float64(rates.TotalClaims) * 100
	}

	return &models.ClaimStatistics{
		ByStatus:     byStatus,
		ByType:       byType,
		MonthlyTrend: trend,
		Rates:        rates,
	}, nil
}

// RevenueStatistics projects each active frequency bucket to a yearly
// figure: monthly premiums recur twelve times, quarterly four, annual once.
func (s *adminService) RevenueStatistics(ctx context.Context) (*models.RevenueStatistics, error) {
	active := []models.PolicyStatus{models.PolicyStatusActive}
	byFrequency, err := s.policyRepo.AggregateByFrequency(ctx, active)
	if err != nil {
		return nil, err
	}

	var projected float64
	for _, row := range byFrequency {
		switch models.PremiumFrequency(row.Frequency) {
		case models.FrequencyMonthly:
			projected += row.TotalPremium * 12
		case models.FrequencyQuarterly:
			projected += row.TotalPremium * 4
		case models.FrequencyAnnually:
			projected += row.TotalPremium
		}
	}

	coverage, err := s.policyRepo.TotalCoverage(ctx, active)
	if err != nil {
		return nil, err
	}
	payout, err := s.claimRepo.TotalAmount(ctx, claimPayoutStatuses)
	if err != nil {
		return nil, err
	}

	return &models.RevenueStatistics{
		ActiveRevenue:          byFrequency,
		ProjectedAnnualRevenue: projected,
		TotalCoverage:          coverage,
		TotalClaimsPayout:      payout,
		NetPosition:            projected - payout,
	}, nil
}

func monthlyEquivalent(rows []models.FrequencyBreakdown) float64 {
	var total float64
	for _, row := range rows {
		total += monthlyShare(models.PremiumFrequency(row.Frequency), row.TotalPremium)
	}
	return total
}

func monthlyShare(frequency models.PremiumFrequency, amount float64) float64 {
	switch frequency {
	case models.FrequencyQuarterly:
		return amount / 3
	case models.FrequencyAnnually:
		return amount / 12
	default:
		return amount
	}
}

func yearAgo() time.Time {
	return time.Now().AddDate(-1, 0, 0)
}
