package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/securelife/insurance-backend/internal/models"
	"github.com/securelife/insurance-backend/internal/repositories"
	"github.com/securelife/insurance-backend/internal/utils"
	"github.com/securelife/insurance-backend/pkg/sentinel"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxReferenceAttempts bounds retries when a freshly generated business
// reference collides with an existing one
const maxReferenceAttempts = 3

// policyStartDelay is the gap between a request being filed and cover
// beginning once approved
const policyStartDelay = 7 * 24 * time.Hour

// PolicyService defines the interface for policy operations
type PolicyService interface {
	// Quote computes a premium without creating anything
	Quote(ctx context.Context, req *models.QuoteRequest) (*models.Quote, error)
	// RequestPolicy files a new policy request in REQUESTED state
	RequestPolicy(ctx context.Context, caller models.Caller, req *models.RequestPolicyRequest) (*models.Policy, error)
	// ListMyPolicies lists the caller's own policies
	ListMyPolicies(ctx context.Context, caller models.Caller, status models.PolicyStatus) ([]*models.Policy, error)
	// ListPolicies lists policies across all customers (admin)
	ListPolicies(ctx context.Context, filter models.PolicyFilter) ([]*models.Policy, error)
	// GetPolicy returns a policy visible to the caller (owner or admin)
	GetPolicy(ctx context.Context, caller models.Caller, id primitive.ObjectID) (*models.Policy, error)
	// ApprovePolicy activates a REQUESTED policy and attaches its document
	ApprovePolicy(ctx context.Context, caller models.Caller, id primitive.ObjectID) (*models.Policy, error)
	// RejectPolicy cancels a REQUESTED policy
	RejectPolicy(ctx context.Context, caller models.Caller, id primitive.ObjectID) (*models.Policy, error)
	// ForceStatus sets a policy status unconditionally (admin override)
	ForceStatus(ctx context.Context, caller models.Caller, id primitive.ObjectID, status models.PolicyStatus) (*models.Policy, error)
}

type policyService struct {
	policyRepo repositories.PolicyRepository
	planRepo   repositories.PlanRepository
	logger     *slog.Logger
}

// NewPolicyService creates a new PolicyService implementation
func NewPolicyService(policyRepo repositories.PolicyRepository, planRepo repositories.PlanRepository, logger *slog.Logger) PolicyService {
	return &policyService{policyRepo: policyRepo, planRepo: planRepo, logger: logger}
}

func (s *policyService) Quote(ctx context.Context, req *models.QuoteRequest) (*models.Quote, error) {
	plan, err := s.planRepo.FindByPlanID(ctx, req.PlanID, true)
	if err != nil {
		return nil, err
	}
	if err := validateCoverage(plan, req.CoverageAmount); err != nil {
		return nil, err
	}

	amount, discount, err := CalculatePremium(req.CoverageAmount, plan.MonthlyPremiumRate, req.PremiumFrequency)
	if err != nil {
		return nil, err
	}
	return &models.Quote{
		PlanName:         plan.PlanName,
		CoverageAmount:   req.CoverageAmount,
		PremiumFrequency: req.PremiumFrequency,
		PremiumAmount:    amount,
		DiscountPercent:  discount,
		DurationYears:    plan.Duration,
	}, nil
}

func (s *policyService) RequestPolicy(ctx context.Context, caller models.Caller, req *models.RequestPolicyRequest) (*models.Policy, error) {
	plan, err := s.planRepo.FindByPlanID(ctx, req.PlanID, true)
	if err != nil {
		return nil, err
	}
	if err := validateCoverage(plan, req.CoverageAmount); err != nil {
		return nil, err
	}
	if err := validateBeneficiaries(req.Beneficiaries); err != nil {
		return nil, err
	}

	amount, _, err := CalculatePremium(req.CoverageAmount, plan.MonthlyPremiumRate, req.PremiumFrequency)
	if err != nil {
		return nil, err
	}

	start := time.Now().Add(policyStartDelay)
	policy := &models.Policy{
		UserID:           caller.UserID,
		PlanID:           plan.PlanID,
		PlanName:         plan.PlanName,
		PlanType:         plan.PlanType,
		CoverageAmount:   req.CoverageAmount,
		PremiumAmount:    amount,
		PremiumFrequency: req.PremiumFrequency,
		StartDate:        start,
		EndDate:          start.AddDate(plan.Duration, 0, 0),
		Status:           models.PolicyStatusRequested,
		Beneficiaries:    req.Beneficiaries,
	}

	for attempt := 1; ; attempt++ {
		policy.PolicyID = utils.GeneratePolicyID()
		err = s.policyRepo.Create(ctx, policy)
		if err == nil {
			break
		}
		if !errors.Is(err, sentinel.ErrConflict) || attempt == maxReferenceAttempts {
			return nil, err
		}
		s.logger.Warn("policy reference collision, retrying", "policyId", policy.PolicyID, "attempt", attempt)
	}

	s.logger.Info("policy requested",
		"policyId", policy.PolicyID, "userId", caller.UserID.Hex(), "planId", plan.PlanID)
	return policy, nil
}

func (s *policyService) ListMyPolicies(ctx context.Context, caller models.Caller, status models.PolicyStatus) ([]*models.Policy, error) {
	if status != "" && !models.ValidPolicyStatus(status) {
		return nil, fmt.Errorf("%w: unknown policy status %q", sentinel.ErrValidation, status)
	}
	return s.policyRepo.FindAll(ctx, models.PolicyFilter{UserID: caller.UserID, Status: status})
}

func (s *policyService) ListPolicies(ctx context.Context, filter models.PolicyFilter) ([]*models.Policy, error) {
	if filter.Status != "" && !models.ValidPolicyStatus(filter.Status) {
		return nil, fmt.Errorf("%w: unknown policy status %q", sentinel.ErrValidation, filter.Status)
	}
	return s.policyRepo.FindAll(ctx, filter)
}

func (s *policyService) GetPolicy(ctx context.Context, caller models.Caller, id primitive.ObjectID) (*models.Policy, error) {
	policy, err := s.policyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && !caller.Owns(policy.UserID) {
		return nil, fmt.Errorf("%w: not your policy", sentinel.ErrForbidden)
	}
	return policy, nil
}

// ApprovePolicy moves REQUESTED to ACTIVE. The transition is a single
// conditional update, so two administrators approving at once cannot both
// succeed.
func (s *policyService) ApprovePolicy(ctx context.Context, caller models.Caller, id primitive.ObjectID) (*models.Policy, error) {
	policy, err := s.policyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	documentURL := fmt.Sprintf("https://res.cloudinary.com/demo/policy_%s.pdf", policy.PolicyID)
	updated, err := s.policyRepo.UpdateStatusFrom(ctx, id,
		models.PolicyStatusRequested, models.PolicyStatusActive, documentURL)
	if err != nil {
		return nil, err
	}
	s.logger.Info("policy approved",
		"policyId", updated.PolicyID, "approvedBy", caller.UserID.Hex())
	return updated, nil
}

func (s *policyService) RejectPolicy(ctx context.Context, caller models.Caller, id primitive.ObjectID) (*models.Policy, error) {
	updated, err := s.policyRepo.UpdateStatusFrom(ctx, id,
		models.PolicyStatusRequested, models.PolicyStatusCancelled, "")
	if err != nil {
		return nil, err
	}
	s.logger.Info("policy rejected",
		"policyId", updated.PolicyID, "rejectedBy", caller.UserID.Hex())
	return updated, nil
}

// ForceStatus is the permissive override for operational corrections such
// as lapsing or maturing a policy. It validates the target against the
// closed status set but imposes no transition graph.
func (s *policyService) ForceStatus(ctx context.Context, caller models.Caller, id primitive.ObjectID, status models.PolicyStatus) (*models.Policy, error) {
	if !models.ValidPolicyStatus(status) {
		return nil, fmt.Errorf("%w: unknown policy status %q", sentinel.ErrValidation, status)
	}
	updated, err := s.policyRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info("policy status forced",
		"policyId", updated.PolicyID, "status", status, "by", caller.UserID.Hex())
	return updated, nil
}

func validateCoverage(plan *models.InsurancePlan, amount float64) error {
	if amount < plan.MinCoverage || amount > plan.MaxCoverage {
		return fmt.Errorf("%w: coverage must be between %.0f and %.0f for plan %s",
			sentinel.ErrValidation, plan.MinCoverage, plan.MaxCoverage, plan.PlanID)
	}
	return nil
}

func validateBeneficiaries(beneficiaries []models.Beneficiary) error {
	if len(beneficiaries) == 0 {
		return fmt.Errorf("%w: at least one beneficiary is required", sentinel.ErrValidation)
	}
	total := 0
	for _, b := range beneficiaries {
		if b.Percentage < 1 || b.Percentage > 100 {
			return fmt.Errorf("%w: beneficiary percentage must be between 1 and 100", sentinel.ErrValidation)
		}
		total += b.Percentage
	}
	if total != 100 {
		return fmt.Errorf("%w: beneficiary percentages must total exactly 100, got %d",
			sentinel.ErrValidation, total)
	}
	return nil
}
