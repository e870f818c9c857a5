package repositories

import (
	"context"
	"time"

	"github.com/securelife/insurance-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	// FindCustomers lists customer accounts, optionally filtered by a
	// case-insensitive search over name, email and NIC.
	FindCustomers(ctx context.Context, search string) ([]*models.User, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

// PlanRepository defines the interface for insurance plan data operations
type PlanRepository interface {
	Create(ctx context.Context, plan *models.InsurancePlan) error
	// FindByPlanID looks a plan up by its business reference. With activeOnly
	// set, deactivated plans are treated as absent.
	FindByPlanID(ctx context.Context, planID string, activeOnly bool) (*models.InsurancePlan, error)
	FindAll(ctx context.Context, filter models.PlanFilter) ([]*models.InsurancePlan, error)
	Update(ctx context.Context, plan *models.InsurancePlan) error
	DistinctTypes(ctx context.Context) ([]string, error)
	CountActive(ctx context.Context) (int64, error)
}

// PolicyRepository defines the interface for policy data operations.
// Guarded transitions go through UpdateStatusFrom, a single conditional
// update keyed on the expected prior status; the unconditional UpdateStatus
// backs the permissive admin override only.
type PolicyRepository interface {
	Create(ctx context.Context, policy *models.Policy) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Policy, error)
	FindByPolicyID(ctx context.Context, policyID string) (*models.Policy, error)
	FindAll(ctx context.Context, filter models.PolicyFilter) ([]*models.Policy, error)
	FindRecent(ctx context.Context, limit int) ([]*models.Policy, error)
	UpdateStatusFrom(ctx context.Context, id primitive.ObjectID, from, to models.PolicyStatus, documentURL string) (*models.Policy, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.PolicyStatus) (*models.Policy, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.PolicyStatus) (int64, error)
	CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	AggregateByStatus(ctx context.Context) ([]models.StatusBreakdown, error)
	AggregateByType(ctx context.Context, statuses []models.PolicyStatus) ([]models.TypeBreakdown, error)
	AggregateByFrequency(ctx context.Context, statuses []models.PolicyStatus) ([]models.FrequencyBreakdown, error)
	MonthlyTrend(ctx context.Context, since time.Time) ([]models.MonthlyTrendPoint, error)
	TotalCoverage(ctx context.Context, statuses []models.PolicyStatus) (float64, error)
}

// ClaimRepository defines the interface for claim data operations.
// ApplyReview and UpdateStatusFrom are conditional updates keyed on the
// expected prior status; AppendDocuments only succeeds while the claim
// still accepts documents.
type ClaimRepository interface {
	Create(ctx context.Context, claim *models.Claim) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Claim, error)
	FindAll(ctx context.Context, filter models.ClaimFilter) ([]*models.Claim, error)
	FindRecent(ctx context.Context, limit int) ([]*models.Claim, error)
	ApplyReview(ctx context.Context, id primitive.ObjectID, from models.ClaimStatus, review models.ClaimReview) (*models.Claim, error)
	UpdateStatusFrom(ctx context.Context, id primitive.ObjectID, from, to models.ClaimStatus) (*models.Claim, error)
	AppendDocuments(ctx context.Context, id primitive.ObjectID, docs []models.ClaimDocument) (*models.Claim, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, statuses []models.ClaimStatus) (int64, error)
	CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	AggregateByStatus(ctx context.Context) ([]models.StatusBreakdown, error)
	AggregateByType(ctx context.Context) ([]models.TypeBreakdown, error)
	MonthlyTrend(ctx context.Context, since time.Time) ([]models.MonthlyTrendPoint, error)
	TotalAmount(ctx context.Context, statuses []models.ClaimStatus) (float64, error)
}
