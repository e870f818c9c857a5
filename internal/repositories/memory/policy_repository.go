package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/securelife/insurance-backend/internal/models"
	"github.com/securelife/insurance-backend/internal/repositories"
	"github.com/securelife/insurance-backend/pkg/sentinel"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.PolicyRepository = (*PolicyRepository)(nil)

// PolicyRepository is an in-memory PolicyRepository. Guarded transitions
// hold the write lock across check and update, matching the atomicity of
// the MongoDB conditional updates.
type PolicyRepository struct {
	mu       sync.RWMutex
	policies map[primitive.ObjectID]*models.Policy
}

// NewPolicyRepository creates an empty in-memory policy repository
func NewPolicyRepository() *PolicyRepository {
	return &PolicyRepository{policies: make(map[primitive.ObjectID]*models.Policy)}
}

// Create inserts a policy, enforcing policyId uniqueness
func (r *PolicyRepository) Create(_ context.Context, policy *models.Policy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.policies {
		if p.PolicyID == policy.PolicyID {
			return fmt.Errorf("%w: policy reference %s taken", sentinel.ErrConflict, policy.PolicyID)
		}
	}
	policy.ID = primitive.NewObjectID()
	policy.CreatedAt = time.Now()
	policy.UpdatedAt = time.Now()
	clone := *policy
	r.policies[policy.ID] = &clone
	return nil
}

// FindByID finds a policy by ID
func (r *PolicyRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findLocked(id)
}

func (r *PolicyRepository) findLocked(id primitive.ObjectID) (*models.Policy, error) {
	p, ok := r.policies[id]
	if !ok {
		return nil, fmt.Errorf("%w: policy %s", sentinel.ErrNotFound, id.Hex())
	}
	clone := *p
	return &clone, nil
}

// FindByPolicyID finds a policy by its business reference
func (r *PolicyRepository) FindByPolicyID(_ context.Context, policyID string) (*models.Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.policies {
		if p.PolicyID == policyID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("%w: policy %s", sentinel.ErrNotFound, policyID)
}

// FindAll lists policies matching the filter, newest first
func (r *PolicyRepository) FindAll(_ context.Context, filter models.PolicyFilter) ([]*models.Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*models.Policy{}
	for _, p := range r.policies {
		if !filter.UserID.IsZero() && p.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.PlanType != "" && p.PlanType != filter.PlanType {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// FindRecent returns the most recently created policies
func (r *PolicyRepository) FindRecent(ctx context.Context, limit int) ([]*models.Policy, error) {
	all, err := r.FindAll(ctx, models.PolicyFilter{})
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// UpdateStatusFrom transitions a policy only when its current status matches
func (r *PolicyRepository) UpdateStatusFrom(_ context.Context, id primitive.ObjectID, from, to models.PolicyStatus, documentURL string) (*models.Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.policies[id]
	if !ok {
		return nil, fmt.Errorf("%w: policy %s", sentinel.ErrNotFound, id.Hex())
	}
	if p.Status != from {
		return nil, fmt.Errorf("%w: policy %s is %s, expected %s",
			sentinel.ErrInvalidState, p.PolicyID, p.Status, from)
	}
	p.Status = to
	if documentURL != "" {
		p.PolicyDocumentURL = documentURL
	}
	p.UpdatedAt = time.Now()
	clone := *p
	return &clone, nil
}

// UpdateStatus sets a policy status unconditionally (admin override)
func (r *PolicyRepository) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.PolicyStatus) (*models.Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.policies[id]
	if !ok {
		return nil, fmt.Errorf("%w: policy %s", sentinel.ErrNotFound, id.Hex())
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	clone := *p
	return &clone, nil
}

// Count counts all policies
func (r *PolicyRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.policies)), nil
}

// CountByStatus counts policies with the given status
func (r *PolicyRepository) CountByStatus(_ context.Context, status models.PolicyStatus) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, p := range r.policies {
		if p.Status == status {
			n++
		}
	}
	return n, nil
}

// CountByUser counts policies owned by a user
func (r *PolicyRepository) CountByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, p := range r.policies {
		if p.UserID == userID {
			n++
		}
	}
	return n, nil
}

// AggregateByStatus groups policies by status
func (r *PolicyRepository) AggregateByStatus(_ context.Context) ([]models.StatusBreakdown, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byStatus := map[string]*models.StatusBreakdown{}
	for _, p := range r.policies {
		row, ok := byStatus[string(p.Status)]
		if !ok {
			row = &models.StatusBreakdown{Status: string(p.Status)}
			byStatus[string(p.Status)] = row
		}
		row.Count++
		row.TotalCoverage += p.CoverageAmount
		row.TotalPremium += p.PremiumAmount
	}
	return sortedStatusRows(byStatus), nil
}

// AggregateByType groups policies by plan type
func (r *PolicyRepository) AggregateByType(_ context.Context, statuses []models.PolicyStatus) ([]models.TypeBreakdown, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	allowed := map[models.PolicyStatus]bool{}
	for _, s := range statuses {
		allowed[s] = true
	}
	byType := map[string]*models.TypeBreakdown{}
	for _, p := range r.policies {
		if len(statuses) > 0 && !allowed[p.Status] {
			continue
		}
		row, ok := byType[string(p.PlanType)]
		if !ok {
			row = &models.TypeBreakdown{Type: string(p.PlanType)}
			byType[string(p.PlanType)] = row
		}
		row.Count++
		row.TotalAmount += p.CoverageAmount
	}
	return sortedTypeRows(byType), nil
}

// AggregateByFrequency groups policies by premium frequency
func (r *PolicyRepository) AggregateByFrequency(_ context.Context, statuses []models.PolicyStatus) ([]models.FrequencyBreakdown, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	allowed := map[models.PolicyStatus]bool{}
	for _, s := range statuses {
		allowed[s] = true
	}
	byFreq := map[string]*models.FrequencyBreakdown{}
	for _, p := range r.policies {
		if len(statuses) > 0 && !allowed[p.Status] {
			continue
		}
		row, ok := byFreq[string(p.PremiumFrequency)]
		if !ok {
			row = &models.FrequencyBreakdown{Frequency: string(p.PremiumFrequency)}
			byFreq[string(p.PremiumFrequency)] = row
		}
		row.Count++
		row.TotalPremium += p.PremiumAmount
	}
	rows := make([]models.FrequencyBreakdown, 0, len(byFreq))
	for _, row := range byFreq {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	return rows, nil
}

// MonthlyTrend buckets policy creation by month since the cutoff
func (r *PolicyRepository) MonthlyTrend(_ context.Context, since time.Time) ([]models.MonthlyTrendPoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	points := map[[2]int]*models.MonthlyTrendPoint{}
	for _, p := range r.policies {
		if p.CreatedAt.Before(since) {
			continue
		}
		key := [2]int{p.CreatedAt.Year(), int(p.CreatedAt.Month())}
		row, ok := points[key]
		if !ok {
			row = &models.MonthlyTrendPoint{Year: key[0], Month: key[1]}
			points[key] = row
		}
		row.Count++
		row.TotalAmount += p.CoverageAmount
	}
	return sortedTrend(points), nil
}

// TotalCoverage sums coverage over policies in the given statuses
func (r *PolicyRepository) TotalCoverage(_ context.Context, statuses []models.PolicyStatus) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	allowed := map[models.PolicyStatus]bool{}
	for _, s := range statuses {
		allowed[s] = true
	}
	var total float64
	for _, p := range r.policies {
		if allowed[p.Status] {
			total += p.CoverageAmount
		}
	}
	return total, nil
}
