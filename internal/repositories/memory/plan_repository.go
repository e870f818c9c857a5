package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/securelife/insurance-backend/internal/models"
	"github.com/securelife/insurance-backend/internal/repositories"
	"github.com/securelife/insurance-backend/pkg/sentinel"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.PlanRepository = (*PlanRepository)(nil)

// PlanRepository is an in-memory PlanRepository
type PlanRepository struct {
	mu    sync.RWMutex
	plans map[primitive.ObjectID]*models.InsurancePlan
}

// NewPlanRepository creates an empty in-memory plan repository
func NewPlanRepository() *PlanRepository {
	return &PlanRepository{plans: make(map[primitive.ObjectID]*models.InsurancePlan)}
}

// Create inserts a plan, enforcing planId uniqueness
func (r *PlanRepository) Create(_ context.Context, plan *models.InsurancePlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.plans {
		if p.PlanID == plan.PlanID {
			return fmt.Errorf("%w: plan %s already exists", sentinel.ErrConflict, plan.PlanID)
		}
	}
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = time.Now()
	clone := *plan
	r.plans[plan.ID] = &clone
	return nil
}

// FindByPlanID finds a plan by its business reference
func (r *PlanRepository) FindByPlanID(_ context.Context, planID string, activeOnly bool) (*models.InsurancePlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plans {
		if p.PlanID == planID && (!activeOnly || p.IsActive) {
			clone := *p
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("%w: plan %s", sentinel.ErrNotFound, planID)
}

// FindAll lists active plans matching the filter, newest first
func (r *PlanRepository) FindAll(_ context.Context, filter models.PlanFilter) ([]*models.InsurancePlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(filter.Search)
	out := []*models.InsurancePlan{}
	for _, p := range r.plans {
		if !p.IsActive {
			continue
		}
		if filter.PlanType != "" && p.PlanType != filter.PlanType {
			continue
		}
		if filter.MinCoverage > 0 && p.MinCoverage < filter.MinCoverage {
			continue
		}
		if filter.MaxCoverage > 0 && p.MaxCoverage > filter.MaxCoverage {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.PlanName), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Update replaces a stored plan
func (r *PlanRepository) Update(_ context.Context, plan *models.InsurancePlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plans[plan.ID]; !ok {
		return fmt.Errorf("%w: plan %s", sentinel.ErrNotFound, plan.ID.Hex())
	}
	plan.UpdatedAt = time.Now()
	clone := *plan
	r.plans[plan.ID] = &clone
	return nil
}

// DistinctTypes lists the plan types currently offered
func (r *PlanRepository) DistinctTypes(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]bool{}
	types := []string{}
	for _, p := range r.plans {
		if p.IsActive && !seen[string(p.PlanType)] {
			seen[string(p.PlanType)] = true
			types = append(types, string(p.PlanType))
		}
	}
	sort.Strings(types)
	return types, nil
}

// CountActive counts plans still offered for sale
func (r *PlanRepository) CountActive(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, p := range r.plans {
		if p.IsActive {
			n++
		}
	}
	return n, nil
}
