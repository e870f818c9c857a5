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

var _ repositories.ClaimRepository = (*ClaimRepository)(nil)

// ClaimRepository is an in-memory ClaimRepository
type ClaimRepository struct {
	mu     sync.RWMutex
	claims map[primitive.ObjectID]*models.Claim
}

// NewClaimRepository creates an empty in-memory claim repository
func NewClaimRepository() *ClaimRepository {
	return &ClaimRepository{claims: make(map[primitive.ObjectID]*models.Claim)}
}

// Create inserts a claim, enforcing claimId uniqueness
func (r *ClaimRepository) Create(_ context.Context, claim *models.Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.claims {
		if c.ClaimID == claim.ClaimID {
			return fmt.Errorf("%w: claim reference %s taken", sentinel.ErrConflict, claim.ClaimID)
		}
	}
	claim.ID = primitive.NewObjectID()
	claim.CreatedAt = time.Now()
	claim.UpdatedAt = time.Now()
	clone := cloneClaim(claim)
	r.claims[claim.ID] = clone
	return nil
}

func cloneClaim(c *models.Claim) *models.Claim {
	clone := *c
	clone.Documents = append([]models.ClaimDocument(nil), c.Documents...)
	return &clone
}

// FindByID finds a claim by ID
func (r *ClaimRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Claim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.claims[id]
	if !ok {
		return nil, fmt.Errorf("%w: claim %s", sentinel.ErrNotFound, id.Hex())
	}
	return cloneClaim(c), nil
}

// FindAll lists claims matching the filter, newest first
func (r *ClaimRepository) FindAll(_ context.Context, filter models.ClaimFilter) ([]*models.Claim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*models.Claim{}
	for _, c := range r.claims {
		if !filter.UserID.IsZero() && c.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.ClaimType != "" && c.ClaimType != filter.ClaimType {
			continue
		}
		if filter.PolicyID != "" && c.PolicyID != filter.PolicyID {
			continue
		}
		out = append(out, cloneClaim(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// FindRecent returns the most recently filed claims
func (r *ClaimRepository) FindRecent(ctx context.Context, limit int) ([]*models.Claim, error) {
	all, err := r.FindAll(ctx, models.ClaimFilter{})
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// ApplyReview transitions a claim and stamps the review fields when its
// current status matches
func (r *ClaimRepository) ApplyReview(_ context.Context, id primitive.ObjectID, from models.ClaimStatus, review models.ClaimReview) (*models.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.claims[id]
	if !ok {
		return nil, fmt.Errorf("%w: claim %s", sentinel.ErrNotFound, id.Hex())
	}
	if c.Status != from {
		return nil, fmt.Errorf("%w: claim %s is %s, expected %s",
			sentinel.ErrInvalidState, c.ClaimID, c.Status, from)
	}
	reviewedBy := review.ReviewedBy
	reviewedAt := review.ReviewedAt
	c.Status = review.Status
	c.ReviewNotes = review.ReviewNotes
	c.ReviewedBy = &reviewedBy
	c.ReviewedAt = &reviewedAt
	c.UpdatedAt = time.Now()
	return cloneClaim(c), nil
}

// UpdateStatusFrom transitions a claim without touching the review fields
func (r *ClaimRepository) UpdateStatusFrom(_ context.Context, id primitive.ObjectID, from, to models.ClaimStatus) (*models.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.claims[id]
	if !ok {
		return nil, fmt.Errorf("%w: claim %s", sentinel.ErrNotFound, id.Hex())
	}
	if c.Status != from {
		return nil, fmt.Errorf("%w: claim %s is %s, expected %s",
			sentinel.ErrInvalidState, c.ClaimID, c.Status, from)
	}
	c.Status = to
	c.UpdatedAt = time.Now()
	return cloneClaim(c), nil
}

// AppendDocuments appends documents to a claim that still accepts them
func (r *ClaimRepository) AppendDocuments(_ context.Context, id primitive.ObjectID, docs []models.ClaimDocument) (*models.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.claims[id]
	if !ok {
		return nil, fmt.Errorf("%w: claim %s", sentinel.ErrNotFound, id.Hex())
	}
	if !c.AcceptsDocuments() {
		return nil, fmt.Errorf("%w: claim %s is %s and no longer accepts documents",
			sentinel.ErrInvalidState, c.ClaimID, c.Status)
	}
	c.Documents = append(c.Documents, docs...)
	c.UpdatedAt = time.Now()
	return cloneClaim(c), nil
}

// Count counts all claims
func (r *ClaimRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.claims)), nil
}

// CountByStatus counts claims whose status is in the given set
func (r *ClaimRepository) CountByStatus(_ context.Context, statuses []models.ClaimStatus) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	allowed := map[models.ClaimStatus]bool{}
	for _, s := range statuses {
		allowed[s] = true
	}
	var n int64
	for _, c := range r.claims {
		if allowed[c.Status] {
			n++
		}
	}
	return n, nil
}

// CountByUser counts claims filed by a user
func (r *ClaimRepository) CountByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, c := range r.claims {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

// AggregateByStatus groups claims by status with amount totals and averages
func (r *ClaimRepository) AggregateByStatus(_ context.Context) ([]models.StatusBreakdown, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byStatus := map[string]*models.StatusBreakdown{}
	for _, c := range r.claims {
		row, ok := byStatus[string(c.Status)]
		if !ok {
			row = &models.StatusBreakdown{Status: string(c.Status)}
			byStatus[string(c.Status)] = row
		}
		row.Count++
		row.TotalAmount += c.ClaimAmount
	}
	rows := sortedStatusRows(byStatus)
	for i := range rows {
		rows[i].AvgAmount = rows[i].TotalAmount / float64(rows[i].Count)
	}
	return rows, nil
}

// AggregateByType groups claims by claim type with amount totals
func (r *ClaimRepository) AggregateByType(_ context.Context) ([]models.TypeBreakdown, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byType := map[string]*models.TypeBreakdown{}
	for _, c := range r.claims {
		row, ok := byType[string(c.ClaimType)]
		if !ok {
			row = &models.TypeBreakdown{Type: string(c.ClaimType)}
			byType[string(c.ClaimType)] = row
		}
		row.Count++
		row.TotalAmount += c.ClaimAmount
	}
	return sortedTypeRows(byType), nil
}

// MonthlyTrend buckets claim filing by month since the cutoff
func (r *ClaimRepository) MonthlyTrend(_ context.Context, since time.Time) ([]models.MonthlyTrendPoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	points := map[[2]int]*models.MonthlyTrendPoint{}
	for _, c := range r.claims {
		if c.CreatedAt.Before(since) {
			continue
		}
		key := [2]int{c.CreatedAt.Year(), int(c.CreatedAt.Month())}
		row, ok := points[key]
		if !ok {
			row = &models.MonthlyTrendPoint{Year: key[0], Month: key[1]}
			points[key] = row
		}
		row.Count++
		row.TotalAmount += c.ClaimAmount
	}
	return sortedTrend(points), nil
}

// TotalAmount sums claim amounts over the given statuses
func (r *ClaimRepository) TotalAmount(_ context.Context, statuses []models.ClaimStatus) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	allowed := map[models.ClaimStatus]bool{}
	for _, s := range statuses {
		allowed[s] = true
	}
	var total float64
	for _, c := range r.claims {
		if allowed[c.Status] {
			total += c.ClaimAmount
		}
	}
	return total, nil
}
