package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/securelife/insurance-backend/internal/models"
	"github.com/securelife/insurance-backend/internal/repositories"
	"github.com/securelife/insurance-backend/pkg/sentinel"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure PolicyRepository implements the interface
var _ repositories.PolicyRepository = (*PolicyRepository)(nil)

// PolicyRepository handles MongoDB operations for Policy
type PolicyRepository struct {
	collection *mongo.Collection
}

// NewPolicyRepository creates a new PolicyRepository
func NewPolicyRepository(db *mongo.Database) *PolicyRepository {
	return &PolicyRepository{
		collection: db.Collection("policies"),
	}
}

// Create inserts a new policy. The unique index on policyId turns a
// reference collision into a conflict the service retries with a fresh ID.
func (r *PolicyRepository) Create(ctx context.Context, policy *models.Policy) error {
	policy.ID = primitive.NewObjectID()
	policy.CreatedAt = time.Now()
	policy.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, policy)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: policy reference %s taken", sentinel.ErrConflict, policy.PolicyID)
		}
		return fmt.Errorf("policies.insert: %w", err)
	}
	return nil
}

// FindByID finds a policy by its MongoDB ID
func (r *PolicyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Policy, error) {
	var policy models.Policy
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&policy)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: policy %s", sentinel.ErrNotFound, id.Hex())
		}
		return nil, fmt.Errorf("policies.findOne: %w", err)
	}
	return &policy, nil
}

// FindByPolicyID finds a policy by its business reference
func (r *PolicyRepository) FindByPolicyID(ctx context.Context, policyID string) (*models.Policy, error) {
	var policy models.Policy
	err := r.collection.FindOne(ctx, bson.M{"policyId": policyID}).Decode(&policy)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: policy %s", sentinel.ErrNotFound, policyID)
		}
		return nil, fmt.Errorf("policies.findOne: %w", err)
	}
	return &policy, nil
}

// FindAll lists policies matching the filter, newest first
func (r *PolicyRepository) FindAll(ctx context.Context, filter models.PolicyFilter) ([]*models.Policy, error) {
	query := bson.M{}
	if !filter.UserID.IsZero() {
		query["userId"] = filter.UserID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.PlanType != "" {
		query["planType"] = filter.PlanType
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("policies.find: %w", err)
	}
	defer cursor.Close(ctx)

	var policies []*models.Policy
	if err = cursor.All(ctx, &policies); err != nil {
		return nil, fmt.Errorf("policies.decode: %w", err)
	}
	if policies == nil {
		policies = []*models.Policy{}
	}
	return policies, nil
}

// FindRecent returns the most recently created policies
func (r *PolicyRepository) FindRecent(ctx context.Context, limit int) ([]*models.Policy, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("policies.find: %w", err)
	}
	defer cursor.Close(ctx)

	var policies []*models.Policy
	if err = cursor.All(ctx, &policies); err != nil {
		return nil, fmt.Errorf("policies.decode: %w", err)
	}
	if policies == nil {
		policies = []*models.Policy{}
	}
	return policies, nil
}

// UpdateStatusFrom transitions a policy in a single conditional update keyed
// on the expected prior status, so two racing admins cannot both succeed.
// When the condition does not match, the policy is re-read to distinguish a
// missing record from a stale status.
func (r *PolicyRepository) UpdateStatusFrom(ctx context.Context, id primitive.ObjectID, from, to models.PolicyStatus, documentURL string) (*models.Policy, error) {
	set := bson.M{"status": to, "updatedAt": time.Now()}
	if documentURL != "" {
		set["policyDocumentURL"] = documentURL
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var policy models.Policy
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set},
		opts,
	).Decode(&policy)
	if err == nil {
		return &policy, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("policies.findOneAndUpdate: %w", err)
	}

	current, readErr := r.FindByID(ctx, id)
	if readErr != nil {
		return nil, readErr
	}
	return nil, fmt.Errorf("%w: policy %s is %s, expected %s",
		sentinel.ErrInvalidState, current.PolicyID, current.Status, from)
}

// UpdateStatus sets a policy status unconditionally. Admin override only;
// the caller has already validated the value against the closed status set.
func (r *PolicyRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.PolicyStatus) (*models.Policy, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var policy models.Policy
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
		opts,
	).Decode(&policy)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: policy %s", sentinel.ErrNotFound, id.Hex())
		}
		return nil, fmt.Errorf("policies.findOneAndUpdate: %w", err)
	}
	return &policy, nil
}

// Count counts all policies
func (r *PolicyRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// CountByStatus counts policies with the given status
func (r *PolicyRepository) CountByStatus(ctx context.Context, status models.PolicyStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": status})
}

// CountByUser counts policies owned by a user
func (r *PolicyRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID})
}

// AggregateByStatus groups policies by status with coverage and premium totals
func (r *PolicyRepository) AggregateByStatus(ctx context.Context) ([]models.StatusBreakdown, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":           "$status",
			"count":         bson.M{"$sum": 1},
			"totalCoverage": bson.M{"$sum": "$coverageAmount"},
			"totalPremium":  bson.M{"$sum": "$premiumAmount"},
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("policies.aggregate: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.StatusBreakdown
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("policies.decode: %w", err)
	}
	return rows, nil
}

// AggregateByType groups policies by plan type, optionally restricted to a
// set of statuses
func (r *PolicyRepository) AggregateByType(ctx context.Context, statuses []models.PolicyStatus) ([]models.TypeBreakdown, error) {
	pipeline := mongo.Pipeline{}
	if len(statuses) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"status": bson.M{"$in": statuses}}}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":         "$planType",
			"count":       bson.M{"$sum": 1},
			"totalAmount": bson.M{"$sum": "$coverageAmount"},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"count": -1}}},
	)
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("policies.aggregate: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.TypeBreakdown
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("policies.decode: %w", err)
	}
	return rows, nil
}

// AggregateByFrequency groups policies by premium frequency with premium totals
func (r *PolicyRepository) AggregateByFrequency(ctx context.Context, statuses []models.PolicyStatus) ([]models.FrequencyBreakdown, error) {
	pipeline := mongo.Pipeline{}
	if len(statuses) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"status": bson.M{"$in": statuses}}}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":          "$premiumFrequency",
			"count":        bson.M{"$sum": 1},
			"totalPremium": bson.M{"$sum": "$premiumAmount"},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"count": -1}}},
	)
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("policies.aggregate: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.FrequencyBreakdown
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("policies.decode: %w", err)
	}
	return rows, nil
}

// MonthlyTrend buckets policy creation by month since the cutoff
func (r *PolicyRepository) MonthlyTrend(ctx context.Context, since time.Time) ([]models.MonthlyTrendPoint, error) {
	cursor, err := r.collection.Aggregate(ctx, monthlyTrendStages(since, "coverageAmount"))
	if err != nil {
		return nil, fmt.Errorf("policies.aggregate: %w", err)
	}
	defer cursor.Close(ctx)

	var raw []trendRow
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("policies.decode: %w", err)
	}
	points := make([]models.MonthlyTrendPoint, 0, len(raw))
	for _, row := range raw {
		points = append(points, models.MonthlyTrendPoint{
			Year:        row.ID.Year,
			Month:       row.ID.Month,
			Count:       row.Count,
			TotalAmount: row.TotalAmount,
		})
	}
	return points, nil
}

// TotalCoverage sums coverage over policies in the given statuses
func (r *PolicyRepository) TotalCoverage(ctx context.Context, statuses []models.PolicyStatus) (float64, error) {
	return sumField(ctx, r.collection, bson.M{"status": bson.M{"$in": statuses}}, "coverageAmount")
}
