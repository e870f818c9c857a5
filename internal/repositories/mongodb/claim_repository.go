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

// Compile-time check to ensure ClaimRepository implements the interface
var _ repositories.ClaimRepository = (*ClaimRepository)(nil)

// ClaimRepository handles MongoDB operations for Claim
type ClaimRepository struct {
	collection *mongo.Collection
}

// NewClaimRepository creates a new ClaimRepository
func NewClaimRepository(db *mongo.Database) *ClaimRepository {
	return &ClaimRepository{
		collection: db.Collection("claims"),
	}
}

// Create inserts a new claim. The unique index on claimId turns a reference
// collision into a conflict the service retries with a fresh ID.
func (r *ClaimRepository) Create(ctx context.Context, claim *models.Claim) error {
	claim.ID = primitive.NewObjectID()
	claim.CreatedAt = time.Now()
	claim.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, claim)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: claim reference %s taken", sentinel.ErrConflict, claim.ClaimID)
		}
		return fmt.Errorf("claims.insert: %w", err)
	}
	return nil
}

// FindByID finds a claim by its MongoDB ID
func (r *ClaimRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Claim, error) {
	var claim models.Claim
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&claim)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: claim %s", sentinel.ErrNotFound, id.Hex())
		}
		return nil, fmt.Errorf("claims.findOne: %w", err)
	}
	return &claim, nil
}

// FindAll lists claims matching the filter, newest first
func (r *ClaimRepository) FindAll(ctx context.Context, filter models.ClaimFilter) ([]*models.Claim, error) {
	query := bson.M{}
	if !filter.UserID.IsZero() {
		query["userId"] = filter.UserID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.ClaimType != "" {
		query["claimType"] = filter.ClaimType
	}
	if filter.PolicyID != "" {
		query["policyId"] = filter.PolicyID
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("claims.find: %w", err)
	}
	defer cursor.Close(ctx)

	var claims []*models.Claim
	if err = cursor.All(ctx, &claims); err != nil {
		return nil, fmt.Errorf("claims.decode: %w", err)
	}
	if claims == nil {
		claims = []*models.Claim{}
	}
	return claims, nil
}

// FindRecent returns the most recently filed claims
func (r *ClaimRepository) FindRecent(ctx context.Context, limit int) ([]*models.Claim, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("claims.find: %w", err)
	}
	defer cursor.Close(ctx)

	var claims []*models.Claim
	if err = cursor.All(ctx, &claims); err != nil {
		return nil, fmt.Errorf("claims.decode: %w", err)
	}
	if claims == nil {
		claims = []*models.Claim{}
	}
	return claims, nil
}

// ApplyReview transitions a claim and stamps the review fields in a single
// conditional update keyed on the expected prior status
func (r *ClaimRepository) ApplyReview(ctx context.Context, id primitive.ObjectID, from models.ClaimStatus, review models.ClaimReview) (*models.Claim, error) {
	set := bson.M{
		"status":      review.Status,
		"reviewNotes": review.ReviewNotes,
		"reviewedBy":  review.ReviewedBy,
		"reviewedAt":  review.ReviewedAt,
		"updatedAt":   time.Now(),
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var claim models.Claim
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set},
		opts,
	).Decode(&claim)
	if err == nil {
		return &claim, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("claims.findOneAndUpdate: %w", err)
	}
	return nil, r.staleStatusError(ctx, id, from)
}

// UpdateStatusFrom transitions a claim without touching the review fields
func (r *ClaimRepository) UpdateStatusFrom(ctx context.Context, id primitive.ObjectID, from, to models.ClaimStatus) (*models.Claim, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var claim models.Claim
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}},
		opts,
	).Decode(&claim)
	if err == nil {
		return &claim, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("claims.findOneAndUpdate: %w", err)
	}
	return nil, r.staleStatusError(ctx, id, from)
}

// AppendDocuments appends documents to a claim that still accepts them.
// The status guard rides in the same update, so a concurrent approval
// cannot let documents slip onto a processed claim.
func (r *ClaimRepository) AppendDocuments(ctx context.Context, id primitive.ObjectID, docs []models.ClaimDocument) (*models.Claim, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var claim models.Claim
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{
			"_id":    id,
			"status": bson.M{"$in": []models.ClaimStatus{models.ClaimStatusFiled, models.ClaimStatusUnderReview}},
		},
		bson.M{
			"$push": bson.M{"documents": bson.M{"$each": docs}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
		opts,
	).Decode(&claim)
	if err == nil {
		return &claim, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("claims.findOneAndUpdate: %w", err)
	}

	current, readErr := r.FindByID(ctx, id)
	if readErr != nil {
		return nil, readErr
	}
	return nil, fmt.Errorf("%w: claim %s is %s and no longer accepts documents",
		sentinel.ErrInvalidState, current.ClaimID, current.Status)
}

// staleStatusError re-reads a claim after a failed conditional update to
// distinguish a missing record from a stale status
func (r *ClaimRepository) staleStatusError(ctx context.Context, id primitive.ObjectID, expected models.ClaimStatus) error {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: claim %s is %s, expected %s",
		sentinel.ErrInvalidState, current.ClaimID, current.Status, expected)
}

// Count counts all claims
func (r *ClaimRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// CountByStatus counts claims whose status is in the given set
func (r *ClaimRepository) CountByStatus(ctx context.Context, statuses []models.ClaimStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": bson.M{"$in": statuses}})
}

// CountByUser counts claims filed by a user
func (r *ClaimRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID})
}

// AggregateByStatus groups claims by status with amount totals and averages
func (r *ClaimRepository) AggregateByStatus(ctx context.Context) ([]models.StatusBreakdown, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":         "$status",
			"count":       bson.M{"$sum": 1},
			"totalAmount": bson.M{"$sum": "$claimAmount"},
			"avgAmount":   bson.M{"$avg": "$claimAmount"},
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("claims.aggregate: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.StatusBreakdown
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("claims.decode: %w", err)
	}
	return rows, nil
}

// AggregateByType groups claims by claim type with amount totals
func (r *ClaimRepository) AggregateByType(ctx context.Context) ([]models.TypeBreakdown, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":         "$claimType",
			"count":       bson.M{"$sum": 1},
			"totalAmount": bson.M{"$sum": "$claimAmount"},
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("claims.aggregate: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.TypeBreakdown
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("claims.decode: %w", err)
	}
	return rows, nil
}

// MonthlyTrend buckets claim filing by month since the cutoff
func (r *ClaimRepository) MonthlyTrend(ctx context.Context, since time.Time) ([]models.MonthlyTrendPoint, error) {
	cursor, err := r.collection.Aggregate(ctx, monthlyTrendStages(since, "claimAmount"))
	if err != nil {
		return nil, fmt.Errorf("claims.aggregate: %w", err)
	}
	defer cursor.Close(ctx)

	var raw []trendRow
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("claims.decode: %w", err)
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

// TotalAmount sums claim amounts over the given statuses
func (r *ClaimRepository) TotalAmount(ctx context.Context, statuses []models.ClaimStatus) (float64, error) {
	return sumField(ctx, r.collection, bson.M{"status": bson.M{"$in": statuses}}, "claimAmount")
}
