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

// Compile-time check to ensure PlanRepository implements the interface
var _ repositories.PlanRepository = (*PlanRepository)(nil)

// PlanRepository handles MongoDB operations for InsurancePlan
type PlanRepository struct {
	collection *mongo.Collection
}

// NewPlanRepository creates a new PlanRepository
func NewPlanRepository(db *mongo.Database) *PlanRepository {
	return &PlanRepository{
		collection: db.Collection("plans"),
	}
}

// Create inserts a new plan. A duplicate planId surfaces as a conflict.
func (r *PlanRepository) Create(ctx context.Context, plan *models.InsurancePlan) error {
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: plan %s already exists", sentinel.ErrConflict, plan.PlanID)
		}
		return fmt.Errorf("plans.insert: %w", err)
	}
	return nil
}

// FindByPlanID finds a plan by its business reference
func (r *PlanRepository) FindByPlanID(ctx context.Context, planID string, activeOnly bool) (*models.InsurancePlan, error) {
	filter := bson.M{"planId": planID}
	if activeOnly {
		filter["isActive"] = true
	}

	var plan models.InsurancePlan
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: plan %s", sentinel.ErrNotFound, planID)
		}
		return nil, fmt.Errorf("plans.findOne: %w", err)
	}
	return &plan, nil
}

// FindAll lists active plans, newest first, applying the optional filter
func (r *PlanRepository) FindAll(ctx context.Context, filter models.PlanFilter) ([]*models.InsurancePlan, error) {
	query := bson.M{"isActive": true}
	if filter.PlanType != "" {
		query["planType"] = filter.PlanType
	}
	if filter.MinCoverage > 0 {
		query["minCoverage"] = bson.M{"$gte": filter.MinCoverage}
	}
	if filter.MaxCoverage > 0 {
		query["maxCoverage"] = bson.M{"$lte": filter.MaxCoverage}
	}
	if filter.Search != "" {
		regex := bson.M{"$regex": filter.Search, "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"planName": regex},
			bson.M{"description": regex},
		}
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("plans.find: %w", err)
	}
	defer cursor.Close(ctx)

	var plans []*models.InsurancePlan
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, fmt.Errorf("plans.decode: %w", err)
	}
	if plans == nil {
		plans = []*models.InsurancePlan{}
	}
	return plans, nil
}

// Update replaces a plan's mutable fields
func (r *PlanRepository) Update(ctx context.Context, plan *models.InsurancePlan) error {
	plan.UpdatedAt = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": plan.ID}, bson.M{"$set": plan})
	if err != nil {
		return fmt.Errorf("plans.update: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: plan %s", sentinel.ErrNotFound, plan.ID.Hex())
	}
	return nil
}

// DistinctTypes lists the plan types currently offered
func (r *PlanRepository) DistinctTypes(ctx context.Context) ([]string, error) {
	raw, err := r.collection.Distinct(ctx, "planType", bson.M{"isActive": true})
	if err != nil {
		return nil, fmt.Errorf("plans.distinct: %w", err)
	}
	types := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			types = append(types, s)
		}
	}
	return types, nil
}

// CountActive counts plans still offered for sale
func (r *PlanRepository) CountActive(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"isActive": true})
}
