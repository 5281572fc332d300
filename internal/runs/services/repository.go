package services

import (
	"context"
	"fmt"
	"time"

	"go-mouli/internal/runs/models"
	"go-mouli/pkg/database"
	"go-mouli/pkg/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository handles database operations for runs
type Repository struct {
	mongodb *database.MongoDB
}

// NewRepository creates a new repository instance
func NewRepository(mongodb *database.MongoDB) *Repository {
	return &Repository{mongodb: mongodb}
}

func (r *Repository) collection() *mongo.Collection {
	return r.mongodb.Collection(models.Run{}.CollectionName())
}

// GetByID retrieves a run by its id
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Run, error) {
	var run models.Run
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&run)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("run %s: %w", id, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// List returns a page of runs matching the filter, newest first
func (r *Repository) List(ctx context.Context, filter bson.M, page, limit int) ([]models.Run, int64, error) {
	total, err := r.collection().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count runs: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list runs: %w", err)
	}
	defer cursor.Close(ctx)

	var runs []models.Run
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode runs: %w", err)
	}
	return runs, total, nil
}

// Create inserts a new run
func (r *Repository) Create(ctx context.Context, run *models.Run) error {
	if _, err := r.collection().InsertOne(ctx, run); err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// Update applies the given field updates
func (r *Repository) Update(ctx context.Context, id string, updates bson.M) error {
	result, err := r.collection().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("run %s: %w", id, errs.ErrNotFound)
	}
	return nil
}

// MarkStale moves runs that never reached a terminal state before the
// cutoff into errored.
func (r *Repository) MarkStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.collection().UpdateMany(ctx,
		bson.M{
			"status":     bson.M{"$in": []string{string(models.StatusPending), string(models.StatusRunning)}},
			"created_at": bson.M{"$lt": cutoff},
		},
		bson.M{"$set": bson.M{
			"status":      string(models.StatusErrored),
			"output":      "run timed out",
			"finished_at": time.Now(),
		}})
	if err != nil {
		return 0, fmt.Errorf("failed to mark stale runs: %w", err)
	}
	return result.ModifiedCount, nil
}

// Delete removes a run
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("run %s: %w", id, errs.ErrNotFound)
	}
	return nil
}
