package services

import (
	"context"
	"fmt"
	"time"

	"go-mouli/internal/moulinettes/models"
	"go-mouli/pkg/database"
	"go-mouli/pkg/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository handles database operations for moulinettes and their
// published sources
type Repository struct {
	mongodb *database.MongoDB
}

// NewRepository creates a new repository instance
func NewRepository(mongodb *database.MongoDB) *Repository {
	return &Repository{mongodb: mongodb}
}

func (r *Repository) moulinettes() *mongo.Collection {
	return r.mongodb.Collection(models.Moulinette{}.CollectionName())
}

func (r *Repository) sources() *mongo.Collection {
	return r.mongodb.Collection(models.MoulinetteSource{}.CollectionName())
}

// GetByID retrieves a moulinette by its id
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Moulinette, error) {
	var moulinette models.Moulinette
	err := r.moulinettes().FindOne(ctx, bson.M{"_id": id}).Decode(&moulinette)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("moulinette %s: %w", id, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get moulinette: %w", err)
	}
	return &moulinette, nil
}

// List returns a page of moulinettes, optionally filtered by project
func (r *Repository) List(ctx context.Context, projectID string, page, limit int) ([]models.Moulinette, int64, error) {
	filter := bson.M{}
	if projectID != "" {
		filter["project_id"] = projectID
	}

	total, err := r.moulinettes().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count moulinettes: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.moulinettes().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list moulinettes: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Moulinette
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, fmt.Errorf("failed to decode moulinettes: %w", err)
	}
	return results, total, nil
}

// Create inserts a new moulinette
func (r *Repository) Create(ctx context.Context, moulinette *models.Moulinette) error {
	if _, err := r.moulinettes().InsertOne(ctx, moulinette); err != nil {
		return fmt.Errorf("failed to create moulinette: %w", err)
	}
	return nil
}

// Update applies the given field updates and bumps updated_at
func (r *Repository) Update(ctx context.Context, id string, updates bson.M) error {
	updates["updated_at"] = time.Now()
	result, err := r.moulinettes().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update moulinette: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("moulinette %s: %w", id, errs.ErrNotFound)
	}
	return nil
}

// Delete removes a moulinette and all of its published sources
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.moulinettes().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete moulinette: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("moulinette %s: %w", id, errs.ErrNotFound)
	}
	if _, err := r.sources().DeleteMany(ctx, bson.M{"moulinette_id": id}); err != nil {
		return fmt.Errorf("failed to delete moulinette sources: %w", err)
	}
	return nil
}

// GetSourceByID retrieves a published source by its id
func (r *Repository) GetSourceByID(ctx context.Context, id string) (*models.MoulinetteSource, error) {
	var source models.MoulinetteSource
	err := r.sources().FindOne(ctx, bson.M{"_id": id}).Decode(&source)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("moulinette source %s: %w", id, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get moulinette source: %w", err)
	}
	return &source, nil
}

// ListSources returns the published sources of a moulinette, newest
// first
func (r *Repository) ListSources(ctx context.Context, moulinetteID string) ([]models.MoulinetteSource, error) {
	opts := options.Find().SetSort(bson.D{{Key: "published_at", Value: -1}})
	cursor, err := r.sources().Find(ctx, bson.M{"moulinette_id": moulinetteID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list moulinette sources: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.MoulinetteSource
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode moulinette sources: %w", err)
	}
	return results, nil
}

// LatestSource returns the most recently published source of a
// moulinette
func (r *Repository) LatestSource(ctx context.Context, moulinetteID string) (*models.MoulinetteSource, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "published_at", Value: -1}})
	var source models.MoulinetteSource
	err := r.sources().FindOne(ctx, bson.M{"moulinette_id": moulinetteID}, opts).Decode(&source)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("moulinette %s has no published sources: %w", moulinetteID, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get latest source: %w", err)
	}
	return &source, nil
}

// CreateSource inserts a published source. A duplicate version for the
// same moulinette violates the unique index.
func (r *Repository) CreateSource(ctx context.Context, source *models.MoulinetteSource) error {
	if _, err := r.sources().InsertOne(ctx, source); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("version %s already published: %w", source.Version, errs.ErrConflict)
		}
		return fmt.Errorf("failed to publish source: %w", err)
	}
	return nil
}

// DeleteSource removes a published source
func (r *Repository) DeleteSource(ctx context.Context, id string) error {
	result, err := r.sources().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete moulinette source: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("moulinette source %s: %w", id, errs.ErrNotFound)
	}
	return nil
}
