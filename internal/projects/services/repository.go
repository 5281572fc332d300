package services

import (
	"context"
	"fmt"
	"time"

	"go-mouli/internal/projects/models"
	"go-mouli/pkg/database"
	"go-mouli/pkg/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository handles database operations for projects
type Repository struct {
	mongodb *database.MongoDB
}

// NewRepository creates a new repository instance
func NewRepository(mongodb *database.MongoDB) *Repository {
	return &Repository{mongodb: mongodb}
}

func (r *Repository) collection() *mongo.Collection {
	return r.mongodb.Collection(models.Project{}.CollectionName())
}

// GetByID retrieves a project by its id
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("project %s: %w", id, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

// List returns a page of projects, optionally filtered by organization
func (r *Repository) List(ctx context.Context, organizationID string, page, limit int) ([]models.Project, int64, error) {
	filter := bson.M{}
	if organizationID != "" {
		filter["organization_id"] = organizationID
	}

	total, err := r.collection().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, 0, fmt.Errorf("failed to decode projects: %w", err)
	}
	return projects, total, nil
}

// Create inserts a new project
func (r *Repository) Create(ctx context.Context, project *models.Project) error {
	if _, err := r.collection().InsertOne(ctx, project); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("project slug %q already taken in organization: %w", project.Slug, errs.ErrConflict)
		}
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// Update applies the given field updates and bumps updated_at
func (r *Repository) Update(ctx context.Context, id string, updates bson.M) error {
	updates["updated_at"] = time.Now()
	result, err := r.collection().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("project %s: %w", id, errs.ErrNotFound)
	}
	return nil
}

// Delete removes a project
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("project %s: %w", id, errs.ErrNotFound)
	}
	return nil
}
