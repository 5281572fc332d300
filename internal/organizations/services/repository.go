package services

import (
	"context"
	"fmt"
	"time"

	"go-mouli/internal/organizations/models"
	"go-mouli/pkg/database"
	"go-mouli/pkg/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository handles database operations for organizations
type Repository struct {
	mongodb *database.MongoDB
}

// NewRepository creates a new repository instance
func NewRepository(mongodb *database.MongoDB) *Repository {
	return &Repository{mongodb: mongodb}
}

func (r *Repository) collection() *mongo.Collection {
	return r.mongodb.Collection(models.Organization{}.CollectionName())
}

// GetByID retrieves an organization by its id
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	var org models.Organization
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&org)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("organization %s: %w", id, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return &org, nil
}

// GetBySlug looks an organization up by its slug. Returns (nil, nil)
// when no organization uses the slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	var org models.Organization
	err := r.collection().FindOne(ctx, bson.M{"slug": slug}).Decode(&org)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get organization by slug: %w", err)
	}
	return &org, nil
}

// List returns a page of organizations together with the total count
func (r *Repository) List(ctx context.Context, page, limit int) ([]models.Organization, int64, error) {
	total, err := r.collection().CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count organizations: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer cursor.Close(ctx)

	var orgs []models.Organization
	if err := cursor.All(ctx, &orgs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode organizations: %w", err)
	}
	return orgs, total, nil
}

// Create inserts a new organization
func (r *Repository) Create(ctx context.Context, org *models.Organization) error {
	if _, err := r.collection().InsertOne(ctx, org); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("organization slug %q already taken: %w", org.Slug, errs.ErrConflict)
		}
		return fmt.Errorf("failed to create organization: %w", err)
	}
	return nil
}

// Update applies the given field updates and bumps updated_at
func (r *Repository) Update(ctx context.Context, id string, updates bson.M) error {
	updates["updated_at"] = time.Now()
	result, err := r.collection().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update organization: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("organization %s: %w", id, errs.ErrNotFound)
	}
	return nil
}

// Delete removes an organization
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("organization %s: %w", id, errs.ErrNotFound)
	}
	return nil
}
