package services

import (
	"context"
	"fmt"
	"time"

	"go-mouli/internal/auth/models"
	"go-mouli/pkg/database"
	"go-mouli/pkg/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository handles database operations for auth tokens
type Repository struct {
	mongodb *database.MongoDB
}

// NewRepository creates a new repository instance
func NewRepository(mongodb *database.MongoDB) *Repository {
	return &Repository{mongodb: mongodb}
}

func (r *Repository) collection() *mongo.Collection {
	return r.mongodb.Collection(models.AuthToken{}.CollectionName())
}

// Create inserts a new auth token record
func (r *Repository) Create(ctx context.Context, token *models.AuthToken) error {
	if _, err := r.collection().InsertOne(ctx, token); err != nil {
		return fmt.Errorf("failed to create auth token: %w", err)
	}
	return nil
}

// GetByID retrieves a token by its id
func (r *Repository) GetByID(ctx context.Context, id string) (*models.AuthToken, error) {
	var token models.AuthToken
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&token)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("auth token %s: %w", id, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get auth token: %w", err)
	}
	return &token, nil
}

// ListByAccount returns all tokens owned by the given account
func (r *Repository) ListByAccount(ctx context.Context, accountID string) ([]models.AuthToken, error) {
	return r.list(ctx, bson.M{"account_id": accountID})
}

// ListAll returns every token in the system
func (r *Repository) ListAll(ctx context.Context) ([]models.AuthToken, error) {
	return r.list(ctx, bson.M{})
}

func (r *Repository) list(ctx context.Context, filter bson.M) ([]models.AuthToken, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list auth tokens: %w", err)
	}
	defer cursor.Close(ctx)

	var tokens []models.AuthToken
	if err := cursor.All(ctx, &tokens); err != nil {
		return nil, fmt.Errorf("failed to decode auth tokens: %w", err)
	}
	return tokens, nil
}

// Delete removes a token record, revoking the credential
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete auth token: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("auth token %s: %w", id, errs.ErrNotFound)
	}
	return nil
}

// DeleteByAccount removes every token owned by the account
func (r *Repository) DeleteByAccount(ctx context.Context, accountID string) error {
	if _, err := r.collection().DeleteMany(ctx, bson.M{"account_id": accountID}); err != nil {
		return fmt.Errorf("failed to delete account tokens: %w", err)
	}
	return nil
}

// DeleteExpired removes tokens whose expiry is in the past
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.collection().DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": now}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return result.DeletedCount, nil
}

// Touch records when the token was last used for authentication
func (r *Repository) Touch(ctx context.Context, id string, usedAt time.Time) error {
	_, err := r.collection().UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_used_at": usedAt}})
	if err != nil {
		return fmt.Errorf("failed to touch auth token: %w", err)
	}
	return nil
}
