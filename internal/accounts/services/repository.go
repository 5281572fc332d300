package services

import (
	"context"
	"fmt"
	"time"

	"go-mouli/internal/accounts/models"
	"go-mouli/pkg/database"
	"go-mouli/pkg/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository handles database operations for accounts
type Repository struct {
	mongodb *database.MongoDB
}

// NewRepository creates a new repository instance
func NewRepository(mongodb *database.MongoDB) *Repository {
	return &Repository{mongodb: mongodb}
}

func (r *Repository) collection() *mongo.Collection {
	return r.mongodb.Collection(models.Account{}.CollectionName())
}

// GetByID retrieves an account by its id
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&account)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("account %s: %w", id, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// GetByGitHubID looks an account up by its GitHub identity. Returns
// (nil, nil) when no account exists so callers can distinguish
// first-login from lookup failure.
func (r *Repository) GetByGitHubID(ctx context.Context, githubID int64) (*models.Account, error) {
	var account models.Account
	err := r.collection().FindOne(ctx, bson.M{"github_id": githubID}).Decode(&account)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account by github id: %w", err)
	}
	return &account, nil
}

// List returns a page of accounts together with the total count
func (r *Repository) List(ctx context.Context, page, limit int) ([]models.Account, int64, error) {
	total, err := r.collection().CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count accounts: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer cursor.Close(ctx)

	var accounts []models.Account
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, 0, fmt.Errorf("failed to decode accounts: %w", err)
	}
	return accounts, total, nil
}

// Create inserts a new account
func (r *Repository) Create(ctx context.Context, account *models.Account) error {
	if _, err := r.collection().InsertOne(ctx, account); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("account for github id %d already exists: %w", account.GitHubID, errs.ErrConflict)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// Update applies the given field updates and bumps updated_at
func (r *Repository) Update(ctx context.Context, id string, updates bson.M) error {
	updates["updated_at"] = time.Now()
	result, err := r.collection().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("account %s: %w", id, errs.ErrNotFound)
	}
	return nil
}

// Delete removes an account
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("account %s: %w", id, errs.ErrNotFound)
	}
	return nil
}

// ReplacePermissions overwrites the account's permission atom set
func (r *Repository) ReplacePermissions(ctx context.Context, id string, perms []string) error {
	return r.Update(ctx, id, bson.M{"permissions": perms})
}
