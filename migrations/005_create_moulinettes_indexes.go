package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func init() {
	Register(Migration{
		Version:     "005_create_moulinettes_indexes",
		Description: "Create indexes for the moulinettes and moulinette_sources collections",
		Up:          up005,
		Down:        down005,
	})
}

func up005(ctx context.Context, db *mongo.Database) error {
	moulinettes := db.Collection("moulinettes")
	moulinetteIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "project_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "maintainer_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}
	if _, err := moulinettes.Indexes().CreateMany(ctx, moulinetteIndexes); err != nil && !isIndexExistsError(err) {
		return err
	}

	sources := db.Collection("moulinette_sources")
	sourceIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "moulinette_id", Value: 1}, {Key: "version", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "published_at", Value: -1}},
		},
	}
	if _, err := sources.Indexes().CreateMany(ctx, sourceIndexes); err != nil && !isIndexExistsError(err) {
		return err
	}
	return nil
}

func down005(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection("moulinettes").Indexes().DropAll(ctx); err != nil {
		return err
	}
	if _, err := db.Collection("moulinette_sources").Indexes().DropAll(ctx); err != nil {
		return err
	}
	return nil
}
