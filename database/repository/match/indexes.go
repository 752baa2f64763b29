package matchRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medshift/database"
)

// EnsureIndexes creates the unique identity index that backs finder
// idempotency, plus the cleanup lookups.
func EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	coll := database.DB().Collection("potential_matches")
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "requirementId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "slotId", Value: 1}, {Key: "status", Value: 1}}},
	})
	return err
}
