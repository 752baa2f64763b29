package contractRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medshift/database"
)

// EnsureIndexes creates the unique (contractId, doctorId) index that makes a
// duplicate check-in impossible, plus basic lookups.
func EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := database.DB()
	if _, err := db.Collection("contracts").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "doctorId", Value: 1}, {Key: "status", Value: 1}}},
	}); err != nil {
		return err
	}

	_, err := db.Collection("time_records").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "contractId", Value: 1}, {Key: "doctorId", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}
