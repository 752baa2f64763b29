package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CASFailure classifies a conditional write whose filter matched nothing:
// either the record does not exist at all (ErrNotFound) or it exists in a
// status the caller did not assert (ErrStaleState).
func CASFailure(ctx context.Context, coll *mongo.Collection, id string) error {
	n, err := coll.CountDocuments(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrStaleState
}
