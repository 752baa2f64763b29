package pushTargetRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medshift/database/repository"
	"medshift/models"
)

func (r *mongoPushTargetRepo) Upsert(ctx context.Context, target models.PushTarget) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": target.ID, "role": target.Role}
	update := bson.M{"$set": bson.M{"fcmToken": target.FCMToken}}
	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert push target: %w", err)
	}
	return nil
}

func (r *mongoPushTargetRepo) GetToken(ctx context.Context, actorID, role string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var target models.PushTarget
	err := r.coll.FindOne(ctx, bson.M{"id": actorID, "role": role}).Decode(&target)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return target.FCMToken, nil
}
