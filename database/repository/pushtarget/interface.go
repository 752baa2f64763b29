package pushTargetRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"medshift/database"
	"medshift/models"
)

// PushTargetRepository stores the FCM token registered for each actor.
type PushTargetRepository interface {
	Upsert(ctx context.Context, target models.PushTarget) error
	GetToken(ctx context.Context, actorID, role string) (string, error)
}

type mongoPushTargetRepo struct {
	coll *mongo.Collection
}

// NewMongoPushTargetRepo constructs a new MongoDB PushTargetRepository.
func NewMongoPushTargetRepo() PushTargetRepository {
	return &mongoPushTargetRepo{
		coll: database.DB().Collection("push_targets"),
	}
}
