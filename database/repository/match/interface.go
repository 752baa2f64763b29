package matchRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"medshift/database"
	"medshift/models"
)

// MatchRepository is the data-access contract for potential matches.
//
// InsertBatch is all-or-nothing: a partial failure must never leave some
// matches committed and others silently lost. Because match IDs are
// deterministic and the finder pre-filters existing IDs, a retried batch is
// idempotent.
type MatchRepository interface {
	ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error)
	InsertBatch(ctx context.Context, matches []models.PotentialMatch) error
	GetByID(ctx context.Context, id string) (*models.PotentialMatch, error)
	ListByRequirement(ctx context.Context, requirementID string) ([]models.PotentialMatch, error)
	UpdateStatusIf(ctx context.Context, id, to string, from ...string) error
	DeletePendingByRequirement(ctx context.Context, requirementID string, chunkSize int) (int64, error)
	DeletePendingBySlot(ctx context.Context, slotID string, chunkSize int) (int64, error)
}

type mongoMatchRepo struct {
	coll *mongo.Collection
}

// NewMongoMatchRepo constructs a new MongoDB MatchRepository.
func NewMongoMatchRepo() MatchRepository {
	return &mongoMatchRepo{
		coll: database.DB().Collection("potential_matches"),
	}
}
