package requirementRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"medshift/database"
	"medshift/models"
)

// RequirementRepository is the data-access contract for shift requirements.
// UpdateStatusIf and DeleteIf are conditional writes: they assert the current
// status in the filter and return repository.ErrStaleState when it has moved.
type RequirementRepository interface {
	Create(ctx context.Context, req *models.ShiftRequirement) error
	GetByID(ctx context.Context, id string) (*models.ShiftRequirement, error)
	UpdateOpenFields(ctx context.Context, req *models.ShiftRequirement) error
	UpdateStatusIf(ctx context.Context, id, to string, from ...string) error
	DeleteIf(ctx context.Context, id string, from ...string) error
}

type mongoRequirementRepo struct {
	coll *mongo.Collection
}

// NewMongoRequirementRepo constructs a new MongoDB RequirementRepository.
func NewMongoRequirementRepo() RequirementRepository {
	return &mongoRequirementRepo{
		coll: database.DB().Collection("requirements"),
	}
}
