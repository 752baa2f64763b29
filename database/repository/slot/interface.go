package slotRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"medshift/database"
	"medshift/models"
)

// SlotSearchCriteria narrows the availability pool for the match finder.
// Cities is applied only when non-empty.
type SlotSearchCriteria struct {
	State  string
	Dates  []string
	Cities []string
}

// SlotRepository is the data-access contract for doctor availability slots.
type SlotRepository interface {
	Create(ctx context.Context, slot *models.AvailabilitySlot) error
	GetByID(ctx context.Context, id string) (*models.AvailabilitySlot, error)
	FindAvailable(ctx context.Context, criteria SlotSearchCriteria) ([]models.AvailabilitySlot, error)
	UpdateStatusIf(ctx context.Context, id, to string, from ...string) error
	DeleteIf(ctx context.Context, id string, from ...string) error
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a new MongoDB SlotRepository.
func NewMongoSlotRepo() SlotRepository {
	return &mongoSlotRepo{
		coll: database.DB().Collection("availability_slots"),
	}
}
