package shift

import (
	"context"

	requirementRepo "medshift/database/repository/requirement"
	slotRepo "medshift/database/repository/slot"
	"medshift/models"
	"medshift/services/tasks"
)

// PublicationService is the supply-and-demand front door: hospitals publish
// shift requirements, doctors publish availability slots. Every publish
// dispatches a match scan; every retraction dispatches a cleanup of the
// pending matches the record seeded.
type PublicationService interface {
	PublishRequirement(ctx context.Context, req *models.ShiftRequirement) error
	UpdateRequirement(ctx context.Context, req *models.ShiftRequirement, hospitalID string) error
	DeleteRequirement(ctx context.Context, requirementID, hospitalID string) error

	PublishSlot(ctx context.Context, slot *models.AvailabilitySlot) error
	DeleteSlot(ctx context.Context, slotID, doctorID string) error
}

// DefaultPublicationService implements PublicationService.
type DefaultPublicationService struct {
	RequirementRepo requirementRepo.RequirementRepository
	SlotRepo        slotRepo.SlotRepository
	Dispatcher      tasks.Dispatcher
}
