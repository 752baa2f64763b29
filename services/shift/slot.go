package shift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"medshift/database/repository"
	"medshift/models"
	"medshift/services/matching"
	"medshift/utils"
)

// PublishSlot validates and stores a doctor's availability slot as AVAILABLE.
// New supply does not rescan existing requirements by itself; the next finder
// pass over any open requirement will see it.
func (s *DefaultPublicationService) PublishSlot(ctx context.Context, slot *models.AvailabilitySlot) error {
	if err := validateSlot(slot); err != nil {
		return err
	}

	slot.ID = uuid.New().String()
	slot.Status = models.SlotAvailable
	slot.CreatedAt = time.Now()

	if err := s.SlotRepo.Create(ctx, slot); err != nil {
		return fmt.Errorf("publish slot: %w", err)
	}

	utils.GetLogger().Info("shift: slot published",
		zap.String("slotId", slot.ID), zap.String("doctorId", slot.DoctorID),
		zap.String("date", slot.Date))
	return nil
}

// DeleteSlot retracts an AVAILABLE slot. A BOOKED slot is held by an accepted
// proposal and cannot be withdrawn here.
func (s *DefaultPublicationService) DeleteSlot(ctx context.Context, slotID, doctorID string) error {
	slot, err := s.SlotRepo.GetByID(ctx, slotID)
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NewNotFound("slot %s does not exist", slotID)
	}
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if slot.DoctorID != doctorID {
		return utils.NewNotFound("slot %s does not exist", slotID)
	}

	err = s.SlotRepo.DeleteIf(ctx, slotID, models.SlotAvailable)
	if errors.Is(err, repository.ErrStaleState) {
		return utils.NewPreconditionFailed("slot %s is booked and cannot be withdrawn", slotID)
	}
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}

	utils.GetLogger().Info("shift: slot deleted",
		zap.String("slotId", slotID), zap.String("doctorId", doctorID))

	if derr := s.Dispatcher.DispatchCleanupSlot(ctx, slotID); derr != nil {
		utils.GetLogger().Warn("shift: cleanup dispatch failed",
			zap.String("slotId", slotID), zap.Error(derr))
	}
	return nil
}

func validateSlot(slot *models.AvailabilitySlot) error {
	if slot.DoctorID == "" {
		return utils.NewValidationError("doctorId is required")
	}
	if _, err := time.Parse("2006-01-02", slot.Date); err != nil {
		return utils.NewValidationError("invalid date %q, want YYYY-MM-DD", slot.Date)
	}
	iv := matching.Interval{Start: slot.Start, End: slot.End, Overnight: slot.Overnight}
	if !iv.Valid() {
		return utils.NewValidationError("invalid availability window: start %d, end %d, overnight %t", slot.Start, slot.End, slot.Overnight)
	}
	if slot.ServiceType == "" {
		return utils.NewValidationError("serviceType is required")
	}
	if slot.DesiredRate < 0 {
		return utils.NewValidationError("desiredRate cannot be negative")
	}
	if slot.Region.State == "" {
		return utils.NewValidationError("region.state is required")
	}
	return nil
}
