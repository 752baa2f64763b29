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

// PublishRequirement validates and stores a new shift requirement as OPEN,
// then dispatches the match scan that will pair it with available slots.
func (s *DefaultPublicationService) PublishRequirement(ctx context.Context, req *models.ShiftRequirement) error {
	if err := validateRequirement(req); err != nil {
		return err
	}

	now := time.Now()
	req.ID = uuid.New().String()
	req.Status = models.RequirementOpen
	req.CreatedAt = now
	req.UpdatedAt = now

	if err := s.RequirementRepo.Create(ctx, req); err != nil {
		return fmt.Errorf("publish requirement: %w", err)
	}

	utils.GetLogger().Info("shift: requirement published",
		zap.String("requirementId", req.ID), zap.String("hospitalId", req.HospitalID),
		zap.Int("dates", len(req.Dates)))

	if err := s.Dispatcher.DispatchMatchScan(ctx, req.ID); err != nil {
		utils.GetLogger().Warn("shift: match scan dispatch failed",
			zap.String("requirementId", req.ID), zap.Error(err))
	}
	return nil
}

// UpdateRequirement applies hospital edits to a requirement still in OPEN
// and re-dispatches the match scan, since the edits change the pairing
// criteria.
func (s *DefaultPublicationService) UpdateRequirement(ctx context.Context, req *models.ShiftRequirement, hospitalID string) error {
	existing, err := s.RequirementRepo.GetByID(ctx, req.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NewNotFound("requirement %s does not exist", req.ID)
	}
	if err != nil {
		return fmt.Errorf("update requirement: %w", err)
	}
	if existing.HospitalID != hospitalID {
		return utils.NewNotFound("requirement %s does not exist", req.ID)
	}

	req.HospitalID = existing.HospitalID
	req.Status = existing.Status
	req.CreatedAt = existing.CreatedAt
	if err := validateRequirement(req); err != nil {
		return err
	}

	err = s.RequirementRepo.UpdateOpenFields(ctx, req)
	if errors.Is(err, repository.ErrStaleState) {
		return utils.NewPreconditionFailed("requirement %s is no longer open for edits", req.ID)
	}
	if err != nil {
		return fmt.Errorf("update requirement: %w", err)
	}

	utils.GetLogger().Info("shift: requirement updated",
		zap.String("requirementId", req.ID), zap.String("hospitalId", hospitalID))

	if derr := s.Dispatcher.DispatchMatchScan(ctx, req.ID); derr != nil {
		utils.GetLogger().Warn("shift: match scan dispatch failed",
			zap.String("requirementId", req.ID), zap.Error(derr))
	}
	return nil
}

// DeleteRequirement removes a requirement that has not advanced past match
// review, or one already cancelled. Anything further along must go through
// the cancellation path first.
func (s *DefaultPublicationService) DeleteRequirement(ctx context.Context, requirementID, hospitalID string) error {
	req, err := s.RequirementRepo.GetByID(ctx, requirementID)
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NewNotFound("requirement %s does not exist", requirementID)
	}
	if err != nil {
		return fmt.Errorf("delete requirement: %w", err)
	}
	if req.HospitalID != hospitalID {
		return utils.NewNotFound("requirement %s does not exist", requirementID)
	}

	err = s.RequirementRepo.DeleteIf(ctx, requirementID,
		models.RequirementOpen, models.RequirementPendingMatchReview,
		models.RequirementCancelledByHospital)
	if errors.Is(err, repository.ErrStaleState) {
		return utils.NewPreconditionFailed("requirement %s has advanced past review and must be cancelled instead", requirementID)
	}
	if err != nil {
		return fmt.Errorf("delete requirement: %w", err)
	}

	utils.GetLogger().Info("shift: requirement deleted",
		zap.String("requirementId", requirementID), zap.String("hospitalId", hospitalID))

	if derr := s.Dispatcher.DispatchCleanupRequirement(ctx, requirementID); derr != nil {
		utils.GetLogger().Warn("shift: cleanup dispatch failed",
			zap.String("requirementId", requirementID), zap.Error(derr))
	}
	return nil
}

func validateRequirement(req *models.ShiftRequirement) error {
	if req.HospitalID == "" {
		return utils.NewValidationError("hospitalId is required")
	}
	if len(req.Dates) == 0 {
		return utils.NewValidationError("at least one shift date is required")
	}
	for _, d := range req.Dates {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return utils.NewValidationError("invalid shift date %q, want YYYY-MM-DD", d)
		}
	}
	iv := matching.Interval{Start: req.Start, End: req.End, Overnight: req.Overnight}
	if !iv.Valid() {
		return utils.NewValidationError("invalid shift window: start %d, end %d, overnight %t", req.Start, req.End, req.Overnight)
	}
	if req.ServiceType == "" {
		return utils.NewValidationError("serviceType is required")
	}
	if req.HourlyRate <= 0 {
		return utils.NewValidationError("hourlyRate must be positive")
	}
	if req.Vacancies < 1 {
		req.Vacancies = 1
	}
	if req.Region.State == "" {
		return utils.NewValidationError("region.state is required")
	}
	return nil
}
