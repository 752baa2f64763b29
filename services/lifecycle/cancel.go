package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"medshift/database/repository"
	"medshift/models"
	"medshift/utils"
)

// CancelRequirement is the audited cancellation path. A requirement that has
// advanced past OPEN cannot simply be deleted; it transitions to
// CANCELLED_BY_HOSPITAL, an ACTIVE contract for it is cancelled, and its
// pending matches are cleaned up. The actor is recorded in the audit log.
func (s *DefaultLifecycleService) CancelRequirement(ctx context.Context, requirementID, actorID string) error {
	err := s.RequirementRepo.UpdateStatusIf(ctx, requirementID, models.RequirementCancelledByHospital,
		models.RequirementOpen,
		models.RequirementPendingMatchReview,
		models.RequirementPendingDoctorAcceptance,
		models.RequirementConfirmed,
	)
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NewNotFound("requirement %s does not exist", requirementID)
	}
	if errors.Is(err, repository.ErrStaleState) {
		return utils.NewPreconditionFailed("requirement %s can no longer be cancelled", requirementID)
	}
	if err != nil {
		return fmt.Errorf("cancel requirement: %w", err)
	}

	utils.GetLogger().Info("lifecycle: requirement cancelled",
		zap.String("requirementId", requirementID), zap.String("actorId", actorID))

	// A countersigned requirement has a live contract; it must not stay ACTIVE.
	contract, cerr := s.ContractRepo.GetByRequirement(ctx, requirementID)
	switch {
	case errors.Is(cerr, repository.ErrNotFound):
		// no contract yet, nothing to do
	case cerr != nil:
		utils.GetLogger().Error("cancel requirement: failed to load contract",
			zap.String("requirementId", requirementID), zap.Error(cerr))
	case contract.Status == models.ContractActive:
		if cerr := s.ContractRepo.CancelIf(ctx, contract.ID, models.ContractActive); cerr != nil &&
			!errors.Is(cerr, repository.ErrStaleState) {
			utils.GetLogger().Error("cancel requirement: failed to cancel contract",
				zap.String("contractId", contract.ID), zap.Error(cerr))
		} else if cerr == nil {
			utils.GetLogger().Info("lifecycle: contract cancelled with requirement",
				zap.String("contractId", contract.ID), zap.String("actorId", actorID))
			go s.NotificationSvc.NotifyShiftEvent(context.Background(), contract, "contract_cancelled")
		}
	}

	if derr := s.Dispatcher.DispatchCleanupRequirement(ctx, requirementID); derr != nil {
		utils.GetLogger().Warn("cancel requirement: cleanup dispatch failed",
			zap.String("requirementId", requirementID), zap.Error(derr))
	}
	return nil
}
