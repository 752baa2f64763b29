package matching

import (
	"context"

	"go.uber.org/zap"

	"medshift/utils"
)

// CleanupForRequirement removes all PENDING_REVIEW matches that referenced a
// deleted requirement. Matches already promoted to a proposal are left alone:
// the promotion copied everything it needs, and the proposal must not
// silently disappear.
func (s *DefaultCleanupService) CleanupForRequirement(ctx context.Context, requirementID string) (int64, error) {
	n, err := s.MatchRepo.DeletePendingByRequirement(ctx, requirementID, s.ChunkSize)
	s.logOutcome("requirementId", requirementID, n, err)
	return n, err
}

// CleanupForSlot removes all PENDING_REVIEW matches that referenced a deleted
// availability slot.
func (s *DefaultCleanupService) CleanupForSlot(ctx context.Context, slotID string) (int64, error) {
	n, err := s.MatchRepo.DeletePendingBySlot(ctx, slotID, s.ChunkSize)
	s.logOutcome("slotId", slotID, n, err)
	return n, err
}

func (s *DefaultCleanupService) logOutcome(key, id string, deleted int64, err error) {
	logger := utils.GetLogger()
	if err != nil {
		// An orphaned pending match is a tolerable, eventually-correctable
		// defect; the deletion that triggered this cleanup already happened.
		logger.Error("cleanup: failed to delete pending matches",
			zap.String(key, id), zap.Int64("deleted", deleted), zap.Error(err))
		return
	}
	logger.Info("cleanup: pending matches removed",
		zap.String(key, id), zap.Int64("deleted", deleted))
}
