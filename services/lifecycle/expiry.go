package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"medshift/database/repository"
	"medshift/models"
	"medshift/utils"
)

const expirySweepBatch = 100

// ExpireOverdueProposals sweeps proposals whose response deadline has passed.
// Each expiry is an individual conditional write, so a doctor accepting at
// the same instant wins or loses cleanly; the loser sees a stale state and
// the sweep just moves on. Returns the number of proposals expired.
func (s *DefaultLifecycleService) ExpireOverdueProposals(ctx context.Context, now time.Time) (int, error) {
	overdue, err := s.ProposalRepo.FindOverdue(ctx, now, expirySweepBatch)
	if err != nil {
		return 0, fmt.Errorf("expiry sweep: %w", err)
	}

	expired := 0
	for i := range overdue {
		p := &overdue[i]
		if err := s.ProposalRepo.ExpireIf(ctx, p.ID); err != nil {
			if errors.Is(err, repository.ErrStaleState) {
				continue // accepted or rejected while we were sweeping
			}
			utils.GetLogger().Error("expiry sweep: failed to expire proposal",
				zap.String("proposalId", p.ID), zap.Error(err))
			continue
		}
		expired++

		utils.GetLogger().Info("lifecycle: proposal expired",
			zap.String("proposalId", p.ID), zap.String("requirementId", p.RequirementID))

		if err := s.RequirementRepo.UpdateStatusIf(ctx, p.RequirementID,
			models.RequirementOpen, models.RequirementPendingDoctorAcceptance); err != nil &&
			!errors.Is(err, repository.ErrStaleState) {
			utils.GetLogger().Warn("expiry sweep: failed to reopen requirement",
				zap.String("requirementId", p.RequirementID), zap.Error(err))
			continue
		}
		if derr := s.Dispatcher.DispatchMatchScan(ctx, p.RequirementID); derr != nil {
			utils.GetLogger().Warn("expiry sweep: rescan dispatch failed",
				zap.String("requirementId", p.RequirementID), zap.Error(derr))
		}
	}
	return expired, nil
}
