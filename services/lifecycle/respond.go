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

// RespondToProposal records the doctor's decision on an awaiting proposal.
// Acceptance books the slot in the same transaction as the proposal update,
// so a slot can never be booked by two proposals. Rejection touches only the
// proposal record; the requirement then reopens so other candidates can be
// found.
func (s *DefaultLifecycleService) RespondToProposal(ctx context.Context, proposalID string, accept bool, reason string) error {
	proposal, err := s.ProposalRepo.GetByID(ctx, proposalID)
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NewNotFound("proposal %s does not exist", proposalID)
	}
	if err != nil {
		return fmt.Errorf("respond: failed to load proposal: %w", err)
	}
	if proposal.Status != models.ProposalAwaitingDoctor {
		return utils.NewPreconditionFailed("proposal %s is %s, not awaiting a response", proposalID, proposal.Status)
	}

	now := time.Now()
	if accept {
		return s.acceptProposal(ctx, proposal, now)
	}
	return s.rejectProposal(ctx, proposal, reason, now)
}

func (s *DefaultLifecycleService) acceptProposal(ctx context.Context, proposal *models.Proposal, now time.Time) error {
	if err := s.ProposalRepo.AcceptTransactionally(ctx, proposal.ID, proposal.SlotID, now); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return utils.NewPreconditionFailed("proposal %s or its slot changed state concurrently", proposal.ID)
		}
		return fmt.Errorf("respond: accept: %w", err)
	}

	utils.GetLogger().Info("lifecycle: proposal accepted",
		zap.String("proposalId", proposal.ID), zap.String("slotId", proposal.SlotID))

	go s.NotificationSvc.NotifyProposalResponse(context.Background(), proposal, true)
	return nil
}

func (s *DefaultLifecycleService) rejectProposal(ctx context.Context, proposal *models.Proposal, reason string, now time.Time) error {
	if err := s.ProposalRepo.RejectIf(ctx, proposal.ID, reason, now); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return utils.NewPreconditionFailed("proposal %s is no longer awaiting a response", proposal.ID)
		}
		return fmt.Errorf("respond: reject: %w", err)
	}

	utils.GetLogger().Info("lifecycle: proposal rejected by doctor",
		zap.String("proposalId", proposal.ID), zap.String("reason", reason))

	// The rejection itself commits regardless of what happens below; the
	// requirement reopening is a follow-up, not a precondition.
	if err := s.RequirementRepo.UpdateStatusIf(ctx, proposal.RequirementID,
		models.RequirementOpen, models.RequirementPendingDoctorAcceptance); err != nil &&
		!errors.Is(err, repository.ErrStaleState) {
		utils.GetLogger().Warn("lifecycle: failed to reopen requirement after rejection",
			zap.String("requirementId", proposal.RequirementID), zap.Error(err))
	} else if err == nil {
		if derr := s.Dispatcher.DispatchMatchScan(ctx, proposal.RequirementID); derr != nil {
			utils.GetLogger().Warn("lifecycle: rescan dispatch failed",
				zap.String("requirementId", proposal.RequirementID), zap.Error(derr))
		}
	}

	go s.NotificationSvc.NotifyProposalResponse(context.Background(), proposal, false)
	return nil
}
