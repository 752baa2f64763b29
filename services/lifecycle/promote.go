package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"medshift/database/repository"
	"medshift/models"
	"medshift/utils"
)

// PromoteMatch claims the match, moves the requirement to
// PENDING_DOCTOR_ACCEPTANCE, and creates the proposal, all in one
// transaction. The notification to the doctor fires after commit.
func (s *DefaultLifecycleService) PromoteMatch(ctx context.Context, matchID string, deadline *time.Time) (string, error) {
	match, err := s.MatchRepo.GetByID(ctx, matchID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", utils.NewNotFound("match %s does not exist", matchID)
	}
	if err != nil {
		return "", fmt.Errorf("promote: failed to load match: %w", err)
	}
	if match.Status != models.MatchPendingReview {
		return "", utils.NewPreconditionFailed("match %s is %s, not pending review", matchID, match.Status)
	}
	if deadline != nil && deadline.Before(time.Now()) {
		return "", utils.NewValidationError("response deadline is in the past")
	}

	req, err := s.RequirementRepo.GetByID(ctx, match.RequirementID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", utils.NewNotFound("requirement %s does not exist", match.RequirementID)
	}
	if err != nil {
		return "", fmt.Errorf("promote: failed to load requirement: %w", err)
	}

	now := time.Now()
	proposal := &models.Proposal{
		ID:               uuid.New().String(),
		MatchID:          match.ID,
		RequirementID:    match.RequirementID,
		SlotID:           match.SlotID,
		HospitalID:       match.HospitalID,
		DoctorID:         match.DoctorID,
		MatchedDate:      match.MatchedDate,
		HospitalName:     match.HospitalName,
		DoctorName:       match.DoctorName,
		ServiceType:      match.ServiceType,
		Specialties:      match.Specialties,
		HourlyRate:       match.OfferedRate,
		Start:            req.Start,
		End:              req.End,
		Overnight:        req.Overnight,
		ResponseDeadline: deadline,
		Status:           models.ProposalAwaitingDoctor,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.ProposalRepo.PromoteTransactionally(ctx, match.ID, proposal); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return "", utils.NewPreconditionFailed("match %s is no longer available for promotion", matchID)
		}
		return "", fmt.Errorf("promote: %w", err)
	}

	utils.GetLogger().Info("lifecycle: match promoted to proposal",
		zap.String("matchId", match.ID), zap.String("proposalId", proposal.ID))

	go s.NotificationSvc.NotifyProposalSent(context.Background(), proposal)

	return proposal.ID, nil
}

// RejectMatch marks a match REJECTED. When the requirement has no pending
// matches left it returns to OPEN, which re-triggers the finder.
func (s *DefaultLifecycleService) RejectMatch(ctx context.Context, matchID string) error {
	match, err := s.MatchRepo.GetByID(ctx, matchID)
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NewNotFound("match %s does not exist", matchID)
	}
	if err != nil {
		return fmt.Errorf("reject match: failed to load match: %w", err)
	}

	if err := s.MatchRepo.UpdateStatusIf(ctx, matchID, models.MatchRejected, models.MatchPendingReview); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return utils.NewPreconditionFailed("match %s is no longer pending review", matchID)
		}
		return fmt.Errorf("reject match: %w", err)
	}

	remaining, err := s.MatchRepo.ListByRequirement(ctx, match.RequirementID)
	if err != nil {
		return fmt.Errorf("reject match: failed to list remaining matches: %w", err)
	}
	for _, m := range remaining {
		if m.Status == models.MatchPendingReview {
			return nil
		}
	}

	if err := s.RequirementRepo.UpdateStatusIf(ctx, match.RequirementID,
		models.RequirementOpen, models.RequirementPendingMatchReview); err != nil &&
		!errors.Is(err, repository.ErrStaleState) {
		return fmt.Errorf("reject match: failed to reopen requirement: %w", err)
	}
	if err := s.Dispatcher.DispatchMatchScan(ctx, match.RequirementID); err != nil {
		utils.GetLogger().Warn("lifecycle: rescan dispatch failed",
			zap.String("requirementId", match.RequirementID), zap.Error(err))
	}
	return nil
}
