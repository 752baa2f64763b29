package matching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"medshift/database/repository"
	slotRepo "medshift/database/repository/slot"
	"medshift/models"
	"medshift/utils"
)

// FindMatches runs the matching pipeline for one requirement:
//
//  1. query AVAILABLE slots by region, date, and (if restricted) city,
//  2. filter by specialty compatibility in memory,
//  3. recompute the precise time overlap (the query only matched on date),
//  4. derive deterministic identities and skip pairings that already exist,
//  5. score survivors and persist them as one atomic batch.
//
// Any error aborts the whole batch; nothing partial is committed, so the
// caller may retry freely.
func (s *DefaultFinderService) FindMatches(ctx context.Context, requirementID string) (int, error) {
	logger := utils.GetLogger()

	req, err := s.RequirementRepo.GetByID(ctx, requirementID)
	if errors.Is(err, repository.ErrNotFound) {
		// Deleted between trigger and execution; nothing to do.
		logger.Debug("finder: requirement gone", zap.String("requirementId", requirementID))
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("finder: failed to load requirement: %w", err)
	}

	// The finder only acts on an open requirement. A trigger delivered after
	// a further transition is stale and must do nothing.
	if req.Status != models.RequirementOpen {
		logger.Debug("finder: requirement not open, skipping",
			zap.String("requirementId", req.ID), zap.String("status", req.Status))
		return 0, nil
	}

	reqInterval := Interval{Start: req.Start, End: req.End, Overnight: req.Overnight}
	if !reqInterval.Valid() {
		return 0, utils.NewValidationError("requirement %s has a zero-length shift window", req.ID)
	}

	candidates, err := s.SlotRepo.FindAvailable(ctx, slotRepo.SlotSearchCriteria{
		State:  req.Region.State,
		Dates:  req.Dates,
		Cities: req.Region.Cities,
	})
	if err != nil {
		return 0, fmt.Errorf("finder: availability query failed: %w", err)
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	var candidateIDs []string
	var survivors []models.AvailabilitySlot
	for _, slot := range candidates {
		if req.RequiresSpecialties() && !specialtiesIntersect(req.Specialties, slot.Specialties) {
			continue
		}
		slotInterval := Interval{Start: slot.Start, End: slot.End, Overnight: slot.Overnight}
		if !slotInterval.Valid() || !Overlaps(reqInterval, slotInterval) {
			continue
		}
		survivors = append(survivors, slot)
		candidateIDs = append(candidateIDs, models.MatchIdentity(req.ID, slot.ID, slot.Date))
	}
	if len(survivors) == 0 {
		return 0, nil
	}

	existing, err := s.MatchRepo.ExistingIDs(ctx, candidateIDs)
	if err != nil {
		return 0, fmt.Errorf("finder: existing-id lookup failed: %w", err)
	}

	now := time.Now()
	var batch []models.PotentialMatch
	for i, slot := range survivors {
		id := candidateIDs[i]
		if existing[id] {
			continue
		}
		batch = append(batch, models.PotentialMatch{
			ID:            id,
			RequirementID: req.ID,
			SlotID:        slot.ID,
			HospitalID:    req.HospitalID,
			DoctorID:      slot.DoctorID,
			MatchedDate:   slot.Date,
			Score:         Score(req, &slot),
			HospitalName:  req.HospitalName,
			DoctorName:    slot.DoctorName,
			ServiceType:   req.ServiceType,
			Specialties:   slot.Specialties,
			OfferedRate:   req.HourlyRate,
			DesiredRate:   slot.DesiredRate,
			Status:        models.MatchPendingReview,
			CreatedAt:     now,
		})
	}
	if len(batch) > 0 {
		if err := s.MatchRepo.InsertBatch(ctx, batch); err != nil {
			logger.Error("finder: match batch aborted",
				zap.String("requirementId", req.ID), zap.Int("size", len(batch)), zap.Error(err))
			return 0, fmt.Errorf("finder: match batch aborted: %w", err)
		}
	}

	// With candidates on the table the requirement moves under review; on a
	// retry the batch may be empty because a prior run already committed it.
	// A stale-state result means another actor already advanced it.
	if err := s.RequirementRepo.UpdateStatusIf(ctx, req.ID,
		models.RequirementPendingMatchReview, models.RequirementOpen); err != nil &&
		!errors.Is(err, repository.ErrStaleState) {
		return 0, fmt.Errorf("finder: failed to move requirement under review: %w", err)
	}

	logger.Info("finder: matches persisted",
		zap.String("requirementId", req.ID), zap.Int("new", len(batch)),
		zap.Int("candidates", len(candidates)))
	return len(batch), nil
}
