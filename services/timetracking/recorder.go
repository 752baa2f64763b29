package timetracking

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

// CheckIn opens the time record for an ACTIVE contract. The record insert and
// the contract transition to IN_PROGRESS commit together; a second check-in
// for the same (contract, doctor) pair fails on the unique index.
func (s *DefaultRecorderService) CheckIn(ctx context.Context, contractID, doctorID string, at time.Time, loc models.GeoPoint, evidenceRef string) (*models.TimeRecord, error) {
	contract, err := s.loadContractFor(ctx, contractID, doctorID)
	if err != nil {
		return nil, err
	}
	if contract.Status != models.ContractActive {
		return nil, utils.NewPreconditionFailed("contract %s is %s, not active", contractID, contract.Status)
	}
	if evidenceRef == "" {
		return nil, utils.NewValidationError("check-in requires photo evidence")
	}

	record := &models.TimeRecord{
		ID:         uuid.New().String(),
		ContractID: contractID,
		DoctorID:   doctorID,
		CheckIn: models.CheckEvent{
			At:          at,
			Location:    loc,
			EvidenceRef: evidenceRef,
		},
		Status:    models.TimeRecordInProgress,
		CreatedAt: at,
	}

	if err := s.ContractRepo.CheckInTransactionally(ctx, record); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, utils.NewPreconditionFailed("contract %s already has a check-in or is not active", contractID)
		}
		return nil, fmt.Errorf("check-in: %w", err)
	}

	utils.GetLogger().Info("timetracking: doctor checked in",
		zap.String("contractId", contractID), zap.String("doctorId", doctorID))
	go s.NotificationSvc.NotifyShiftEvent(context.Background(), contract, "check_in")

	return record, nil
}

// CheckOut completes the open time record and the contract. Checking out
// without an open record is a precondition failure, never a partial write.
func (s *DefaultRecorderService) CheckOut(ctx context.Context, contractID, doctorID string, at time.Time, loc models.GeoPoint, evidenceRef string) (*models.TimeRecord, error) {
	contract, err := s.loadContractFor(ctx, contractID, doctorID)
	if err != nil {
		return nil, err
	}
	if contract.Status != models.ContractInProgress {
		return nil, utils.NewPreconditionFailed("contract %s is %s, not in progress", contractID, contract.Status)
	}
	if evidenceRef == "" {
		return nil, utils.NewValidationError("check-out requires photo evidence")
	}

	record, err := s.ContractRepo.GetTimeRecord(ctx, contractID, doctorID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewPreconditionFailed("no open time record for contract %s", contractID)
	}
	if err != nil {
		return nil, fmt.Errorf("check-out: failed to load time record: %w", err)
	}
	if record.Status != models.TimeRecordInProgress {
		return nil, utils.NewPreconditionFailed("time record for contract %s is already completed", contractID)
	}
	if at.Before(record.CheckIn.At) {
		return nil, utils.NewValidationError("check-out time precedes check-in time")
	}

	out := models.CheckEvent{At: at, Location: loc, EvidenceRef: evidenceRef}
	if err := s.ContractRepo.CheckOutTransactionally(ctx, contractID, doctorID, out); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, utils.NewPreconditionFailed("contract %s or its time record changed state concurrently", contractID)
		}
		return nil, fmt.Errorf("check-out: %w", err)
	}

	record.CheckOut = &out
	record.Status = models.TimeRecordCompleted

	utils.GetLogger().Info("timetracking: doctor checked out",
		zap.String("contractId", contractID), zap.String("doctorId", doctorID),
		zap.Duration("onSite", at.Sub(record.CheckIn.At)))
	go s.NotificationSvc.NotifyShiftEvent(context.Background(), contract, "check_out")

	return record, nil
}

func (s *DefaultRecorderService) loadContractFor(ctx context.Context, contractID, doctorID string) (*models.Contract, error) {
	contract, err := s.ContractRepo.GetByID(ctx, contractID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewNotFound("contract %s does not exist", contractID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load contract: %w", err)
	}
	if contract.DoctorID != doctorID {
		return nil, utils.NewNotFound("contract %s does not exist", contractID)
	}
	return contract, nil
}
