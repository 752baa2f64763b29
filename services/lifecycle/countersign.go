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

// CountersignProposal turns an accepted proposal into a binding contract.
// The contract insert, the proposal transition, and the requirement
// confirmation commit together. Rendering of the agreement document and the
// notifications happen after commit; a render failure leaves the contract
// valid with an empty document reference.
func (s *DefaultLifecycleService) CountersignProposal(ctx context.Context, proposalID string) (string, error) {
	proposal, err := s.ProposalRepo.GetByID(ctx, proposalID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", utils.NewNotFound("proposal %s does not exist", proposalID)
	}
	if err != nil {
		return "", fmt.Errorf("countersign: failed to load proposal: %w", err)
	}
	if proposal.Status != models.ProposalAcceptedPendingContract {
		return "", utils.NewPreconditionFailed("proposal %s is %s, not accepted pending contract", proposalID, proposal.Status)
	}
	if proposal.RespondedAt == nil {
		return "", utils.NewPreconditionFailed("proposal %s has no recorded acceptance time", proposalID)
	}

	now := time.Now()
	contract := &models.Contract{
		ID:               uuid.New().String(),
		ProposalID:       proposal.ID,
		RequirementID:    proposal.RequirementID,
		HospitalID:       proposal.HospitalID,
		DoctorID:         proposal.DoctorID,
		HospitalName:     proposal.HospitalName,
		DoctorName:       proposal.DoctorName,
		ServiceType:      proposal.ServiceType,
		HourlyRate:       proposal.HourlyRate,
		ShiftDate:        proposal.MatchedDate,
		Start:            proposal.Start,
		End:              proposal.End,
		Overnight:        proposal.Overnight,
		DoctorSignedAt:   *proposal.RespondedAt,
		HospitalSignedAt: now,
		Status:           models.ContractActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.ProposalRepo.CountersignTransactionally(ctx, proposal.ID, contract); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return "", utils.NewPreconditionFailed("proposal %s or its requirement changed state concurrently", proposalID)
		}
		return "", fmt.Errorf("countersign: %w", err)
	}

	utils.GetLogger().Info("lifecycle: contract issued",
		zap.String("contractId", contract.ID), zap.String("proposalId", proposal.ID))

	go s.attachAgreementDocument(context.Background(), contract)
	go s.NotificationSvc.NotifyContractSigned(context.Background(), contract)

	return contract.ID, nil
}

func (s *DefaultLifecycleService) attachAgreementDocument(ctx context.Context, contract *models.Contract) {
	ref, err := s.Renderer.RenderContract(ctx, contract)
	if err != nil {
		utils.GetLogger().Error("lifecycle: agreement rendering failed",
			zap.String("contractId", contract.ID), zap.Error(err))
		return
	}
	if err := s.ContractRepo.SetDocumentRef(ctx, contract.ID, ref); err != nil {
		utils.GetLogger().Error("lifecycle: failed to attach agreement reference",
			zap.String("contractId", contract.ID), zap.Error(err))
	}
}
