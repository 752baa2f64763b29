package lifecycle

import (
	"context"
	"time"

	contractRepo "medshift/database/repository/contract"
	matchRepo "medshift/database/repository/match"
	proposalRepo "medshift/database/repository/proposal"
	requirementRepo "medshift/database/repository/requirement"
	"medshift/services/documents"
	"medshift/services/notification"
	"medshift/services/tasks"
)

// LifecycleService exposes the state-transition operations of the pairing
// pipeline. Every multi-record mutation is a single atomic conditional
// transaction; a precondition that no longer holds surfaces as a
// PreconditionFailedError, never as a silent overwrite.
type LifecycleService interface {
	// PromoteMatch turns a reviewed match into a formal proposal.
	PromoteMatch(ctx context.Context, matchID string, deadline *time.Time) (string, error)

	// RejectMatch marks a match REJECTED; when no pending matches remain the
	// requirement reopens for another finder pass.
	RejectMatch(ctx context.Context, matchID string) error

	// RespondToProposal records the doctor's accept or reject. Acceptance
	// books the slot in the same transaction.
	RespondToProposal(ctx context.Context, proposalID string, accept bool, reason string) error

	// CountersignProposal issues the contract and confirms the requirement.
	CountersignProposal(ctx context.Context, proposalID string) (string, error)

	// CancelRequirement is the audited cancellation path for requirements
	// that have advanced beyond OPEN; an ACTIVE contract is cancelled too.
	CancelRequirement(ctx context.Context, requirementID, actorID string) error

	// ExpireOverdueProposals sweeps proposals whose response deadline has
	// passed, under the same conditional-write discipline as accept.
	ExpireOverdueProposals(ctx context.Context, now time.Time) (int, error)
}

// DefaultLifecycleService implements LifecycleService.
type DefaultLifecycleService struct {
	RequirementRepo requirementRepo.RequirementRepository
	MatchRepo       matchRepo.MatchRepository
	ProposalRepo    proposalRepo.ProposalRepository
	ContractRepo    contractRepo.ContractRepository
	NotificationSvc notification.NotificationService
	Renderer        documents.AgreementRenderer
	Dispatcher      tasks.Dispatcher
}
