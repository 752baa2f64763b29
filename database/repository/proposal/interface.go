package proposalRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"medshift/database"
	"medshift/models"
)

// ProposalRepository is the data-access contract for proposals, including the
// two multi-record transactions of the acceptance pipeline. Both assert the
// expected prior status of every record they touch inside the transaction, so
// two concurrent accepts (or a late accept racing an expiry sweep) can never
// both succeed.
type ProposalRepository interface {
	Create(ctx context.Context, p *models.Proposal) error
	GetByID(ctx context.Context, id string) (*models.Proposal, error)

	// PromoteTransactionally claims the match (PENDING_REVIEW -> PROMOTED),
	// moves the requirement to PENDING_DOCTOR_ACCEPTANCE, and inserts the
	// proposal, all-or-nothing.
	PromoteTransactionally(ctx context.Context, matchID string, proposal *models.Proposal) error

	// AcceptTransactionally moves the proposal to
	// DOCTOR_ACCEPTED_PENDING_CONTRACT and books the slot, all-or-nothing.
	AcceptTransactionally(ctx context.Context, proposalID, slotID string, respondedAt time.Time) error

	// RejectIf records the doctor's rejection; the slot stays AVAILABLE.
	RejectIf(ctx context.Context, id, reason string, respondedAt time.Time) error

	// CountersignTransactionally moves the proposal to
	// CONTRACT_SENT_TO_HOSPITAL, inserts the contract, and confirms the
	// originating requirement, all-or-nothing.
	CountersignTransactionally(ctx context.Context, proposalID string, contract *models.Contract) error

	// FindOverdue returns AWAITING_DOCTOR_ACCEPTANCE proposals whose response
	// deadline has passed.
	FindOverdue(ctx context.Context, now time.Time, limit int) ([]models.Proposal, error)

	// ExpireIf transitions one overdue proposal to EXPIRED under the same
	// conditional-write discipline as accept.
	ExpireIf(ctx context.Context, id string) error
}

type mongoProposalRepo struct {
	proposalColl    *mongo.Collection
	matchColl       *mongo.Collection
	slotColl        *mongo.Collection
	contractColl    *mongo.Collection
	requirementColl *mongo.Collection
}

// NewMongoProposalRepo constructs a new MongoDB ProposalRepository.
func NewMongoProposalRepo() ProposalRepository {
	db := database.DB()
	return &mongoProposalRepo{
		proposalColl:    db.Collection("proposals"),
		matchColl:       db.Collection("potential_matches"),
		slotColl:        db.Collection("availability_slots"),
		contractColl:    db.Collection("contracts"),
		requirementColl: db.Collection("requirements"),
	}
}
