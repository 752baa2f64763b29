package proposalRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"medshift/database/repository"
	"medshift/models"
)

// PromoteTransactionally performs the reviewer's approve-and-propose
// operation. Claiming the match first means two reviewers racing on the same
// match cannot both create a proposal.
func (r *mongoProposalRepo) PromoteTransactionally(ctx context.Context, matchID string, proposal *models.Proposal) error {
	client := r.proposalColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	now := time.Now()
	txnFn := func(sc mongo.SessionContext) error {
		res, err := r.matchColl.UpdateOne(sc,
			bson.M{"id": matchID, "status": models.MatchPendingReview},
			bson.M{"$set": bson.M{"status": models.MatchPromoted}},
		)
		if err != nil {
			return fmt.Errorf("match promotion update failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return repository.ErrStaleState
		}

		res, err = r.requirementColl.UpdateOne(sc,
			bson.M{
				"id":     proposal.RequirementID,
				"status": bson.M{"$in": []string{models.RequirementOpen, models.RequirementPendingMatchReview}},
			},
			bson.M{"$set": bson.M{"status": models.RequirementPendingDoctorAcceptance, "updatedAt": now}},
		)
		if err != nil {
			return fmt.Errorf("requirement promotion update failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return repository.ErrStaleState
		}

		if _, err := r.proposalColl.InsertOne(sc, proposal); err != nil {
			return fmt.Errorf("proposal insert failed: %w", err)
		}
		return nil
	}

	return r.runTxn(ctx, sess, txnFn, "promote")
}

// AcceptTransactionally performs the doctor-accept operation: proposal
// AWAITING_DOCTOR_ACCEPTANCE -> DOCTOR_ACCEPTED_PENDING_CONTRACT and slot
// AVAILABLE -> BOOKED in one transaction. A conditional update that matches
// nothing means another actor got there first; the transaction aborts with
// repository.ErrStaleState and no writes survive.
func (r *mongoProposalRepo) AcceptTransactionally(ctx context.Context, proposalID, slotID string, respondedAt time.Time) error {
	client := r.proposalColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		res, err := r.proposalColl.UpdateOne(sc,
			bson.M{"id": proposalID, "status": models.ProposalAwaitingDoctor},
			bson.M{"$set": bson.M{
				"status":      models.ProposalAcceptedPendingContract,
				"respondedAt": respondedAt,
				"updatedAt":   respondedAt,
			}},
		)
		if err != nil {
			return fmt.Errorf("proposal accept update failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return repository.ErrStaleState
		}

		res, err = r.slotColl.UpdateOne(sc,
			bson.M{"id": slotID, "status": models.SlotAvailable},
			bson.M{"$set": bson.M{"status": models.SlotBooked}},
		)
		if err != nil {
			return fmt.Errorf("slot booking update failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return repository.ErrStaleState
		}
		return nil
	}

	return r.runTxn(ctx, sess, txnFn, "accept")
}

// CountersignTransactionally performs the hospital-countersign operation:
// proposal -> CONTRACT_SENT_TO_HOSPITAL, contract inserted, requirement ->
// CONFIRMED, all-or-nothing. Notification dispatch happens after commit,
// outside this repository.
func (r *mongoProposalRepo) CountersignTransactionally(ctx context.Context, proposalID string, contract *models.Contract) error {
	client := r.proposalColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	now := time.Now()
	txnFn := func(sc mongo.SessionContext) error {
		res, err := r.proposalColl.UpdateOne(sc,
			bson.M{"id": proposalID, "status": models.ProposalAcceptedPendingContract},
			bson.M{"$set": bson.M{"status": models.ProposalContractSent, "updatedAt": now}},
		)
		if err != nil {
			return fmt.Errorf("proposal countersign update failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return repository.ErrStaleState
		}

		if _, err := r.contractColl.InsertOne(sc, contract); err != nil {
			return fmt.Errorf("contract insert failed: %w", err)
		}

		res, err = r.requirementColl.UpdateOne(sc,
			bson.M{"id": contract.RequirementID, "status": models.RequirementPendingDoctorAcceptance},
			bson.M{"$set": bson.M{"status": models.RequirementConfirmed, "updatedAt": now}},
		)
		if err != nil {
			return fmt.Errorf("requirement confirm update failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return repository.ErrStaleState
		}
		return nil
	}

	return r.runTxn(ctx, sess, txnFn, "countersign")
}

func (r *mongoProposalRepo) runTxn(ctx context.Context, sess mongo.Session, txnFn func(mongo.SessionContext) error, name string) error {
	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return err
		}
		return fmt.Errorf("%s transaction failed: %w", name, err)
	}
	return nil
}
