package contractRepo

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

func (r *mongoContractRepo) CheckInTransactionally(ctx context.Context, record *models.TimeRecord) error {
	client := r.contractColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	now := time.Now()
	txnFn := func(sc mongo.SessionContext) error {
		if _, err := r.timeRecordColl.InsertOne(sc, record); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return repository.ErrStaleState
			}
			return fmt.Errorf("time record insert failed: %w", err)
		}

		res, err := r.contractColl.UpdateOne(sc,
			bson.M{"id": record.ContractID, "doctorId": record.DoctorID, "status": models.ContractActive},
			bson.M{"$set": bson.M{"status": models.ContractInProgress, "updatedAt": now}},
		)
		if err != nil {
			return fmt.Errorf("contract check-in update failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return repository.ErrStaleState
		}

		// The shift is underway; mirror that on the requirement. Not a
		// precondition: a multi-vacancy requirement may already be in progress.
		if _, err := r.requirementColl.UpdateOne(sc,
			bson.M{"id": r.requirementIDOf(sc, record.ContractID), "status": models.RequirementConfirmed},
			bson.M{"$set": bson.M{"status": models.RequirementInProgress, "updatedAt": now}},
		); err != nil {
			return fmt.Errorf("requirement progress update failed: %w", err)
		}
		return nil
	}

	return r.runTxn(ctx, sess, txnFn, "check-in")
}

func (r *mongoContractRepo) CheckOutTransactionally(ctx context.Context, contractID, doctorID string, out models.CheckEvent) error {
	client := r.contractColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	now := time.Now()
	txnFn := func(sc mongo.SessionContext) error {
		res, err := r.timeRecordColl.UpdateOne(sc,
			bson.M{"contractId": contractID, "doctorId": doctorID, "status": models.TimeRecordInProgress},
			bson.M{"$set": bson.M{"checkOut": out, "status": models.TimeRecordCompleted}},
		)
		if err != nil {
			return fmt.Errorf("time record check-out update failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return repository.ErrStaleState
		}

		res, err = r.contractColl.UpdateOne(sc,
			bson.M{"id": contractID, "status": models.ContractInProgress},
			bson.M{"$set": bson.M{"status": models.ContractCompleted, "updatedAt": now}},
		)
		if err != nil {
			return fmt.Errorf("contract check-out update failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return repository.ErrStaleState
		}

		if _, err := r.requirementColl.UpdateOne(sc,
			bson.M{"id": r.requirementIDOf(sc, contractID), "status": models.RequirementInProgress},
			bson.M{"$set": bson.M{"status": models.RequirementCompleted, "updatedAt": now}},
		); err != nil {
			return fmt.Errorf("requirement completion update failed: %w", err)
		}
		return nil
	}

	return r.runTxn(ctx, sess, txnFn, "check-out")
}

// requirementIDOf resolves the contract's requirement inside the transaction.
func (r *mongoContractRepo) requirementIDOf(sc mongo.SessionContext, contractID string) string {
	var c struct {
		RequirementID string `bson:"requirementId"`
	}
	if err := r.contractColl.FindOne(sc, bson.M{"id": contractID}).Decode(&c); err != nil {
		return ""
	}
	return c.RequirementID
}

func (r *mongoContractRepo) runTxn(ctx context.Context, sess mongo.Session, txnFn func(mongo.SessionContext) error, name string) error {
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
