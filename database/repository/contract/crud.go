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

func (r *mongoContractRepo) GetByID(ctx context.Context, id string) (*models.Contract, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c models.Contract
	err := r.contractColl.FindOne(ctx, bson.M{"id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *mongoContractRepo) GetByRequirement(ctx context.Context, requirementID string) (*models.Contract, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c models.Contract
	err := r.contractColl.FindOne(ctx, bson.M{"requirementId": requirementID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *mongoContractRepo) GetTimeRecord(ctx context.Context, contractID, doctorID string) (*models.TimeRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rec models.TimeRecord
	err := r.timeRecordColl.FindOne(ctx, bson.M{"contractId": contractID, "doctorId": doctorID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// SetDocumentRef attaches the rendered agreement reference out-of-band.
func (r *mongoContractRepo) SetDocumentRef(ctx context.Context, id, ref string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.contractColl.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"documentRef": ref, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to set contract document ref: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoContractRepo) CancelIf(ctx context.Context, id string, from ...string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": bson.M{"$in": from}}
	update := bson.M{"$set": bson.M{"status": models.ContractCancelled, "updatedAt": time.Now()}}
	res, err := r.contractColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to cancel contract: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.CASFailure(ctx, r.contractColl, id)
	}
	return nil
}
