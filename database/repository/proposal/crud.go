package proposalRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medshift/database/repository"
	"medshift/models"
)

func (r *mongoProposalRepo) Create(ctx context.Context, p *models.Proposal) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.proposalColl.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to insert proposal: %w", err)
	}
	return nil
}

func (r *mongoProposalRepo) GetByID(ctx context.Context, id string) (*models.Proposal, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Proposal
	err := r.proposalColl.FindOne(ctx, bson.M{"id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *mongoProposalRepo) RejectIf(ctx context.Context, id, reason string, respondedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.ProposalAwaitingDoctor}
	update := bson.M{"$set": bson.M{
		"status":          models.ProposalDoctorRejected,
		"rejectionReason": reason,
		"respondedAt":     respondedAt,
		"updatedAt":       respondedAt,
	}}
	res, err := r.proposalColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to reject proposal: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.CASFailure(ctx, r.proposalColl, id)
	}
	return nil
}

func (r *mongoProposalRepo) FindOverdue(ctx context.Context, now time.Time, limit int) ([]models.Proposal, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"status":           models.ProposalAwaitingDoctor,
		"responseDeadline": bson.M{"$ne": nil, "$lt": now},
	}
	cursor, err := r.proposalColl.Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("failed to find overdue proposals: %w", err)
	}
	defer cursor.Close(ctx)

	var proposals []models.Proposal
	if err := cursor.All(ctx, &proposals); err != nil {
		return nil, err
	}
	return proposals, nil
}

func (r *mongoProposalRepo) ExpireIf(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.ProposalAwaitingDoctor}
	update := bson.M{"$set": bson.M{"status": models.ProposalExpired, "updatedAt": time.Now()}}
	res, err := r.proposalColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to expire proposal: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.CASFailure(ctx, r.proposalColl, id)
	}
	return nil
}
