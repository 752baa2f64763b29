package matchRepo

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

func (r *mongoMatchRepo) ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx,
		bson.M{"id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"id": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing match ids: %w", err)
	}
	defer cursor.Close(ctx)

	existing := make(map[string]bool, len(ids))
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		existing[doc.ID] = true
	}
	return existing, cursor.Err()
}

// InsertBatch commits all matches in one transaction. A duplicate-key error
// (two finder invocations racing on the same pairing) aborts the batch; the
// retry will skip the committed IDs and succeed.
func (r *mongoMatchRepo) InsertBatch(ctx context.Context, matches []models.PotentialMatch) error {
	if len(matches) == 0 {
		return nil
	}

	docs := make([]interface{}, len(matches))
	for i, m := range matches {
		docs[i] = m
	}

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if _, err := r.coll.InsertMany(sc, docs); err != nil {
			_ = sc.AbortTransaction(sc)
			return fmt.Errorf("insert match batch failed: %w", err)
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("match batch transaction failed: %w", err)
	}
	return nil
}

func (r *mongoMatchRepo) GetByID(ctx context.Context, id string) (*models.PotentialMatch, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var match models.PotentialMatch
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&match)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *mongoMatchRepo) ListByRequirement(ctx context.Context, requirementID string) ([]models.PotentialMatch, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx,
		bson.M{"requirementId": requirementID},
		options.Find().SetSort(bson.D{{Key: "matchScore", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer cursor.Close(ctx)

	var matches []models.PotentialMatch
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *mongoMatchRepo) UpdateStatusIf(ctx context.Context, id, to string, from ...string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": bson.M{"$in": from}}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"status": to}})
	if err != nil {
		return fmt.Errorf("failed to update match status: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.CASFailure(ctx, r.coll, id)
	}
	return nil
}

func (r *mongoMatchRepo) DeletePendingByRequirement(ctx context.Context, requirementID string, chunkSize int) (int64, error) {
	return r.deletePendingChunked(ctx, bson.M{"requirementId": requirementID}, chunkSize)
}

func (r *mongoMatchRepo) DeletePendingBySlot(ctx context.Context, slotID string, chunkSize int) (int64, error) {
	return r.deletePendingChunked(ctx, bson.M{"slotId": slotID}, chunkSize)
}

// deletePendingChunked removes PENDING_REVIEW matches in bounded chunks so a
// large candidate set never exceeds a single-batch ceiling. Promoted and
// rejected matches are left untouched.
func (r *mongoMatchRepo) deletePendingChunked(ctx context.Context, owner bson.M, chunkSize int) (int64, error) {
	if chunkSize <= 0 {
		chunkSize = 100
	}
	filter := bson.M{"status": models.MatchPendingReview}
	for k, v := range owner {
		filter[k] = v
	}

	var total int64
	for {
		chunkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		cursor, err := r.coll.Find(chunkCtx, filter,
			options.Find().SetProjection(bson.M{"id": 1}).SetLimit(int64(chunkSize)),
		)
		if err != nil {
			cancel()
			return total, fmt.Errorf("failed to find pending matches: %w", err)
		}

		var ids []string
		for cursor.Next(chunkCtx) {
			var doc struct {
				ID string `bson:"id"`
			}
			if err := cursor.Decode(&doc); err != nil {
				cursor.Close(chunkCtx)
				cancel()
				return total, err
			}
			ids = append(ids, doc.ID)
		}
		cursor.Close(chunkCtx)

		if len(ids) == 0 {
			cancel()
			return total, nil
		}

		res, err := r.coll.DeleteMany(chunkCtx, bson.M{
			"id":     bson.M{"$in": ids},
			"status": models.MatchPendingReview,
		})
		cancel()
		if err != nil {
			return total, fmt.Errorf("failed to delete pending matches: %w", err)
		}
		total += res.DeletedCount
		if len(ids) < chunkSize {
			return total, nil
		}
	}
}
