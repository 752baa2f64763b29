package requirementRepo

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

func (r *mongoRequirementRepo) Create(ctx context.Context, req *models.ShiftRequirement) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("failed to insert requirement: %w", err)
	}
	return nil
}

func (r *mongoRequirementRepo) GetByID(ctx context.Context, id string) (*models.ShiftRequirement, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var req models.ShiftRequirement
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// UpdateOpenFields persists hospital edits; only an OPEN requirement may be
// edited, so the filter asserts that status.
func (r *mongoRequirementRepo) UpdateOpenFields(ctx context.Context, req *models.ShiftRequirement) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": req.ID, "status": models.RequirementOpen}
	update := bson.M{"$set": bson.M{
		"dates":       req.Dates,
		"start":       req.Start,
		"end":         req.End,
		"overnight":   req.Overnight,
		"serviceType": req.ServiceType,
		"specialties": req.Specialties,
		"hourlyRate":  req.HourlyRate,
		"vacancies":   req.Vacancies,
		"notes":       req.Notes,
		"region":      req.Region,
		"updatedAt":   time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update requirement: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.CASFailure(ctx, r.coll, req.ID)
	}
	return nil
}

func (r *mongoRequirementRepo) UpdateStatusIf(ctx context.Context, id, to string, from ...string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": bson.M{"$in": from}}
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update requirement status: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.CASFailure(ctx, r.coll, id)
	}
	return nil
}

func (r *mongoRequirementRepo) DeleteIf(ctx context.Context, id string, from ...string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id, "status": bson.M{"$in": from}})
	if err != nil {
		return fmt.Errorf("failed to delete requirement: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.CASFailure(ctx, r.coll, id)
	}
	return nil
}
