package contractRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"medshift/database"
	"medshift/models"
)

// ContractRepository is the data-access contract for contracts and their
// time records. Check-in and check-out drive both records inside one
// transaction; a conditional update that matches nothing aborts with
// repository.ErrStaleState.
type ContractRepository interface {
	GetByID(ctx context.Context, id string) (*models.Contract, error)
	GetByRequirement(ctx context.Context, requirementID string) (*models.Contract, error)
	GetTimeRecord(ctx context.Context, contractID, doctorID string) (*models.TimeRecord, error)
	SetDocumentRef(ctx context.Context, id, ref string) error
	CancelIf(ctx context.Context, id string, from ...string) error

	// CheckInTransactionally inserts the time record and moves the contract
	// ACTIVE -> IN_PROGRESS, all-or-nothing. The unique (contractId, doctorId)
	// index rejects a second check-in.
	CheckInTransactionally(ctx context.Context, record *models.TimeRecord) error

	// CheckOutTransactionally completes the time record and moves the
	// contract IN_PROGRESS -> COMPLETED, all-or-nothing.
	CheckOutTransactionally(ctx context.Context, contractID, doctorID string, out models.CheckEvent) error
}

type mongoContractRepo struct {
	contractColl    *mongo.Collection
	timeRecordColl  *mongo.Collection
	requirementColl *mongo.Collection
}

// NewMongoContractRepo constructs a new MongoDB ContractRepository.
func NewMongoContractRepo() ContractRepository {
	db := database.DB()
	return &mongoContractRepo{
		contractColl:    db.Collection("contracts"),
		timeRecordColl:  db.Collection("time_records"),
		requirementColl: db.Collection("requirements"),
	}
}
