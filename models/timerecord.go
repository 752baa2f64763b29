package models

import "time"

// TimeRecord statuses.
const (
	TimeRecordInProgress = "IN_PROGRESS"
	TimeRecordCompleted  = "COMPLETED"
)

// CheckEvent is one side of a check-in/check-out pair: when, where, and the
// evidence-store reference for the photo taken on site.
type CheckEvent struct {
	At          time.Time `bson:"at" json:"at"`
	Location    GeoPoint  `bson:"location" json:"location"`
	EvidenceRef string    `bson:"evidenceRef" json:"evidenceRef"`
}

// TimeRecord tracks on-site presence for one (contract, doctor) pair. It is
// created on first check-in and completed on check-out, driving the paired
// contract's status inside the same transaction.
type TimeRecord struct {
	ID         string      `bson:"id" json:"id"`
	ContractID string      `bson:"contractId" json:"contractId"`
	DoctorID   string      `bson:"doctorId" json:"doctorId"`
	CheckIn    CheckEvent  `bson:"checkIn" json:"checkIn"`
	CheckOut   *CheckEvent `bson:"checkOut,omitempty" json:"checkOut,omitempty"`
	Status     string      `bson:"status" json:"status"`
	CreatedAt  time.Time   `bson:"createdAt" json:"createdAt"`
}
