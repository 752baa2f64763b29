package models

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"
)

// PotentialMatch statuses.
const (
	MatchPendingReview = "PENDING_REVIEW"
	MatchRejected      = "REJECTED"
	MatchPromoted      = "PROMOTED"
)

// PotentialMatch is a candidate pairing between one requirement (for one of its
// dates) and one availability slot. Its identity is deterministic so re-running
// the finder against the same inputs never creates a duplicate.
type PotentialMatch struct {
	ID            string    `bson:"id" json:"id"`
	RequirementID string    `bson:"requirementId" json:"requirementId"`
	SlotID        string    `bson:"slotId" json:"slotId"`
	HospitalID    string    `bson:"hospitalId" json:"hospitalId"`
	DoctorID      string    `bson:"doctorId" json:"doctorId"`
	MatchedDate   string    `bson:"matchedDate" json:"matchedDate"` // "2006-01-02"
	Score         int       `bson:"matchScore" json:"matchScore"`

	// Denormalized display fields so review listings need no joins.
	HospitalName string   `bson:"hospitalName,omitempty" json:"hospitalName,omitempty"`
	DoctorName   string   `bson:"doctorName,omitempty" json:"doctorName,omitempty"`
	ServiceType  string   `bson:"serviceType" json:"serviceType"`
	Specialties  []string `bson:"specialties,omitempty" json:"specialties,omitempty"`
	OfferedRate  float64  `bson:"offeredRate" json:"offeredRate"`
	DesiredRate  float64  `bson:"desiredRate" json:"desiredRate"`

	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// MatchIdentity derives the deterministic match ID from the pairing's
// logical key. The date is folded in as its midnight-UTC epoch so two
// representations of the same day cannot diverge.
func MatchIdentity(requirementID, slotID, matchedDate string) string {
	epoch := int64(0)
	if t, err := time.Parse("2006-01-02", matchedDate); err == nil {
		epoch = t.UTC().Unix()
	}
	sum := sha1.Sum([]byte(fmt.Sprintf("%s:%s:%d", requirementID, slotID, epoch)))
	return hex.EncodeToString(sum[:])
}
