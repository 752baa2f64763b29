package models

import "time"

// Contract statuses. A contract is immutable once COMPLETED or CANCELLED.
const (
	ContractActive     = "ACTIVE"
	ContractInProgress = "IN_PROGRESS"
	ContractCompleted  = "COMPLETED"
	ContractCancelled  = "CANCELLED"
)

// Contract is the binding agreement created when a hospital countersigns an
// accepted proposal.
type Contract struct {
	ID            string `bson:"id" json:"id"`
	ProposalID    string `bson:"proposalId" json:"proposalId"`
	RequirementID string `bson:"requirementId" json:"requirementId"`
	HospitalID    string `bson:"hospitalId" json:"hospitalId"`
	DoctorID      string `bson:"doctorId" json:"doctorId"`

	HospitalName string  `bson:"hospitalName,omitempty" json:"hospitalName,omitempty"`
	DoctorName   string  `bson:"doctorName,omitempty" json:"doctorName,omitempty"`
	ServiceType  string  `bson:"serviceType" json:"serviceType"`
	HourlyRate   float64 `bson:"hourlyRate" json:"hourlyRate"`
	ShiftDate    string  `bson:"shiftDate" json:"shiftDate"`
	Start        int     `bson:"start" json:"start"`
	End          int     `bson:"end" json:"end"`
	Overnight    bool    `bson:"overnight" json:"overnight"`

	DoctorSignedAt   time.Time `bson:"doctorSignedAt" json:"doctorSignedAt"`
	HospitalSignedAt time.Time `bson:"hospitalSignedAt" json:"hospitalSignedAt"`

	// DocumentRef is filled in out-of-band by the agreement renderer.
	DocumentRef string `bson:"documentRef,omitempty" json:"documentRef,omitempty"`

	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
