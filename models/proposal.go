package models

import "time"

// Proposal statuses.
const (
	ProposalAwaitingDoctor          = "AWAITING_DOCTOR_ACCEPTANCE"
	ProposalAcceptedPendingContract = "DOCTOR_ACCEPTED_PENDING_CONTRACT"
	ProposalDoctorRejected          = "DOCTOR_REJECTED"
	ProposalContractSent            = "CONTRACT_SENT_TO_HOSPITAL"
	ProposalExpired                 = "EXPIRED"
)

// Proposal is the formal offer sent to a doctor, derived from a PotentialMatch.
type Proposal struct {
	ID            string `bson:"id" json:"id"`
	MatchID       string `bson:"matchId,omitempty" json:"matchId,omitempty"`
	RequirementID string `bson:"requirementId" json:"requirementId"`
	SlotID        string `bson:"slotId" json:"slotId"`
	HospitalID    string `bson:"hospitalId" json:"hospitalId"`
	DoctorID      string `bson:"doctorId" json:"doctorId"`
	MatchedDate   string `bson:"matchedDate" json:"matchedDate"`

	HospitalName string   `bson:"hospitalName,omitempty" json:"hospitalName,omitempty"`
	DoctorName   string   `bson:"doctorName,omitempty" json:"doctorName,omitempty"`
	ServiceType  string   `bson:"serviceType" json:"serviceType"`
	Specialties  []string `bson:"specialties,omitempty" json:"specialties,omitempty"`
	HourlyRate   float64  `bson:"hourlyRate" json:"hourlyRate"`
	Start        int      `bson:"start" json:"start"`
	End          int      `bson:"end" json:"end"`
	Overnight    bool     `bson:"overnight" json:"overnight"`

	ResponseDeadline *time.Time `bson:"responseDeadline,omitempty" json:"responseDeadline,omitempty"`
	RespondedAt      *time.Time `bson:"respondedAt,omitempty" json:"respondedAt,omitempty"`
	RejectionReason  string     `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`

	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
