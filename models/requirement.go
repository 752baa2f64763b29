package models

import "time"

// ShiftRequirement statuses. Transitions only move forward; see services/lifecycle.
const (
	RequirementOpen                    = "OPEN"
	RequirementPendingMatchReview      = "PENDING_MATCH_REVIEW"
	RequirementPendingDoctorAcceptance = "PENDING_DOCTOR_ACCEPTANCE"
	RequirementConfirmed               = "CONFIRMED"
	RequirementInProgress              = "IN_PROGRESS"
	RequirementCompleted               = "COMPLETED"
	RequirementCancelledByHospital     = "CANCELLED_BY_HOSPITAL"
	RequirementExpired                 = "EXPIRED"
)

// ShiftRequirement is a hospital's demand for one or more identical shifts,
// one per calendar date in Dates.
type ShiftRequirement struct {
	ID           string    `bson:"id" json:"id"`
	HospitalID   string    `bson:"hospitalId" json:"hospitalId"`
	HospitalName string    `bson:"hospitalName,omitempty" json:"hospitalName,omitempty"`
	Dates        []string  `bson:"dates" json:"dates" binding:"required,min=1"` // "2006-01-02", non-empty
	Start        int       `bson:"start" json:"start"`                          // minutes from midnight
	End          int       `bson:"end" json:"end"`                              // minutes from midnight
	Overnight    bool      `bson:"overnight" json:"overnight"`                  // end wraps past midnight
	ServiceType  string    `bson:"serviceType" json:"serviceType" binding:"required"`
	Specialties  []string  `bson:"specialties,omitempty" json:"specialties,omitempty"` // empty = any
	HourlyRate   float64   `bson:"hourlyRate" json:"hourlyRate"`
	Vacancies    int       `bson:"vacancies" json:"vacancies"`
	Notes        string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Region       Region    `bson:"region" json:"region"`
	Status       string    `bson:"status" json:"status"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// RequiresSpecialties reports whether the requirement restricts candidate specialties.
func (r *ShiftRequirement) RequiresSpecialties() bool {
	return len(r.Specialties) > 0
}

// RestrictsCities reports whether the requirement restricts candidate cities.
func (r *ShiftRequirement) RestrictsCities() bool {
	return len(r.Region.Cities) > 0
}
