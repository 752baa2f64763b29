package models

import "time"

// AvailabilitySlot statuses.
const (
	SlotAvailable = "AVAILABLE"
	SlotBooked    = "BOOKED"
	SlotCompleted = "COMPLETED"
)

// AvailabilitySlot is a doctor's offer to work one specific date.
// The AVAILABLE -> BOOKED transition happens only inside the doctor-accept
// transaction, never as an independent write.
type AvailabilitySlot struct {
	ID          string    `bson:"id" json:"id"`
	DoctorID    string    `bson:"doctorId" json:"doctorId"`
	DoctorName  string    `bson:"doctorName,omitempty" json:"doctorName,omitempty"`
	Date        string    `bson:"date" json:"date" binding:"required"` // "2006-01-02"
	Start       int       `bson:"start" json:"start"`                  // minutes from midnight
	End         int       `bson:"end" json:"end"`
	Overnight   bool      `bson:"overnight" json:"overnight"`
	DesiredRate float64   `bson:"desiredRate" json:"desiredRate"`
	Specialties []string  `bson:"specialties,omitempty" json:"specialties,omitempty"`
	ServiceType string    `bson:"serviceType" json:"serviceType" binding:"required"`
	Region      Region    `bson:"region" json:"region"`
	Status      string    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
