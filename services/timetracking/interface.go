package timetracking

import (
	"context"
	"time"

	contractRepo "medshift/database/repository/contract"
	"medshift/models"
	"medshift/services/notification"
)

// RecorderService records on-site presence against a contract. Check-in and
// check-out each carry geolocation and an evidence-store photo reference; the
// resulting time record and the contract move together transactionally.
type RecorderService interface {
	CheckIn(ctx context.Context, contractID, doctorID string, at time.Time, loc models.GeoPoint, evidenceRef string) (*models.TimeRecord, error)
	CheckOut(ctx context.Context, contractID, doctorID string, at time.Time, loc models.GeoPoint, evidenceRef string) (*models.TimeRecord, error)
}

// DefaultRecorderService implements RecorderService.
type DefaultRecorderService struct {
	ContractRepo    contractRepo.ContractRepository
	NotificationSvc notification.NotificationService
}
