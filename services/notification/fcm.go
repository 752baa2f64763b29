package notification

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"

	pushTargetRepo "medshift/database/repository/pushtarget"
	"medshift/models"
	"medshift/utils"
)

// DefaultNotificationService sends FCM pushes to registered doctor and
// hospital devices.
type DefaultNotificationService struct {
	Targets pushTargetRepo.PushTargetRepository
}

func NewDefaultNotificationService(targets pushTargetRepo.PushTargetRepository) (*DefaultNotificationService, error) {
	if targets == nil {
		return nil, fmt.Errorf("notification service initialization error: push target repository is nil")
	}
	return &DefaultNotificationService{Targets: targets}, nil
}

func (s *DefaultNotificationService) NotifyProposalSent(ctx context.Context, p *models.Proposal) {
	title := "New shift proposal"
	body := fmt.Sprintf("%s proposed you a %s shift on %s.", p.HospitalName, p.ServiceType, p.MatchedDate)
	s.push(ctx, p.DoctorID, "doctor", title, body, map[string]string{
		"type":       "proposal_sent",
		"proposalId": p.ID,
	})
}

func (s *DefaultNotificationService) NotifyProposalResponse(ctx context.Context, p *models.Proposal, accepted bool) {
	title := "Proposal declined"
	body := fmt.Sprintf("Dr. %s declined the %s proposal for %s.", p.DoctorName, p.ServiceType, p.MatchedDate)
	if accepted {
		title = "Proposal accepted"
		body = fmt.Sprintf("Dr. %s accepted the %s proposal for %s. Countersign to issue the contract.",
			p.DoctorName, p.ServiceType, p.MatchedDate)
	}
	s.push(ctx, p.HospitalID, "hospital", title, body, map[string]string{
		"type":       "proposal_response",
		"proposalId": p.ID,
	})
}

func (s *DefaultNotificationService) NotifyContractSigned(ctx context.Context, c *models.Contract) {
	title := "Contract issued"
	body := fmt.Sprintf("Your %s shift at %s on %s is confirmed.", c.ServiceType, c.HospitalName, c.ShiftDate)
	s.push(ctx, c.DoctorID, "doctor", title, body, map[string]string{
		"type":       "contract_signed",
		"contractId": c.ID,
	})
}

func (s *DefaultNotificationService) NotifyShiftEvent(ctx context.Context, c *models.Contract, event string) {
	title := "Shift update"
	body := fmt.Sprintf("Dr. %s: %s for the %s shift on %s.", c.DoctorName, event, c.ServiceType, c.ShiftDate)
	s.push(ctx, c.HospitalID, "hospital", title, body, map[string]string{
		"type":       "shift_event",
		"contractId": c.ID,
		"event":      event,
	})
}

// push resolves the recipient's token and sends one FCM message. A missing
// token or a send failure is logged and swallowed.
func (s *DefaultNotificationService) push(ctx context.Context, actorID, role, title, body string, data map[string]string) {
	logger := utils.GetLogger()
	if utils.FCMClient == nil {
		logger.Debug("notification: messaging client not initialized")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	token, err := s.Targets.GetToken(ctx, actorID, role)
	if err != nil || token == "" {
		logger.Debug("notification: no push target",
			zap.String("actorId", actorID), zap.String("role", role))
		return
	}

	if _, ok := data["role"]; !ok {
		data["role"] = role
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		logger.Warn("notification: FCM send failed",
			zap.String("actorId", actorID), zap.String("type", data["type"]), zap.Error(err))
	}
}
