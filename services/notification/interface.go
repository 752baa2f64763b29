package notification

import (
	"context"

	"medshift/models"
)

// NotificationService delivers pushes for lifecycle events. Delivery is
// asynchronous and best-effort: failures are logged, never propagated into
// the transaction that produced the event.
type NotificationService interface {
	NotifyProposalSent(ctx context.Context, p *models.Proposal)
	NotifyProposalResponse(ctx context.Context, p *models.Proposal, accepted bool)
	NotifyContractSigned(ctx context.Context, c *models.Contract)
	NotifyShiftEvent(ctx context.Context, c *models.Contract, event string)
}
