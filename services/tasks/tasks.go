package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task types. Entity writes that must trigger the match finder or the
// cleanup reactor enqueue one of these instead of relying on store-side
// triggers; asynq retries give the handlers their safe-retry semantics.
const (
	TypeMatchScan          = "match:find"
	TypeCleanupRequirement = "cleanup:requirement"
	TypeCleanupSlot        = "cleanup:slot"
	TypeProposalExpiry     = "proposal:expire"
)

// MatchScanPayload identifies the requirement that entered OPEN.
type MatchScanPayload struct {
	RequirementID string `json:"requirementId"`
}

// CleanupPayload identifies the deleted entity whose pending matches must go.
type CleanupPayload struct {
	EntityID string `json:"entityId"`
}

func NewMatchScanTask(requirementID string) (*asynq.Task, error) {
	b, err := json.Marshal(MatchScanPayload{RequirementID: requirementID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeMatchScan, b), nil
}

func NewCleanupRequirementTask(requirementID string) (*asynq.Task, error) {
	b, err := json.Marshal(CleanupPayload{EntityID: requirementID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCleanupRequirement, b), nil
}

func NewCleanupSlotTask(slotID string) (*asynq.Task, error) {
	b, err := json.Marshal(CleanupPayload{EntityID: slotID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCleanupSlot, b), nil
}

// NewProposalExpiryTask builds the periodic sweep task; it carries no payload.
func NewProposalExpiryTask() *asynq.Task {
	return asynq.NewTask(TypeProposalExpiry, nil)
}
