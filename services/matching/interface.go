package matching

import (
	"context"

	matchRepo "medshift/database/repository/match"
	requirementRepo "medshift/database/repository/requirement"
	slotRepo "medshift/database/repository/slot"
)

// FinderService pairs an open requirement against the availability pool and
// persists new potential matches idempotently.
type FinderService interface {
	// FindMatches runs the full pipeline for one requirement. It is safe to
	// re-run: match identities are deterministic and existing IDs are
	// skipped. Returns the number of newly persisted matches.
	FindMatches(ctx context.Context, requirementID string) (int, error)
}

// CleanupService removes the pending matches that referenced a deleted
// requirement or slot.
type CleanupService interface {
	CleanupForRequirement(ctx context.Context, requirementID string) (int64, error)
	CleanupForSlot(ctx context.Context, slotID string) (int64, error)
}

// DefaultFinderService implements FinderService.
type DefaultFinderService struct {
	RequirementRepo requirementRepo.RequirementRepository
	SlotRepo        slotRepo.SlotRepository
	MatchRepo       matchRepo.MatchRepository
}

// DefaultCleanupService implements CleanupService.
type DefaultCleanupService struct {
	MatchRepo matchRepo.MatchRepository

	// ChunkSize bounds each delete batch; zero means the repository default.
	ChunkSize int
}
