package matching

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medshift/database/repository"
	slotRepo "medshift/database/repository/slot"
	"medshift/models"
)

// In-memory repositories for pipeline tests.

type fakeRequirementRepo struct {
	mu   sync.Mutex
	reqs map[string]*models.ShiftRequirement
}

func newFakeRequirementRepo(reqs ...*models.ShiftRequirement) *fakeRequirementRepo {
	r := &fakeRequirementRepo{reqs: make(map[string]*models.ShiftRequirement)}
	for _, req := range reqs {
		cp := *req
		r.reqs[req.ID] = &cp
	}
	return r
}

func (r *fakeRequirementRepo) Create(_ context.Context, req *models.ShiftRequirement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *req
	r.reqs[req.ID] = &cp
	return nil
}

func (r *fakeRequirementRepo) GetByID(_ context.Context, id string) (*models.ShiftRequirement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.reqs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *fakeRequirementRepo) UpdateOpenFields(_ context.Context, req *models.ShiftRequirement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.reqs[req.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if cur.Status != models.RequirementOpen {
		return repository.ErrStaleState
	}
	cp := *req
	cp.Status = cur.Status
	r.reqs[req.ID] = &cp
	return nil
}

func (r *fakeRequirementRepo) UpdateStatusIf(_ context.Context, id, to string, from ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.reqs[id]
	if !ok {
		return repository.ErrNotFound
	}
	for _, f := range from {
		if req.Status == f {
			req.Status = to
			return nil
		}
	}
	return repository.ErrStaleState
}

func (r *fakeRequirementRepo) DeleteIf(_ context.Context, id string, from ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.reqs[id]
	if !ok {
		return repository.ErrNotFound
	}
	for _, f := range from {
		if req.Status == f {
			delete(r.reqs, id)
			return nil
		}
	}
	return repository.ErrStaleState
}

type fakeSlotRepo struct {
	mu    sync.Mutex
	slots map[string]*models.AvailabilitySlot
}

func newFakeSlotRepo(slots ...*models.AvailabilitySlot) *fakeSlotRepo {
	r := &fakeSlotRepo{slots: make(map[string]*models.AvailabilitySlot)}
	for _, s := range slots {
		cp := *s
		r.slots[s.ID] = &cp
	}
	return r
}

func (r *fakeSlotRepo) Create(_ context.Context, slot *models.AvailabilitySlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *slot
	r.slots[slot.ID] = &cp
	return nil
}

func (r *fakeSlotRepo) GetByID(_ context.Context, id string) (*models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *slot
	return &cp, nil
}

func (r *fakeSlotRepo) FindAvailable(_ context.Context, criteria slotRepo.SlotSearchCriteria) ([]models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dates := make(map[string]bool, len(criteria.Dates))
	for _, d := range criteria.Dates {
		dates[d] = true
	}
	var out []models.AvailabilitySlot
	for _, slot := range r.slots {
		if slot.Status != models.SlotAvailable || slot.Region.State != criteria.State || !dates[slot.Date] {
			continue
		}
		if len(criteria.Cities) > 0 {
			shared := false
			for _, want := range criteria.Cities {
				for _, have := range slot.Region.Cities {
					if want == have {
						shared = true
					}
				}
			}
			if !shared {
				continue
			}
		}
		out = append(out, *slot)
	}
	return out, nil
}

func (r *fakeSlotRepo) UpdateStatusIf(_ context.Context, id, to string, from ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return repository.ErrNotFound
	}
	for _, f := range from {
		if slot.Status == f {
			slot.Status = to
			return nil
		}
	}
	return repository.ErrStaleState
}

func (r *fakeSlotRepo) DeleteIf(_ context.Context, id string, from ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return repository.ErrNotFound
	}
	for _, f := range from {
		if slot.Status == f {
			delete(r.slots, id)
			return nil
		}
	}
	return repository.ErrStaleState
}

type fakeMatchRepo struct {
	mu      sync.Mutex
	matches map[string]*models.PotentialMatch
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[string]*models.PotentialMatch)}
}

func (r *fakeMatchRepo) ExistingIDs(_ context.Context, ids []string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]bool)
	for _, id := range ids {
		if _, ok := r.matches[id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) InsertBatch(_ context.Context, batch []models.PotentialMatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range batch {
		cp := batch[i]
		r.matches[cp.ID] = &cp
	}
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id string) (*models.PotentialMatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMatchRepo) ListByRequirement(_ context.Context, requirementID string) ([]models.PotentialMatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PotentialMatch
	for _, m := range r.matches {
		if m.RequirementID == requirementID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) UpdateStatusIf(_ context.Context, id, to string, from ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return repository.ErrNotFound
	}
	for _, f := range from {
		if m.Status == f {
			m.Status = to
			return nil
		}
	}
	return repository.ErrStaleState
}

func (r *fakeMatchRepo) DeletePendingByRequirement(_ context.Context, requirementID string, _ int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, m := range r.matches {
		if m.RequirementID == requirementID && m.Status == models.MatchPendingReview {
			delete(r.matches, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeMatchRepo) DeletePendingBySlot(_ context.Context, slotID string, _ int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, m := range r.matches {
		if m.SlotID == slotID && m.Status == models.MatchPendingReview {
			delete(r.matches, id)
			n++
		}
	}
	return n, nil
}

func testRequirement() *models.ShiftRequirement {
	return &models.ShiftRequirement{
		ID:          "req-1",
		HospitalID:  "hosp-1",
		Dates:       []string{"2026-09-10", "2026-09-11"},
		Start:       420,
		End:         1140,
		ServiceType: "plantao_12h_diurno",
		Specialties: []string{"Cardiology"},
		HourlyRate:  200,
		Region:      models.Region{State: "SP"},
		Status:      models.RequirementOpen,
	}
}

func testSlot(id, date string) *models.AvailabilitySlot {
	return &models.AvailabilitySlot{
		ID:          id,
		DoctorID:    "doc-" + id,
		Date:        date,
		Start:       600,
		End:         720,
		DesiredRate: 150,
		Specialties: []string{"Cardiology"},
		ServiceType: "plantao_12h_diurno",
		Region:      models.Region{State: "SP", Cities: []string{"Campinas"}},
		Status:      models.SlotAvailable,
	}
}

func TestFindMatchesPersistsAndMovesUnderReview(t *testing.T) {
	reqRepo := newFakeRequirementRepo(testRequirement())
	sRepo := newFakeSlotRepo(testSlot("slot-1", "2026-09-10"), testSlot("slot-2", "2026-09-11"))
	mRepo := newFakeMatchRepo()
	finder := &DefaultFinderService{RequirementRepo: reqRepo, SlotRepo: sRepo, MatchRepo: mRepo}

	created, err := finder.FindMatches(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	matches, err := mRepo.ListByRequirement(context.Background(), "req-1")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.Equal(t, models.MatchPendingReview, m.Status)
		assert.Equal(t, models.MatchIdentity(m.RequirementID, m.SlotID, m.MatchedDate), m.ID)
	}

	req, err := reqRepo.GetByID(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, models.RequirementPendingMatchReview, req.Status)
}

func TestFindMatchesIsIdempotent(t *testing.T) {
	reqRepo := newFakeRequirementRepo(testRequirement())
	sRepo := newFakeSlotRepo(testSlot("slot-1", "2026-09-10"))
	mRepo := newFakeMatchRepo()
	finder := &DefaultFinderService{RequirementRepo: reqRepo, SlotRepo: sRepo, MatchRepo: mRepo}

	created, err := finder.FindMatches(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	// A second pass sees the same survivors but no new identities. Reset the
	// requirement to OPEN to simulate a redelivered trigger.
	require.NoError(t, reqRepo.UpdateStatusIf(context.Background(), "req-1",
		models.RequirementOpen, models.RequirementPendingMatchReview))

	created, err = finder.FindMatches(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	matches, err := mRepo.ListByRequirement(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestFindMatchesSkipsNonOpenRequirement(t *testing.T) {
	req := testRequirement()
	req.Status = models.RequirementPendingDoctorAcceptance
	reqRepo := newFakeRequirementRepo(req)
	sRepo := newFakeSlotRepo(testSlot("slot-1", "2026-09-10"))
	mRepo := newFakeMatchRepo()
	finder := &DefaultFinderService{RequirementRepo: reqRepo, SlotRepo: sRepo, MatchRepo: mRepo}

	created, err := finder.FindMatches(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestFindMatchesGoneRequirementIsNoop(t *testing.T) {
	finder := &DefaultFinderService{
		RequirementRepo: newFakeRequirementRepo(),
		SlotRepo:        newFakeSlotRepo(),
		MatchRepo:       newFakeMatchRepo(),
	}
	created, err := finder.FindMatches(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestFindMatchesFiltersSpecialtyAndOverlap(t *testing.T) {
	wrongSpecialty := testSlot("slot-spec", "2026-09-10")
	wrongSpecialty.Specialties = []string{"Orthopedics"}

	noOverlap := testSlot("slot-time", "2026-09-10")
	noOverlap.Start, noOverlap.End = 1140, 1260 // begins exactly at requirement end

	good := testSlot("slot-good", "2026-09-10")

	reqRepo := newFakeRequirementRepo(testRequirement())
	sRepo := newFakeSlotRepo(wrongSpecialty, noOverlap, good)
	mRepo := newFakeMatchRepo()
	finder := &DefaultFinderService{RequirementRepo: reqRepo, SlotRepo: sRepo, MatchRepo: mRepo}

	created, err := finder.FindMatches(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	matches, _ := mRepo.ListByRequirement(context.Background(), "req-1")
	require.Len(t, matches, 1)
	assert.Equal(t, "slot-good", matches[0].SlotID)
}

func TestCleanupLeavesPromotedMatches(t *testing.T) {
	mRepo := newFakeMatchRepo()
	require.NoError(t, mRepo.InsertBatch(context.Background(), []models.PotentialMatch{
		{ID: "m1", RequirementID: "req-1", SlotID: "s1", Status: models.MatchPendingReview},
		{ID: "m2", RequirementID: "req-1", SlotID: "s2", Status: models.MatchPendingReview},
		{ID: "m3", RequirementID: "req-1", SlotID: "s3", Status: models.MatchPromoted},
	}))

	cleaner := &DefaultCleanupService{MatchRepo: mRepo}
	deleted, err := cleaner.CleanupForRequirement(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	survivor, err := mRepo.GetByID(context.Background(), "m3")
	require.NoError(t, err)
	assert.Equal(t, models.MatchPromoted, survivor.Status)
}
