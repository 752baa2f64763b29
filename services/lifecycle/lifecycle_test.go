package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medshift/database/repository"
	"medshift/models"
	"medshift/services/documents"
	"medshift/utils"
)

// memState is the shared backing store for the per-interface fakes. All
// multi-record transactions run under one mutex, which gives the same
// atomicity the mongo session transactions provide.
type memState struct {
	mu           sync.Mutex
	requirements map[string]*models.ShiftRequirement
	slots        map[string]*models.AvailabilitySlot
	matches      map[string]*models.PotentialMatch
	proposals    map[string]*models.Proposal
	contracts    map[string]*models.Contract
}

func newMemState() *memState {
	return &memState{
		requirements: make(map[string]*models.ShiftRequirement),
		slots:        make(map[string]*models.AvailabilitySlot),
		matches:      make(map[string]*models.PotentialMatch),
		proposals:    make(map[string]*models.Proposal),
		contracts:    make(map[string]*models.Contract),
	}
}

func statusIn(status string, from []string) bool {
	for _, f := range from {
		if status == f {
			return true
		}
	}
	return false
}

type memRequirementRepo struct{ s *memState }

func (r *memRequirementRepo) Create(_ context.Context, req *models.ShiftRequirement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *req
	r.s.requirements[req.ID] = &cp
	return nil
}

func (r *memRequirementRepo) GetByID(_ context.Context, id string) (*models.ShiftRequirement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requirements[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *memRequirementRepo) UpdateOpenFields(_ context.Context, req *models.ShiftRequirement) error {
	return nil
}

func (r *memRequirementRepo) UpdateStatusIf(_ context.Context, id, to string, from ...string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requirements[id]
	if !ok {
		return repository.ErrNotFound
	}
	if !statusIn(req.Status, from) {
		return repository.ErrStaleState
	}
	req.Status = to
	return nil
}

func (r *memRequirementRepo) DeleteIf(_ context.Context, id string, from ...string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requirements[id]
	if !ok {
		return repository.ErrNotFound
	}
	if !statusIn(req.Status, from) {
		return repository.ErrStaleState
	}
	delete(r.s.requirements, id)
	return nil
}

type memMatchRepo struct{ s *memState }

func (r *memMatchRepo) ExistingIDs(_ context.Context, ids []string) (map[string]bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]bool)
	for _, id := range ids {
		if _, ok := r.s.matches[id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (r *memMatchRepo) InsertBatch(_ context.Context, batch []models.PotentialMatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range batch {
		cp := batch[i]
		r.s.matches[cp.ID] = &cp
	}
	return nil
}

func (r *memMatchRepo) GetByID(_ context.Context, id string) (*models.PotentialMatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.matches[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memMatchRepo) ListByRequirement(_ context.Context, requirementID string) ([]models.PotentialMatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.PotentialMatch
	for _, m := range r.s.matches {
		if m.RequirementID == requirementID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memMatchRepo) UpdateStatusIf(_ context.Context, id, to string, from ...string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.matches[id]
	if !ok {
		return repository.ErrNotFound
	}
	if !statusIn(m.Status, from) {
		return repository.ErrStaleState
	}
	m.Status = to
	return nil
}

func (r *memMatchRepo) DeletePendingByRequirement(_ context.Context, requirementID string, _ int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, m := range r.s.matches {
		if m.RequirementID == requirementID && m.Status == models.MatchPendingReview {
			delete(r.s.matches, id)
			n++
		}
	}
	return n, nil
}

func (r *memMatchRepo) DeletePendingBySlot(_ context.Context, slotID string, _ int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, m := range r.s.matches {
		if m.SlotID == slotID && m.Status == models.MatchPendingReview {
			delete(r.s.matches, id)
			n++
		}
	}
	return n, nil
}

type memProposalRepo struct{ s *memState }

func (r *memProposalRepo) Create(_ context.Context, p *models.Proposal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	r.s.proposals[p.ID] = &cp
	return nil
}

func (r *memProposalRepo) GetByID(_ context.Context, id string) (*models.Proposal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.proposals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProposalRepo) PromoteTransactionally(_ context.Context, matchID string, proposal *models.Proposal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.matches[matchID]
	if !ok || m.Status != models.MatchPendingReview {
		return repository.ErrStaleState
	}
	req, ok := r.s.requirements[proposal.RequirementID]
	if !ok || !statusIn(req.Status, []string{models.RequirementOpen, models.RequirementPendingMatchReview}) {
		return repository.ErrStaleState
	}
	m.Status = models.MatchPromoted
	req.Status = models.RequirementPendingDoctorAcceptance
	cp := *proposal
	r.s.proposals[proposal.ID] = &cp
	return nil
}

func (r *memProposalRepo) AcceptTransactionally(_ context.Context, proposalID, slotID string, respondedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.proposals[proposalID]
	if !ok || p.Status != models.ProposalAwaitingDoctor {
		return repository.ErrStaleState
	}
	slot, ok := r.s.slots[slotID]
	if !ok || slot.Status != models.SlotAvailable {
		return repository.ErrStaleState
	}
	p.Status = models.ProposalAcceptedPendingContract
	p.RespondedAt = &respondedAt
	slot.Status = models.SlotBooked
	return nil
}

func (r *memProposalRepo) RejectIf(_ context.Context, id, reason string, respondedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.proposals[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.Status != models.ProposalAwaitingDoctor {
		return repository.ErrStaleState
	}
	p.Status = models.ProposalDoctorRejected
	p.RejectionReason = reason
	p.RespondedAt = &respondedAt
	return nil
}

func (r *memProposalRepo) CountersignTransactionally(_ context.Context, proposalID string, contract *models.Contract) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.proposals[proposalID]
	if !ok || p.Status != models.ProposalAcceptedPendingContract {
		return repository.ErrStaleState
	}
	req, ok := r.s.requirements[contract.RequirementID]
	if !ok || req.Status != models.RequirementPendingDoctorAcceptance {
		return repository.ErrStaleState
	}
	p.Status = models.ProposalContractSent
	req.Status = models.RequirementConfirmed
	cp := *contract
	r.s.contracts[contract.ID] = &cp
	return nil
}

func (r *memProposalRepo) FindOverdue(_ context.Context, now time.Time, limit int) ([]models.Proposal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Proposal
	for _, p := range r.s.proposals {
		if p.Status == models.ProposalAwaitingDoctor && p.ResponseDeadline != nil && p.ResponseDeadline.Before(now) {
			out = append(out, *p)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *memProposalRepo) ExpireIf(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.proposals[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.Status != models.ProposalAwaitingDoctor {
		return repository.ErrStaleState
	}
	p.Status = models.ProposalExpired
	return nil
}

type memContractRepo struct{ s *memState }

func (r *memContractRepo) GetByID(_ context.Context, id string) (*models.Contract, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.contracts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memContractRepo) GetByRequirement(_ context.Context, requirementID string) (*models.Contract, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.contracts {
		if c.RequirementID == requirementID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memContractRepo) GetTimeRecord(_ context.Context, contractID, doctorID string) (*models.TimeRecord, error) {
	return nil, repository.ErrNotFound
}

func (r *memContractRepo) SetDocumentRef(_ context.Context, id, ref string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.contracts[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.DocumentRef = ref
	return nil
}

func (r *memContractRepo) CancelIf(_ context.Context, id string, from ...string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.contracts[id]
	if !ok {
		return repository.ErrNotFound
	}
	if !statusIn(c.Status, from) {
		return repository.ErrStaleState
	}
	c.Status = models.ContractCancelled
	return nil
}

func (r *memContractRepo) CheckInTransactionally(_ context.Context, record *models.TimeRecord) error {
	return errors.New("not used in lifecycle tests")
}

func (r *memContractRepo) CheckOutTransactionally(_ context.Context, contractID, doctorID string, out models.CheckEvent) error {
	return errors.New("not used in lifecycle tests")
}

// nopNotifier satisfies NotificationService without a push backend.
type nopNotifier struct{}

func (nopNotifier) NotifyProposalSent(context.Context, *models.Proposal)           {}
func (nopNotifier) NotifyProposalResponse(context.Context, *models.Proposal, bool) {}
func (nopNotifier) NotifyContractSigned(context.Context, *models.Contract)         {}
func (nopNotifier) NotifyShiftEvent(context.Context, *models.Contract, string)     {}

// recordingDispatcher captures enqueued trigger tasks.
type recordingDispatcher struct {
	mu         sync.Mutex
	matchScans []string
	cleanups   []string
}

func (d *recordingDispatcher) DispatchMatchScan(_ context.Context, requirementID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.matchScans = append(d.matchScans, requirementID)
	return nil
}

func (d *recordingDispatcher) DispatchCleanupRequirement(_ context.Context, requirementID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cleanups = append(d.cleanups, requirementID)
	return nil
}

func (d *recordingDispatcher) DispatchCleanupSlot(_ context.Context, slotID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cleanups = append(d.cleanups, slotID)
	return nil
}

func newService(s *memState) (*DefaultLifecycleService, *recordingDispatcher) {
	dispatcher := &recordingDispatcher{}
	svc := &DefaultLifecycleService{
		RequirementRepo: &memRequirementRepo{s: s},
		MatchRepo:       &memMatchRepo{s: s},
		ProposalRepo:    &memProposalRepo{s: s},
		ContractRepo:    &memContractRepo{s: s},
		NotificationSvc: nopNotifier{},
		Renderer:        documents.StubAgreementRenderer{},
		Dispatcher:      dispatcher,
	}
	return svc, dispatcher
}

func seedReviewedPair(s *memState) {
	s.requirements["req-1"] = &models.ShiftRequirement{
		ID: "req-1", HospitalID: "hosp-1", Start: 420, End: 1140,
		HourlyRate: 200, ServiceType: "plantao_12h_diurno",
		Status: models.RequirementPendingMatchReview,
	}
	s.slots["slot-1"] = &models.AvailabilitySlot{
		ID: "slot-1", DoctorID: "doc-1", Date: "2026-09-10",
		Status: models.SlotAvailable,
	}
	s.matches["m-1"] = &models.PotentialMatch{
		ID: "m-1", RequirementID: "req-1", SlotID: "slot-1",
		HospitalID: "hosp-1", DoctorID: "doc-1", MatchedDate: "2026-09-10",
		OfferedRate: 200, Status: models.MatchPendingReview,
	}
}

func TestPromoteMatchCreatesProposal(t *testing.T) {
	s := newMemState()
	seedReviewedPair(s)
	svc, _ := newService(s)

	proposalID, err := svc.PromoteMatch(context.Background(), "m-1", nil)
	require.NoError(t, err)
	require.NotEmpty(t, proposalID)

	p := s.proposals[proposalID]
	require.NotNil(t, p)
	assert.Equal(t, models.ProposalAwaitingDoctor, p.Status)
	assert.Equal(t, "slot-1", p.SlotID)
	assert.Equal(t, 420, p.Start)

	assert.Equal(t, models.MatchPromoted, s.matches["m-1"].Status)
	assert.Equal(t, models.RequirementPendingDoctorAcceptance, s.requirements["req-1"].Status)
}

func TestPromoteMatchRejectsNonPending(t *testing.T) {
	s := newMemState()
	seedReviewedPair(s)
	s.matches["m-1"].Status = models.MatchPromoted
	svc, _ := newService(s)

	_, err := svc.PromoteMatch(context.Background(), "m-1", nil)
	var pe *utils.PreconditionFailedError
	require.ErrorAs(t, err, &pe)
}

func TestConcurrentAcceptsOnlyOneWins(t *testing.T) {
	s := newMemState()
	seedReviewedPair(s)
	svc, _ := newService(s)

	// Two proposals contend for the same slot.
	for _, id := range []string{"p-1", "p-2"} {
		s.proposals[id] = &models.Proposal{
			ID: id, RequirementID: "req-1", SlotID: "slot-1",
			HospitalID: "hosp-1", DoctorID: "doc-1",
			Status: models.ProposalAwaitingDoctor,
		}
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{"p-1", "p-2"} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			errs[i] = svc.RespondToProposal(context.Background(), id, true, "")
		}(i, id)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var pe *utils.PreconditionFailedError
		if errors.As(err, &pe) {
			conflicts++
		}
	}
	assert.Equal(t, 1, successes, "exactly one accept must win")
	assert.Equal(t, 1, conflicts, "the loser must see a precondition failure")
	assert.Equal(t, models.SlotBooked, s.slots["slot-1"].Status)
}

func TestRejectProposalReopensRequirement(t *testing.T) {
	s := newMemState()
	seedReviewedPair(s)
	s.requirements["req-1"].Status = models.RequirementPendingDoctorAcceptance
	s.proposals["p-1"] = &models.Proposal{
		ID: "p-1", RequirementID: "req-1", SlotID: "slot-1",
		Status: models.ProposalAwaitingDoctor,
	}
	svc, dispatcher := newService(s)

	err := svc.RespondToProposal(context.Background(), "p-1", false, "schedule conflict")
	require.NoError(t, err)

	assert.Equal(t, models.ProposalDoctorRejected, s.proposals["p-1"].Status)
	assert.Equal(t, "schedule conflict", s.proposals["p-1"].RejectionReason)
	assert.Equal(t, models.SlotAvailable, s.slots["slot-1"].Status, "rejection must not touch the slot")
	assert.Equal(t, models.RequirementOpen, s.requirements["req-1"].Status)
	assert.Equal(t, []string{"req-1"}, dispatcher.matchScans)
}

func TestCountersignIssuesContract(t *testing.T) {
	s := newMemState()
	seedReviewedPair(s)
	s.requirements["req-1"].Status = models.RequirementPendingDoctorAcceptance
	respondedAt := time.Now().Add(-time.Hour)
	s.proposals["p-1"] = &models.Proposal{
		ID: "p-1", RequirementID: "req-1", SlotID: "slot-1",
		HospitalID: "hosp-1", DoctorID: "doc-1", MatchedDate: "2026-09-10",
		HourlyRate: 200, Start: 420, End: 1140,
		RespondedAt: &respondedAt,
		Status:      models.ProposalAcceptedPendingContract,
	}
	svc, _ := newService(s)

	contractID, err := svc.CountersignProposal(context.Background(), "p-1")
	require.NoError(t, err)

	s.mu.Lock()
	c := s.contracts[contractID]
	require.NotNil(t, c)
	assert.Equal(t, models.ContractActive, c.Status)
	assert.Equal(t, "2026-09-10", c.ShiftDate)
	assert.True(t, c.DoctorSignedAt.Equal(respondedAt))
	assert.Equal(t, models.ProposalContractSent, s.proposals["p-1"].Status)
	assert.Equal(t, models.RequirementConfirmed, s.requirements["req-1"].Status)
	s.mu.Unlock()
}

func TestCountersignRequiresAcceptedProposal(t *testing.T) {
	s := newMemState()
	seedReviewedPair(s)
	s.proposals["p-1"] = &models.Proposal{
		ID: "p-1", RequirementID: "req-1", SlotID: "slot-1",
		Status: models.ProposalAwaitingDoctor,
	}
	svc, _ := newService(s)

	_, err := svc.CountersignProposal(context.Background(), "p-1")
	var pe *utils.PreconditionFailedError
	require.ErrorAs(t, err, &pe)
}

func TestCancelRequirementCancelsActiveContract(t *testing.T) {
	s := newMemState()
	seedReviewedPair(s)
	s.requirements["req-1"].Status = models.RequirementConfirmed
	s.contracts["c-1"] = &models.Contract{
		ID: "c-1", RequirementID: "req-1", DoctorID: "doc-1",
		Status: models.ContractActive,
	}
	svc, dispatcher := newService(s)

	require.NoError(t, svc.CancelRequirement(context.Background(), "req-1", "hosp-1"))

	assert.Equal(t, models.RequirementCancelledByHospital, s.requirements["req-1"].Status)
	assert.Equal(t, models.ContractCancelled, s.contracts["c-1"].Status)
	assert.Equal(t, []string{"req-1"}, dispatcher.cleanups)
}

func TestCancelRequirementRejectsTerminalStates(t *testing.T) {
	s := newMemState()
	seedReviewedPair(s)
	s.requirements["req-1"].Status = models.RequirementCompleted
	svc, _ := newService(s)

	err := svc.CancelRequirement(context.Background(), "req-1", "hosp-1")
	var pe *utils.PreconditionFailedError
	require.ErrorAs(t, err, &pe)
}

func TestCancelMissingRequirementIsNotFound(t *testing.T) {
	s := newMemState()
	svc, _ := newService(s)

	err := svc.CancelRequirement(context.Background(), "req-gone", "hosp-1")
	var nf *utils.NotFoundError
	require.ErrorAs(t, err, &nf, "a missing requirement must not read as a state conflict")
}

func TestExpireOverdueProposals(t *testing.T) {
	s := newMemState()
	seedReviewedPair(s)
	s.requirements["req-1"].Status = models.RequirementPendingDoctorAcceptance

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	s.proposals["p-late"] = &models.Proposal{
		ID: "p-late", RequirementID: "req-1", SlotID: "slot-1",
		ResponseDeadline: &past, Status: models.ProposalAwaitingDoctor,
	}
	s.proposals["p-fresh"] = &models.Proposal{
		ID: "p-fresh", RequirementID: "req-1", SlotID: "slot-1",
		ResponseDeadline: &future, Status: models.ProposalAwaitingDoctor,
	}
	svc, dispatcher := newService(s)

	expired, err := svc.ExpireOverdueProposals(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	assert.Equal(t, models.ProposalExpired, s.proposals["p-late"].Status)
	assert.Equal(t, models.ProposalAwaitingDoctor, s.proposals["p-fresh"].Status)
	assert.Equal(t, models.RequirementOpen, s.requirements["req-1"].Status)
	assert.Equal(t, []string{"req-1"}, dispatcher.matchScans)
}

func TestRejectMatchReopensWhenQueueEmpty(t *testing.T) {
	s := newMemState()
	seedReviewedPair(s)
	svc, dispatcher := newService(s)

	require.NoError(t, svc.RejectMatch(context.Background(), "m-1"))

	assert.Equal(t, models.MatchRejected, s.matches["m-1"].Status)
	assert.Equal(t, models.RequirementOpen, s.requirements["req-1"].Status)
	assert.Equal(t, []string{"req-1"}, dispatcher.matchScans)
}
