package checkin

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackyeh168/green_events/src/internal/domain/checkin"
	"github.com/jackyeh168/green_events/src/internal/domain/event"
	"github.com/jackyeh168/green_events/src/internal/domain/participant"
	"github.com/jackyeh168/green_events/src/internal/domain/points"
	"github.com/jackyeh168/green_events/src/internal/domain/shared"
	"github.com/stretchr/testify/require"
)

// ===========================
// Fake Repositories
// ===========================

type FakeRegistrationRepository struct {
	records map[string]*checkin.Registration

	FindCallCount   int
	SaveCallCount   int
	UpdateCallCount int
	UpdateErr       error
}

func NewFakeRegistrationRepository() *FakeRegistrationRepository {
	return &FakeRegistrationRepository{records: make(map[string]*checkin.Registration)}
}

func regKey(a participant.ParticipantID, e event.EventID) string {
	return a.String() + "|" + e.String()
}

func (f *FakeRegistrationRepository) FindByKey(_ shared.TransactionContext, a participant.ParticipantID, e event.EventID) (*checkin.Registration, error) {
	f.FindCallCount++
	r, ok := f.records[regKey(a, e)]
	if !ok {
		return nil, checkin.ErrRegistrationNotFound
	}
	return r, nil
}

func (f *FakeRegistrationRepository) Save(_ shared.TransactionContext, r *checkin.Registration) error {
	f.SaveCallCount++
	k := regKey(r.AttendeeID(), r.EventID())
	if _, ok := f.records[k]; ok {
		return checkin.ErrRegistrationAlreadyExists
	}
	f.records[k] = r
	return nil
}

func (f *FakeRegistrationRepository) Update(_ shared.TransactionContext, r *checkin.Registration) error {
	f.UpdateCallCount++
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	f.records[regKey(r.AttendeeID(), r.EventID())] = r
	return nil
}

func (f *FakeRegistrationRepository) FindByAttendee(_ shared.TransactionContext, a participant.ParticipantID) ([]*checkin.Registration, error) {
	var out []*checkin.Registration
	for _, r := range f.records {
		if r.AttendeeID().Equals(a) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *FakeRegistrationRepository) CountByEvent(_ shared.TransactionContext, e event.EventID) (int64, error) {
	var n int64
	for _, r := range f.records {
		if r.EventID().Equals(e) {
			n++
		}
	}
	return n, nil
}

func (f *FakeRegistrationRepository) TotalCalls() int {
	return f.FindCallCount + f.SaveCallCount + f.UpdateCallCount
}

type FakeEventRepository struct {
	events        map[string]*event.Event
	FindCallCount int
}

func NewFakeEventRepository() *FakeEventRepository {
	return &FakeEventRepository{events: make(map[string]*event.Event)}
}

func (f *FakeEventRepository) Save(_ shared.TransactionContext, e *event.Event) error {
	f.events[e.EventID().String()] = e
	return nil
}

func (f *FakeEventRepository) FindByID(_ shared.TransactionContext, id event.EventID) (*event.Event, error) {
	f.FindCallCount++
	e, ok := f.events[id.String()]
	if !ok {
		return nil, event.ErrEventNotFound
	}
	return e, nil
}

func (f *FakeEventRepository) FindByIDs(_ shared.TransactionContext, ids []event.EventID) ([]*event.Event, error) {
	var out []*event.Event
	for _, id := range ids {
		if e, ok := f.events[id.String()]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *FakeEventRepository) FindAll(_ shared.TransactionContext) ([]*event.Event, error) {
	var out []*event.Event
	for _, e := range f.events {
		out = append(out, e)
	}
	return out, nil
}

func (f *FakeEventRepository) FindByOrganizer(_ shared.TransactionContext, o event.OrganizerID) ([]*event.Event, error) {
	var out []*event.Event
	for _, e := range f.events {
		if e.OrganizerID().Equals(o) {
			out = append(out, e)
		}
	}
	return out, nil
}

type FakeParticipantRepository struct {
	participants map[string]*participant.Participant

	FindCallCount   int
	UpdateCallCount int
	UpdateErr       error
}

func NewFakeParticipantRepository() *FakeParticipantRepository {
	return &FakeParticipantRepository{participants: make(map[string]*participant.Participant)}
}

func (f *FakeParticipantRepository) Save(_ shared.TransactionContext, p *participant.Participant) error {
	f.participants[p.ParticipantID().String()] = p
	return nil
}

func (f *FakeParticipantRepository) FindByID(_ shared.TransactionContext, id participant.ParticipantID) (*participant.Participant, error) {
	f.FindCallCount++
	p, ok := f.participants[id.String()]
	if !ok {
		return nil, participant.ErrParticipantNotFound
	}
	return p, nil
}

func (f *FakeParticipantRepository) ExistsByEmail(_ shared.TransactionContext, email participant.Email) (bool, error) {
	for _, p := range f.participants {
		if p.Email().Equals(email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeParticipantRepository) Update(_ shared.TransactionContext, p *participant.Participant) error {
	f.UpdateCallCount++
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	f.participants[p.ParticipantID().String()] = p
	return nil
}

// ===========================
// Fake TransactionManager / Publisher
// ===========================

type FakeTransactionManager struct {
	InTransactionCallCount int
}

func (m *FakeTransactionManager) InTransaction(fn func(ctx shared.TransactionContext) error) error {
	m.InTransactionCallCount++
	return fn(nil)
}

type RecordingPublisher struct {
	mu     sync.Mutex
	Events []shared.DomainEvent
	Err    error
}

func (p *RecordingPublisher) Publish(e shared.DomainEvent) error {
	return p.PublishBatch([]shared.DomainEvent{e})
}

func (p *RecordingPublisher) PublishBatch(events []shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, events...)
	return p.Err
}

func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.Events))
	for _, e := range p.Events {
		out = append(out, e.EventType())
	}
	return out
}

// ===========================
// Fixtures
// ===========================

var errStoreDown = errors.New("connection refused")

type fixture struct {
	regs      *FakeRegistrationRepository
	events    *FakeEventRepository
	people    *FakeParticipantRepository
	tx        *FakeTransactionManager
	publisher *RecordingPublisher
	now       time.Time
}

// newFixture 活動 E1（上限 50 點）與參加者 A1（已有 100 點）
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		regs:      NewFakeRegistrationRepository(),
		events:    NewFakeEventRepository(),
		people:    NewFakeParticipantRepository(),
		tx:        &FakeTransactionManager{},
		publisher: &RecordingPublisher{},
		now:       time.Date(2030, 4, 22, 9, 0, 0, 0, time.UTC),
	}

	f.addEvent(t, "E1", 50, 10)

	aid, err := participant.ParticipantIDFromString("A1")
	require.NoError(t, err)
	p, err := participant.ReconstructParticipant(aid, "Ada", participant.Email{}, participant.PhoneNumber{}, 100, f.now, f.now, 1)
	require.NoError(t, err)
	require.NoError(t, f.people.Save(nil, p))
	return f
}

func (f *fixture) addEvent(t *testing.T, id string, ceiling, capacity int) {
	t.Helper()
	eid, err := event.EventIDFromString(id)
	require.NoError(t, err)
	org, _ := event.OrganizerIDFromString("org-1")
	loc, _ := event.NewGeoPoint(25.03, 121.56)
	c, err := points.NewRewardCeiling(ceiling)
	require.NoError(t, err)
	e, err := event.ReconstructEvent(eid, org, event.Details{
		Title:           "Cleanup " + id,
		StartsAt:        f.now,
		EndsAt:          f.now.Add(3 * time.Hour),
		Location:        loc,
		MaxParticipants: capacity,
		RewardCeiling:   c,
	}, f.now)
	require.NoError(t, err)
	require.NoError(t, f.events.Save(nil, e))
}

func (f *fixture) useCase(t *testing.T, bound string, mode SettlementMode) *ProcessScanUseCase {
	t.Helper()
	clock := f.now
	uc, err := NewProcessScanUseCase(bound, ProcessScanDeps{
		Registrations: f.regs,
		Events:        f.events,
		Participants:  f.people,
		TxManager:     f.tx,
		Publisher:     f.publisher,
		Clock: func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		},
		Mode: mode,
	})
	require.NoError(t, err)
	return uc
}

func (f *fixture) total(t *testing.T, id string) int {
	t.Helper()
	aid, _ := participant.ParticipantIDFromString(id)
	p, err := f.people.FindByID(nil, aid)
	require.NoError(t, err)
	return p.RewardPoints().Value()
}

func qr(t *testing.T, attendee, eventID string) string {
	t.Helper()
	p, err := checkin.NewPayload(attendee, eventID)
	require.NoError(t, err)
	return p.Encode()
}
