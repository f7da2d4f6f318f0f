package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/petnav/petnav/internal/domain/clinic"
	"github.com/petnav/petnav/internal/domain/pet"
	"github.com/petnav/petnav/pkg/timeslot"
)

// -- Mock Repositories --

type adminKey struct{ user, clinic uuid.UUID }

type mockClinicRepo struct {
	clinics map[uuid.UUID]*clinic.Clinic
	admins  map[adminKey]bool
}

func newMockClinicRepo() *mockClinicRepo {
	return &mockClinicRepo{
		clinics: make(map[uuid.UUID]*clinic.Clinic),
		admins:  make(map[adminKey]bool),
	}
}

func (m *mockClinicRepo) Create(_ context.Context, c *clinic.Clinic) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.clinics[c.ID] = c
	return nil
}

func (m *mockClinicRepo) GetByID(_ context.Context, id uuid.UUID) (*clinic.Clinic, error) {
	c, ok := m.clinics[id]
	if !ok {
		return nil, clinic.ErrNotFound
	}
	return c, nil
}

func (m *mockClinicRepo) Update(_ context.Context, c *clinic.Clinic) error { return nil }
func (m *mockClinicRepo) Delete(_ context.Context, id uuid.UUID) error     { return nil }

func (m *mockClinicRepo) List(_ context.Context, limit, offset int) ([]*clinic.Clinic, int, error) {
	return nil, 0, nil
}

func (m *mockClinicRepo) AddAdmin(_ context.Context, userID, clinicID uuid.UUID) error {
	m.admins[adminKey{userID, clinicID}] = true
	return nil
}

func (m *mockClinicRepo) IsAdmin(_ context.Context, userID, clinicID uuid.UUID) (bool, error) {
	return m.admins[adminKey{userID, clinicID}], nil
}

type mockVetRepo struct {
	vets map[uuid.UUID]*clinic.Vet
}

func newMockVetRepo() *mockVetRepo {
	return &mockVetRepo{vets: make(map[uuid.UUID]*clinic.Vet)}
}

func (m *mockVetRepo) Create(_ context.Context, v *clinic.Vet) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	m.vets[v.ID] = v
	return nil
}

func (m *mockVetRepo) GetByID(_ context.Context, id uuid.UUID) (*clinic.Vet, error) {
	v, ok := m.vets[id]
	if !ok {
		return nil, clinic.ErrNotFound
	}
	return v, nil
}

func (m *mockVetRepo) ListByClinic(_ context.Context, clinicID uuid.UUID) ([]*clinic.Vet, error) {
	var result []*clinic.Vet
	for _, v := range m.vets {
		if v.ClinicID == clinicID {
			result = append(result, v)
		}
	}
	return result, nil
}

func (m *mockVetRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.vets, id)
	return nil
}

type mockHoursRepo struct {
	clinicRules map[uuid.UUID][]*clinic.HourRule
	vetRules    map[uuid.UUID][]*clinic.HourRule
}

func newMockHoursRepo() *mockHoursRepo {
	return &mockHoursRepo{
		clinicRules: make(map[uuid.UUID][]*clinic.HourRule),
		vetRules:    make(map[uuid.UUID][]*clinic.HourRule),
	}
}

func (m *mockHoursRepo) UpsertClinicRule(_ context.Context, clinicID uuid.UUID, r *clinic.HourRule) error {
	m.clinicRules[clinicID] = append(m.clinicRules[clinicID], r)
	return nil
}

func (m *mockHoursRepo) ListClinicRules(_ context.Context, clinicID uuid.UUID) ([]*clinic.HourRule, error) {
	return m.clinicRules[clinicID], nil
}

func (m *mockHoursRepo) ListClinicRulesForWeekday(_ context.Context, clinicID uuid.UUID, weekday int) ([]*clinic.HourRule, error) {
	var result []*clinic.HourRule
	for _, r := range m.clinicRules[clinicID] {
		if r.Weekday == weekday {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockHoursRepo) DeleteClinicRule(_ context.Context, clinicID, ruleID uuid.UUID) error {
	return nil
}

func (m *mockHoursRepo) UpsertVetRule(_ context.Context, vetID uuid.UUID, r *clinic.HourRule) error {
	m.vetRules[vetID] = append(m.vetRules[vetID], r)
	return nil
}

func (m *mockHoursRepo) ListVetRules(_ context.Context, vetID uuid.UUID) ([]*clinic.HourRule, error) {
	return m.vetRules[vetID], nil
}

func (m *mockHoursRepo) ListVetRulesForWeekday(_ context.Context, vetID uuid.UUID, weekday int) ([]*clinic.HourRule, error) {
	var result []*clinic.HourRule
	for _, r := range m.vetRules[vetID] {
		if r.Weekday == weekday {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockHoursRepo) DeleteVetRule(_ context.Context, vetID, ruleID uuid.UUID) error {
	return nil
}

type excKey struct {
	entityType string
	entityID   uuid.UUID
	date       string
}

type mockExceptionRepo struct {
	rows map[excKey]*clinic.Exception
}

func newMockExceptionRepo() *mockExceptionRepo {
	return &mockExceptionRepo{rows: make(map[excKey]*clinic.Exception)}
}

func (m *mockExceptionRepo) Upsert(_ context.Context, e *clinic.Exception) error {
	m.rows[excKey{e.EntityType, e.EntityID, e.Date.Format("2006-01-02")}] = e
	return nil
}

func (m *mockExceptionRepo) Get(_ context.Context, entityType string, entityID uuid.UUID, date time.Time) (*clinic.Exception, error) {
	return m.rows[excKey{entityType, entityID, date.Format("2006-01-02")}], nil
}

func (m *mockExceptionRepo) ListByEntity(_ context.Context, entityType string, entityID uuid.UUID) ([]*clinic.Exception, error) {
	return nil, nil
}

func (m *mockExceptionRepo) Delete(_ context.Context, entityType string, entityID uuid.UUID, date time.Time) error {
	delete(m.rows, excKey{entityType, entityID, date.Format("2006-01-02")})
	return nil
}

type mockPetRepo struct {
	pets map[uuid.UUID]*pet.Pet
}

func newMockPetRepo() *mockPetRepo {
	return &mockPetRepo{pets: make(map[uuid.UUID]*pet.Pet)}
}

func (m *mockPetRepo) Create(_ context.Context, p *pet.Pet) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.pets[p.ID] = p
	return nil
}

func (m *mockPetRepo) GetByID(_ context.Context, id uuid.UUID) (*pet.Pet, error) {
	p, ok := m.pets[id]
	if !ok {
		return nil, pet.ErrNotFound
	}
	return p, nil
}

func (m *mockPetRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*pet.Pet, error) {
	var result []*pet.Pet
	for _, p := range m.pets {
		if p.OwnerID == ownerID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockPetRepo) Update(_ context.Context, p *pet.Pet) error { return nil }
func (m *mockPetRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.pets, id)
	return nil
}

// mockApptRepo mirrors the database behavior, including the exclusion
// semantics on insert and status revival.
type mockApptRepo struct {
	appts map[uuid.UUID]*Appointment
}

func newMockApptRepo() *mockApptRepo {
	return &mockApptRepo{appts: make(map[uuid.UUID]*Appointment)}
}

func (m *mockApptRepo) overlaps(vetID uuid.UUID, start, end time.Time, exclude uuid.UUID) bool {
	for _, a := range m.appts {
		if a.VetID != vetID || a.Status == StatusCancelled || a.ID == exclude {
			continue
		}
		if timeslot.Overlaps(a.StartsAt, a.EndsAt, start, end) {
			return true
		}
	}
	return false
}

func (m *mockApptRepo) Create(_ context.Context, a *Appointment) error {
	if m.overlaps(a.VetID, a.StartsAt, a.EndsAt, uuid.Nil) {
		return ErrSlotTaken
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.appts[a.ID] = a
	return nil
}

func (m *mockApptRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockApptRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appts {
		if a.OwnerID == ownerID {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

func (m *mockApptRepo) ListBusyByClinic(_ context.Context, clinicID uuid.UUID, from, to time.Time) (map[uuid.UUID][]Interval, error) {
	busy := make(map[uuid.UUID][]Interval)
	for _, a := range m.appts {
		if a.ClinicID != clinicID || a.Status == StatusCancelled {
			continue
		}
		if a.StartsAt.Before(to) && a.EndsAt.After(from) {
			busy[a.VetID] = append(busy[a.VetID], Interval{Start: a.StartsAt, End: a.EndsAt})
		}
	}
	return busy, nil
}

func (m *mockApptRepo) VetHasOverlap(_ context.Context, vetID uuid.UUID, start, end time.Time, exclude uuid.UUID) (bool, error) {
	return m.overlaps(vetID, start, end, exclude), nil
}

func (m *mockApptRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	a, ok := m.appts[id]
	if !ok {
		return ErrNotFound
	}
	if status != StatusCancelled && m.overlaps(a.VetID, a.StartsAt, a.EndsAt, a.ID) {
		return ErrSlotTaken
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	return nil
}

func (m *mockApptRepo) ListByClinicDay(_ context.Context, clinicID uuid.UUID, from, to time.Time) ([]*Appointment, error) {
	var result []*Appointment
	for _, a := range m.appts {
		if a.ClinicID == clinicID && a.StartsAt.Before(to) && a.EndsAt.After(from) {
			result = append(result, a)
		}
	}
	return result, nil
}

// -- Fixture --

type fixture struct {
	svc        *Service
	appts      *mockApptRepo
	clinics    *mockClinicRepo
	vets       *mockVetRepo
	hours      *mockHoursRepo
	exceptions *mockExceptionRepo
	pets       *mockPetRepo

	clinicID uuid.UUID
	vetID    uuid.UUID
	ownerID  uuid.UUID
	petID    uuid.UUID
}

// newFixture builds a clinic open Mon-Fri 09:00-17:00 with one vet, one
// owner, and one pet.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		appts:      newMockApptRepo(),
		clinics:    newMockClinicRepo(),
		vets:       newMockVetRepo(),
		hours:      newMockHoursRepo(),
		exceptions: newMockExceptionRepo(),
		pets:       newMockPetRepo(),
	}
	f.svc = NewService(f.appts, f.clinics, f.vets, f.hours, f.exceptions, f.pets,
		warsaw, 30*time.Minute, nil)

	ctx := context.Background()
	cl := &clinic.Clinic{Name: "Happy Paws"}
	if err := f.clinics.Create(ctx, cl); err != nil {
		t.Fatal(err)
	}
	f.clinicID = cl.ID

	v := &clinic.Vet{UserID: uuid.New(), ClinicID: cl.ID, Title: "DVM"}
	if err := f.vets.Create(ctx, v); err != nil {
		t.Fatal(err)
	}
	f.vetID = v.ID

	for wd := 0; wd < 5; wd++ {
		r := &clinic.HourRule{Weekday: wd, StartTime: "09:00", EndTime: "17:00"}
		if err := f.hours.UpsertClinicRule(ctx, cl.ID, r); err != nil {
			t.Fatal(err)
		}
	}

	f.ownerID = uuid.New()
	p := &pet.Pet{OwnerID: f.ownerID, Name: "Rex", Species: "dog"}
	if err := f.pets.Create(ctx, p); err != nil {
		t.Fatal(err)
	}
	f.petID = p.ID
	return f
}

// -- Tests --

func TestComputeAvailabilityFullDay(t *testing.T) {
	f := newFixture(t)

	slots, err := f.svc.ComputeAvailability(context.Background(), f.clinicID, monday)
	if err != nil {
		t.Fatalf("ComputeAvailability: %v", err)
	}
	if len(slots) != 16 {
		t.Fatalf("expected 16 slots for 09:00-17:00, got %d", len(slots))
	}
	for i, s := range slots {
		if s.VetID != f.vetID {
			t.Errorf("slot %d carries wrong vet id", i)
		}
		if i > 0 && s.Start.Before(slots[i-1].Start) {
			t.Errorf("slots not sorted ascending at %d", i)
		}
	}
	if !slots[0].Start.Equal(at(9, 0)) {
		t.Errorf("first slot = %v, want 09:00", slots[0].Start)
	}
}

func TestComputeAvailabilityUnknownClinic(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ComputeAvailability(context.Background(), uuid.New(), monday)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestComputeAvailabilityWeekendNoRules(t *testing.T) {
	f := newFixture(t)
	saturday := monday.AddDate(0, 0, 5)

	slots, err := f.svc.ComputeAvailability(context.Background(), f.clinicID, saturday)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 0 {
		t.Errorf("expected empty weekend, got %d slots", len(slots))
	}
}

func TestComputeAvailabilityClinicClosedShortCircuits(t *testing.T) {
	f := newFixture(t)
	if err := f.exceptions.Upsert(context.Background(), &clinic.Exception{
		EntityType: clinic.EntityClinic, EntityID: f.clinicID, Date: monday, Closed: true,
	}); err != nil {
		t.Fatal(err)
	}

	slots, err := f.svc.ComputeAvailability(context.Background(), f.clinicID, monday)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 0 {
		t.Errorf("clinic closure should empty the day for all vets, got %d", len(slots))
	}
}

func TestComputeAvailabilityVetClosedSparesOthers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := &clinic.Vet{UserID: uuid.New(), ClinicID: f.clinicID}
	if err := f.vets.Create(ctx, other); err != nil {
		t.Fatal(err)
	}
	if err := f.exceptions.Upsert(ctx, &clinic.Exception{
		EntityType: clinic.EntityVet, EntityID: f.vetID, Date: monday, Closed: true,
	}); err != nil {
		t.Fatal(err)
	}

	slots, err := f.svc.ComputeAvailability(ctx, f.clinicID, monday)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 16 {
		t.Fatalf("expected 16 slots from the open vet, got %d", len(slots))
	}
	for _, s := range slots {
		if s.VetID == f.vetID {
			t.Error("closed vet still produced slots")
		}
	}
}

func TestComputeAvailabilityBookingRemovesOneSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Confirm(ctx, f.ownerID, f.clinicID, ConfirmRequest{
		VetID: f.vetID, PetID: f.petID, Start: at(9, 30), End: at(10, 0),
	}); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	slots, err := f.svc.ComputeAvailability(ctx, f.clinicID, monday)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 15 {
		t.Fatalf("expected 15 slots after one booking, got %d", len(slots))
	}
	for _, s := range slots {
		if s.Start.Equal(at(9, 30)) {
			t.Error("booked 09:30 slot still offered")
		}
	}
}

func TestCancelledBookingFreesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt, err := f.svc.Confirm(ctx, f.ownerID, f.clinicID, ConfirmRequest{
		VetID: f.vetID, PetID: f.petID, Start: at(9, 30), End: at(10, 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Cancel(ctx, f.ownerID, appt.ID); err != nil {
		t.Fatal(err)
	}

	slots, err := f.svc.ComputeAvailability(ctx, f.clinicID, monday)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 16 {
		t.Errorf("cancelled booking should free its slot, got %d slots", len(slots))
	}
}

func TestConfirmSetsStatusNew(t *testing.T) {
	f := newFixture(t)

	appt, err := f.svc.Confirm(context.Background(), f.ownerID, f.clinicID, ConfirmRequest{
		VetID: f.vetID, PetID: f.petID, Start: at(10, 0), End: at(10, 30),
	})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if appt.Status != StatusNew {
		t.Errorf("status = %q, want NEW", appt.Status)
	}
	if appt.ID == uuid.Nil {
		t.Error("id not assigned")
	}
}

func TestConfirmConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := ConfirmRequest{VetID: f.vetID, PetID: f.petID, Start: at(10, 0), End: at(10, 30)}

	if _, err := f.svc.Confirm(ctx, f.ownerID, f.clinicID, req); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Confirm(ctx, f.ownerID, f.clinicID, req); !errors.Is(err, ErrSlotTaken) {
		t.Errorf("expected ErrSlotTaken on double confirm, got %v", err)
	}
}

func TestConfirmPartialOverlapConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Confirm(ctx, f.ownerID, f.clinicID, ConfirmRequest{
		VetID: f.vetID, PetID: f.petID, Start: at(10, 0), End: at(11, 0),
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Confirm(ctx, f.ownerID, f.clinicID, ConfirmRequest{
		VetID: f.vetID, PetID: f.petID, Start: at(10, 30), End: at(11, 30),
	}); !errors.Is(err, ErrSlotTaken) {
		t.Errorf("expected ErrSlotTaken on partial overlap, got %v", err)
	}
}

func TestConfirmAdjacentAllowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Confirm(ctx, f.ownerID, f.clinicID, ConfirmRequest{
		VetID: f.vetID, PetID: f.petID, Start: at(10, 0), End: at(10, 30),
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Confirm(ctx, f.ownerID, f.clinicID, ConfirmRequest{
		VetID: f.vetID, PetID: f.petID, Start: at(10, 30), End: at(11, 0),
	}); err != nil {
		t.Errorf("touching bookings should not conflict: %v", err)
	}
}

func TestConfirmValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  ConfirmRequest
	}{
		{"missing vet", ConfirmRequest{PetID: f.petID, Start: at(10, 0), End: at(10, 30)}},
		{"missing pet", ConfirmRequest{VetID: f.vetID, Start: at(10, 0), End: at(10, 30)}},
		{"zero times", ConfirmRequest{VetID: f.vetID, PetID: f.petID}},
		{"inverted", ConfirmRequest{VetID: f.vetID, PetID: f.petID, Start: at(11, 0), End: at(10, 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Confirm(ctx, f.ownerID, f.clinicID, tt.req); !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestConfirmForeignEntities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	otherPet := &pet.Pet{OwnerID: uuid.New(), Name: "Not Yours"}
	if err := f.pets.Create(ctx, otherPet); err != nil {
		t.Fatal(err)
	}
	foreignVet := &clinic.Vet{UserID: uuid.New(), ClinicID: uuid.New()}
	if err := f.vets.Create(ctx, foreignVet); err != nil {
		t.Fatal(err)
	}

	base := ConfirmRequest{VetID: f.vetID, PetID: f.petID, Start: at(10, 0), End: at(10, 30)}

	req := base
	req.PetID = otherPet.ID
	if _, err := f.svc.Confirm(ctx, f.ownerID, f.clinicID, req); !errors.Is(err, ErrNotFound) {
		t.Errorf("someone else's pet: expected ErrNotFound, got %v", err)
	}

	req = base
	req.VetID = foreignVet.ID
	if _, err := f.svc.Confirm(ctx, f.ownerID, f.clinicID, req); !errors.Is(err, ErrNotFound) {
		t.Errorf("vet from another clinic: expected ErrNotFound, got %v", err)
	}

	if _, err := f.svc.Confirm(ctx, f.ownerID, uuid.New(), base); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown clinic: expected ErrNotFound, got %v", err)
	}
}

func TestRestoreReChecksCollision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Confirm(ctx, f.ownerID, f.clinicID, ConfirmRequest{
		VetID: f.vetID, PetID: f.petID, Start: at(10, 0), End: at(10, 30),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Cancel(ctx, f.ownerID, first.ID); err != nil {
		t.Fatal(err)
	}

	// another booking takes the freed window
	if _, err := f.svc.Confirm(ctx, f.ownerID, f.clinicID, ConfirmRequest{
		VetID: f.vetID, PetID: f.petID, Start: at(10, 0), End: at(10, 30),
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.Restore(ctx, f.ownerID, first.ID); !errors.Is(err, ErrSlotTaken) {
		t.Errorf("expected ErrSlotTaken on restore into taken window, got %v", err)
	}
}

func TestRestoreSucceedsWhenFree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt, err := f.svc.Confirm(ctx, f.ownerID, f.clinicID, ConfirmRequest{
		VetID: f.vetID, PetID: f.petID, Start: at(10, 0), End: at(10, 30),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Cancel(ctx, f.ownerID, appt.ID); err != nil {
		t.Fatal(err)
	}

	restored, err := f.svc.Restore(ctx, f.ownerID, appt.ID)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.Status != StatusNew {
		t.Errorf("status = %q, want NEW", restored.Status)
	}
}

func TestRestoreRequiresCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt, err := f.svc.Confirm(ctx, f.ownerID, f.clinicID, ConfirmRequest{
		VetID: f.vetID, PetID: f.petID, Start: at(10, 0), End: at(10, 30),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Restore(ctx, f.ownerID, appt.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestCancelForeignAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt, err := f.svc.Confirm(ctx, f.ownerID, f.clinicID, ConfirmRequest{
		VetID: f.vetID, PetID: f.petID, Start: at(10, 0), End: at(10, 30),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Cancel(ctx, uuid.New(), appt.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign cancel, got %v", err)
	}
}

func TestCalendarRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := uuid.New()

	if _, err := f.svc.Calendar(ctx, admin, f.clinicID, monday); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for non-admin, got %v", err)
	}

	if err := f.clinics.AddAdmin(ctx, admin, f.clinicID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Calendar(ctx, admin, f.clinicID, monday); err != nil {
		t.Errorf("admin Calendar: %v", err)
	}
}

func TestPreviewEchoesWithoutValidation(t *testing.T) {
	f := newFixture(t)

	p, err := f.svc.PreviewBooking(context.Background(), f.ownerID, "whatever", "not-a-time", "")
	if err != nil {
		t.Fatalf("PreviewBooking: %v", err)
	}
	if p.VetID != "whatever" || p.Start != "not-a-time" {
		t.Error("preview should echo inputs untouched")
	}
	if len(p.Pets) != 1 || p.Pets[0].Name != "Rex" {
		t.Errorf("expected the caller's pets in the preview, got %v", p.Pets)
	}
}

type failingClinicRepo struct {
	clinic.ClinicRepository
}

func (f *failingClinicRepo) GetByID(context.Context, uuid.UUID) (*clinic.Clinic, error) {
	return nil, errors.New("connection refused")
}

func TestRepoFailureIsNotMissingClinic(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.appts, &failingClinicRepo{f.clinics}, f.vets, f.hours,
		f.exceptions, f.pets, warsaw, 30*time.Minute, nil)
	ctx := context.Background()

	_, err := svc.ComputeAvailability(ctx, f.clinicID, monday)
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("a repository failure must not surface as a missing clinic: %v", err)
	}

	_, err = svc.Confirm(ctx, f.ownerID, f.clinicID, ConfirmRequest{
		VetID: f.vetID, PetID: f.petID, Start: at(10, 0), End: at(10, 30),
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("confirm: repository failure surfaced as not found: %v", err)
	}
}
