package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/petnav/petnav/internal/domain/clinic"
	"github.com/petnav/petnav/internal/domain/pet"
	"github.com/petnav/petnav/pkg/timeslot"
)

// TxRunner runs fn atomically. The production wiring delegates to
// db.WithTx so repository calls inside fn share one transaction.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	appts      AppointmentRepository
	clinics    clinic.ClinicRepository
	vets       clinic.VetRepository
	hours      clinic.HoursRepository
	exceptions clinic.ExceptionRepository
	pets       pet.Repository

	loc  *time.Location
	step time.Duration
	tx   TxRunner
}

func NewService(
	appts AppointmentRepository,
	clinics clinic.ClinicRepository,
	vets clinic.VetRepository,
	hours clinic.HoursRepository,
	exceptions clinic.ExceptionRepository,
	pets pet.Repository,
	loc *time.Location,
	step time.Duration,
	tx TxRunner,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if step <= 0 {
		step = 30 * time.Minute
	}
	if tx == nil {
		tx = func(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
	}
	return &Service{
		appts: appts, clinics: clinics, vets: vets, hours: hours,
		exceptions: exceptions, pets: pets,
		loc: loc, step: step, tx: tx,
	}
}

// Location returns the clinic-local timezone availability is computed in.
func (s *Service) Location() *time.Location { return s.loc }

// ComputeAvailability resolves every vet's bookable slots at the clinic for
// one calendar date, ascending by start time.
func (s *Service) ComputeAvailability(ctx context.Context, clinicID uuid.UUID, date time.Time) ([]AvailableSlot, error) {
	if _, err := s.clinics.GetByID(ctx, clinicID); err != nil {
		if errors.Is(err, clinic.ErrNotFound) {
			return nil, fmt.Errorf("%w: clinic", ErrNotFound)
		}
		return nil, err
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.loc)
	dayEnd := day.AddDate(0, 0, 1)

	clinicExc, err := s.exceptions.Get(ctx, clinic.EntityClinic, clinicID, day)
	if err != nil {
		return nil, err
	}
	if clinicExc.Kind() == clinic.ExceptionClosed {
		return []AvailableSlot{}, nil
	}

	weekday := timeslot.WeekdayIndex(day)
	clinicRules, err := s.hours.ListClinicRulesForWeekday(ctx, clinicID, weekday)
	if err != nil {
		return nil, err
	}
	vets, err := s.vets.ListByClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	// bookings may cross midnight, so intersect by range rather than date
	busy, err := s.appts.ListBusyByClinic(ctx, clinicID, day, dayEnd)
	if err != nil {
		return nil, err
	}

	slots := []AvailableSlot{}
	for _, v := range vets {
		vetExc, err := s.exceptions.Get(ctx, clinic.EntityVet, v.ID, day)
		if err != nil {
			return nil, err
		}
		vetRules, err := s.hours.ListVetRulesForWeekday(ctx, v.ID, weekday)
		if err != nil {
			return nil, err
		}

		windows := ResolveWindows(day, s.loc, clinicExc, vetExc, clinicRules, vetRules)
		free := FilterBusy(ExpandWindows(windows, s.step), busy[v.ID])
		for _, sl := range free {
			slots = append(slots, AvailableSlot{VetID: v.ID, Start: sl.Start, End: sl.End})
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].Start.Equal(slots[j].Start) {
			return slots[i].Start.Before(slots[j].Start)
		}
		return slots[i].VetID.String() < slots[j].VetID.String()
	})
	return slots, nil
}

// Preview is an advisory echo of a chosen window alongside the caller's
// pets; nothing is checked or reserved.
type Preview struct {
	VetID string     `json:"vet_id"`
	Start string     `json:"start"`
	End   string     `json:"end"`
	Pets  []*pet.Pet `json:"pets"`
}

func (s *Service) PreviewBooking(ctx context.Context, ownerID uuid.UUID, vetID, start, end string) (*Preview, error) {
	if ownerID == uuid.Nil {
		return &Preview{VetID: vetID, Start: start, End: end, Pets: []*pet.Pet{}}, nil
	}
	pets, err := s.pets.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if pets == nil {
		pets = []*pet.Pet{}
	}
	return &Preview{VetID: vetID, Start: start, End: end, Pets: pets}, nil
}

// ConfirmRequest carries a booking confirmation.
type ConfirmRequest struct {
	VetID uuid.UUID
	PetID uuid.UUID
	Start time.Time
	End   time.Time
}

// Confirm books the window for the caller's pet. The in-transaction overlap
// re-check catches most races; the database exclusion constraint on vet
// bookings is the serializing backstop, surfacing as ErrSlotTaken either way.
func (s *Service) Confirm(ctx context.Context, ownerID, clinicID uuid.UUID, req ConfirmRequest) (*Appointment, error) {
	if req.VetID == uuid.Nil || req.PetID == uuid.Nil {
		return nil, fmt.Errorf("%w: vet_id and pet_id are required", ErrValidation)
	}
	if req.Start.IsZero() || req.End.IsZero() || !req.Start.Before(req.End) {
		return nil, fmt.Errorf("%w: start must be before end", ErrValidation)
	}

	if _, err := s.clinics.GetByID(ctx, clinicID); err != nil {
		if errors.Is(err, clinic.ErrNotFound) {
			return nil, fmt.Errorf("%w: clinic", ErrNotFound)
		}
		return nil, err
	}
	v, err := s.vets.GetByID(ctx, req.VetID)
	switch {
	case errors.Is(err, clinic.ErrNotFound):
		return nil, fmt.Errorf("%w: vet", ErrNotFound)
	case err != nil:
		return nil, err
	case v.ClinicID != clinicID:
		return nil, fmt.Errorf("%w: vet", ErrNotFound)
	}
	p, err := s.pets.GetByID(ctx, req.PetID)
	switch {
	case errors.Is(err, pet.ErrNotFound):
		return nil, fmt.Errorf("%w: pet", ErrNotFound)
	case err != nil:
		return nil, err
	case p.OwnerID != ownerID:
		return nil, fmt.Errorf("%w: pet", ErrNotFound)
	}

	appt := &Appointment{
		ClinicID: clinicID,
		VetID:    req.VetID,
		OwnerID:  ownerID,
		PetID:    req.PetID,
		StartsAt: req.Start,
		EndsAt:   req.End,
		Status:   StatusNew,
	}
	err = s.tx(ctx, func(ctx context.Context) error {
		taken, err := s.appts.VetHasOverlap(ctx, req.VetID, req.Start, req.End, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotTaken
		}
		return s.appts.Create(ctx, appt)
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *Service) ListMine(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.ListByOwner(ctx, ownerID, limit, offset)
}

func (s *Service) Cancel(ctx context.Context, ownerID, apptID uuid.UUID) (*Appointment, error) {
	a, err := s.appts.GetByID(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if a.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	if a.Status == StatusCancelled {
		return a, nil
	}
	if err := s.appts.UpdateStatus(ctx, apptID, StatusCancelled); err != nil {
		return nil, err
	}
	a.Status = StatusCancelled
	return a, nil
}

// Restore undoes a cancellation. The window may have been taken in the
// meantime, so the collision check runs again.
func (s *Service) Restore(ctx context.Context, ownerID, apptID uuid.UUID) (*Appointment, error) {
	a, err := s.appts.GetByID(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if a.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	if a.Status != StatusCancelled {
		return nil, fmt.Errorf("%w: appointment is not cancelled", ErrValidation)
	}

	err = s.tx(ctx, func(ctx context.Context) error {
		taken, err := s.appts.VetHasOverlap(ctx, a.VetID, a.StartsAt, a.EndsAt, a.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotTaken
		}
		return s.appts.UpdateStatus(ctx, apptID, StatusNew)
	})
	if err != nil {
		return nil, err
	}
	a.Status = StatusNew
	return a, nil
}

// Calendar lists the clinic's appointments intersecting the date, for the
// clinic's admins.
func (s *Service) Calendar(ctx context.Context, adminID, clinicID uuid.UUID, date time.Time) ([]*Appointment, error) {
	ok, err := s.clinics.IsAdmin(ctx, adminID, clinicID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: clinic", ErrNotFound)
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.loc)
	return s.appts.ListByClinicDay(ctx, clinicID, day, day.AddDate(0, 0, 1))
}
