package clinic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/petnav/petnav/pkg/timeslot"
)

// ErrNotAdmin is returned when a caller manages a clinic they do not
// administer.
var ErrNotAdmin = fmt.Errorf("caller does not administer this clinic")

type Service struct {
	clinics    ClinicRepository
	vets       VetRepository
	hours      HoursRepository
	exceptions ExceptionRepository
}

func NewService(clinics ClinicRepository, vets VetRepository, hours HoursRepository, exceptions ExceptionRepository) *Service {
	return &Service{clinics: clinics, vets: vets, hours: hours, exceptions: exceptions}
}

// RequireAdmin checks the caller against the clinic_admins relation.
func (s *Service) RequireAdmin(ctx context.Context, userID, clinicID uuid.UUID) error {
	ok, err := s.clinics.IsAdmin(ctx, userID, clinicID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAdmin
	}
	return nil
}

// -- Clinic --

func (s *Service) CreateClinic(ctx context.Context, adminID uuid.UUID, c *Clinic) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if err := s.clinics.Create(ctx, c); err != nil {
		return err
	}
	return s.clinics.AddAdmin(ctx, adminID, c.ID)
}

func (s *Service) GetClinic(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	return s.clinics.GetByID(ctx, id)
}

func (s *Service) UpdateClinic(ctx context.Context, adminID uuid.UUID, c *Clinic) error {
	if err := s.RequireAdmin(ctx, adminID, c.ID); err != nil {
		return err
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return s.clinics.Update(ctx, c)
}

func (s *Service) DeleteClinic(ctx context.Context, adminID, id uuid.UUID) error {
	if err := s.RequireAdmin(ctx, adminID, id); err != nil {
		return err
	}
	return s.clinics.Delete(ctx, id)
}

func (s *Service) ListClinics(ctx context.Context, limit, offset int) ([]*Clinic, int, error) {
	return s.clinics.List(ctx, limit, offset)
}

// -- Vet --

func (s *Service) AddVet(ctx context.Context, adminID uuid.UUID, v *Vet) error {
	if v.ClinicID == uuid.Nil {
		return fmt.Errorf("clinic_id is required")
	}
	if v.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}
	if err := s.RequireAdmin(ctx, adminID, v.ClinicID); err != nil {
		return err
	}
	return s.vets.Create(ctx, v)
}

func (s *Service) GetVet(ctx context.Context, id uuid.UUID) (*Vet, error) {
	return s.vets.GetByID(ctx, id)
}

func (s *Service) ListVets(ctx context.Context, clinicID uuid.UUID) ([]*Vet, error) {
	return s.vets.ListByClinic(ctx, clinicID)
}

func (s *Service) RemoveVet(ctx context.Context, adminID, vetID uuid.UUID) error {
	v, err := s.vets.GetByID(ctx, vetID)
	if err != nil {
		return err
	}
	if err := s.RequireAdmin(ctx, adminID, v.ClinicID); err != nil {
		return err
	}
	return s.vets.Delete(ctx, vetID)
}

// -- Hours --

func validateRule(r *HourRule) error {
	if r.Weekday < 0 || r.Weekday > 6 {
		return fmt.Errorf("weekday must be 0..6 (0 = Monday)")
	}
	start, err := timeslot.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return fmt.Errorf("start_time: %w", err)
	}
	end, err := timeslot.ParseTimeOfDay(r.EndTime)
	if err != nil {
		return fmt.Errorf("end_time: %w", err)
	}
	if !start.Before(end) {
		return fmt.Errorf("start_time must be before end_time")
	}
	return nil
}

func (s *Service) SetClinicRule(ctx context.Context, adminID, clinicID uuid.UUID, r *HourRule) error {
	if err := s.RequireAdmin(ctx, adminID, clinicID); err != nil {
		return err
	}
	if err := validateRule(r); err != nil {
		return err
	}
	return s.hours.UpsertClinicRule(ctx, clinicID, r)
}

func (s *Service) ListClinicRules(ctx context.Context, clinicID uuid.UUID) ([]*HourRule, error) {
	return s.hours.ListClinicRules(ctx, clinicID)
}

func (s *Service) DeleteClinicRule(ctx context.Context, adminID, clinicID, ruleID uuid.UUID) error {
	if err := s.RequireAdmin(ctx, adminID, clinicID); err != nil {
		return err
	}
	return s.hours.DeleteClinicRule(ctx, clinicID, ruleID)
}

func (s *Service) SetVetRule(ctx context.Context, adminID, vetID uuid.UUID, r *HourRule) error {
	v, err := s.vets.GetByID(ctx, vetID)
	if err != nil {
		return err
	}
	if err := s.RequireAdmin(ctx, adminID, v.ClinicID); err != nil {
		return err
	}
	if err := validateRule(r); err != nil {
		return err
	}
	return s.hours.UpsertVetRule(ctx, vetID, r)
}

func (s *Service) ListVetRules(ctx context.Context, vetID uuid.UUID) ([]*HourRule, error) {
	return s.hours.ListVetRules(ctx, vetID)
}

func (s *Service) DeleteVetRule(ctx context.Context, adminID, vetID, ruleID uuid.UUID) error {
	v, err := s.vets.GetByID(ctx, vetID)
	if err != nil {
		return err
	}
	if err := s.RequireAdmin(ctx, adminID, v.ClinicID); err != nil {
		return err
	}
	return s.hours.DeleteVetRule(ctx, vetID, ruleID)
}

// -- Exceptions --

func (s *Service) validateException(e *Exception) error {
	switch e.EntityType {
	case EntityClinic, EntityVet:
	default:
		return fmt.Errorf("invalid entity_type: %s", e.EntityType)
	}
	if e.Closed {
		// a closed day carries no override window
		e.StartTime = nil
		e.EndTime = nil
		return nil
	}
	if e.Kind() == ExceptionOverride {
		if _, _, ok := e.OverrideWindow(); !ok {
			return fmt.Errorf("override window must be well-formed with start before end")
		}
	}
	return nil
}

func (s *Service) entityClinicID(ctx context.Context, e *Exception) (uuid.UUID, error) {
	if e.EntityType == EntityVet {
		v, err := s.vets.GetByID(ctx, e.EntityID)
		if err != nil {
			return uuid.Nil, err
		}
		return v.ClinicID, nil
	}
	return e.EntityID, nil
}

func (s *Service) SetException(ctx context.Context, adminID uuid.UUID, e *Exception) error {
	if err := s.validateException(e); err != nil {
		return err
	}
	clinicID, err := s.entityClinicID(ctx, e)
	if err != nil {
		return err
	}
	if err := s.RequireAdmin(ctx, adminID, clinicID); err != nil {
		return err
	}
	e.Date = e.Date.Truncate(24 * time.Hour)
	return s.exceptions.Upsert(ctx, e)
}

func (s *Service) ListExceptions(ctx context.Context, entityType string, entityID uuid.UUID) ([]*Exception, error) {
	return s.exceptions.ListByEntity(ctx, entityType, entityID)
}

func (s *Service) DeleteException(ctx context.Context, adminID uuid.UUID, e *Exception) error {
	clinicID, err := s.entityClinicID(ctx, e)
	if err != nil {
		return err
	}
	if err := s.RequireAdmin(ctx, adminID, clinicID); err != nil {
		return err
	}
	return s.exceptions.Delete(ctx, e.EntityType, e.EntityID, e.Date)
}
