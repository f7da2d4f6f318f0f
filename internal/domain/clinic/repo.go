package clinic

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by GetByID lookups when no row exists, so
// callers can tell a missing clinic or vet apart from a database failure.
var ErrNotFound = errors.New("not found")

type ClinicRepository interface {
	Create(ctx context.Context, c *Clinic) error
	GetByID(ctx context.Context, id uuid.UUID) (*Clinic, error)
	Update(ctx context.Context, c *Clinic) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Clinic, int, error)
	AddAdmin(ctx context.Context, userID, clinicID uuid.UUID) error
	IsAdmin(ctx context.Context, userID, clinicID uuid.UUID) (bool, error)
}

type VetRepository interface {
	Create(ctx context.Context, v *Vet) error
	GetByID(ctx context.Context, id uuid.UUID) (*Vet, error)
	ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*Vet, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type HoursRepository interface {
	UpsertClinicRule(ctx context.Context, clinicID uuid.UUID, r *HourRule) error
	ListClinicRules(ctx context.Context, clinicID uuid.UUID) ([]*HourRule, error)
	ListClinicRulesForWeekday(ctx context.Context, clinicID uuid.UUID, weekday int) ([]*HourRule, error)
	DeleteClinicRule(ctx context.Context, clinicID, ruleID uuid.UUID) error

	UpsertVetRule(ctx context.Context, vetID uuid.UUID, r *HourRule) error
	ListVetRules(ctx context.Context, vetID uuid.UUID) ([]*HourRule, error)
	ListVetRulesForWeekday(ctx context.Context, vetID uuid.UUID, weekday int) ([]*HourRule, error)
	DeleteVetRule(ctx context.Context, vetID, ruleID uuid.UUID) error
}

type ExceptionRepository interface {
	Upsert(ctx context.Context, e *Exception) error
	Get(ctx context.Context, entityType string, entityID uuid.UUID, date time.Time) (*Exception, error)
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*Exception, error)
	Delete(ctx context.Context, entityType string, entityID uuid.UUID, date time.Time) error
}
