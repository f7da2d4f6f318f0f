package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	// Create inserts the appointment. A colliding non-cancelled booking for
	// the same vet yields ErrSlotTaken.
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	// ListBusyByClinic returns non-cancelled appointments of the clinic
	// intersecting [from, to), keyed by vet.
	ListBusyByClinic(ctx context.Context, clinicID uuid.UUID, from, to time.Time) (map[uuid.UUID][]Interval, error)
	// VetHasOverlap reports whether any non-cancelled booking of the vet
	// intersects [start, end), ignoring the appointment with exclude id.
	VetHasOverlap(ctx context.Context, vetID uuid.UUID, start, end time.Time, exclude uuid.UUID) (bool, error)
	// UpdateStatus changes the status. Reviving a booking into a now-taken
	// window yields ErrSlotTaken.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ListByClinicDay(ctx context.Context, clinicID uuid.UUID, from, to time.Time) ([]*Appointment, error)
}
