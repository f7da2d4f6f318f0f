package booking

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses.
const (
	StatusNew       = "NEW"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

// Appointment maps to the appointments table. ends_at is exclusive.
type Appointment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ClinicID  uuid.UUID `db:"clinic_id" json:"clinic_id"`
	VetID     uuid.UUID `db:"vet_id" json:"vet_id"`
	OwnerID   uuid.UUID `db:"owner_id" json:"owner_id"`
	PetID     uuid.UUID `db:"pet_id" json:"pet_id"`
	StartsAt  time.Time `db:"starts_at" json:"starts_at"`
	EndsAt    time.Time `db:"ends_at" json:"ends_at"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AvailableSlot is one bookable window offered to the client. The vet id
// travels with the slot so confirmation targets the right calendar.
type AvailableSlot struct {
	VetID uuid.UUID `json:"vet_id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Interval is an occupied stretch of a vet's calendar.
type Interval struct {
	Start time.Time
	End   time.Time
}
