package clinic

import (
	"time"

	"github.com/google/uuid"

	"github.com/petnav/petnav/pkg/timeslot"
)

// Clinic maps to the clinics table.
type Clinic struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	City      string    `db:"city" json:"city"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Vet maps to the vets table.
type Vet struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	ClinicID  uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// HourRule is one recurring weekly opening window, either for a clinic or a
// vet. Weekday runs 0..6 with Monday as 0. Times are "HH:MM".
type HourRule struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Weekday   int       `db:"weekday" json:"weekday"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
}

// Window parses the rule into concrete times of day. An inverted or
// malformed rule yields ok=false and contributes nothing to availability.
func (r HourRule) Window() (start, end timeslot.TimeOfDay, ok bool) {
	start, err := timeslot.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return start, end, false
	}
	end, err = timeslot.ParseTimeOfDay(r.EndTime)
	if err != nil {
		return start, end, false
	}
	return start, end, start.Before(end)
}

// Exception entity types.
const (
	EntityClinic = "CLINIC"
	EntityVet    = "VET"
)

// ExceptionKind is the resolved meaning of an exception row.
type ExceptionKind int

const (
	// ExceptionNoop carries neither a closure nor a usable override window.
	ExceptionNoop ExceptionKind = iota
	// ExceptionClosed marks the whole day closed.
	ExceptionClosed
	// ExceptionOverride replaces or clips the day's windows.
	ExceptionOverride
)

// Exception maps to the availability_exceptions table. At most one row
// exists per (entity_type, entity_id, date).
type Exception struct {
	ID         uuid.UUID `db:"id" json:"id"`
	EntityType string    `db:"entity_type" json:"entity_type"`
	EntityID   uuid.UUID `db:"entity_id" json:"entity_id"`
	Date       time.Time `db:"date" json:"date"`
	Closed     bool      `db:"closed" json:"closed"`
	StartTime  *string   `db:"start_time" json:"start_time,omitempty"`
	EndTime    *string   `db:"end_time" json:"end_time,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Kind classifies the exception. Closed wins over any override times.
func (e *Exception) Kind() ExceptionKind {
	if e == nil {
		return ExceptionNoop
	}
	if e.Closed {
		return ExceptionClosed
	}
	if e.StartTime != nil && e.EndTime != nil && *e.StartTime != "" && *e.EndTime != "" {
		return ExceptionOverride
	}
	return ExceptionNoop
}

// OverrideWindow parses the override times. ok is false unless Kind() is
// ExceptionOverride with a non-inverted, well-formed window.
func (e *Exception) OverrideWindow() (start, end timeslot.TimeOfDay, ok bool) {
	if e.Kind() != ExceptionOverride {
		return start, end, false
	}
	start, err := timeslot.ParseTimeOfDay(*e.StartTime)
	if err != nil {
		return start, end, false
	}
	end, err = timeslot.ParseTimeOfDay(*e.EndTime)
	if err != nil {
		return start, end, false
	}
	return start, end, start.Before(end)
}
