package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petnav/petnav/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type apptRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository { return &apptRepoPG{pool: pool} }

func (r *apptRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const apptCols = `id, clinic_id, vet_id, owner_id, pet_id, starts_at, ends_at, status, created_at, updated_at`

func scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.ClinicID, &a.VetID, &a.OwnerID, &a.PetID,
		&a.StartsAt, &a.EndsAt, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

// exclusionViolation is Postgres SQLSTATE 23P01, raised by the gist
// exclusion constraint on overlapping vet bookings.
func exclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}

func (r *apptRepoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (id, clinic_id, vet_id, owner_id, pet_id, starts_at, ends_at, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		a.ID, a.ClinicID, a.VetID, a.OwnerID, a.PetID, a.StartsAt, a.EndsAt, a.Status).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	if exclusionViolation(err) {
		return ErrSlotTaken
	}
	return err
}

func (r *apptRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := scanAppt(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *apptRepoPG) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointments
		WHERE owner_id = $1 ORDER BY starts_at DESC LIMIT $2 OFFSET $3`,
		ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppt(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *apptRepoPG) ListBusyByClinic(ctx context.Context, clinicID uuid.UUID, from, to time.Time) (map[uuid.UUID][]Interval, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT vet_id, starts_at, ends_at FROM appointments
		WHERE clinic_id = $1 AND status <> $2
		  AND starts_at < $3 AND ends_at > $4`,
		clinicID, StatusCancelled, to, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	busy := make(map[uuid.UUID][]Interval)
	for rows.Next() {
		var vetID uuid.UUID
		var iv Interval
		if err := rows.Scan(&vetID, &iv.Start, &iv.End); err != nil {
			return nil, err
		}
		busy[vetID] = append(busy[vetID], iv)
	}
	return busy, rows.Err()
}

func (r *apptRepoPG) VetHasOverlap(ctx context.Context, vetID uuid.UUID, start, end time.Time, exclude uuid.UUID) (bool, error) {
	var found bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE vet_id = $1 AND status <> $2 AND id <> $3
			  AND starts_at < $4 AND ends_at > $5
		)`,
		vetID, StatusCancelled, exclude, end, start).Scan(&found)
	return found, err
}

func (r *apptRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status)
	if exclusionViolation(err) {
		return ErrSlotTaken
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *apptRepoPG) ListByClinicDay(ctx context.Context, clinicID uuid.UUID, from, to time.Time) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointments
		WHERE clinic_id = $1 AND starts_at < $2 AND ends_at > $3
		ORDER BY starts_at`,
		clinicID, to, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppt(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
