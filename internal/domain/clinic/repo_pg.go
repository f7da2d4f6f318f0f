package clinic

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

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

// =========== Clinic Repository ===========

type clinicRepoPG struct{ pool *pgxpool.Pool }

func NewClinicRepoPG(pool *pgxpool.Pool) ClinicRepository { return &clinicRepoPG{pool: pool} }

const clinicCols = `id, name, city, address, created_at, updated_at`

func scanClinic(row pgx.Row) (*Clinic, error) {
	var c Clinic
	err := row.Scan(&c.ID, &c.Name, &c.City, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *clinicRepoPG) Create(ctx context.Context, c *Clinic) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO clinics (id, name, city, address)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at`,
		c.ID, c.Name, c.City, c.Address).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *clinicRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	c, err := scanClinic(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+clinicCols+` FROM clinics WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *clinicRepoPG) Update(ctx context.Context, c *Clinic) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE clinics SET name=$2, city=$3, address=$4, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.Name, c.City, c.Address)
	return err
}

func (r *clinicRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM clinics WHERE id = $1`, id)
	return err
}

func (r *clinicRepoPG) List(ctx context.Context, limit, offset int) ([]*Clinic, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM clinics`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+clinicCols+` FROM clinics ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Clinic
	for rows.Next() {
		c, err := scanClinic(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

func (r *clinicRepoPG) AddAdmin(ctx context.Context, userID, clinicID uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO clinic_admins (user_id, clinic_id) VALUES ($1,$2)
		ON CONFLICT (user_id, clinic_id) DO NOTHING`,
		userID, clinicID)
	return err
}

func (r *clinicRepoPG) IsAdmin(ctx context.Context, userID, clinicID uuid.UUID) (bool, error) {
	var ok bool
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM clinic_admins WHERE user_id = $1 AND clinic_id = $2)`,
		userID, clinicID).Scan(&ok)
	return ok, err
}

// =========== Vet Repository ===========

type vetRepoPG struct{ pool *pgxpool.Pool }

func NewVetRepoPG(pool *pgxpool.Pool) VetRepository { return &vetRepoPG{pool: pool} }

const vetCols = `id, user_id, clinic_id, title, created_at, updated_at`

func scanVet(row pgx.Row) (*Vet, error) {
	var v Vet
	err := row.Scan(&v.ID, &v.UserID, &v.ClinicID, &v.Title, &v.CreatedAt, &v.UpdatedAt)
	return &v, err
}

func (r *vetRepoPG) Create(ctx context.Context, v *Vet) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO vets (id, user_id, clinic_id, title)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at`,
		v.ID, v.UserID, v.ClinicID, v.Title).Scan(&v.CreatedAt, &v.UpdatedAt)
}

func (r *vetRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Vet, error) {
	v, err := scanVet(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+vetCols+` FROM vets WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *vetRepoPG) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*Vet, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+vetCols+` FROM vets WHERE clinic_id = $1 ORDER BY created_at`, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Vet
	for rows.Next() {
		v, err := scanVet(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

func (r *vetRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM vets WHERE id = $1`, id)
	return err
}

// =========== Hours Repository ===========

type hoursRepoPG struct{ pool *pgxpool.Pool }

func NewHoursRepoPG(pool *pgxpool.Pool) HoursRepository { return &hoursRepoPG{pool: pool} }

func scanRules(rows pgx.Rows) ([]*HourRule, error) {
	defer rows.Close()
	var items []*HourRule
	for rows.Next() {
		var r HourRule
		if err := rows.Scan(&r.ID, &r.Weekday, &r.StartTime, &r.EndTime); err != nil {
			return nil, err
		}
		items = append(items, &r)
	}
	return items, rows.Err()
}

func (r *hoursRepoPG) UpsertClinicRule(ctx context.Context, clinicID uuid.UUID, rule *HourRule) error {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO clinic_hours (id, clinic_id, weekday, start_time, end_time)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (clinic_id, weekday, start_time, end_time) DO NOTHING`,
		rule.ID, clinicID, rule.Weekday, rule.StartTime, rule.EndTime)
	return err
}

func (r *hoursRepoPG) ListClinicRules(ctx context.Context, clinicID uuid.UUID) ([]*HourRule, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, weekday, start_time, end_time FROM clinic_hours
		WHERE clinic_id = $1 ORDER BY weekday, start_time`, clinicID)
	if err != nil {
		return nil, err
	}
	return scanRules(rows)
}

func (r *hoursRepoPG) ListClinicRulesForWeekday(ctx context.Context, clinicID uuid.UUID, weekday int) ([]*HourRule, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, weekday, start_time, end_time FROM clinic_hours
		WHERE clinic_id = $1 AND weekday = $2 ORDER BY start_time`, clinicID, weekday)
	if err != nil {
		return nil, err
	}
	return scanRules(rows)
}

func (r *hoursRepoPG) DeleteClinicRule(ctx context.Context, clinicID, ruleID uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM clinic_hours WHERE id = $1 AND clinic_id = $2`, ruleID, clinicID)
	return err
}

func (r *hoursRepoPG) UpsertVetRule(ctx context.Context, vetID uuid.UUID, rule *HourRule) error {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO vet_hours (id, vet_id, weekday, start_time, end_time)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (vet_id, weekday, start_time, end_time) DO NOTHING`,
		rule.ID, vetID, rule.Weekday, rule.StartTime, rule.EndTime)
	return err
}

func (r *hoursRepoPG) ListVetRules(ctx context.Context, vetID uuid.UUID) ([]*HourRule, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, weekday, start_time, end_time FROM vet_hours
		WHERE vet_id = $1 ORDER BY weekday, start_time`, vetID)
	if err != nil {
		return nil, err
	}
	return scanRules(rows)
}

func (r *hoursRepoPG) ListVetRulesForWeekday(ctx context.Context, vetID uuid.UUID, weekday int) ([]*HourRule, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, weekday, start_time, end_time FROM vet_hours
		WHERE vet_id = $1 AND weekday = $2 ORDER BY start_time`, vetID, weekday)
	if err != nil {
		return nil, err
	}
	return scanRules(rows)
}

func (r *hoursRepoPG) DeleteVetRule(ctx context.Context, vetID, ruleID uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM vet_hours WHERE id = $1 AND vet_id = $2`, ruleID, vetID)
	return err
}

// =========== Exception Repository ===========

type exceptionRepoPG struct{ pool *pgxpool.Pool }

func NewExceptionRepoPG(pool *pgxpool.Pool) ExceptionRepository { return &exceptionRepoPG{pool: pool} }

const exceptionCols = `id, entity_type, entity_id, date, closed, start_time, end_time, created_at, updated_at`

func scanException(row pgx.Row) (*Exception, error) {
	var e Exception
	err := row.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Date, &e.Closed,
		&e.StartTime, &e.EndTime, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *exceptionRepoPG) Upsert(ctx context.Context, e *Exception) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO availability_exceptions (id, entity_type, entity_id, date, closed, start_time, end_time)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (entity_type, entity_id, date) DO UPDATE
		SET closed = EXCLUDED.closed, start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time, updated_at = NOW()
		RETURNING id, created_at, updated_at`,
		e.ID, e.EntityType, e.EntityID, e.Date, e.Closed, e.StartTime, e.EndTime).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// Get returns nil without error when no exception exists for the date.
func (r *exceptionRepoPG) Get(ctx context.Context, entityType string, entityID uuid.UUID, date time.Time) (*Exception, error) {
	e, err := scanException(conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+exceptionCols+` FROM availability_exceptions
		WHERE entity_type = $1 AND entity_id = $2 AND date = $3`,
		entityType, entityID, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *exceptionRepoPG) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*Exception, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+exceptionCols+` FROM availability_exceptions
		WHERE entity_type = $1 AND entity_id = $2 ORDER BY date`, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Exception
	for rows.Next() {
		e, err := scanException(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *exceptionRepoPG) Delete(ctx context.Context, entityType string, entityID uuid.UUID, date time.Time) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		DELETE FROM availability_exceptions
		WHERE entity_type = $1 AND entity_id = $2 AND date = $3`,
		entityType, entityID, date)
	return err
}
