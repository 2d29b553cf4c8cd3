package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/slotify-dev/booking-platform/internal/catalog"
)

const pgUniqueViolation = "23505"

// DB is the subset of pgxpool.Pool the repository uses. pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgRepository struct {
	db DB
}

func NewPgRepository(db DB) *PgRepository {
	return &PgRepository{db: db}
}

// Helpers

const appointmentColumns = `id, customer_id, business_id, service_id, date_time, status, created_at`

const detailColumns = `a.id, a.customer_id, a.business_id, a.service_id, a.date_time, a.status, a.created_at,
	       u.name, u.email, b.name, b.owner_id, s.name, s.duration_minutes`

const detailJoins = `FROM appointments a
	JOIN users u ON u.id = a.customer_id
	JOIN businesses b ON b.id = a.business_id
	JOIN services s ON s.id = a.service_id`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.CustomerID,
		&a.BusinessID,
		&a.ServiceID,
		&a.DateTime,
		&a.Status,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.DateTime = a.DateTime.UTC()
	return &a, nil
}

func scanDetail(row pgx.Row) (*Detail, error) {
	var d Detail

	err := row.Scan(
		&d.ID,
		&d.CustomerID,
		&d.BusinessID,
		&d.ServiceID,
		&d.DateTime,
		&d.Status,
		&d.CreatedAt,
		&d.CustomerName,
		&d.CustomerEmail,
		&d.BusinessName,
		&d.BusinessOwnerID,
		&d.ServiceName,
		&d.ServiceDuration,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	d.DateTime = d.DateTime.UTC()
	return &d, nil
}

func (r *PgRepository) collectDetails(ctx context.Context, query string, args ...any) ([]Detail, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Detail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Catalog lookups

func (r *PgRepository) GetBusinessByID(ctx context.Context, id uuid.UUID) (*catalog.Business, error) {
	var b catalog.Business
	err := r.db.QueryRow(ctx, `
		SELECT id, owner_id, name, description, location, created_at
		FROM businesses
		WHERE id = $1
	`, id).Scan(&b.ID, &b.OwnerID, &b.Name, &b.Description, &b.Location, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrBusinessNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PgRepository) GetServiceByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	var s catalog.Service
	err := r.db.QueryRow(ctx, `
		SELECT id, business_id, name, duration_minutes, price, created_at
		FROM services
		WHERE id = $1
	`, id).Scan(&s.ID, &s.BusinessID, &s.Name, &s.DurationMinutes, &s.Price, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrServiceNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Appointments

func (r *PgRepository) GetDetailByID(ctx context.Context, id uuid.UUID) (*Detail, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+detailColumns+`
		`+detailJoins+`
		WHERE a.id = $1
	`, id)
	return scanDetail(row)
}

func (r *PgRepository) ExistsActiveAppointment(ctx context.Context, businessID uuid.UUID, at time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE business_id = $1 AND date_time = $2 AND status <> 'CANCELLED'
		)
	`, businessID, at).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PgRepository) CreatePending(ctx context.Context, customerID, businessID, serviceID uuid.UUID, at time.Time) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO appointments (id, customer_id, business_id, service_id, date_time, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING `+appointmentColumns+`
	`, uuid.New(), customerID, businessID, serviceID, at, StatusPending)

	appt, err := scanAppointment(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrSlotTaken
		}
		return nil, err
	}
	return appt, nil
}

func (r *PgRepository) UpdateStatus(ctx context.Context, id uuid.UUID, to Status) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, id, to)
	return scanAppointment(row)
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *PgRepository) ListAll(ctx context.Context) ([]Detail, error) {
	return r.collectDetails(ctx, `
		SELECT `+detailColumns+`
		`+detailJoins+`
		ORDER BY a.date_time
	`)
}

func (r *PgRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Detail, error) {
	return r.collectDetails(ctx, `
		SELECT `+detailColumns+`
		`+detailJoins+`
		WHERE a.customer_id = $1
		ORDER BY a.date_time
	`, customerID)
}

func (r *PgRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]Detail, error) {
	return r.collectDetails(ctx, `
		SELECT `+detailColumns+`
		`+detailJoins+`
		WHERE a.business_id = $1
		ORDER BY a.date_time
	`, businessID)
}

func (r *PgRepository) ListByBusinessOwner(ctx context.Context, ownerID uuid.UUID) ([]Detail, error) {
	return r.collectDetails(ctx, `
		SELECT `+detailColumns+`
		`+detailJoins+`
		WHERE b.owner_id = $1
		ORDER BY a.date_time
	`, ownerID)
}

func (r *PgRepository) ListByStatus(ctx context.Context, status Status) ([]Detail, error) {
	return r.collectDetails(ctx, `
		SELECT `+detailColumns+`
		`+detailJoins+`
		WHERE a.status = $1
		ORDER BY a.date_time
	`, status)
}

func (r *PgRepository) ListByCustomerAndStatus(ctx context.Context, customerID uuid.UUID, status Status) ([]Detail, error) {
	return r.collectDetails(ctx, `
		SELECT `+detailColumns+`
		`+detailJoins+`
		WHERE a.customer_id = $1 AND a.status = $2
		ORDER BY a.date_time
	`, customerID, status)
}
