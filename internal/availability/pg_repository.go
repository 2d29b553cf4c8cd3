package availability

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// start_time/end_time are TIME columns; they travel as "HH:MM" strings.
const slotColumns = `
	id, business_id, start_date, end_date,
	to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI')`

func scanSlot(row pgx.Row) (*Slot, error) {
	var s Slot

	err := row.Scan(
		&s.ID,
		&s.BusinessID,
		&s.StartDate,
		&s.EndDate,
		&s.StartTime,
		&s.EndTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *PgRepository) collectSlots(ctx context.Context, query string, args ...any) ([]Slot, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) GetSlotByID(ctx context.Context, id uuid.UUID) (*Slot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+slotColumns+`
		FROM availability_slots
		WHERE id = $1
	`, id)
	return scanSlot(row)
}

func (r *PgRepository) ListSlots(ctx context.Context) ([]Slot, error) {
	return r.collectSlots(ctx, `
		SELECT `+slotColumns+`
		FROM availability_slots
		ORDER BY start_date, start_time
	`)
}

func (r *PgRepository) ListSlotsByBusiness(ctx context.Context, businessID uuid.UUID) ([]Slot, error) {
	return r.collectSlots(ctx, `
		SELECT `+slotColumns+`
		FROM availability_slots
		WHERE business_id = $1
		ORDER BY start_date, start_time
	`, businessID)
}

func (r *PgRepository) ListSlotsByBusinessOwner(ctx context.Context, ownerID uuid.UUID) ([]Slot, error) {
	return r.collectSlots(ctx, `
		SELECT a.id, a.business_id, a.start_date, a.end_date,
		       to_char(a.start_time, 'HH24:MI'), to_char(a.end_time, 'HH24:MI')
		FROM availability_slots a
		JOIN businesses b ON b.id = a.business_id
		WHERE b.owner_id = $1
		ORDER BY a.start_date, a.start_time
	`, ownerID)
}

func (r *PgRepository) CreateSlot(ctx context.Context, s Slot) (*Slot, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO availability_slots (id, business_id, start_date, end_date, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5::time, $6::time)
		RETURNING `+slotColumns+`
	`, s.ID, s.BusinessID, s.StartDate, s.EndDate, s.StartTime, s.EndTime)
	return scanSlot(row)
}

func (r *PgRepository) UpdateSlot(ctx context.Context, s Slot) (*Slot, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE availability_slots
		SET start_date = $2,
		    end_date = $3,
		    start_time = $4::time,
		    end_time = $5::time
		WHERE id = $1
		RETURNING `+slotColumns+`
	`, s.ID, s.StartDate, s.EndDate, s.StartTime, s.EndTime)
	return scanSlot(row)
}

func (r *PgRepository) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM availability_slots WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotNotFound
	}
	return nil
}
