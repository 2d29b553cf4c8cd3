package catalog

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

// Helpers

func scanBusiness(row pgx.Row) (*Business, error) {
	var b Business
	var description, location *string

	err := row.Scan(
		&b.ID,
		&b.OwnerID,
		&b.Name,
		&description,
		&location,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	b.Description = description
	b.Location = location
	return &b, nil
}

func scanService(row pgx.Row) (*Service, error) {
	var s Service
	var price *float64

	err := row.Scan(
		&s.ID,
		&s.BusinessID,
		&s.Name,
		&s.DurationMinutes,
		&price,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	s.Price = price
	return &s, nil
}

func (r *PgRepository) collectBusinesses(ctx context.Context, query string, args ...any) ([]Business, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) collectServices(ctx context.Context, query string, args ...any) ([]Service, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Service
	for rows.Next() {
		s, err := scanService(rows)
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

// Businesses

const businessColumns = `id, owner_id, name, description, location, created_at`

func (r *PgRepository) GetBusinessByID(ctx context.Context, id uuid.UUID) (*Business, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+businessColumns+`
		FROM businesses
		WHERE id = $1
	`, id)
	return scanBusiness(row)
}

func (r *PgRepository) GetBusinessByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*Business, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+businessColumns+`
		FROM businesses
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	return scanBusiness(row)
}

func (r *PgRepository) ListBusinesses(ctx context.Context) ([]Business, error) {
	return r.collectBusinesses(ctx, `
		SELECT `+businessColumns+`
		FROM businesses
		ORDER BY created_at
	`)
}

func (r *PgRepository) ListBusinessesByOwner(ctx context.Context, ownerID uuid.UUID) ([]Business, error) {
	return r.collectBusinesses(ctx, `
		SELECT `+businessColumns+`
		FROM businesses
		WHERE owner_id = $1
		ORDER BY created_at
	`, ownerID)
}

func (r *PgRepository) SearchBusinessesByName(ctx context.Context, name string) ([]Business, error) {
	return r.collectBusinesses(ctx, `
		SELECT `+businessColumns+`
		FROM businesses
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY created_at
	`, name)
}

func (r *PgRepository) SearchBusinessesByLocation(ctx context.Context, location string) ([]Business, error) {
	return r.collectBusinesses(ctx, `
		SELECT `+businessColumns+`
		FROM businesses
		WHERE location ILIKE '%' || $1 || '%'
		ORDER BY created_at
	`, location)
}

func (r *PgRepository) CreateBusiness(ctx context.Context, b Business) (*Business, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO businesses (id, owner_id, name, description, location, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING `+businessColumns+`
	`, b.ID, b.OwnerID, b.Name, b.Description, b.Location)
	return scanBusiness(row)
}

func (r *PgRepository) UpdateBusiness(ctx context.Context, b Business) (*Business, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE businesses
		SET name = $2,
		    description = $3,
		    location = $4
		WHERE id = $1
		RETURNING `+businessColumns+`
	`, b.ID, b.Name, b.Description, b.Location)
	return scanBusiness(row)
}

func (r *PgRepository) DeleteBusiness(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM businesses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBusinessNotFound
	}
	return nil
}

// Services

const serviceColumns = `id, business_id, name, duration_minutes, price, created_at`

func (r *PgRepository) GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE id = $1
	`, id)
	return scanService(row)
}

func (r *PgRepository) ListServices(ctx context.Context) ([]Service, error) {
	return r.collectServices(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		ORDER BY created_at
	`)
}

func (r *PgRepository) ListServicesByBusiness(ctx context.Context, businessID uuid.UUID) ([]Service, error) {
	return r.collectServices(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE business_id = $1
		ORDER BY created_at
	`, businessID)
}

func (r *PgRepository) ListServicesByBusinessOwner(ctx context.Context, ownerID uuid.UUID) ([]Service, error) {
	return r.collectServices(ctx, `
		SELECT s.id, s.business_id, s.name, s.duration_minutes, s.price, s.created_at
		FROM services s
		JOIN businesses b ON b.id = s.business_id
		WHERE b.owner_id = $1
		ORDER BY s.created_at
	`, ownerID)
}

func (r *PgRepository) SearchServicesByName(ctx context.Context, name string) ([]Service, error) {
	return r.collectServices(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY created_at
	`, name)
}

func (r *PgRepository) CreateService(ctx context.Context, s Service) (*Service, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO services (id, business_id, name, duration_minutes, price, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING `+serviceColumns+`
	`, s.ID, s.BusinessID, s.Name, s.DurationMinutes, s.Price)
	return scanService(row)
}

func (r *PgRepository) UpdateService(ctx context.Context, s Service) (*Service, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE services
		SET name = $2,
		    duration_minutes = $3,
		    price = $4
		WHERE id = $1
		RETURNING `+serviceColumns+`
	`, s.ID, s.Name, s.DurationMinutes, s.Price)
	return scanService(row)
}

func (r *PgRepository) DeleteService(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	return nil
}
