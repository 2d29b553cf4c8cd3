package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/slotify-dev/booking-platform/internal/db"
)

// Everyone seeded shares this password so manual testing stays easy.
const seedPassword = "password123"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	// One hash for every seeded user; hashing per user at cost 14 would take
	// minutes.
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.MinCost)
	if err != nil {
		log.Fatalf("hash seed password: %v", err)
	}

	seedCtx := context.Background()

	owners, err := seedUsers(seedCtx, pool, string(hash), "BUSINESS", 20)
	if err != nil {
		log.Fatalf("seed owners: %v", err)
	}
	customers, err := seedUsers(seedCtx, pool, string(hash), "CUSTOMER", 200)
	if err != nil {
		log.Fatalf("seed customers: %v", err)
	}
	if _, err := seedAdmin(seedCtx, pool, string(hash)); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	businesses, err := seedBusinesses(seedCtx, pool, owners)
	if err != nil {
		log.Fatalf("seed businesses: %v", err)
	}
	services, err := seedServices(seedCtx, pool, businesses)
	if err != nil {
		log.Fatalf("seed services: %v", err)
	}
	if err := seedAvailability(seedCtx, pool, businesses); err != nil {
		log.Fatalf("seed availability: %v", err)
	}
	if err := seedAppointments(seedCtx, pool, customers, services, 300); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool, hash, role string, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d %s users", count, role)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		email := fmt.Sprintf("%s.%d.%s", gofakeit.Username(), i, gofakeit.DomainName())

		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, name, email, password_hash, role, created_at)
			VALUES ($1, $2, $3, $4, $5, now())
		`, id, gofakeit.Name(), email, hash, role)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ids, nil
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, hash string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, created_at)
		VALUES ($1, 'Admin', 'admin@example.com', $2, 'ADMIN', now())
		ON CONFLICT (email) DO NOTHING
	`, id, hash)
	return id, err
}

type seededService struct {
	id         uuid.UUID
	businessID uuid.UUID
}

func seedBusinesses(ctx context.Context, pool *pgxpool.Pool, owners []uuid.UUID) ([]uuid.UUID, error) {
	log.Printf("seeding businesses for %d owners", len(owners))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var ids []uuid.UUID
	for _, ownerID := range owners {
		for i := 0; i < gofakeit.Number(1, 2); i++ {
			id := uuid.New()
			desc := gofakeit.Sentence(8)
			_, err := tx.Exec(ctx, `
				INSERT INTO businesses (id, owner_id, name, description, location, created_at)
				VALUES ($1, $2, $3, $4, $5, now())
			`, id, ownerID, gofakeit.Company(), desc, gofakeit.City())
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Printf("businesses seeded: %d", len(ids))
	return ids, nil
}

func seedServices(ctx context.Context, pool *pgxpool.Pool, businesses []uuid.UUID) ([]seededService, error) {
	log.Printf("seeding services for %d businesses", len(businesses))

	names := []string{
		"Haircut", "Beard Trim", "Manicure", "Pedicure", "Deep Tissue Massage",
		"Facial", "Consultation", "Color Treatment", "Styling", "Waxing",
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var services []seededService
	for _, businessID := range businesses {
		for i := 0; i < gofakeit.Number(2, 5); i++ {
			id := uuid.New()
			price := gofakeit.Price(15, 250)
			_, err := tx.Exec(ctx, `
				INSERT INTO services (id, business_id, name, duration_minutes, price, created_at)
				VALUES ($1, $2, $3, $4, $5, now())
			`, id, businessID, names[gofakeit.Number(0, len(names)-1)], gofakeit.Number(1, 8)*15, price)
			if err != nil {
				return nil, err
			}
			services = append(services, seededService{id: id, businessID: businessID})
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Printf("services seeded: %d", len(services))
	return services, nil
}

func seedAvailability(ctx context.Context, pool *pgxpool.Pool, businesses []uuid.UUID) error {
	log.Printf("seeding availability for %d businesses", len(businesses))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	start := time.Now().Truncate(24 * time.Hour)
	for _, businessID := range businesses {
		_, err := tx.Exec(ctx, `
			INSERT INTO availability_slots (id, business_id, start_date, end_date, start_time, end_time)
			VALUES ($1, $2, $3, $4, $5::time, $6::time)
		`, uuid.New(), businessID,
			start, start.AddDate(0, 1, 0),
			fmt.Sprintf("%02d:00", gofakeit.Number(7, 10)),
			fmt.Sprintf("%02d:00", gofakeit.Number(16, 20)))
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func seedAppointments(ctx context.Context, pool *pgxpool.Pool, customers []uuid.UUID, services []seededService, count int) error {
	log.Printf("seeding %d appointments", count)

	statuses := []string{"PENDING", "PENDING", "CONFIRMED", "CANCELLED", "DONE"}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	base := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	seeded := 0
	for i := 0; seeded < count && i < count*3; i++ {
		svc := services[gofakeit.Number(0, len(services)-1)]
		customerID := customers[gofakeit.Number(0, len(customers)-1)]
		at := base.Add(time.Duration(gofakeit.Number(0, 14*24)) * time.Hour)
		status := statuses[gofakeit.Number(0, len(statuses)-1)]

		// The partial unique index rejects duplicate active slots; skip and retry
		// with a fresh random pick.
		tag, err := tx.Exec(ctx, `
			INSERT INTO appointments (id, customer_id, business_id, service_id, date_time, status, created_at)
			SELECT $1, $2, $3, $4, $5, $6, now()
			WHERE NOT EXISTS (
				SELECT 1 FROM appointments
				WHERE business_id = $3 AND date_time = $5 AND status <> 'CANCELLED'
			)
		`, uuid.New(), customerID, svc.businessID, svc.id, at, status)
		if err != nil {
			return err
		}
		seeded += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Printf("appointments seeded: %d", seeded)
	return nil
}
