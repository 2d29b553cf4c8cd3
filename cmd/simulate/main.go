package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slotify-dev/booking-platform/internal/config"
	"github.com/slotify-dev/booking-platform/internal/db"
)

// The simulator logs in as seeded customers and hammers the booking endpoint
// with overlapping slots, then verifies that no active slot was double-booked.

type SimConfig struct {
	APIBaseURL   string
	Duration     time.Duration
	Workers      int
	BookingRatio float64
	CancelRatio  float64
	ReadRatio    float64
	SlotHours    int // size of the contended booking window
	Password     string
	PostgresDSN  string
}

type target struct {
	businessID uuid.UUID
	serviceID  uuid.UUID
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, success, conflict bool) {
	atomic.AddInt64(&om.Total, 1)
	if success {
		atomic.AddInt64(&om.Success, 1)
	} else if conflict {
		atomic.AddInt64(&om.Conflict, 1)
	} else {
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]
	p50 = latencies[len(latencies)*50/100]
	p95 = latencies[min95(len(latencies))]
	return avg, min, max, p50, p95
}

func min95(n int) int {
	idx := n * 95 / 100
	if idx >= n {
		idx = n - 1
	}
	return idx
}

type Metrics struct {
	Booking OperationMetrics
	Cancel  OperationMetrics
	ReadMy  OperationMetrics
}

type Simulator struct {
	config  SimConfig
	targets []target
	tokens  []string
	client  *http.Client
	metrics Metrics
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("simulator starting")

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	log.Printf("config: duration=%s workers=%d booking=%.2f cancel=%.2f read=%.2f",
		cfg.Duration, cfg.Workers, cfg.BookingRatio, cfg.CancelRatio, cfg.ReadRatio)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgPool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pgPool.Close()

	targets, err := loadTargets(ctx, pgPool)
	if err != nil {
		log.Fatalf("load targets: %v", err)
	}

	emails, err := loadCustomerEmails(ctx, pgPool, cfg.Workers)
	if err != nil {
		log.Fatalf("load customers: %v", err)
	}

	sim := &Simulator{
		config:  cfg,
		targets: targets,
		client:  &http.Client{Timeout: 10 * time.Second},
	}

	if err := sim.login(ctx, emails); err != nil {
		log.Fatalf("login customers: %v", err)
	}

	log.Printf("loaded: %d bookable services, %d customer sessions", len(sim.targets), len(sim.tokens))

	sim.Run()
	sim.PrintReport()

	if err := verifyNoDoubleBookings(context.Background(), pgPool); err != nil {
		log.Fatalf("VERIFICATION FAILED: %v", err)
	}
	log.Println("verification passed: no active slot is double-booked")
}

func loadConfig() SimConfig {
	baseCfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load base config: %v", err)
	}

	cfg := SimConfig{
		APIBaseURL:   getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:     getDuration("SIM_DURATION", 30*time.Second),
		Workers:      getInt("SIM_WORKERS", 10),
		BookingRatio: getFloat("SIM_BOOKING_RATIO", 0.5),
		CancelRatio:  getFloat("SIM_CANCEL_RATIO", 0.2),
		ReadRatio:    getFloat("SIM_READ_RATIO", 0.3),
		SlotHours:    getInt("SIM_SLOT_HOURS", 48),
		Password:     getEnv("SIM_PASSWORD", "password123"),
		PostgresDSN:  baseCfg.PostgresDSN,
	}

	total := cfg.BookingRatio + cfg.CancelRatio + cfg.ReadRatio
	if total > 0 {
		cfg.BookingRatio /= total
		cfg.CancelRatio /= total
		cfg.ReadRatio /= total
	}

	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required (set in .env or environment)")
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	return nil
}

func loadTargets(ctx context.Context, pool *pgxpool.Pool) ([]target, error) {
	rows, err := pool.Query(ctx, `SELECT business_id, id FROM services LIMIT 500`)
	if err != nil {
		return nil, fmt.Errorf("load services: %w", err)
	}
	defer rows.Close()

	var targets []target
	for rows.Next() {
		var t target
		if err := rows.Scan(&t.businessID, &t.serviceID); err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no services found, run the seeder first")
	}
	return targets, rows.Err()
}

func loadCustomerEmails(ctx context.Context, pool *pgxpool.Pool, limit int) ([]string, error) {
	rows, err := pool.Query(ctx, `SELECT email FROM users WHERE role = 'CUSTOMER' LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	if len(emails) == 0 {
		return nil, fmt.Errorf("no customers found, run the seeder first")
	}
	return emails, rows.Err()
}

func (s *Simulator) login(ctx context.Context, emails []string) error {
	for _, email := range emails {
		body, _ := json.Marshal(map[string]string{"email": email, "password": s.config.Password})
		req, err := http.NewRequestWithContext(ctx, "POST", s.config.APIBaseURL+"/auth/login", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}

		var loginResp struct {
			Token string `json:"token"`
		}
		err = json.NewDecoder(resp.Body).Decode(&loginResp)
		resp.Body.Close()
		if err != nil || resp.StatusCode != http.StatusOK || loginResp.Token == "" {
			return fmt.Errorf("login %s failed: status=%d err=%v", email, resp.StatusCode, err)
		}

		s.tokens = append(s.tokens, loginResp.Token)
	}
	return nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	log.Printf("starting simulation for %s with %d workers", s.config.Duration, s.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	log.Println("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))
	token := s.tokens[workerID%len(s.tokens)]

	// Appointments this worker created; cancels only target these since a
	// customer may only cancel their own.
	var mine []uuid.UUID

	for {
		select {
		case <-ctx.Done():
			return
		default:
			r := rng.Float64()
			switch {
			case r < s.config.BookingRatio:
				if id, ok := s.doBooking(ctx, rng, token); ok {
					mine = append(mine, id)
				}
			case r < s.config.BookingRatio+s.config.CancelRatio:
				if len(mine) > 0 {
					s.doCancel(ctx, token, mine[rng.Intn(len(mine))])
				}
			default:
				s.doReadMy(ctx, token)
			}
		}
	}
}

// Booking times land on whole hours inside a narrow window so concurrent
// workers collide on the same (business, dateTime) pairs.
func (s *Simulator) slotTime(rng *rand.Rand) time.Time {
	base := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	return base.Add(time.Duration(rng.Intn(s.config.SlotHours)) * time.Hour)
}

func (s *Simulator) doBooking(ctx context.Context, rng *rand.Rand, token string) (uuid.UUID, bool) {
	t := s.targets[rng.Intn(len(s.targets))]

	body, _ := json.Marshal(map[string]any{
		"business_id": t.businessID.String(),
		"service_id":  t.serviceID.String(),
		"date_time":   s.slotTime(rng).Format(time.RFC3339),
	})

	start := time.Now()
	resp, err := s.do(ctx, "POST", "/appointments", token, body)
	latency := time.Since(start)

	if err != nil {
		s.metrics.Booking.Record(latency, false, false)
		return uuid.Nil, false
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		var apptResp struct {
			ID uuid.UUID `json:"id"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apptResp)
		s.metrics.Booking.Record(latency, true, false)
		return apptResp.ID, apptResp.ID != uuid.Nil
	case http.StatusBadRequest, http.StatusConflict:
		// Slot taken or contended; both count as conflicts for the report.
		s.metrics.Booking.Record(latency, false, true)
	default:
		s.metrics.Booking.Record(latency, false, false)
	}
	return uuid.Nil, false
}

func (s *Simulator) doCancel(ctx context.Context, token string, apptID uuid.UUID) {
	body, _ := json.Marshal(map[string]string{"status": "CANCELLED"})

	start := time.Now()
	resp, err := s.do(ctx, "PATCH", "/appointments/"+apptID.String()+"/status", token, body)
	latency := time.Since(start)

	if err != nil {
		s.metrics.Cancel.Record(latency, false, false)
		return
	}
	defer resp.Body.Close()

	// Repeated cancels of the same appointment hit the terminal-state guard.
	conflict := resp.StatusCode == http.StatusBadRequest
	s.metrics.Cancel.Record(latency, resp.StatusCode == http.StatusOK, conflict)
}

func (s *Simulator) doReadMy(ctx context.Context, token string) {
	start := time.Now()
	resp, err := s.do(ctx, "GET", "/appointments/my", token, nil)
	latency := time.Since(start)

	if err != nil {
		s.metrics.ReadMy.Record(latency, false, false)
		return
	}
	defer resp.Body.Close()

	s.metrics.ReadMy.Record(latency, resp.StatusCode == http.StatusOK, false)
}

func (s *Simulator) do(ctx context.Context, method, path, token string, body []byte) (*http.Response, error) {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.config.APIBaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	return s.client.Do(req)
}

func verifyNoDoubleBookings(ctx context.Context, pool *pgxpool.Pool) error {
	var violations int
	err := pool.QueryRow(ctx, `
		SELECT count(*) FROM (
			SELECT business_id, date_time
			FROM appointments
			WHERE status <> 'CANCELLED'
			GROUP BY business_id, date_time
			HAVING count(*) > 1
		) dup
	`).Scan(&violations)
	if err != nil {
		return err
	}
	if violations > 0 {
		return fmt.Errorf("%d slots have more than one active appointment", violations)
	}
	return nil
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n", s.config.Workers)
	fmt.Println()

	printOperationReport("Booking", &s.metrics.Booking)
	printOperationReport("Cancel", &s.metrics.Cancel)
	printOperationReport("Read my appointments", &s.metrics.ReadMy)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	conflict := atomic.LoadInt64(&om.Conflict)
	errCount := atomic.LoadInt64(&om.Error)

	avg, min, max, p50, p95 := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if conflict > 0 {
		fmt.Printf("  Conflicts: %d (%.1f%%)\n", conflict, float64(conflict)/float64(total)*100)
	}
	if errCount > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", errCount, float64(errCount)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), min.Round(time.Millisecond), max.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
	fmt.Println()
}

// Helper functions

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
