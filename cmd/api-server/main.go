package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/slotify-dev/booking-platform/internal/api"
	"github.com/slotify-dev/booking-platform/internal/appointment"
	"github.com/slotify-dev/booking-platform/internal/availability"
	"github.com/slotify-dev/booking-platform/internal/catalog"
	"github.com/slotify-dev/booking-platform/internal/config"
	"github.com/slotify-dev/booking-platform/internal/db"
	"github.com/slotify-dev/booking-platform/internal/identity"
	"github.com/slotify-dev/booking-platform/internal/observability/metrics"
	redisclient "github.com/slotify-dev/booking-platform/internal/redis"
)

const version = "0.1.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s", cfg.Env, cfg.HTTPPort)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}()
	log.Println("connected to Redis")

	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)
	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	identitySvc := identity.NewService(identity.NewPgRepository(pgPool), cfg.JWTSecret, cfg.TokenTTL, identity.DefaultBcryptCost)

	catalogRepo := catalog.NewPgRepository(pgPool)
	businessSvc := catalog.NewBusinessService(catalogRepo)
	offeringSvc := catalog.NewOfferingService(catalogRepo)

	availabilitySvc := availability.NewService(availability.NewPgRepository(pgPool), catalogRepo)

	locker := redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)
	appointmentSvc := appointment.NewService(appointment.NewPgRepository(pgPool), locker, bookingMetrics)

	router := api.NewRouter(api.RouterConfig{
		Identity:     identitySvc,
		Businesses:   businessSvc,
		Offerings:    offeringSvc,
		Availability: availabilitySvc,
		Appointments: appointmentSvc,
		JWTSecret:    cfg.JWTSecret,
		HTTPMetrics:  httpMetrics,
		PgPool:       pgPool,
		Redis:        rdb,
		Env:          cfg.Env,
		Version:      version,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-rootCtx.Done()
	log.Println("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
