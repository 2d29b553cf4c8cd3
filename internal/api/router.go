package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/slotify-dev/booking-platform/internal/appointment"
	"github.com/slotify-dev/booking-platform/internal/availability"
	"github.com/slotify-dev/booking-platform/internal/catalog"
	"github.com/slotify-dev/booking-platform/internal/identity"
	"github.com/slotify-dev/booking-platform/internal/observability/metrics"
)

type RouterConfig struct {
	Identity     *identity.Service
	Businesses   *catalog.BusinessService
	Offerings    *catalog.OfferingService
	Availability *availability.Service
	Appointments *appointment.Service

	JWTSecret   string
	HTTPMetrics *metrics.HTTPMetrics

	PgPool  *pgxpool.Pool
	Redis   *redis.Client
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(MetricsMiddleware(cfg.HTTPMetrics))

	// Unauthenticated surface
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/register", registerHandler(cfg.Identity))
	r.Post("/auth/login", loginHandler(cfg.Identity))

	// Everything else requires a Bearer token
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.JWTSecret))

		r.Get("/auth/me", meHandler(cfg.Identity))

		r.Route("/businesses", func(r chi.Router) {
			r.Post("/", createBusinessHandler(cfg.Businesses))
			r.Get("/", listBusinessesHandler(cfg.Businesses))
			r.Get("/my", listMyBusinessesHandler(cfg.Businesses))
			r.Get("/search", searchBusinessesHandler(cfg.Businesses))
			r.Get("/{id}", getBusinessHandler(cfg.Businesses))
			r.Put("/{id}", updateBusinessHandler(cfg.Businesses))
			r.Delete("/{id}", deleteBusinessHandler(cfg.Businesses))
		})

		r.Route("/services", func(r chi.Router) {
			r.Post("/", createServiceHandler(cfg.Offerings))
			r.Get("/", listServicesHandler(cfg.Offerings))
			r.Get("/my", listMyServicesHandler(cfg.Offerings))
			r.Get("/search", searchServicesHandler(cfg.Offerings))
			r.Get("/business/{businessId}", listServicesByBusinessHandler(cfg.Offerings))
			r.Get("/{id}", getServiceHandler(cfg.Offerings))
			r.Put("/{id}", updateServiceHandler(cfg.Offerings))
			r.Delete("/{id}", deleteServiceHandler(cfg.Offerings))
		})

		r.Route("/availability", func(r chi.Router) {
			r.Post("/", createSlotHandler(cfg.Availability))
			r.Get("/", listSlotsHandler(cfg.Availability))
			r.Get("/my", listMySlotsHandler(cfg.Availability))
			r.Get("/business/{businessId}", listSlotsByBusinessHandler(cfg.Availability))
			r.Get("/{id}", getSlotHandler(cfg.Availability))
			r.Put("/{id}", updateSlotHandler(cfg.Availability))
			r.Delete("/{id}", deleteSlotHandler(cfg.Availability))
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Post("/", createAppointmentHandler(cfg.Appointments))
			r.Get("/", listAppointmentsHandler(cfg.Appointments))
			r.Get("/my", listMyAppointmentsHandler(cfg.Appointments))
			r.Get("/my-business", listMyBusinessAppointmentsHandler(cfg.Appointments))
			r.Get("/business/{businessId}", listAppointmentsByBusinessHandler(cfg.Appointments))
			r.Get("/status/{status}", listAppointmentsByStatusHandler(cfg.Appointments))
			r.Get("/{id}", getAppointmentHandler(cfg.Appointments))
			r.Patch("/{id}/status", updateAppointmentStatusHandler(cfg.Appointments))
			r.Delete("/{id}", deleteAppointmentHandler(cfg.Appointments))
		})
	})

	return r
}
