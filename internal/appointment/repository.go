package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/slotify-dev/booking-platform/internal/catalog"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

// Repository contains all DB interactions needed by the lifecycle engine,
// including the catalog lookups booking admission depends on. Business and
// service misses surface as catalog.ErrBusinessNotFound / ErrServiceNotFound.
type Repository interface {
	GetBusinessByID(ctx context.Context, id uuid.UUID) (*catalog.Business, error)
	GetServiceByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error)

	GetDetailByID(ctx context.Context, id uuid.UUID) (*Detail, error)

	// ExistsActiveAppointment is the conflict check: any appointment at
	// (businessID, at) whose status is not CANCELLED.
	ExistsActiveAppointment(ctx context.Context, businessID uuid.UUID, at time.Time) (bool, error)

	// CreatePending inserts a PENDING appointment. A unique-slot violation from
	// the partial index surfaces as ErrSlotTaken.
	CreatePending(ctx context.Context, customerID, businessID, serviceID uuid.UUID, at time.Time) (*Appointment, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, to Status) (*Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListAll(ctx context.Context) ([]Detail, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Detail, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]Detail, error)
	// ListByBusinessOwner joins through businesses.owner_id in one query.
	ListByBusinessOwner(ctx context.Context, ownerID uuid.UUID) ([]Detail, error)
	ListByStatus(ctx context.Context, status Status) ([]Detail, error)
	ListByCustomerAndStatus(ctx context.Context, customerID uuid.UUID, status Status) ([]Detail, error)
}
