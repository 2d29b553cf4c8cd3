package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/slotify-dev/booking-platform/internal/identity"
	"github.com/slotify-dev/booking-platform/internal/observability/metrics"
	redisclient "github.com/slotify-dev/booking-platform/internal/redis"
)

var (
	ErrCustomerRoleRequired = errors.New("only users with CUSTOMER role can book appointments")
	ErrBusinessRoleRequired = errors.New("only business owners can view business appointments")
	ErrAdminOnly            = errors.New("only admins can view all appointments")
	ErrServiceMismatch      = errors.New("service does not belong to the specified business")
	ErrDateTimeNotFuture    = errors.New("appointment date and time must be in the future")
	ErrSlotTaken            = errors.New("this time slot is already booked")
	ErrSlotContended        = errors.New("slot is currently being booked, please retry")
	ErrPermissionDenied     = errors.New("you don't have permission for this appointment")
	ErrCustomerCancelOnly   = errors.New("customers can only cancel appointments")
	ErrInvalidStatusTarget  = errors.New("invalid status update")
	ErrTerminalStatus       = errors.New("cannot update a cancelled or completed appointment")
)

// Service is the appointment lifecycle engine: booking admission, role-scoped
// visibility, the status state machine, and deletion. Availability slots are
// deliberately not consulted here; published open hours are informational
// only.
type Service struct {
	repo     Repository
	locker   redisclient.Locker
	bookings *metrics.BookingMetrics
}

func NewService(repo Repository, locker redisclient.Locker, bookings *metrics.BookingMetrics) *Service {
	return &Service{
		repo:     repo,
		locker:   locker,
		bookings: bookings,
	}
}

// CreateAppointment books a slot for a CUSTOMER principal and returns the
// flattened record, the same shape reads produce. The admission checks run in
// a fixed order and the first violation wins. The conflict check and the
// insert run under a per-slot Redis lock; the partial unique index on
// (business_id, date_time) is the durable backstop, so a racing insert that
// slips past the check still fails with ErrSlotTaken.
func (s *Service) CreateAppointment(ctx context.Context, p identity.Principal, businessID, serviceID uuid.UUID, at time.Time) (*Detail, error) {
	if p.Role != identity.RoleCustomer {
		return nil, ErrCustomerRoleRequired
	}

	business, err := s.repo.GetBusinessByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	service, err := s.repo.GetServiceByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	if service.BusinessID != business.ID {
		return nil, ErrServiceMismatch
	}

	at = at.UTC().Truncate(time.Second)
	if !at.After(time.Now()) {
		return nil, ErrDateTimeNotFuture
	}

	var created *Appointment

	err = s.locker.WithSlotLock(ctx, business.ID, at, func(lockCtx context.Context) error {
		taken, err := s.repo.ExistsActiveAppointment(lockCtx, business.ID, at)
		if err != nil {
			return fmt.Errorf("check slot conflict: %w", err)
		}
		if taken {
			return ErrSlotTaken
		}

		appt, err := s.repo.CreatePending(lockCtx, p.ID, business.ID, service.ID, at)
		if err != nil {
			return fmt.Errorf("create pending appointment: %w", err)
		}

		created = appt
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			s.bookings.ObserveCreate("contended")
			return nil, ErrSlotContended
		}
		if errors.Is(err, ErrSlotTaken) {
			s.bookings.ObserveCreate("conflict")
			return nil, ErrSlotTaken
		}
		s.bookings.ObserveCreate("error")
		return nil, err
	}

	s.bookings.ObserveCreate("created")
	return s.repo.GetDetailByID(ctx, created.ID)
}

// GetAppointment returns the flattened appointment, visible to its customer,
// the owning business's owner, or any admin.
func (s *Service) GetAppointment(ctx context.Context, p identity.Principal, id uuid.UUID) (*Detail, error) {
	detail, err := s.repo.GetDetailByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isCustomer := detail.CustomerID == p.ID
	isBusinessOwner := detail.BusinessOwnerID == p.ID

	if !isCustomer && !isBusinessOwner && p.Role != identity.RoleAdmin {
		return nil, ErrPermissionDenied
	}

	return detail, nil
}

// ListAllAppointments is admin only.
func (s *Service) ListAllAppointments(ctx context.Context, p identity.Principal) ([]Detail, error) {
	if p.Role != identity.RoleAdmin {
		return nil, ErrAdminOnly
	}
	return s.repo.ListAll(ctx)
}

// ListMyAppointments returns the appointments where the principal is the
// customer, whatever their role.
func (s *Service) ListMyAppointments(ctx context.Context, p identity.Principal) ([]Detail, error) {
	return s.repo.ListByCustomer(ctx, p.ID)
}

// ListMyBusinessAppointments returns the union of appointments across every
// business the principal owns, via a single owner-id join.
func (s *Service) ListMyBusinessAppointments(ctx context.Context, p identity.Principal) ([]Detail, error) {
	if p.Role != identity.RoleBusiness {
		return nil, ErrBusinessRoleRequired
	}
	return s.repo.ListByBusinessOwner(ctx, p.ID)
}

// ListAppointmentsByBusiness is intentionally open to any authenticated
// principal.
func (s *Service) ListAppointmentsByBusiness(ctx context.Context, businessID uuid.UUID) ([]Detail, error) {
	return s.repo.ListByBusiness(ctx, businessID)
}

// statusScope is the dataset a by-status query runs against. The role to
// scope mapping is a closed enumeration so a new role is a visible addition,
// not a fallthrough in a conditional chain.
type statusScope int

const (
	scopeOwnAppointments statusScope = iota
	scopeOwnedBusinesses
	scopeGlobal
)

func statusScopeForRole(role identity.Role) statusScope {
	switch role {
	case identity.RoleCustomer:
		return scopeOwnAppointments
	case identity.RoleBusiness:
		return scopeOwnedBusinesses
	case identity.RoleAdmin:
		return scopeGlobal
	default:
		// Any future role reads the global set, same as admin today.
		return scopeGlobal
	}
}

// ListAppointmentsByStatus filters the role-dependent dataset: customers see
// their own bookings, business owners the bookings of their businesses, every
// other role the global set.
func (s *Service) ListAppointmentsByStatus(ctx context.Context, p identity.Principal, status Status) ([]Detail, error) {
	switch statusScopeForRole(p.Role) {
	case scopeOwnAppointments:
		return s.repo.ListByCustomerAndStatus(ctx, p.ID, status)
	case scopeOwnedBusinesses:
		owned, err := s.repo.ListByBusinessOwner(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		var filtered []Detail
		for _, d := range owned {
			if d.Status == status {
				filtered = append(filtered, d)
			}
		}
		return filtered, nil
	default:
		return s.repo.ListByStatus(ctx, status)
	}
}

// UpdateStatus applies one state-machine transition. The relation check runs
// first, then the terminal-state guard, then the actor-specific target rules:
// the customer may only cancel, the business owner may confirm, cancel or
// complete. The current status is overwritten in place, no transition history
// is kept.
func (s *Service) UpdateStatus(ctx context.Context, p identity.Principal, id uuid.UUID, target Status) (*Detail, error) {
	detail, err := s.repo.GetDetailByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isCustomer := detail.CustomerID == p.ID
	isBusinessOwner := detail.BusinessOwnerID == p.ID

	if !isCustomer && !isBusinessOwner {
		return nil, ErrPermissionDenied
	}

	// Terminality rejects before the target is even considered, whoever asks.
	if detail.Status.IsTerminal() {
		return nil, ErrTerminalStatus
	}

	if isCustomer {
		if target != StatusCancelled {
			return nil, ErrCustomerCancelOnly
		}
	} else if target != StatusConfirmed && target != StatusCancelled && target != StatusDone {
		return nil, ErrInvalidStatusTarget
	}

	updated, err := s.repo.UpdateStatus(ctx, detail.ID, target)
	if err != nil {
		return nil, fmt.Errorf("update appointment status: %w", err)
	}

	s.bookings.ObserveTransition(string(target))

	detail.Status = updated.Status
	return detail, nil
}

// DeleteAppointment removes the record for its customer, the owning business's
// owner, or an admin. Unlike UpdateStatus there is no terminal-state guard: a
// CANCELLED or DONE appointment can still be deleted. That asymmetry is
// long-standing behavior and callers depend on it.
func (s *Service) DeleteAppointment(ctx context.Context, p identity.Principal, id uuid.UUID) error {
	detail, err := s.repo.GetDetailByID(ctx, id)
	if err != nil {
		return err
	}

	isCustomer := detail.CustomerID == p.ID
	isBusinessOwner := detail.BusinessOwnerID == p.ID

	if !isCustomer && !isBusinessOwner && p.Role != identity.RoleAdmin {
		return ErrPermissionDenied
	}

	return s.repo.Delete(ctx, detail.ID)
}
