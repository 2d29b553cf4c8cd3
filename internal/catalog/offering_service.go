package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/slotify-dev/booking-platform/internal/identity"
)

var (
	ErrInvalidDuration = errors.New("duration must be at least 1 minute")
	ErrNegativePrice   = errors.New("price must not be negative")
)

// OfferingService owns the service-catalog rules. Ownership is always checked
// through the owning business, never through the role alone.
type OfferingService struct {
	repo Repository
}

func NewOfferingService(repo Repository) *OfferingService {
	return &OfferingService{repo: repo}
}

func (s *OfferingService) CreateService(ctx context.Context, p identity.Principal, businessID uuid.UUID, name string, durationMinutes int, price *float64) (*Service, error) {
	if p.Role != identity.RoleBusiness {
		return nil, ErrBusinessRoleRequired
	}

	business, err := s.repo.GetBusinessByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if business.OwnerID != p.ID {
		return nil, ErrNotOwner
	}

	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	if durationMinutes < 1 {
		return nil, ErrInvalidDuration
	}
	if price != nil && *price < 0 {
		return nil, ErrNegativePrice
	}

	created, err := s.repo.CreateService(ctx, Service{
		ID:              uuid.New(),
		BusinessID:      business.ID,
		Name:            strings.TrimSpace(name),
		DurationMinutes: durationMinutes,
		Price:           price,
	})
	if err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	return created, nil
}

func (s *OfferingService) GetService(ctx context.Context, id uuid.UUID) (*Service, error) {
	return s.repo.GetServiceByID(ctx, id)
}

func (s *OfferingService) ListServices(ctx context.Context) ([]Service, error) {
	return s.repo.ListServices(ctx)
}

func (s *OfferingService) ListServicesByBusiness(ctx context.Context, businessID uuid.UUID) ([]Service, error) {
	return s.repo.ListServicesByBusiness(ctx, businessID)
}

// ListMyServices returns the services of every business the principal owns.
func (s *OfferingService) ListMyServices(ctx context.Context, p identity.Principal) ([]Service, error) {
	return s.repo.ListServicesByBusinessOwner(ctx, p.ID)
}

func (s *OfferingService) SearchServicesByName(ctx context.Context, name string) ([]Service, error) {
	return s.repo.SearchServicesByName(ctx, name)
}

// UpdateService applies the non-nil fields of upd. The owning business is
// immutable here.
func (s *OfferingService) UpdateService(ctx context.Context, p identity.Principal, id uuid.UUID, upd ServiceUpdate) (*Service, error) {
	service, err := s.repo.GetServiceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.requireOwnership(ctx, p, service.BusinessID); err != nil {
		return nil, err
	}

	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return nil, ErrNameRequired
		}
		service.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.DurationMinutes != nil {
		if *upd.DurationMinutes < 1 {
			return nil, ErrInvalidDuration
		}
		service.DurationMinutes = *upd.DurationMinutes
	}
	if upd.Price != nil {
		if *upd.Price < 0 {
			return nil, ErrNegativePrice
		}
		service.Price = upd.Price
	}

	updated, err := s.repo.UpdateService(ctx, *service)
	if err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}

	return updated, nil
}

func (s *OfferingService) DeleteService(ctx context.Context, p identity.Principal, id uuid.UUID) error {
	service, err := s.repo.GetServiceByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.requireOwnership(ctx, p, service.BusinessID); err != nil {
		return err
	}

	return s.repo.DeleteService(ctx, service.ID)
}

func (s *OfferingService) requireOwnership(ctx context.Context, p identity.Principal, businessID uuid.UUID) error {
	business, err := s.repo.GetBusinessByID(ctx, businessID)
	if err != nil {
		return err
	}
	if business.OwnerID != p.ID {
		return ErrNotOwner
	}
	return nil
}
