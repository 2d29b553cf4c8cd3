package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/slotify-dev/booking-platform/internal/catalog"
	"github.com/slotify-dev/booking-platform/internal/identity"
)

var (
	ErrBadDateRange = errors.New("end date must be after or equal to start date")
	ErrBadTimeRange = errors.New("end time must be after start time")
	ErrBadTimeOfDay = errors.New("times must be HH:MM")
)

// BusinessDirectory is the slice of the catalog the availability service needs:
// business existence and the owner id for permission checks.
type BusinessDirectory interface {
	GetBusinessByID(ctx context.Context, id uuid.UUID) (*catalog.Business, error)
}

// Service manages the published open-hours windows of a business. The windows
// are never enforced against bookings; that gap is deliberate and pinned by a
// test in the appointment package.
type Service struct {
	repo       Repository
	businesses BusinessDirectory
}

func NewService(repo Repository, businesses BusinessDirectory) *Service {
	return &Service{repo: repo, businesses: businesses}
}

func (s *Service) CreateSlot(ctx context.Context, p identity.Principal, slot Slot) (*Slot, error) {
	if p.Role != identity.RoleBusiness {
		return nil, catalog.ErrBusinessRoleRequired
	}

	business, err := s.businesses.GetBusinessByID(ctx, slot.BusinessID)
	if err != nil {
		return nil, err
	}
	if business.OwnerID != p.ID {
		return nil, catalog.ErrNotOwner
	}

	if err := validateRanges(slot.StartDate, slot.EndDate, slot.StartTime, slot.EndTime); err != nil {
		return nil, err
	}

	slot.ID = uuid.New()
	created, err := s.repo.CreateSlot(ctx, slot)
	if err != nil {
		return nil, fmt.Errorf("create availability slot: %w", err)
	}

	return created, nil
}

func (s *Service) GetSlot(ctx context.Context, id uuid.UUID) (*Slot, error) {
	return s.repo.GetSlotByID(ctx, id)
}

func (s *Service) ListSlots(ctx context.Context) ([]Slot, error) {
	return s.repo.ListSlots(ctx)
}

func (s *Service) ListSlotsByBusiness(ctx context.Context, businessID uuid.UUID) ([]Slot, error) {
	return s.repo.ListSlotsByBusiness(ctx, businessID)
}

// ListMySlots returns the slots of every business the principal owns.
func (s *Service) ListMySlots(ctx context.Context, p identity.Principal) ([]Slot, error) {
	return s.repo.ListSlotsByBusinessOwner(ctx, p.ID)
}

func (s *Service) UpdateSlot(ctx context.Context, p identity.Principal, id uuid.UUID, upd SlotUpdate) (*Slot, error) {
	slot, err := s.repo.GetSlotByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.requireOwnership(ctx, p, slot.BusinessID); err != nil {
		return nil, err
	}

	if upd.StartDate != nil {
		slot.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		slot.EndDate = *upd.EndDate
	}
	if upd.StartTime != nil {
		slot.StartTime = *upd.StartTime
	}
	if upd.EndTime != nil {
		slot.EndTime = *upd.EndTime
	}

	if err := validateRanges(slot.StartDate, slot.EndDate, slot.StartTime, slot.EndTime); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateSlot(ctx, *slot)
	if err != nil {
		return nil, fmt.Errorf("update availability slot: %w", err)
	}

	return updated, nil
}

func (s *Service) DeleteSlot(ctx context.Context, p identity.Principal, id uuid.UUID) error {
	slot, err := s.repo.GetSlotByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.requireOwnership(ctx, p, slot.BusinessID); err != nil {
		return err
	}

	return s.repo.DeleteSlot(ctx, slot.ID)
}

func (s *Service) requireOwnership(ctx context.Context, p identity.Principal, businessID uuid.UUID) error {
	business, err := s.businesses.GetBusinessByID(ctx, businessID)
	if err != nil {
		return err
	}
	if business.OwnerID != p.ID {
		return catalog.ErrNotOwner
	}
	return nil
}

func validateRanges(startDate, endDate time.Time, startTime, endTime string) error {
	if endDate.Before(startDate) {
		return ErrBadDateRange
	}

	start, ok := parseTimeOfDay(startTime)
	if !ok {
		return ErrBadTimeOfDay
	}
	end, ok := parseTimeOfDay(endTime)
	if !ok {
		return ErrBadTimeOfDay
	}

	if !end.After(start) {
		return ErrBadTimeRange
	}

	return nil
}
