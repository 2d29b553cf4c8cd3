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
	ErrBusinessRoleRequired = errors.New("only users with BUSINESS role can do this")
	ErrNotOwner             = errors.New("you do not own this business")
	ErrNameRequired         = errors.New("name is required")
)

// BusinessService owns the business directory rules: anyone can read, only
// BUSINESS-role principals create, only the owner mutates.
type BusinessService struct {
	repo Repository
}

func NewBusinessService(repo Repository) *BusinessService {
	return &BusinessService{repo: repo}
}

func (s *BusinessService) CreateBusiness(ctx context.Context, p identity.Principal, name string, description, location *string) (*Business, error) {
	if p.Role != identity.RoleBusiness {
		return nil, ErrBusinessRoleRequired
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}

	created, err := s.repo.CreateBusiness(ctx, Business{
		ID:          uuid.New(),
		OwnerID:     p.ID,
		Name:        strings.TrimSpace(name),
		Description: description,
		Location:    location,
	})
	if err != nil {
		return nil, fmt.Errorf("create business: %w", err)
	}

	return created, nil
}

func (s *BusinessService) GetBusiness(ctx context.Context, id uuid.UUID) (*Business, error) {
	return s.repo.GetBusinessByID(ctx, id)
}

func (s *BusinessService) ListBusinesses(ctx context.Context) ([]Business, error) {
	return s.repo.ListBusinesses(ctx)
}

func (s *BusinessService) ListMyBusinesses(ctx context.Context, p identity.Principal) ([]Business, error) {
	return s.repo.ListBusinessesByOwner(ctx, p.ID)
}

// SearchBusinesses matches by name substring, by location substring, or both.
func (s *BusinessService) SearchBusinesses(ctx context.Context, name, location string) ([]Business, error) {
	if name != "" {
		return s.repo.SearchBusinessesByName(ctx, name)
	}
	if location != "" {
		return s.repo.SearchBusinessesByLocation(ctx, location)
	}
	return s.repo.ListBusinesses(ctx)
}

// UpdateBusiness applies the non-nil fields of upd. The owner lookup doubles as
// the permission check: a business someone else owns reads as not found.
func (s *BusinessService) UpdateBusiness(ctx context.Context, p identity.Principal, id uuid.UUID, upd BusinessUpdate) (*Business, error) {
	business, err := s.repo.GetBusinessByIDAndOwner(ctx, id, p.ID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return nil, ErrNameRequired
		}
		business.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		business.Description = upd.Description
	}
	if upd.Location != nil {
		business.Location = upd.Location
	}

	updated, err := s.repo.UpdateBusiness(ctx, *business)
	if err != nil {
		return nil, fmt.Errorf("update business: %w", err)
	}

	return updated, nil
}

func (s *BusinessService) DeleteBusiness(ctx context.Context, p identity.Principal, id uuid.UUID) error {
	business, err := s.repo.GetBusinessByIDAndOwner(ctx, id, p.ID)
	if err != nil {
		return err
	}
	return s.repo.DeleteBusiness(ctx, business.ID)
}
