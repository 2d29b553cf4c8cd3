package catalog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotify-dev/booking-platform/internal/identity"
)

type memoryRepo struct {
	businesses map[uuid.UUID]*Business
	services   map[uuid.UUID]*Service
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		businesses: make(map[uuid.UUID]*Business),
		services:   make(map[uuid.UUID]*Service),
	}
}

func (m *memoryRepo) GetBusinessByID(_ context.Context, id uuid.UUID) (*Business, error) {
	b, ok := m.businesses[id]
	if !ok {
		return nil, ErrBusinessNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memoryRepo) GetBusinessByIDAndOwner(_ context.Context, id, ownerID uuid.UUID) (*Business, error) {
	b, ok := m.businesses[id]
	if !ok || b.OwnerID != ownerID {
		return nil, ErrBusinessNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memoryRepo) ListBusinesses(_ context.Context) ([]Business, error) {
	var out []Business
	for _, b := range m.businesses {
		out = append(out, *b)
	}
	return out, nil
}

func (m *memoryRepo) ListBusinessesByOwner(_ context.Context, ownerID uuid.UUID) ([]Business, error) {
	var out []Business
	for _, b := range m.businesses {
		if b.OwnerID == ownerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memoryRepo) SearchBusinessesByName(_ context.Context, name string) ([]Business, error) {
	var out []Business
	for _, b := range m.businesses {
		if strings.Contains(strings.ToLower(b.Name), strings.ToLower(name)) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memoryRepo) SearchBusinessesByLocation(_ context.Context, location string) ([]Business, error) {
	var out []Business
	for _, b := range m.businesses {
		if b.Location != nil && strings.Contains(strings.ToLower(*b.Location), strings.ToLower(location)) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memoryRepo) CreateBusiness(_ context.Context, b Business) (*Business, error) {
	b.CreatedAt = time.Now()
	m.businesses[b.ID] = &b
	cp := b
	return &cp, nil
}

func (m *memoryRepo) UpdateBusiness(_ context.Context, b Business) (*Business, error) {
	stored, ok := m.businesses[b.ID]
	if !ok {
		return nil, ErrBusinessNotFound
	}
	b.CreatedAt = stored.CreatedAt
	m.businesses[b.ID] = &b
	cp := b
	return &cp, nil
}

func (m *memoryRepo) DeleteBusiness(_ context.Context, id uuid.UUID) error {
	if _, ok := m.businesses[id]; !ok {
		return ErrBusinessNotFound
	}
	delete(m.businesses, id)
	return nil
}

func (m *memoryRepo) GetServiceByID(_ context.Context, id uuid.UUID) (*Service, error) {
	s, ok := m.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memoryRepo) ListServices(_ context.Context) ([]Service, error) {
	var out []Service
	for _, s := range m.services {
		out = append(out, *s)
	}
	return out, nil
}

func (m *memoryRepo) ListServicesByBusiness(_ context.Context, businessID uuid.UUID) ([]Service, error) {
	var out []Service
	for _, s := range m.services {
		if s.BusinessID == businessID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListServicesByBusinessOwner(_ context.Context, ownerID uuid.UUID) ([]Service, error) {
	var out []Service
	for _, s := range m.services {
		if b, ok := m.businesses[s.BusinessID]; ok && b.OwnerID == ownerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memoryRepo) SearchServicesByName(_ context.Context, name string) ([]Service, error) {
	var out []Service
	for _, s := range m.services {
		if strings.Contains(strings.ToLower(s.Name), strings.ToLower(name)) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memoryRepo) CreateService(_ context.Context, s Service) (*Service, error) {
	s.CreatedAt = time.Now()
	m.services[s.ID] = &s
	cp := s
	return &cp, nil
}

func (m *memoryRepo) UpdateService(_ context.Context, s Service) (*Service, error) {
	stored, ok := m.services[s.ID]
	if !ok {
		return nil, ErrServiceNotFound
	}
	s.CreatedAt = stored.CreatedAt
	s.BusinessID = stored.BusinessID
	m.services[s.ID] = &s
	cp := s
	return &cp, nil
}

func (m *memoryRepo) DeleteService(_ context.Context, id uuid.UUID) error {
	if _, ok := m.services[id]; !ok {
		return ErrServiceNotFound
	}
	delete(m.services, id)
	return nil
}

var _ Repository = (*memoryRepo)(nil)

func owner() identity.Principal {
	return identity.Principal{ID: uuid.New(), Role: identity.RoleBusiness}
}

func customer() identity.Principal {
	return identity.Principal{ID: uuid.New(), Role: identity.RoleCustomer}
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

// Businesses

func TestCreateBusinessRequiresBusinessRole(t *testing.T) {
	svc := NewBusinessService(newMemoryRepo())

	_, err := svc.CreateBusiness(context.Background(), customer(), "Cut & Go", nil, nil)
	assert.ErrorIs(t, err, ErrBusinessRoleRequired)
}

func TestCreateBusinessAssignsOwner(t *testing.T) {
	svc := NewBusinessService(newMemoryRepo())
	p := owner()

	b, err := svc.CreateBusiness(context.Background(), p, "  Cut & Go  ", strPtr("barbershop"), strPtr("Lisbon"))
	require.NoError(t, err)

	assert.Equal(t, p.ID, b.OwnerID)
	assert.Equal(t, "Cut & Go", b.Name)
}

func TestCreateBusinessRequiresName(t *testing.T) {
	svc := NewBusinessService(newMemoryRepo())

	_, err := svc.CreateBusiness(context.Background(), owner(), "   ", nil, nil)
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestUpdateBusinessByNonOwnerReadsAsNotFound(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewBusinessService(repo)
	p := owner()

	b, err := svc.CreateBusiness(context.Background(), p, "Cut & Go", nil, nil)
	require.NoError(t, err)

	_, err = svc.UpdateBusiness(context.Background(), owner(), b.ID, BusinessUpdate{Name: strPtr("Stolen")})
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestUpdateBusinessAppliesOnlyProvidedFields(t *testing.T) {
	svc := NewBusinessService(newMemoryRepo())
	p := owner()

	b, err := svc.CreateBusiness(context.Background(), p, "Cut & Go", strPtr("barbershop"), strPtr("Lisbon"))
	require.NoError(t, err)

	updated, err := svc.UpdateBusiness(context.Background(), p, b.ID, BusinessUpdate{Location: strPtr("Porto")})
	require.NoError(t, err)

	assert.Equal(t, "Cut & Go", updated.Name)
	require.NotNil(t, updated.Location)
	assert.Equal(t, "Porto", *updated.Location)
}

func TestDeleteBusinessOwnerOnly(t *testing.T) {
	svc := NewBusinessService(newMemoryRepo())
	p := owner()

	b, err := svc.CreateBusiness(context.Background(), p, "Cut & Go", nil, nil)
	require.NoError(t, err)

	err = svc.DeleteBusiness(context.Background(), owner(), b.ID)
	assert.ErrorIs(t, err, ErrBusinessNotFound)

	err = svc.DeleteBusiness(context.Background(), p, b.ID)
	assert.NoError(t, err)
}

func TestSearchBusinessesPrefersName(t *testing.T) {
	svc := NewBusinessService(newMemoryRepo())
	p := owner()

	_, err := svc.CreateBusiness(context.Background(), p, "Cut & Go", nil, strPtr("Lisbon"))
	require.NoError(t, err)
	_, err = svc.CreateBusiness(context.Background(), p, "Nail Bar", nil, strPtr("Porto"))
	require.NoError(t, err)

	byName, err := svc.SearchBusinesses(context.Background(), "cut", "")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Cut & Go", byName[0].Name)

	byLocation, err := svc.SearchBusinesses(context.Background(), "", "porto")
	require.NoError(t, err)
	require.Len(t, byLocation, 1)
	assert.Equal(t, "Nail Bar", byLocation[0].Name)
}

// Services

func setupBusiness(t *testing.T, repo *memoryRepo) (identity.Principal, *Business) {
	t.Helper()
	p := owner()
	b, err := NewBusinessService(repo).CreateBusiness(context.Background(), p, "Cut & Go", nil, nil)
	require.NoError(t, err)
	return p, b
}

func TestCreateServiceRequiresOwnership(t *testing.T) {
	repo := newMemoryRepo()
	_, b := setupBusiness(t, repo)
	svc := NewOfferingService(repo)

	_, err := svc.CreateService(context.Background(), owner(), b.ID, "Haircut", 30, nil)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestCreateServiceRequiresBusinessRole(t *testing.T) {
	repo := newMemoryRepo()
	_, b := setupBusiness(t, repo)
	svc := NewOfferingService(repo)

	_, err := svc.CreateService(context.Background(), customer(), b.ID, "Haircut", 30, nil)
	assert.ErrorIs(t, err, ErrBusinessRoleRequired)
}

func TestCreateServiceValidatesDurationAndPrice(t *testing.T) {
	repo := newMemoryRepo()
	p, b := setupBusiness(t, repo)
	svc := NewOfferingService(repo)

	_, err := svc.CreateService(context.Background(), p, b.ID, "Haircut", 0, nil)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = svc.CreateService(context.Background(), p, b.ID, "Haircut", 30, floatPtr(-1))
	assert.ErrorIs(t, err, ErrNegativePrice)

	created, err := svc.CreateService(context.Background(), p, b.ID, "Haircut", 30, floatPtr(25))
	require.NoError(t, err)
	assert.Equal(t, b.ID, created.BusinessID)
}

func TestCreateServiceUnknownBusiness(t *testing.T) {
	svc := NewOfferingService(newMemoryRepo())

	_, err := svc.CreateService(context.Background(), owner(), uuid.New(), "Haircut", 30, nil)
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestUpdateServiceNeverChangesBusiness(t *testing.T) {
	repo := newMemoryRepo()
	p, b := setupBusiness(t, repo)
	svc := NewOfferingService(repo)

	created, err := svc.CreateService(context.Background(), p, b.ID, "Haircut", 30, nil)
	require.NoError(t, err)

	updated, err := svc.UpdateService(context.Background(), p, created.ID, ServiceUpdate{
		Name:            strPtr("Haircut deluxe"),
		DurationMinutes: intPtr(45),
	})
	require.NoError(t, err)

	assert.Equal(t, b.ID, updated.BusinessID)
	assert.Equal(t, 45, updated.DurationMinutes)
}

func TestUpdateServiceByNonOwnerForbidden(t *testing.T) {
	repo := newMemoryRepo()
	p, b := setupBusiness(t, repo)
	svc := NewOfferingService(repo)

	created, err := svc.CreateService(context.Background(), p, b.ID, "Haircut", 30, nil)
	require.NoError(t, err)

	_, err = svc.UpdateService(context.Background(), owner(), created.ID, ServiceUpdate{Name: strPtr("Hijacked")})
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestListMyServicesJoinsThroughOwner(t *testing.T) {
	repo := newMemoryRepo()
	p, b := setupBusiness(t, repo)
	other, otherBusiness := setupBusiness(t, repo)
	svc := NewOfferingService(repo)

	_, err := svc.CreateService(context.Background(), p, b.ID, "Haircut", 30, nil)
	require.NoError(t, err)
	_, err = svc.CreateService(context.Background(), other, otherBusiness.ID, "Massage", 60, nil)
	require.NoError(t, err)

	mine, err := svc.ListMyServices(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Haircut", mine[0].Name)
}

func TestDeleteServiceOwnerOnly(t *testing.T) {
	repo := newMemoryRepo()
	p, b := setupBusiness(t, repo)
	svc := NewOfferingService(repo)

	created, err := svc.CreateService(context.Background(), p, b.ID, "Haircut", 30, nil)
	require.NoError(t, err)

	err = svc.DeleteService(context.Background(), owner(), created.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	err = svc.DeleteService(context.Background(), p, created.ID)
	assert.NoError(t, err)
}
