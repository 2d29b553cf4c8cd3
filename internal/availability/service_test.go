package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotify-dev/booking-platform/internal/catalog"
	"github.com/slotify-dev/booking-platform/internal/identity"
)

type memoryRepo struct {
	slots map[uuid.UUID]*Slot
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{slots: make(map[uuid.UUID]*Slot)}
}

func (m *memoryRepo) GetSlotByID(_ context.Context, id uuid.UUID) (*Slot, error) {
	s, ok := m.slots[id]
	if !ok {
		return nil, ErrSlotNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memoryRepo) ListSlots(_ context.Context) ([]Slot, error) {
	var out []Slot
	for _, s := range m.slots {
		out = append(out, *s)
	}
	return out, nil
}

func (m *memoryRepo) ListSlotsByBusiness(_ context.Context, businessID uuid.UUID) ([]Slot, error) {
	var out []Slot
	for _, s := range m.slots {
		if s.BusinessID == businessID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListSlotsByBusinessOwner(ctx context.Context, ownerID uuid.UUID) ([]Slot, error) {
	// The stub directory keys businesses by owner, see businessDirectory below.
	var out []Slot
	for _, s := range m.slots {
		if s.BusinessID == deterministicBusinessID(ownerID) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memoryRepo) CreateSlot(_ context.Context, s Slot) (*Slot, error) {
	m.slots[s.ID] = &s
	cp := s
	return &cp, nil
}

func (m *memoryRepo) UpdateSlot(_ context.Context, s Slot) (*Slot, error) {
	if _, ok := m.slots[s.ID]; !ok {
		return nil, ErrSlotNotFound
	}
	m.slots[s.ID] = &s
	cp := s
	return &cp, nil
}

func (m *memoryRepo) DeleteSlot(_ context.Context, id uuid.UUID) error {
	if _, ok := m.slots[id]; !ok {
		return ErrSlotNotFound
	}
	delete(m.slots, id)
	return nil
}

var _ Repository = (*memoryRepo)(nil)

// deterministicBusinessID derives a stable business id from an owner id so the
// stub directory needs no state.
func deterministicBusinessID(ownerID uuid.UUID) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, ownerID[:])
}

type businessDirectory struct{}

func (businessDirectory) GetBusinessByID(_ context.Context, id uuid.UUID) (*catalog.Business, error) {
	// Every known business's owner id is recoverable by construction in tests;
	// unknown ids are simulated with uuid.Nil owners.
	for _, owner := range knownOwners {
		if deterministicBusinessID(owner) == id {
			return &catalog.Business{ID: id, OwnerID: owner, Name: "Test Business"}, nil
		}
	}
	return nil, catalog.ErrBusinessNotFound
}

var knownOwners []uuid.UUID

func newOwner() identity.Principal {
	p := identity.Principal{ID: uuid.New(), Role: identity.RoleBusiness}
	knownOwners = append(knownOwners, p.ID)
	return p
}

func validSlot(businessID uuid.UUID) Slot {
	return Slot{
		BusinessID: businessID,
		StartDate:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
		StartTime:  "09:00",
		EndTime:    "18:00",
	}
}

func TestCreateSlotRequiresBusinessRole(t *testing.T) {
	svc := NewService(newMemoryRepo(), businessDirectory{})
	p := newOwner()

	customer := identity.Principal{ID: uuid.New(), Role: identity.RoleCustomer}
	_, err := svc.CreateSlot(context.Background(), customer, validSlot(deterministicBusinessID(p.ID)))
	assert.ErrorIs(t, err, catalog.ErrBusinessRoleRequired)
}

func TestCreateSlotRequiresOwnership(t *testing.T) {
	svc := NewService(newMemoryRepo(), businessDirectory{})
	p := newOwner()
	other := newOwner()

	_, err := svc.CreateSlot(context.Background(), other, validSlot(deterministicBusinessID(p.ID)))
	assert.ErrorIs(t, err, catalog.ErrNotOwner)
}

func TestCreateSlotUnknownBusiness(t *testing.T) {
	svc := NewService(newMemoryRepo(), businessDirectory{})
	p := newOwner()

	slot := validSlot(uuid.New())
	_, err := svc.CreateSlot(context.Background(), p, slot)
	assert.ErrorIs(t, err, catalog.ErrBusinessNotFound)
}

func TestCreateSlotValidatesRanges(t *testing.T) {
	svc := NewService(newMemoryRepo(), businessDirectory{})
	p := newOwner()
	businessID := deterministicBusinessID(p.ID)

	slot := validSlot(businessID)
	slot.EndDate = slot.StartDate.AddDate(0, 0, -1)
	_, err := svc.CreateSlot(context.Background(), p, slot)
	assert.ErrorIs(t, err, ErrBadDateRange)

	slot = validSlot(businessID)
	slot.EndTime = slot.StartTime
	_, err = svc.CreateSlot(context.Background(), p, slot)
	assert.ErrorIs(t, err, ErrBadTimeRange)

	slot = validSlot(businessID)
	slot.StartTime = "nine"
	_, err = svc.CreateSlot(context.Background(), p, slot)
	assert.ErrorIs(t, err, ErrBadTimeOfDay)
}

func TestCreateSlotSingleDayWindowAllowed(t *testing.T) {
	svc := NewService(newMemoryRepo(), businessDirectory{})
	p := newOwner()

	slot := validSlot(deterministicBusinessID(p.ID))
	slot.EndDate = slot.StartDate // same-day window is fine, times must still order
	created, err := svc.CreateSlot(context.Background(), p, slot)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func TestUpdateSlotRevalidatesRanges(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, businessDirectory{})
	p := newOwner()

	created, err := svc.CreateSlot(context.Background(), p, validSlot(deterministicBusinessID(p.ID)))
	require.NoError(t, err)

	bad := "08:00"
	_, err = svc.UpdateSlot(context.Background(), p, created.ID, SlotUpdate{EndTime: &bad})
	assert.ErrorIs(t, err, ErrBadTimeRange)

	good := "20:00"
	updated, err := svc.UpdateSlot(context.Background(), p, created.ID, SlotUpdate{EndTime: &good})
	require.NoError(t, err)
	assert.Equal(t, "20:00", updated.EndTime)
}

func TestUpdateSlotByNonOwnerForbidden(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, businessDirectory{})
	p := newOwner()
	other := newOwner()

	created, err := svc.CreateSlot(context.Background(), p, validSlot(deterministicBusinessID(p.ID)))
	require.NoError(t, err)

	late := "23:00"
	_, err = svc.UpdateSlot(context.Background(), other, created.ID, SlotUpdate{EndTime: &late})
	assert.ErrorIs(t, err, catalog.ErrNotOwner)
}

func TestDeleteSlotOwnerOnly(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, businessDirectory{})
	p := newOwner()
	other := newOwner()

	created, err := svc.CreateSlot(context.Background(), p, validSlot(deterministicBusinessID(p.ID)))
	require.NoError(t, err)

	err = svc.DeleteSlot(context.Background(), other, created.ID)
	assert.ErrorIs(t, err, catalog.ErrNotOwner)

	err = svc.DeleteSlot(context.Background(), p, created.ID)
	assert.NoError(t, err)
}
