package availability

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrSlotNotFound = errors.New("availability slot not found")

// Repository contains all DB interactions needed by the availability service.
type Repository interface {
	GetSlotByID(ctx context.Context, id uuid.UUID) (*Slot, error)
	ListSlots(ctx context.Context) ([]Slot, error)
	ListSlotsByBusiness(ctx context.Context, businessID uuid.UUID) ([]Slot, error)
	// ListSlotsByBusinessOwner joins through the owning business.
	ListSlotsByBusinessOwner(ctx context.Context, ownerID uuid.UUID) ([]Slot, error)
	CreateSlot(ctx context.Context, s Slot) (*Slot, error)
	UpdateSlot(ctx context.Context, s Slot) (*Slot, error)
	DeleteSlot(ctx context.Context, id uuid.UUID) error
}
