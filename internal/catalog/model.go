package catalog

import (
	"time"

	"github.com/google/uuid"
)

type Business struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description *string
	Location    *string
	CreatedAt   time.Time
}

// Service is a bookable offering published by a business. Price is optional;
// duration is informational (bookings are point-in-time, see the appointment
// package).
type Service struct {
	ID              uuid.UUID
	BusinessID      uuid.UUID
	Name            string
	DurationMinutes int
	Price           *float64
	CreatedAt       time.Time
}

// BusinessUpdate carries the mutable business fields. Nil means "leave as is".
type BusinessUpdate struct {
	Name        *string
	Description *string
	Location    *string
}

// ServiceUpdate carries the mutable service fields. The owning business is
// never updatable.
type ServiceUpdate struct {
	Name            *string
	DurationMinutes *int
	Price           *float64
}
