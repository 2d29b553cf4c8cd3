package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusDone      Status = "DONE"
)

// ParseStatus validates a status string coming in over the wire.
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusDone:
		return Status(raw), true
	}
	return "", false
}

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusDone
}

type Appointment struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	BusinessID uuid.UUID
	ServiceID  uuid.UUID
	DateTime   time.Time // second precision, UTC
	Status     Status
	CreatedAt  time.Time
}

// Detail is the flattened read model every appointment read returns: the
// customer/business/service joins happen in the repository so callers never
// chase references themselves. BusinessOwnerID is carried for ownership checks
// only and is not exposed over the wire.
type Detail struct {
	Appointment
	CustomerName    string
	CustomerEmail   string
	BusinessName    string
	BusinessOwnerID uuid.UUID
	ServiceName     string
	ServiceDuration int
}
