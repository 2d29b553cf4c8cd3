package identity

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleBusiness Role = "BUSINESS"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole validates a role string coming in over the wire.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleCustomer, RoleBusiness, RoleAdmin:
		return Role(raw), true
	}
	return "", false
}

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Principal is the authenticated actor attached to a request. Authorization
// decisions downstream only ever need the id and the fixed role.
type Principal struct {
	ID   uuid.UUID
	Role Role
}
