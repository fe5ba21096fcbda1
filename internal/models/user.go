package models

import (
	"time"

	"github.com/google/uuid"
)

// user roles
const (
	RoleOwner   = "OWNER"
	RoleManager = "MANAGER"
	RoleFlorist = "FLORIST"
	RoleCourier = "COURIER"
)

// User is staff member entity
type User struct {
	ID             uuid.UUID
	Login          string
	PasswordHash   string
	Role           string
	OrganizationID uuid.UUID
	IsActive       bool
	CreatedAt      time.Time
}

// Organization is tenant entity
type Organization struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// TokenPayload is authorization token payload
type TokenPayload struct {
	UserID         uuid.UUID
	Role           string
	OrganizationID uuid.UUID
}

// IsStaffRole reports whether role is one of the known staff roles.
func IsStaffRole(role string) bool {
	switch role {
	case RoleOwner, RoleManager, RoleFlorist, RoleCourier:
		return true
	}
	return false
}
