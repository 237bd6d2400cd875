package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailAlreadyUsed   = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrInvalidRole        = errors.New("invalid role")
)

// Role determines booking privileges. Residents are subject to the monthly
// quota; managers and sysadmins are privileged.
type Role string

const (
	RoleResident Role = "resident"
	RoleManager  Role = "manager"
	RoleSysAdmin Role = "sysadmin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleResident, RoleManager, RoleSysAdmin:
		return true
	}
	return false
}

// Privileged reports whether r may manage the catalog and is eligible
// for the quota exemption policy.
func (r Role) Privileged() bool {
	return r == RoleManager || r == RoleSysAdmin
}

// User represents a resident or operator of the complex.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	DisplayName  *string
	UnitNumber   *string // apartment unit, informational
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// Filter defines filter options for listing users.
type Filter struct {
	Email    string
	Role     string
	IsActive *bool // pointer to distinguish between false and nil (not set)

	Page     int
	PageSize int
}
