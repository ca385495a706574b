package domain

import (
	"strings"
	"time"
)

// Role is the single coarse classification assigned to every user.
// The set is closed and flat: guards enumerate exactly the roles they
// accept, ADMIN does not implicitly satisfy SUPPORT-only checks.
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleSupport  Role = "SUPPORT"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole maps a stored role value onto the closed set. Unknown or
// empty values fall back to EMPLOYEE.
func ParseRole(value string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleSupport:
		return RoleSupport
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleEmployee
	}
}

// AuthProvider identifies how an account authenticates.
const (
	AuthProviderLocal  = "local"
	AuthProviderGoogle = "google"
)

// User mirrors the persisted representation in the users table.
type User struct {
	ID             string
	Email          string
	FullName       string
	PasswordHash   string
	Role           Role
	Department     *string
	ProfilePicture *string
	AuthProvider   string
	ProviderID     *string
	EmailVerified  bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ExternalIdentity is the subject information returned by a third-party
// identity provider after an authorization-code exchange.
type ExternalIdentity struct {
	Subject       string
	Email         string
	FullName      string
	PictureURL    string
	EmailVerified bool
}
