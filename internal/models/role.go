package models

import (
	"errors"
	"fmt"
	"strings"
)

// Role is the acting capacity of a session
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDoctor Role = "doctor"
	RoleOwner  Role = "owner"
)

// DefaultRole is used when no role has been chosen or the stored one is unreadable
const DefaultRole = RoleOwner

// ErrInvalidRole is returned for any role string outside the known set
var ErrInvalidRole = errors.New("invalid role")

// Roles lists every valid role
func Roles() []Role {
	return []Role{RoleAdmin, RoleDoctor, RoleOwner}
}

// ParseRole converts a raw string into a Role
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleDoctor:
		return RoleDoctor, nil
	case RoleOwner:
		return RoleOwner, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleOwner:
		return true
	}
	return false
}

// ClinicWide reports whether the role sees every provider's data
func (r Role) ClinicWide() bool {
	return r == RoleAdmin || r == RoleOwner
}

func (r Role) String() string {
	return string(r)
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, string(r))
	}
	return []byte(r), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
