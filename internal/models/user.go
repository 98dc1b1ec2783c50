package models

import "fmt"

type UserRole string

const (
	RoleStudent  UserRole = "student"
	RoleLecturer UserRole = "lecturer"
	RoleAdmin    UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RoleAdmin:
		return true
	}
	return false
}

// Caller is the authenticated identity attached to every request by the
// auth middleware. The service trusts it as given; token verification is
// the identity provider's job.
type Caller struct {
	ID   string   `json:"id"`
	Role UserRole `json:"role"`
}

func NewCaller(id string, role UserRole) (Caller, error) {
	if !role.Valid() {
		return Caller{}, fmt.Errorf("unknown user role %q", role)
	}
	return Caller{ID: id, Role: role}, nil
}
