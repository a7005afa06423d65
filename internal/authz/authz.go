// Package authz decides whether a principal may perform an operation.
//
// Every check runs the same three gates in order: verification, role and
// ownership. Route middleware and services both call into this package so the
// rules live in one place.
package authz

import "fieldbook/internal/apperr"

type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "owner"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleOwner
}

// Principal is the authenticated actor of a request.
type Principal struct {
	ID       uint
	Role     Role
	Verified bool
}

// Action identifies a guarded operation.
type Action int

const (
	CreateVenue Action = iota + 1
	UpdateVenue
	DeleteVenue
	CreateField
	UpdateField
	DeleteField
	CreateBooking
	ListBookings
	ShowBooking
	JoinBooking
	UnjoinBooking
	UpdateBooking
	DeleteBooking
	ListSchedules
)

var requiredRole = map[Action]Role{
	CreateVenue:   RoleOwner,
	UpdateVenue:   RoleOwner,
	DeleteVenue:   RoleOwner,
	CreateField:   RoleOwner,
	UpdateField:   RoleOwner,
	DeleteField:   RoleOwner,
	CreateBooking: RoleUser,
	ListBookings:  RoleUser,
	ShowBooking:   RoleUser,
	JoinBooking:   RoleUser,
	UnjoinBooking: RoleUser,
	UpdateBooking: RoleUser,
	DeleteBooking: RoleUser,
	ListSchedules: RoleUser,
}

// RoleFor returns the role an action is tagged with.
func RoleFor(a Action) (Role, bool) {
	r, ok := requiredRole[a]
	return r, ok
}

// RequireVerified is the verification gate.
func RequireVerified(p Principal) error {
	if !p.Verified {
		return apperr.ErrNotVerified
	}
	return nil
}

// RequireRole is the role gate.
func RequireRole(p Principal, role Role) error {
	if p.Role == role {
		return nil
	}
	if role == RoleOwner {
		return apperr.ErrOwnerOnly
	}
	return apperr.ErrUserOnly
}

// RequireOwner is the ownership gate.
func RequireOwner(p Principal, ownerID uint) error {
	if p.ID == 0 || p.ID != ownerID {
		return apperr.ErrForbidden
	}
	return nil
}

// Authorize runs all gates for action. ownerID is the id at the end of the
// ownership chain of the target resource; pass 0 when the action has no target
// yet (creating a venue, creating a booking, listing).
func Authorize(p Principal, action Action, ownerID uint) error {
	if err := RequireVerified(p); err != nil {
		return err
	}
	role, ok := requiredRole[action]
	if !ok {
		return apperr.ErrForbidden
	}
	if err := RequireRole(p, role); err != nil {
		return err
	}
	if ownerID == 0 {
		return nil
	}
	return RequireOwner(p, ownerID)
}
