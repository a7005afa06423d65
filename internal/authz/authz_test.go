package authz

import (
	"errors"
	"testing"

	"fieldbook/internal/apperr"
)

func TestAuthorize(t *testing.T) {
	owner := Principal{ID: 1, Role: RoleOwner, Verified: true}
	user := Principal{ID: 2, Role: RoleUser, Verified: true}
	unverifiedOwner := Principal{ID: 3, Role: RoleOwner}

	cases := []struct {
		name    string
		p       Principal
		action  Action
		ownerID uint
		want    error
	}{
		{"owner creates venue", owner, CreateVenue, 0, nil},
		{"owner updates own venue", owner, UpdateVenue, 1, nil},
		{"owner updates foreign venue", owner, UpdateVenue, 9, apperr.ErrForbidden},
		{"user creates venue", user, CreateVenue, 0, apperr.ErrOwnerOnly},
		{"owner books", owner, CreateBooking, 0, apperr.ErrUserOnly},
		{"user joins", user, JoinBooking, 0, nil},
		{"creator deletes booking", user, DeleteBooking, 2, nil},
		{"other user deletes booking", user, DeleteBooking, 7, apperr.ErrForbidden},
		{"unverified is rejected before role", unverifiedOwner, CreateVenue, 0, apperr.ErrNotVerified},
		{"unverified is rejected for user actions too", Principal{ID: 4, Role: RoleUser}, JoinBooking, 0, apperr.ErrNotVerified},
		{"unknown action", user, Action(999), 0, apperr.ErrForbidden},
	}

	for _, tc := range cases {
		err := Authorize(tc.p, tc.action, tc.ownerID)
		if tc.want == nil {
			if err != nil {
				t.Fatalf("%s: expected nil, got %v", tc.name, err)
			}
			continue
		}
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestRequireOwnerRejectsZeroPrincipal(t *testing.T) {
	if err := RequireOwner(Principal{}, 0); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("anonymous principal must not own anything, got %v", err)
	}
}

func TestRoleFor(t *testing.T) {
	if r, ok := RoleFor(CreateField); !ok || r != RoleOwner {
		t.Fatalf("expected CreateField to be owner-only, got %q %v", r, ok)
	}
	if r, ok := RoleFor(ListSchedules); !ok || r != RoleUser {
		t.Fatalf("expected ListSchedules to be user-only, got %q %v", r, ok)
	}
}
