package service

import (
	"context"
	"errors"
	"testing"

	"fieldbook/internal/apperr"
	"fieldbook/internal/authz"
	"fieldbook/internal/models"
)

func (e *env) principal(t *testing.T, email string, role authz.Role) authz.Principal {
	t.Helper()
	u := models.User{Name: "Someone", Email: email, Password: "x", Role: role, IsVerified: true}
	if err := e.users.Create(context.Background(), &u); err != nil {
		t.Fatalf("create %s: %v", email, err)
	}
	return u.Principal()
}

// seedField creates a venue owned by owner with one field.
func (e *env) seedField(t *testing.T, owner authz.Principal) (*models.Venue, *models.Field) {
	t.Helper()
	ctx := context.Background()
	v, err := e.venueSvc.Create(ctx, owner, VenueInput{Name: "Arena", Address: "Main St 1", Phone: "0800"})
	if err != nil {
		t.Fatalf("create venue: %v", err)
	}
	f, err := e.fieldSvc.Create(ctx, owner, v.ID, FieldInput{Name: "Court 1", Type: "futsal"})
	if err != nil {
		t.Fatalf("create field: %v", err)
	}
	return v, f
}

func TestBookingLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.principal(t, "a@example.com", authz.RoleOwner)
	b := e.principal(t, "b@example.com", authz.RoleUser)
	c := e.principal(t, "c@example.com", authz.RoleUser)
	d := e.principal(t, "d@example.com", authz.RoleUser)
	x := e.principal(t, "e@example.com", authz.RoleUser)
	v, f := e.seedField(t, owner)

	in := BookingInput{FieldID: f.ID, PlayDateStart: "2026-05-01 18:00:00", PlayDateEnd: "2026-05-01T19:00:00Z", TotalPlayers: 2}
	if _, err := e.bookingSvc.Create(ctx, owner, v.ID, in); !errors.Is(err, apperr.ErrUserOnly) {
		t.Fatalf("owner must not book, got %v", err)
	}
	booking, err := e.bookingSvc.Create(ctx, b, v.ID, in)
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if _, err := e.bookingSvc.Create(ctx, b, v.ID, in); !errors.Is(err, apperr.ErrSlotTaken) {
		t.Fatalf("expected overlap rejection, got %v", err)
	}

	for _, p := range []authz.Principal{c, d} {
		res, err := e.bookingSvc.Join(ctx, p, booking.ID)
		if err != nil || res.AlreadyJoined {
			t.Fatalf("join %d: %+v %v", p.ID, res, err)
		}
	}
	if _, err := e.bookingSvc.Join(ctx, x, booking.ID); !errors.Is(err, apperr.ErrBookingFull) {
		t.Fatalf("expected full booking, got %v", err)
	}
	res, err := e.bookingSvc.Join(ctx, c, booking.ID)
	if err != nil || !res.AlreadyJoined || res.Booking.PlayersCount != 2 {
		t.Fatalf("rejoin should be a no-op success, got %+v %v", res, err)
	}

	after, err := e.bookingSvc.Unjoin(ctx, c, booking.ID)
	if err != nil || after.PlayersCount != 1 {
		t.Fatalf("unjoin: %+v %v", after, err)
	}
	if _, err := e.bookingSvc.Unjoin(ctx, c, booking.ID); err != nil {
		t.Fatalf("unjoin of a non member must succeed, got %v", err)
	}
	if _, err := e.bookingSvc.Join(ctx, x, booking.ID); err != nil {
		t.Fatalf("join after a slot freed: %v", err)
	}

	upd := BookingInput{PlayDateStart: "2026-05-01T20:00:00Z", PlayDateEnd: "2026-05-01T21:00:00Z", TotalPlayers: 1}
	if _, err := e.bookingSvc.Update(ctx, c, booking.ID, upd); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("non creator update must fail, got %v", err)
	}
	if _, err := e.bookingSvc.Update(ctx, b, booking.ID, upd); !errors.Is(err, apperr.ErrCapacityBelowRoster) {
		t.Fatalf("expected capacity below roster, got %v", err)
	}
	upd.TotalPlayers = 4
	got, err := e.bookingSvc.Update(ctx, b, booking.ID, upd)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.TotalPlayers != 4 || got.PlayDateStart.Hour() != 20 || got.PlayersCount != 2 {
		t.Fatalf("unexpected booking after update: %+v", got)
	}

	sched, err := e.bookingSvc.Schedules(ctx, d)
	if err != nil || len(sched) != 1 {
		t.Fatalf("expected d to have one schedule, got %d %v", len(sched), err)
	}

	if err := e.bookingSvc.Delete(ctx, d, booking.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("non creator delete must fail, got %v", err)
	}
	if err := e.bookingSvc.Delete(ctx, b, booking.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := e.bookingSvc.Detail(ctx, b, booking.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected deleted booking to be gone, got %v", err)
	}

	want := []string{"booking.created", "booking.joined", "booking.joined", "booking.unjoined", "booking.joined", "booking.deleted"}
	gotKeys := e.pub.keys()
	if len(gotKeys) != len(want) {
		t.Fatalf("expected events %v, got %v", want, gotKeys)
	}
	for i := range want {
		if gotKeys[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, gotKeys)
		}
	}
}

func TestCreateBookingValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.principal(t, "a@example.com", authz.RoleOwner)
	b := e.principal(t, "b@example.com", authz.RoleUser)
	v, f := e.seedField(t, owner)
	other, err := e.venueSvc.Create(ctx, owner, VenueInput{Name: "Other", Address: "x", Phone: "1"})
	if err != nil {
		t.Fatalf("create venue: %v", err)
	}

	cases := []struct {
		name    string
		venueID uint
		in      BookingInput
		want    error
	}{
		{"end before start", v.ID, BookingInput{FieldID: f.ID, PlayDateStart: "2026-05-01T19:00:00Z", PlayDateEnd: "2026-05-01T18:00:00Z", TotalPlayers: 2}, apperr.ErrValidation},
		{"zero capacity", v.ID, BookingInput{FieldID: f.ID, PlayDateStart: "2026-05-01T18:00:00Z", PlayDateEnd: "2026-05-01T19:00:00Z"}, apperr.ErrValidation},
		{"bad datetime", v.ID, BookingInput{FieldID: f.ID, PlayDateStart: "tomorrow", PlayDateEnd: "2026-05-01T19:00:00Z", TotalPlayers: 2}, apperr.ErrValidation},
		{"missing field", v.ID, BookingInput{PlayDateStart: "2026-05-01T18:00:00Z", PlayDateEnd: "2026-05-01T19:00:00Z", TotalPlayers: 2}, apperr.ErrValidation},
		{"unknown field", v.ID, BookingInput{FieldID: 999, PlayDateStart: "2026-05-01T18:00:00Z", PlayDateEnd: "2026-05-01T19:00:00Z", TotalPlayers: 2}, apperr.ErrNotFound},
		{"unknown venue", 999, BookingInput{FieldID: f.ID, PlayDateStart: "2026-05-01T18:00:00Z", PlayDateEnd: "2026-05-01T19:00:00Z", TotalPlayers: 2}, apperr.ErrNotFound},
		{"field of another venue", other.ID, BookingInput{FieldID: f.ID, PlayDateStart: "2026-05-01T18:00:00Z", PlayDateEnd: "2026-05-01T19:00:00Z", TotalPlayers: 2}, apperr.ErrFieldVenueMismatch},
	}
	for _, tc := range cases {
		if _, err := e.bookingSvc.Create(ctx, b, tc.venueID, tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestUnverifiedPrincipalIsRejected(t *testing.T) {
	e := newEnv(t)
	p := authz.Principal{ID: 1, Role: authz.RoleUser}
	if _, err := e.bookingSvc.List(context.Background(), p); !errors.Is(err, apperr.ErrNotVerified) {
		t.Fatalf("expected verify your otp first, got %v", err)
	}
	if _, err := e.bookingSvc.Join(context.Background(), p, 1); !errors.Is(err, apperr.ErrNotVerified) {
		t.Fatalf("expected verify your otp first, got %v", err)
	}
}

func TestVenueAndFieldOwnership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.principal(t, "a@example.com", authz.RoleOwner)
	rival := e.principal(t, "r@example.com", authz.RoleOwner)
	user := e.principal(t, "u@example.com", authz.RoleUser)
	v, f := e.seedField(t, owner)

	if _, err := e.venueSvc.Create(ctx, user, VenueInput{Name: "x", Address: "y", Phone: "z"}); !errors.Is(err, apperr.ErrOwnerOnly) {
		t.Fatalf("user must not create venues, got %v", err)
	}
	if _, err := e.venueSvc.Create(ctx, owner, VenueInput{Name: "x"}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := e.venueSvc.Update(ctx, rival, v.ID, VenueInput{Name: "x", Address: "y", Phone: "z"}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("rival must not update, got %v", err)
	}
	if _, err := e.venueSvc.Update(ctx, owner, 999, VenueInput{Name: "x", Address: "y", Phone: "z"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	updated, err := e.venueSvc.Update(ctx, owner, v.ID, VenueInput{Name: "Arena 2", Address: "y", Phone: "z"})
	if err != nil || updated.Name != "Arena 2" {
		t.Fatalf("update venue: %+v %v", updated, err)
	}

	if _, err := e.fieldSvc.Create(ctx, rival, v.ID, FieldInput{Name: "Court 2", Type: "soccer"}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("rival must not add fields, got %v", err)
	}
	if _, err := e.fieldSvc.Create(ctx, owner, v.ID, FieldInput{Name: "Court 2", Type: "cricket"}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected invalid type rejection, got %v", err)
	}
	if _, err := e.fieldSvc.Create(ctx, owner, 999, FieldInput{Name: "Court 2", Type: "soccer"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected unknown venue, got %v", err)
	}
	if _, err := e.fieldSvc.Update(ctx, owner, v.ID, f.ID, FieldInput{Name: "Court One", Type: "soccer"}); err != nil {
		t.Fatalf("update field: %v", err)
	}
	if _, err := e.fieldSvc.Update(ctx, owner, v.ID, 999, FieldInput{Name: "Court One", Type: "soccer"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected unknown field, got %v", err)
	}
	if err := e.fieldSvc.Delete(ctx, rival, v.ID, f.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("rival must not delete fields, got %v", err)
	}
	if err := e.fieldSvc.Delete(ctx, owner, v.ID, f.ID); err != nil {
		t.Fatalf("delete field: %v", err)
	}
	if err := e.venueSvc.Delete(ctx, rival, v.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("rival must not delete venue, got %v", err)
	}
	if err := e.venueSvc.Delete(ctx, owner, v.ID); err != nil {
		t.Fatalf("delete venue: %v", err)
	}
	if _, err := e.venueSvc.Detail(ctx, v.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected deleted venue to be gone, got %v", err)
	}
}
