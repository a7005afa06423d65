package service

import (
	"context"
	"log/slog"
	"time"

	"fieldbook/internal/apperr"
	"fieldbook/internal/authz"
	"fieldbook/internal/events"
	"fieldbook/internal/metrics"
	"fieldbook/internal/models"
)

type BookingInput struct {
	FieldID       uint   `json:"field_id"`
	PlayDateStart string `json:"play_date_start" validate:"required"`
	PlayDateEnd   string `json:"play_date_end" validate:"required"`
	TotalPlayers  int    `json:"total_players" validate:"gte=1"`
}

// slot parses and orders the booking window.
func (in BookingInput) slot() (start, end time.Time, err error) {
	if err = check(in); err != nil {
		return
	}
	if start, err = parseTime("play_date_start", in.PlayDateStart); err != nil {
		return
	}
	if end, err = parseTime("play_date_end", in.PlayDateEnd); err != nil {
		return
	}
	if !end.After(start) {
		err = apperr.Field("play_date_end", "play_date_end must be after play_date_start")
	}
	return
}

// JoinResult is the roster state after a join.
type JoinResult struct {
	Booking       *models.Booking
	AlreadyJoined bool
}

type BookingSvc struct {
	venues   VenueStore
	fields   FieldStore
	bookings BookingStore
	pub      Publisher
	logger   *slog.Logger
}

func NewBookingSvc(venues VenueStore, fields FieldStore, bookings BookingStore, pub Publisher, logger *slog.Logger) *BookingSvc {
	return &BookingSvc{venues: venues, fields: fields, bookings: bookings, pub: pub, logger: defaultLogger(logger)}
}

func (s *BookingSvc) Create(ctx context.Context, p authz.Principal, venueID uint, in BookingInput) (b *models.Booking, err error) {
	logger := serviceLogger(s.logger, "BookingSvc", "Create", "principal_id", p.ID, "venue_id", venueID, "field_id", in.FieldID)
	defer func() { logResult(ctx, logger, err, "booking created") }()

	if err = authz.Authorize(p, authz.CreateBooking, 0); err != nil {
		return nil, err
	}
	if in.FieldID == 0 {
		return nil, apperr.Field("field_id", "field_id is required")
	}
	start, end, err := in.slot()
	if err != nil {
		return nil, err
	}
	if _, err = s.venues.ByID(ctx, venueID); err != nil {
		return nil, err
	}
	f, err := s.fields.ByID(ctx, in.FieldID)
	if err != nil {
		return nil, err
	}
	if f.VenueID != venueID {
		return nil, apperr.ErrFieldVenueMismatch
	}

	b = &models.Booking{
		FieldID:       f.ID,
		PlayDateStart: start,
		PlayDateEnd:   end,
		TotalPlayers:  in.TotalPlayers,
		UserID:        p.ID,
	}
	if err = s.bookings.CreateWithNoOverlap(ctx, b); err != nil {
		return nil, err
	}
	metrics.BookingsCreatedTotal.Inc()
	publish(ctx, s.pub, logger, events.BookingCreated, map[string]any{
		"booking_id": b.ID, "field_id": b.FieldID, "user_id": b.UserID,
		"start": b.PlayDateStart.Unix(), "end": b.PlayDateEnd.Unix(), "total_players": b.TotalPlayers,
	})
	return b, nil
}

func (s *BookingSvc) List(ctx context.Context, p authz.Principal) ([]models.Booking, error) {
	if err := authz.Authorize(p, authz.ListBookings, 0); err != nil {
		return nil, err
	}
	return s.bookings.List(ctx)
}

func (s *BookingSvc) Detail(ctx context.Context, p authz.Principal, id uint) (*models.Booking, error) {
	if err := authz.Authorize(p, authz.ShowBooking, 0); err != nil {
		return nil, err
	}
	return s.bookings.Detail(ctx, id)
}

func (s *BookingSvc) Schedules(ctx context.Context, p authz.Principal) ([]models.Booking, error) {
	if err := authz.Authorize(p, authz.ListSchedules, 0); err != nil {
		return nil, err
	}
	return s.bookings.Schedules(ctx, p.ID)
}

// Join adds the principal to the roster. Joining twice is not an error.
func (s *BookingSvc) Join(ctx context.Context, p authz.Principal, id uint) (res JoinResult, err error) {
	logger := serviceLogger(s.logger, "BookingSvc", "Join", "principal_id", p.ID, "booking_id", id)
	defer func() {
		switch {
		case err == nil && res.AlreadyJoined:
			metrics.BookingJoinsTotal.WithLabelValues("already_joined").Inc()
		case err == nil:
			metrics.BookingJoinsTotal.WithLabelValues("joined").Inc()
		case apperr.KindOf(err) == apperr.KindCapacity.String():
			metrics.BookingJoinsTotal.WithLabelValues("full").Inc()
		default:
			metrics.BookingJoinsTotal.WithLabelValues("error").Inc()
		}
		logResult(ctx, logger, err, "booking joined", "already_joined", res.AlreadyJoined)
	}()

	if err = authz.Authorize(p, authz.JoinBooking, 0); err != nil {
		return res, err
	}
	if res.AlreadyJoined, err = s.bookings.AttachPlayer(ctx, id, p.ID); err != nil {
		return res, err
	}
	if res.Booking, err = s.bookings.Detail(ctx, id); err != nil {
		return res, err
	}
	if !res.AlreadyJoined {
		publish(ctx, s.pub, logger, events.BookingJoined, map[string]any{
			"booking_id": id, "user_id": p.ID, "players_count": res.Booking.PlayersCount,
		})
	}
	return res, nil
}

// Unjoin removes the principal from the roster. Leaving a booking one never
// joined is not an error.
func (s *BookingSvc) Unjoin(ctx context.Context, p authz.Principal, id uint) (b *models.Booking, err error) {
	logger := serviceLogger(s.logger, "BookingSvc", "Unjoin", "principal_id", p.ID, "booking_id", id)
	defer func() { logResult(ctx, logger, err, "booking unjoined") }()

	if err = authz.Authorize(p, authz.UnjoinBooking, 0); err != nil {
		return nil, err
	}
	removed, err := s.bookings.DetachPlayer(ctx, id, p.ID)
	if err != nil {
		return nil, err
	}
	if b, err = s.bookings.Detail(ctx, id); err != nil {
		return nil, err
	}
	if removed {
		publish(ctx, s.pub, logger, events.BookingUnjoined, map[string]any{
			"booking_id": id, "user_id": p.ID, "players_count": b.PlayersCount,
		})
	}
	return b, nil
}

// Update lets the creator move the slot or change capacity. The field of a
// booking is fixed at creation.
func (s *BookingSvc) Update(ctx context.Context, p authz.Principal, id uint, in BookingInput) (b *models.Booking, err error) {
	logger := serviceLogger(s.logger, "BookingSvc", "Update", "principal_id", p.ID, "booking_id", id)
	defer func() { logResult(ctx, logger, err, "booking updated") }()

	if _, err = s.created(ctx, p, authz.UpdateBooking, id); err != nil {
		return nil, err
	}
	start, end, err := in.slot()
	if err != nil {
		return nil, err
	}
	if err = s.bookings.Update(ctx, id, start, end, in.TotalPlayers); err != nil {
		return nil, err
	}
	return s.bookings.Detail(ctx, id)
}

func (s *BookingSvc) Delete(ctx context.Context, p authz.Principal, id uint) (err error) {
	logger := serviceLogger(s.logger, "BookingSvc", "Delete", "principal_id", p.ID, "booking_id", id)
	defer func() { logResult(ctx, logger, err, "booking deleted") }()

	if _, err = s.created(ctx, p, authz.DeleteBooking, id); err != nil {
		return err
	}
	if err = s.bookings.Delete(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.pub, logger, events.BookingDeleted, map[string]any{"booking_id": id, "user_id": p.ID})
	return nil
}

// created loads a booking and checks that p created it.
func (s *BookingSvc) created(ctx context.Context, p authz.Principal, action authz.Action, id uint) (*models.Booking, error) {
	if err := authz.Authorize(p, action, 0); err != nil {
		return nil, err
	}
	b, err := s.bookings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(p, action, b.UserID); err != nil {
		return nil, err
	}
	return b, nil
}
