// Package service holds the application operations. Services validate input,
// enforce authorization and delegate persistence to repositories.
package service

import (
	"context"
	"log/slog"
	"time"

	"fieldbook/internal/apperr"
	"fieldbook/internal/models"
)

type UserStore interface {
	CreateWith(ctx context.Context, u *models.User, then func(u *models.User) error) error
	EmailTaken(ctx context.Context, email string) (bool, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByID(ctx context.Context, id uint) (*models.User, error)
	MarkVerified(ctx context.Context, id uint) error
}

type VenueStore interface {
	List(ctx context.Context) ([]models.Venue, error)
	ByID(ctx context.Context, id uint) (*models.Venue, error)
	Detail(ctx context.Context, id uint) (*models.Venue, error)
	Create(ctx context.Context, v *models.Venue) error
	Update(ctx context.Context, v *models.Venue) error
	Delete(ctx context.Context, id uint) error
}

type FieldStore interface {
	ListByVenue(ctx context.Context, venueID uint) ([]models.Field, error)
	ByVenue(ctx context.Context, id, venueID uint) (*models.Field, error)
	ByID(ctx context.Context, id uint) (*models.Field, error)
	Create(ctx context.Context, f *models.Field) error
	Update(ctx context.Context, f *models.Field) error
	Delete(ctx context.Context, id uint) error
}

type BookingStore interface {
	CreateWithNoOverlap(ctx context.Context, b *models.Booking) error
	ByID(ctx context.Context, id uint) (*models.Booking, error)
	Detail(ctx context.Context, id uint) (*models.Booking, error)
	List(ctx context.Context) ([]models.Booking, error)
	Schedules(ctx context.Context, userID uint) ([]models.Booking, error)
	AttachPlayer(ctx context.Context, bookingID, userID uint) (bool, error)
	DetachPlayer(ctx context.Context, bookingID, userID uint) (bool, error)
	Update(ctx context.Context, id uint, start, end time.Time, capacity int) error
	Delete(ctx context.Context, id uint) error
}

// OTPStore keeps one pending verification code per user.
type OTPStore interface {
	Save(ctx context.Context, userID uint, code string) error
	Consume(ctx context.Context, userID uint, code string) (bool, error)
	AllowResend(ctx context.Context, userID uint) (bool, time.Duration, error)
	ReleaseResend(ctx context.Context, userID uint) error
	TTL() time.Duration
}

type Mailer interface {
	SendOTP(to, name, code string, ttl time.Duration) error
}

type TokenIssuer interface {
	Issue(userID uint) (string, time.Time, error)
}

// Publisher emits domain events. Delivery is best effort.
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func serviceLogger(base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	pairs := []any{"service", serviceName}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	pairs = append(pairs, attrs...)
	return defaultLogger(base).With(pairs...)
}

// logResult logs the outcome of an operation. Expected client errors are
// logged at info, everything else at error.
func logResult(ctx context.Context, logger *slog.Logger, err error, msg string, attrs ...any) {
	if err == nil {
		logger.InfoContext(ctx, msg, attrs...)
		return
	}
	attrs = append(attrs, "error", err, "error_kind", apperr.KindOf(err))
	if apperr.Status(err) >= 500 {
		logger.ErrorContext(ctx, msg+" failed", attrs...)
		return
	}
	logger.InfoContext(ctx, msg+" rejected", attrs...)
}

func publish(ctx context.Context, pub Publisher, logger *slog.Logger, key string, v any) {
	if pub == nil {
		return
	}
	if err := pub.PublishJSON(ctx, key, v); err != nil {
		logger.WarnContext(ctx, "publish event failed", "routing_key", key, "error", err)
	}
}
