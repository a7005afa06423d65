// Package apperr defines the error taxonomy shared by repositories, services and
// HTTP handlers.
package apperr

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"
)

// Kind classifies an error for transport mapping and logging.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindUnauthorized
	KindNotFound
	KindCapacity
	KindConflict
	KindInvalid
	KindThrottled
)

// Error is a classified application error with a user facing message.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.String()
}

// Is matches another *Error with the same kind. A target without a message
// matches every error of that kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

var (
	ErrValidation = &Error{Kind: KindValidation}

	ErrUnauthenticated = &Error{Kind: KindUnauthenticated, Message: "unauthorized access"}

	ErrNotVerified = &Error{Kind: KindUnauthorized, Message: "verify your otp first!!"}
	ErrOwnerOnly   = &Error{Kind: KindUnauthorized, Message: "only owner who can access this"}
	ErrUserOnly    = &Error{Kind: KindUnauthorized, Message: "only user who can access this"}
	ErrForbidden   = &Error{Kind: KindUnauthorized, Message: "you dont have permission to access this"}

	ErrNotFound = &Error{Kind: KindNotFound, Message: "resource not found"}

	ErrBookingFull = &Error{Kind: KindCapacity, Message: "you cannot join on this field"}

	ErrFieldVenueMismatch = &Error{Kind: KindConflict, Message: "you cant book this field"}
	ErrSlotTaken          = &Error{Kind: KindConflict, Message: "field already booked for this time slot"}

	ErrVerificationFailed = &Error{Kind: KindInvalid, Message: "otp verify failed"}
	ErrInvalidCredentials = &Error{Kind: KindInvalid, Message: "login error"}
	ErrAlreadyVerified    = &Error{Kind: KindInvalid, Message: "account already verified"}

	ErrThrottled = &Error{Kind: KindThrottled, Message: "too many requests"}

	ErrEmailTaken = &Error{
		Kind:    KindValidation,
		Message: "email not available",
		Fields:  map[string]string{"email": "email not available"},
	}
	ErrCapacityBelowRoster = &Error{
		Kind:    KindValidation,
		Message: "total_players cannot be lower than joined players",
		Fields:  map[string]string{"total_players": "total_players cannot be lower than joined players"},
	}
)

// Throttled reports how long the caller has to wait before retrying.
func Throttled(retryAfter time.Duration) *Error {
	secs := int(math.Ceil(retryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return &Error{
		Kind:    KindThrottled,
		Message: ErrThrottled.Message,
		Fields:  map[string]string{"retry_after": strconv.Itoa(secs)},
	}
}

// Validation builds a validation error from field level messages.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

// Field is shorthand for a single field validation error.
func Field(name, message string) *Error {
	return Validation(map[string]string{name: message})
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindUnauthenticated, KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindCapacity, KindConflict, KindInvalid:
		return http.StatusBadRequest
	case KindThrottled:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// KindOf returns a stable label for logging.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return "unexpected"
	}
	return e.Kind.String()
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindCapacity:
		return "capacity"
	case KindConflict:
		return "conflict"
	case KindInvalid:
		return "invalid"
	case KindThrottled:
		return "throttled"
	default:
		return "internal"
	}
}
