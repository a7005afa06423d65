package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fieldbook/internal/apperr"
	"fieldbook/internal/authz"
	"fieldbook/internal/events"
	"fieldbook/internal/metrics"
	"fieldbook/internal/models"
	"fieldbook/internal/utils"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=5,max=100"`
	Email    string `json:"email" validate:"required,email,max=191"`
	Password string `json:"password" validate:"required,min=5"`
	Role     string `json:"role" validate:"required,oneof=user owner"`
}

type VerifyInput struct {
	Email   string `json:"email" validate:"required,email"`
	OTPCode string `json:"otp_code" validate:"required,len=6,numeric"`
}

type ResendInput struct {
	Email string `json:"email" validate:"required,email"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Token is an issued bearer credential.
type Token struct {
	Type      string    `json:"type"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthSvc struct {
	users  UserStore
	otps   OTPStore
	mail   Mailer
	tokens TokenIssuer
	pub    Publisher
	logger *slog.Logger
}

func NewAuthSvc(users UserStore, otps OTPStore, mail Mailer, tokens TokenIssuer, pub Publisher, logger *slog.Logger) *AuthSvc {
	return &AuthSvc{users: users, otps: otps, mail: mail, tokens: tokens, pub: pub, logger: defaultLogger(logger)}
}

// Register creates an unverified account and sends its first code.
func (s *AuthSvc) Register(ctx context.Context, in RegisterInput) (id uint, err error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	logger := serviceLogger(s.logger, "AuthSvc", "Register", "email", in.Email)
	defer func() { logResult(ctx, logger, err, "user registered", "user_id", id) }()

	if err = check(in); err != nil {
		return 0, err
	}
	taken, err := s.users.EmailTaken(ctx, in.Email)
	if err != nil {
		return 0, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return 0, apperr.ErrEmailTaken
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{Name: in.Name, Email: in.Email, Password: hash, Role: authz.Role(in.Role)}
	var code string
	err = s.users.CreateWith(ctx, u, func(u *models.User) error {
		var err error
		code, err = s.saveCode(ctx, u.ID)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.deliverCode(ctx, logger, u, code)
	publish(ctx, s.pub, logger, events.UserRegistered, map[string]any{
		"user_id": u.ID, "email": u.Email, "role": u.Role,
	})
	return u.ID, nil
}

// saveCode stores a fresh code for the user.
func (s *AuthSvc) saveCode(ctx context.Context, userID uint) (string, error) {
	code, err := utils.GenerateNumericOTP(utils.OTPLength)
	if err != nil {
		return "", err
	}
	if err := s.otps.Save(ctx, userID, code); err != nil {
		return "", err
	}
	return code, nil
}

// deliverCode mails code to u. Delivery problems are logged only; the user
// can ask for another code.
func (s *AuthSvc) deliverCode(ctx context.Context, logger *slog.Logger, u *models.User, code string) {
	if s.mail == nil {
		metrics.OTPSentTotal.WithLabelValues("skipped").Inc()
		return
	}
	if err := s.mail.SendOTP(u.Email, u.Name, code, s.otps.TTL()); err != nil {
		metrics.OTPSentTotal.WithLabelValues("failed").Inc()
		logger.WarnContext(ctx, "send otp mail failed", "user_id", u.ID, "error", err)
		return
	}
	metrics.OTPSentTotal.WithLabelValues("sent").Inc()
}

// Verify consumes the pending code of the account behind email.
func (s *AuthSvc) Verify(ctx context.Context, in VerifyInput) (err error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	logger := serviceLogger(s.logger, "AuthSvc", "Verify", "email", in.Email)
	defer func() {
		result := "ok"
		if err != nil {
			result = apperr.KindOf(err)
		}
		metrics.OTPVerificationsTotal.WithLabelValues(result).Inc()
		logResult(ctx, logger, err, "otp verified")
	}()

	if err = check(in); err != nil {
		return err
	}
	u, err := s.users.ByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.ErrVerificationFailed
		}
		return err
	}
	ok, err := s.otps.Consume(ctx, u.ID, in.OTPCode)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrVerificationFailed
	}
	return s.users.MarkVerified(ctx, u.ID)
}

// Resend replaces the pending code of an unverified account.
func (s *AuthSvc) Resend(ctx context.Context, in ResendInput) (err error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	logger := serviceLogger(s.logger, "AuthSvc", "Resend", "email", in.Email)
	defer func() { logResult(ctx, logger, err, "otp resent") }()

	if err = check(in); err != nil {
		return err
	}
	u, err := s.users.ByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			// Same answer as a sent code, so the endpoint does not reveal accounts.
			return nil
		}
		return err
	}
	if u.IsVerified {
		return apperr.ErrAlreadyVerified
	}
	allowed, wait, err := s.otps.AllowResend(ctx, u.ID)
	if err != nil {
		return err
	}
	if !allowed {
		return apperr.Throttled(wait)
	}
	code, err := s.saveCode(ctx, u.ID)
	if err != nil {
		if rerr := s.otps.ReleaseResend(ctx, u.ID); rerr != nil {
			logger.WarnContext(ctx, "release resend slot failed", "user_id", u.ID, "error", rerr)
		}
		return err
	}
	s.deliverCode(ctx, logger, u, code)
	return nil
}

// Login checks credentials and issues an access token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthSvc) Login(ctx context.Context, in LoginInput) (tok Token, err error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	logger := serviceLogger(s.logger, "AuthSvc", "Login", "email", in.Email)
	defer func() { logResult(ctx, logger, err, "login") }()

	if check(in) != nil {
		return Token{}, apperr.ErrInvalidCredentials
	}
	u, err := s.users.ByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Token{}, apperr.ErrInvalidCredentials
		}
		return Token{}, err
	}
	if utils.CheckPasswordHash(u.Password, in.Password) != nil {
		return Token{}, apperr.ErrInvalidCredentials
	}
	signed, exp, err := s.tokens.Issue(u.ID)
	if err != nil {
		return Token{}, err
	}
	return Token{Type: "bearer", Token: signed, ExpiresAt: exp}, nil
}

func (s *AuthSvc) Me(ctx context.Context, id uint) (*models.User, error) {
	return s.users.ByID(ctx, id)
}
