package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	otpKeyPrefix    = "fieldbook:otp:user:"
	resendKeyPrefix = "fieldbook:otp:resend:"
)

// consumeLua deletes the stored code only when it matches, so a code can be
// redeemed once.
const consumeLua = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// OTPStore keeps one-time verification codes keyed by user id.
type OTPStore struct {
	rdb            *redis.Client
	ttl            time.Duration
	resendInterval time.Duration
	consume        *redis.Script
}

func NewOTPStore(rdb *redis.Client, ttl, resendInterval time.Duration) *OTPStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &OTPStore{
		rdb:            rdb,
		ttl:            ttl,
		resendInterval: resendInterval,
		consume:        redis.NewScript(consumeLua),
	}
}

// TTL is how long a saved code stays valid.
func (s *OTPStore) TTL() time.Duration {
	return s.ttl
}

// Save stores code for the user, replacing any previous one.
func (s *OTPStore) Save(ctx context.Context, userID uint, code string) error {
	if err := s.rdb.Set(ctx, otpKey(userID), code, s.ttl).Err(); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	return nil
}

// Consume reports whether code matches the stored code for the user and
// removes it on match. Expired or missing codes never match.
func (s *OTPStore) Consume(ctx context.Context, userID uint, code string) (bool, error) {
	n, err := s.consume.Run(ctx, s.rdb, []string{otpKey(userID)}, code).Int()
	if err != nil {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	return n == 1, nil
}

// AllowResend marks a resend for the user and reports whether the previous one
// is older than the resend interval. When it is not, the remaining wait is
// returned.
func (s *OTPStore) AllowResend(ctx context.Context, userID uint) (bool, time.Duration, error) {
	if s.resendInterval <= 0 {
		return true, 0, nil
	}
	key := resendKey(userID)
	ok, err := s.rdb.SetNX(ctx, key, "1", s.resendInterval).Result()
	if err != nil {
		return false, 0, fmt.Errorf("otp resend setnx: %w", err)
	}
	if ok {
		return true, 0, nil
	}
	wait, err := s.rdb.PTTL(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("otp resend pttl: %w", err)
	}
	if wait < 0 {
		wait = s.resendInterval
	}
	return false, wait, nil
}

// ReleaseResend clears the resend mark so the user can retry at once.
func (s *OTPStore) ReleaseResend(ctx context.Context, userID uint) error {
	if err := s.rdb.Del(ctx, resendKey(userID)).Err(); err != nil {
		return fmt.Errorf("otp resend release: %w", err)
	}
	return nil
}

func resendKey(userID uint) string {
	return fmt.Sprintf("%s%d", resendKeyPrefix, userID)
}

func otpKey(userID uint) string {
	return fmt.Sprintf("%s%d", otpKeyPrefix, userID)
}
