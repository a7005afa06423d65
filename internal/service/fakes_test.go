package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"fieldbook/internal/db/dbtest"
	fbredis "fieldbook/internal/redis"
	"fieldbook/internal/repository"
)

type sentMail struct {
	to, name, code string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendOTP(to, name, code string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, name: name, code: code})
	return nil
}

func (m *fakeMailer) last(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		t.Fatalf("no mail sent")
	}
	return m.sent[len(m.sent)-1]
}

type published struct {
	key string
	v   any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{key: key, v: v})
	return p.err
}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.key)
	}
	return out
}

type stubTokens struct{}

func (stubTokens) Issue(userID uint) (string, time.Time, error) {
	if userID == 0 {
		return "", time.Time{}, errors.New("no subject")
	}
	return "tok", time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), nil
}

type env struct {
	mr       *miniredis.Miniredis
	mail     *fakeMailer
	pub      *recordingPublisher
	users    *repository.UserRepo
	venues   *repository.VenueRepo
	fields   *repository.FieldRepo
	bookings *repository.BookingRepo
	otps     *fbredis.OTPStore

	auth       *AuthSvc
	venueSvc   *VenueSvc
	fieldSvc   *FieldSvc
	bookingSvc *BookingSvc
}

func newEnv(t *testing.T) *env {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	gdb := dbtest.New(t)
	e := &env{
		mr:       mr,
		mail:     &fakeMailer{},
		pub:      &recordingPublisher{},
		users:    repository.NewUserRepo(gdb),
		venues:   repository.NewVenueRepo(gdb),
		fields:   repository.NewFieldRepo(gdb),
		bookings: repository.NewBookingRepo(gdb),
		otps:     fbredis.NewOTPStore(rdb, 10*time.Minute, time.Minute),
	}
	e.auth = NewAuthSvc(e.users, e.otps, e.mail, stubTokens{}, e.pub, nil)
	e.venueSvc = NewVenueSvc(e.venues, nil)
	e.fieldSvc = NewFieldSvc(e.venues, e.fields, nil)
	e.bookingSvc = NewBookingSvc(e.venues, e.fields, e.bookings, e.pub, nil)
	return e
}
