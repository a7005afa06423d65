package utils

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

var ErrMailerNotConfigured = errors.New("smtp not configured")

type SMTPClient struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func NewSMTPClient(host string, port int, user, pass, from string) *SMTPClient {
	if port == 0 {
		port = 587
	}
	return &SMTPClient{Host: host, Port: port, User: user, Password: pass, From: from}
}

func (s *SMTPClient) Send(to, subject, htmlBody string) error {
	if s == nil || s.Host == "" || s.User == "" {
		return ErrMailerNotConfigured
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("empty recipient")
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// SendOTP mails a verification code.
func (s *SMTPClient) SendOTP(to, name, code string, ttl time.Duration) error {
	return s.Send(to, "Welcome Onboard!", OTPMailBody(name, code, ttl))
}

// OTPMailBody renders the code mail. name is user supplied and is escaped.
func OTPMailBody(name, code string, ttl time.Duration) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <p>Hello %s,</p>
    <p>Your verification code is:</p>
    <div style="font-size: 28px; font-weight: bold; letter-spacing: 3px;">%s</div>
    <p>The code expires in %d minutes and can be used once.</p>
  </div>
</body>
</html>`, html.EscapeString(name), html.EscapeString(code), int(ttl.Minutes()))
}
