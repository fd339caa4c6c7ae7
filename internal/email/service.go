package email

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type Service interface {
	SendAppointmentConfirmation(ctx context.Context, to, name string, startTime time.Time) error
	SendAppointmentCanceled(ctx context.Context, to, name string, startTime time.Time) error
	SendWelcome(ctx context.Context, to, name string) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg Config) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendAppointmentConfirmation(ctx context.Context, to, name string, startTime time.Time) error {
	body := fmt.Sprintf("Hi %s,\n\nYour appointment is confirmed for %s.\n\nYou can join the video consultation from your dashboard a few minutes before it starts.",
		name, startTime.Format("Monday, January 2 2006 at 15:04 MST"))
	return s.send(ctx, to, "Appointment confirmed", body)
}

func (s *smtpService) SendAppointmentCanceled(ctx context.Context, to, name string, startTime time.Time) error {
	body := fmt.Sprintf("Hi %s,\n\nYour appointment on %s has been canceled.",
		name, startTime.Format("Monday, January 2 2006 at 15:04 MST"))
	return s.send(ctx, to, "Appointment canceled", body)
}

func (s *smtpService) SendWelcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf("Hi %s,\n\nWelcome aboard. Your account is ready.", name)
	return s.send(ctx, to, "Welcome", body)
}

func (s *smtpService) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
