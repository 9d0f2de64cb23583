// Package mail sends transactional email.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"photoshare/internal/middleware"
	"photoshare/internal/observability"

	"gopkg.in/gomail.v2"
)

const sendRetries = 2

// Sender delivers transactional email to users.
type Sender interface {
	// SendConfirmation mails the signup confirmation link. host is the
	// public base URL of the API, token the email confirmation token.
	SendConfirmation(ctx context.Context, email, username, host, token string) error
}

// SMTPConfig holds the SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpSender struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

// NewSMTPSender creates a Sender that delivers through an SMTP relay.
func NewSMTPSender(cfg SMTPConfig) Sender {
	return &smtpSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *smtpSender) SendConfirmation(ctx context.Context, email, username, host, token string) error {
	link := fmt.Sprintf("%s/api/auth/confirmed_email/%s", host, token)

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Confirm your email")
	m.SetBody("text/html", fmt.Sprintf(
		"<p>Hi %s,</p><p>Welcome to PhotoShare! Please confirm your email address by clicking the link below.</p><p><a href=%q>Confirm email</a></p>",
		username, link,
	))

	var lastErr error
	for attempt := 0; attempt <= sendRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}
		if lastErr = s.dialer.DialAndSend(m); lastErr == nil {
			return nil
		}
	}

	observability.MailFailuresTotal.Inc()
	middleware.Logger.ErrorContext(ctx, "Failed to send confirmation email",
		slog.String("email", email),
		slog.String("error", lastErr.Error()),
	)
	return fmt.Errorf("failed to send confirmation email: %w", lastErr)
}

// NopSender discards all mail. Used in development when no SMTP relay is
// configured and in tests.
type NopSender struct{}

func (NopSender) SendConfirmation(ctx context.Context, email, _, _, _ string) error {
	middleware.Logger.InfoContext(ctx, "Mail disabled, skipping confirmation email",
		slog.String("email", email),
	)
	return nil
}
