package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/intake-api/internal/config"
)

const confirmationSubject = "Confirm your CarePulse account"

var confirmationHTML = template.Must(template.New("confirmation").Parse(
	`<p>Welcome to CarePulse.</p><p><a href="{{.}}">Confirm your email address</a> to finish creating your account.</p><p>If you did not sign up, ignore this message.</p>`,
))

// Sender delivers account emails.
type Sender interface {
	SendEmailConfirmation(ctx context.Context, to, link string) error
}

// NewSender returns an SMTP sender, or a LogSender when no SMTP host is configured.
func NewSender(cfg config.SMTPConfig, logger zerolog.Logger) Sender {
	if cfg.Host == "" {
		return NewLogSender(logger)
	}
	return NewSMTPSender(cfg)
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPSender struct {
	from   string
	dialer dialer
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

func (s *SMTPSender) SendEmailConfirmation(ctx context.Context, to, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := confirmationMessage(s.from, to, link)
	if err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

func confirmationMessage(from, to, link string) (*gomail.Message, error) {
	var html bytes.Buffer
	if err := confirmationHTML.Execute(&html, link); err != nil {
		return nil, fmt.Errorf("failed to render confirmation email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", confirmationSubject)
	m.SetBody("text/plain", fmt.Sprintf(
		"Welcome to CarePulse.\n\nConfirm your email address to finish creating your account:\n%s\n\nIf you did not sign up, ignore this message.\n",
		link,
	))
	m.AddAlternative("text/html", html.String())
	return m, nil
}

// LogSender writes the confirmation link to the log instead of sending mail.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendEmailConfirmation(_ context.Context, to, link string) error {
	s.logger.Info().
		Str("to", to).
		Str("link", link).
		Msg("email confirmation (smtp disabled)")
	return nil
}
