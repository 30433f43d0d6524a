// Package mail delivers signup confirmation codes. Delivery is best-effort:
// callers dispatch it off the request path and log failures instead of
// failing the signup.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

type Mailer interface {
	SendConfirmationCode(ctx context.Context, to, username, code string) error
}

// SMTPMailer sends the confirmation mail through a plain SMTP relay.
type SMTPMailer struct {
	addr string // host:port
	from string
}

func NewSMTPMailer(addr, from string) *SMTPMailer {
	return &SMTPMailer{addr: addr, from: from}
}

func (m *SMTPMailer) SendConfirmationCode(ctx context.Context, to, username, code string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Confirmation code\r\n\r\nHello %s,\r\n\r\nYour code: %s\r\n",
		m.from, to, username, code)

	errCh := make(chan error, 1)
	go func() {
		errCh <- smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(msg))
	}()

	// net/smtp has no context support, so bound the wait ourselves
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("send confirmation mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send confirmation mail: %w", ctx.Err())
	}
}

// LogMailer is the development fallback when no SMTP relay is configured: it
// just logs the code.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendConfirmationCode(_ context.Context, to, username, code string) error {
	m.logger.Info("confirmation code issued",
		"email", to,
		"username", username,
		"code", code,
	)
	return nil
}
