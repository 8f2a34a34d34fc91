// Package notify is the outbound-mail collaborator port. The booking core
// never calls it directly; the corporate inquiry flow and the reminder
// worker do.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

type Notifier interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// SMTPNotifier delivers plain-text mail through a relay. net/smtp is enough
// here: one recipient list, one text part, no auth against the relay.
type SMTPNotifier struct {
	addr string
	from string
}

func NewSMTPNotifier(addr, from string) *SMTPNotifier {
	return &SMTPNotifier{addr: addr, from: from}
}

func (n *SMTPNotifier) Send(ctx context.Context, to []string, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + n.from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(n.addr, nil, n.from, to, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	return nil
}

// Noop drops mail; used in dev when no relay is configured.
type Noop struct{}

func (Noop) Send(ctx context.Context, to []string, subject, body string) error {
	return nil
}
