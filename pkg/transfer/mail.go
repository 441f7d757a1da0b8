package transfer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/arcturial/clickatell/pkg/apierror"
)

// Mail is one outbound message.
type Mail struct {
	To      string
	From    string
	Subject string
	Body    string
}

// Mailer delivers mail.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

// MailerFunc adapts a function to Mailer.
type MailerFunc func(ctx context.Context, m Mail) error

// Send calls f.
func (f MailerFunc) Send(ctx context.Context, m Mail) error {
	return f(ctx, m)
}

// SMTPMailer delivers through an SMTP relay.
type SMTPMailer struct {
	Addr string
	Auth smtp.Auth
}

// NewSMTPMailer creates a mailer for addr ("host:port"). Empty username
// disables authentication.
func NewSMTPMailer(addr, username, password string) *SMTPMailer {
	m := &SMTPMailer{Addr: addr}
	if username != "" {
		host := addr
		if i := strings.LastIndex(addr, ":"); i >= 0 {
			host = addr[:i]
		}
		m.Auth = smtp.PlainAuth("", username, password, host)
	}
	return m
}

// Send delivers m. A cancelled context is honoured before dialing only.
func (s *SMTPMailer) Send(ctx context.Context, m Mail) error {
	if err := ctx.Err(); err != nil {
		return apierror.TransferFailed(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(m.Body)

	if err := smtp.SendMail(s.Addr, s.Auth, m.From, []string{m.To}, []byte(b.String())); err != nil {
		return apierror.TransferFailed(fmt.Errorf("transfer:mail - failed to deliver to %s: %w", m.To, err))
	}
	return nil
}
