package notifier

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/smtp"
	"strings"

	"fleet-rental/internal/pkg/errs"
)

// Attachment is an optional file carried by a notification mail.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Mailer delivers a rendered message. Implementations must be safe for
// concurrent use by the dispatcher workers.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string, att *Attachment) error
}

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	from string
}

func NewSMTPMailer(addr, from string) *SMTPMailer {
	return &SMTPMailer{addr: addr, from: from}
}

func (m *SMTPMailer) Send(_ context.Context, to, subject, body string, att *Attachment) error {
	msg := m.encodeMessage(to, subject, body, att)
	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(msg)); err != nil {
		return errs.Wrap(err, "smtp send failed")
	}
	return nil
}

func (m *SMTPMailer) encodeMessage(to, subject, body string, att *Attachment) string {
	headers := []string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
	}
	if att == nil {
		return strings.Join(append(headers,
			"Content-Type: text/plain; charset=utf-8",
			"",
			body,
		), "\r\n")
	}

	const boundary = "fleet-rental-mail-boundary"
	return strings.Join(append(headers,
		"Content-Type: multipart/mixed; boundary="+boundary,
		"",
		"--"+boundary,
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
		"--"+boundary,
		"Content-Type: "+att.ContentType,
		"Content-Transfer-Encoding: base64",
		`Content-Disposition: attachment; filename="`+att.Filename+`"`,
		"",
		base64.StdEncoding.EncodeToString(att.Content),
		"--"+boundary+"--",
	), "\r\n")
}

// LogMailer writes messages to the log instead of delivering them. Used
// when no SMTP relay is configured, typically in development.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string, att *Attachment) error {
	attrs := []any{
		"to", to,
		"subject", subject,
		"body", body,
	}
	if att != nil {
		attrs = append(attrs, "attachment", att.Filename)
	}
	m.logger.Info("outbound email", attrs...)
	return nil
}
