// Package mail renders transactional mails and hands them to a transport.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

// LogSender writes mails to the log instead of delivering them.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) error {
	slog.Info("mail not delivered, no transport configured", "to", msg.To, "subject", msg.Subject, "text", msg.Text)
	return nil
}

type Mailer struct {
	sender        Sender
	defaultLocale string
}

func NewMailer(sender Sender, defaultLocale string) *Mailer {
	return &Mailer{sender: sender, defaultLocale: defaultLocale}
}

// SendTemplate renders template id in locale and sends it to to.
func (m *Mailer) SendTemplate(ctx context.Context, to string, id TemplateID, locale string, data map[string]string) error {
	if locale == "" {
		locale = m.defaultLocale
	}
	msg, err := Render(id, locale, data)
	if err != nil {
		return err
	}
	msg.To = to
	return m.sender.Send(ctx, msg)
}

func (m *Mailer) SendPlain(ctx context.Context, to, subject, text string) error {
	return m.sender.Send(ctx, Message{To: to, Subject: subject, Text: text})
}
