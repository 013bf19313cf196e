package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/TheManishHQ/shipos-kit/internal/dto"
	"github.com/TheManishHQ/shipos-kit/internal/mail"
)

const contactSubject = "New Contact Form Submission"

var ErrMailFailed = errors.New("failed to send email")

type TemplateMailer interface {
	SendTemplate(ctx context.Context, to string, id mail.TemplateID, locale string, data map[string]string) error
	SendPlain(ctx context.Context, to, subject, text string) error
}

type MarketingService struct {
	mailer    TemplateMailer
	contactTo string
}

func NewMarketingService(mailer TemplateMailer, contactTo string) *MarketingService {
	return &MarketingService{mailer: mailer, contactTo: contactTo}
}

// Subscribe sends the newsletter confirmation. Delivery failures are logged
// and not reported to the subscriber.
func (s *MarketingService) Subscribe(ctx context.Context, req *dto.NewsletterSubscribeRequest, locale string) {
	err := s.mailer.SendTemplate(ctx, req.Email, mail.TemplateNewsletterSignup, locale, map[string]string{
		"email": req.Email,
	})
	if err != nil {
		slog.Error("failed to send newsletter signup mail", "error", err)
	}
}

func (s *MarketingService) Contact(ctx context.Context, req *dto.ContactRequest) error {
	text := fmt.Sprintf("Name: %s\n\nEmail: %s\n\nMessage: %s", req.Name, req.Email, req.Message)
	if err := s.mailer.SendPlain(ctx, s.contactTo, contactSubject, text); err != nil {
		slog.Error("failed to send contact mail", "error", err)
		return ErrMailFailed
	}
	return nil
}
