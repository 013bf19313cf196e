package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/TheManishHQ/shipos-kit/internal/payments"
	"github.com/TheManishHQ/shipos-kit/internal/services"
)

const signatureHeader = "Stripe-Signature"

// EventVerifier authenticates a webhook delivery and decodes its event.
type EventVerifier interface {
	ConstructEvent(payload []byte, signature string) (payments.Event, error)
}

type WebhookHandler struct {
	verifier   EventVerifier
	reconciler *services.Reconciler
}

func NewWebhookHandler(verifier EventVerifier, reconciler *services.Reconciler) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, reconciler: reconciler}
}

// HandlePayments verifies and applies one payment processor event. Replies
// are plain text because the processor only inspects the status code.
func (h *WebhookHandler) HandlePayments(c *fiber.Ctx) error {
	payload := c.Body()
	if len(payload) == 0 {
		slog.WarnContext(c.UserContext(), "webhook rejected", "reason", "empty body")
		return c.Status(fiber.StatusBadRequest).SendString("Invalid request.")
	}

	event, err := h.verifier.ConstructEvent(payload, c.Get(signatureHeader))
	if err != nil {
		if errors.Is(err, payments.ErrInvalidSignature) {
			slog.WarnContext(c.UserContext(), "webhook rejected", "reason", "signature", "error", err)
			return c.Status(fiber.StatusBadRequest).SendString("Invalid request.")
		}
		slog.ErrorContext(c.UserContext(), "webhook decode failed", "error", err)
		return c.Status(fiber.StatusBadRequest).SendString("Webhook error: " + err.Error())
	}

	meta := payments.EventMeta(event)
	outcome, err := h.reconciler.Handle(c.UserContext(), event)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "webhook processing failed", "event_id", meta.ID, "event_type", meta.Type, "error", err)
		if errors.Is(err, payments.ErrMissingProductID) {
			return c.Status(fiber.StatusBadRequest).SendString("Missing product ID.")
		}
		return c.Status(fiber.StatusBadRequest).SendString("Webhook error: " + err.Error())
	}

	slog.Info("webhook processed", "event_id", meta.ID, "event_type", meta.Type, "outcome", string(outcome))
	if outcome == services.OutcomeUnhandled {
		return c.Status(fiber.StatusOK).SendString("Unhandled event type.")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
