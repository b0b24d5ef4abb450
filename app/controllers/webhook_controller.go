package controllers

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PayFox/internal/pkg/payments"
	"github.com/ManuelReschke/PayFox/internal/pkg/webhook"
)

// WebhookController ingests Stripe webhook deliveries.
//
// Acknowledgment to Stripe and local durability are deliberately decoupled:
// once a delivery is authenticated and decoded, the response is 200 no matter
// what the recorder does. A non-2xx here would only make Stripe redeliver an
// event we already cannot persist.
type WebhookController struct {
	recorder      *payments.Service
	signingSecret string
}

func NewWebhookController(recorder *payments.Service, signingSecret string) *WebhookController {
	return &WebhookController{
		recorder:      recorder,
		signingSecret: signingSecret,
	}
}

func (wc *WebhookController) HandleStripeWebhook(c *fiber.Ctx) error {
	// The signature covers the exact wire bytes; Fiber reuses its buffers
	// between requests, so take a copy before anything else runs.
	rawBody := append([]byte(nil), c.BodyRaw()...)

	if !json.Valid(rawBody) {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid payload")
	}

	if err := webhook.VerifySignature(rawBody, c.Get("Stripe-Signature"), wc.signingSecret); err != nil {
		log.Printf("webhook: rejecting delivery: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("Invalid signature")
	}

	event, err := webhook.DecodeEvent(rawBody)
	if err != nil {
		// Shape drift on an authenticated delivery. Acknowledge anyway so
		// Stripe does not keep redelivering a payload we will never accept.
		log.Printf("webhook: dropping undecodable event: %v", err)
		return c.Status(fiber.StatusOK).SendString("")
	}

	if event.Type == webhook.EventTypePaymentIntentSucceeded {
		created, err := wc.recorder.RecordSucceededPayment(context.Background(), event.Data.Object)
		if err != nil {
			log.Printf("webhook: recording payment %s failed: %v", event.Data.Object.ID, err)
		} else if !created {
			log.Printf("webhook: payment %s already recorded", event.Data.Object.ID)
		}
	}

	return c.Status(fiber.StatusOK).SendString("")
}
