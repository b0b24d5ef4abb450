package controllers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PayFox/internal/pkg/stripeapi"
)

const stripeCallTimeout = 20 * time.Second

type createPaymentRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// PaymentController serves the synchronous Stripe creation endpoints. These
// are thin request translation layers; the asynchronous webhook pipeline
// lives in WebhookController.
type PaymentController struct {
	stripe   stripeapi.Client
	validate *validator.Validate
}

func NewPaymentController(stripe stripeapi.Client) *PaymentController {
	return &PaymentController{
		stripe:   stripe,
		validate: validator.New(),
	}
}

func (pc *PaymentController) HandleCreatePaymentIntent(c *fiber.Ctx) error {
	req, ok := pc.parseAmount(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Amount is required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), stripeCallTimeout)
	defer cancel()

	clientSecret, err := pc.stripe.CreatePaymentIntent(ctx, req.Amount)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"clientSecret": clientSecret})
}

func (pc *PaymentController) HandleCreateCheckoutSession(c *fiber.Ctx) error {
	req, ok := pc.parseAmount(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Amount is required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), stripeCallTimeout)
	defer cancel()

	id, url, err := pc.stripe.CreateCheckoutSession(ctx, req.Amount)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"id": id, "url": url})
}

func (pc *PaymentController) parseAmount(c *fiber.Ctx) (createPaymentRequest, bool) {
	var req createPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return req, false
	}
	if err := pc.validate.Struct(req); err != nil {
		return req, false
	}
	return req, true
}
