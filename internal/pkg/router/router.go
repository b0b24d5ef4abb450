package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ManuelReschke/PayFox/app/controllers"
)

type Router struct {
	payments *controllers.PaymentController
	webhooks *controllers.WebhookController
}

func New(payments *controllers.PaymentController, webhooks *controllers.WebhookController) *Router {
	return &Router{
		payments: payments,
		webhooks: webhooks,
	}
}

// InstallRouter registers all HTTP routes.
func (r *Router) InstallRouter(app *fiber.App) {
	create := app.Group("", limiter.New())
	create.Post("/create-payment-intent", r.payments.HandleCreatePaymentIntent)
	create.Post("/create-checkout-session", r.payments.HandleCreateCheckoutSession)

	// Stripe retries on non-2xx responses; rate limiting the webhook
	// endpoint would just turn bursts into redelivery storms.
	app.Post("/webhook", r.webhooks.HandleStripeWebhook)
}
