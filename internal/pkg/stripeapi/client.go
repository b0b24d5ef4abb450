package stripeapi

import (
	"context"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// Client creates payment intents and checkout sessions with Stripe. The
// webhook pipeline never calls it; it exists only for the synchronous,
// caller-facing creation endpoints.
type Client interface {
	CreatePaymentIntent(ctx context.Context, amount int64) (clientSecret string, err error)
	CreateCheckoutSession(ctx context.Context, amount int64) (id, url string, err error)
}

// Options carries the non-secret parts of checkout session creation.
type Options struct {
	ProductName string
	SuccessURL  string
	CancelURL   string
}

type apiClient struct {
	sc   *client.API
	opts Options
}

// New builds a Client on its own stripe-go client.API handle. The secret key
// stays inside the handle instead of the package-global stripe.Key.
func New(secretKey string, opts Options) Client {
	sc := &client.API{}
	sc.Init(secretKey, nil)

	if opts.ProductName == "" {
		opts.ProductName = "Your Product Name"
	}
	return &apiClient{sc: sc, opts: opts}
}

// CreatePaymentIntent creates a card payment intent for amount minor units of
// USD and returns its client secret.
func (c *apiClient) CreatePaymentIntent(ctx context.Context, amount int64) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := c.sc.PaymentIntents.New(params)
	if err != nil {
		return "", err
	}
	return pi.ClientSecret, nil
}

// CreateCheckoutSession creates a one-item payment mode checkout session and
// returns its id and hosted URL.
func (c *apiClient) CreateCheckoutSession(ctx context.Context, amount int64) (string, string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(c.opts.SuccessURL),
		CancelURL:          stripe.String(c.opts.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(c.opts.ProductName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	s, err := c.sc.CheckoutSessions.New(params)
	if err != nil {
		return "", "", err
	}
	return s.ID, s.URL, nil
}
