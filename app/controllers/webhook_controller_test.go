package controllers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PayFox/app/models"
	"github.com/ManuelReschke/PayFox/internal/pkg/payments"
	"github.com/ManuelReschke/PayFox/internal/pkg/webhook"
)

const testSigningSecret = "whsec_webhook_controller_test"

// stubPaymentRepo emulates the on-conflict-do-nothing insert in memory so the
// full handler can be exercised without a MySQL instance.
type stubPaymentRepo struct {
	rows map[string]models.Payment
	err  error
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{rows: map[string]models.Payment{}}
}

func (s *stubPaymentRepo) CreatePaymentIfNotExists(_ context.Context, payment *models.Payment) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if _, ok := s.rows[payment.ID]; ok {
		return false, nil
	}
	s.rows[payment.ID] = *payment
	return true, nil
}

func newWebhookApp(repo payments.Repository) *fiber.App {
	app := fiber.New()
	wc := NewWebhookController(payments.NewService(repo), testSigningSecret)
	app.Post("/webhook", wc.HandleStripeWebhook)
	return app
}

func postWebhook(t *testing.T, app *fiber.App, body []byte, sigHeader string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	if sigHeader != "" {
		req.Header.Set("Stripe-Signature", sigHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(respBody)
}

func signedHeader(body []byte) string {
	return webhook.SignatureHeader(time.Now(), body, testSigningSecret)
}

var succeededBody = []byte(`{"type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","amount":500,"currency":"usd","status":"succeeded"}}}`)

func TestHandleStripeWebhook_RecordsSucceededPayment(t *testing.T) {
	repo := newStubPaymentRepo()
	app := newWebhookApp(repo)

	resp, body := postWebhook(t, app, succeededBody, signedHeader(succeededBody))

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, body)
	require.Len(t, repo.rows, 1)
	assert.Equal(t, models.Payment{ID: "pi_1", Amount: 500, Currency: "usd", Status: "succeeded"}, repo.rows["pi_1"])
}

func TestHandleStripeWebhook_RedeliveryKeepsOneRow(t *testing.T) {
	repo := newStubPaymentRepo()
	app := newWebhookApp(repo)

	resp, _ := postWebhook(t, app, succeededBody, signedHeader(succeededBody))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := postWebhook(t, app, succeededBody, signedHeader(succeededBody))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, body)
	assert.Len(t, repo.rows, 1)
	assert.Equal(t, int64(500), repo.rows["pi_1"].Amount)
}

func TestHandleStripeWebhook_TamperedSignature(t *testing.T) {
	repo := newStubPaymentRepo()
	app := newWebhookApp(repo)

	header := webhook.SignatureHeader(time.Now(), []byte(`{"other":"payload"}`), testSigningSecret)
	resp, body := postWebhook(t, app, succeededBody, header)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid signature", body)
	assert.Empty(t, repo.rows)
}

func TestHandleStripeWebhook_MissingSignatureHeader(t *testing.T) {
	repo := newStubPaymentRepo()
	app := newWebhookApp(repo)

	resp, body := postWebhook(t, app, succeededBody, "")

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid signature", body)
	assert.Empty(t, repo.rows)
}

func TestHandleStripeWebhook_StaleTimestamp(t *testing.T) {
	repo := newStubPaymentRepo()
	app := newWebhookApp(repo)

	stale := time.Now().Add(-webhook.DefaultTolerance - time.Minute)
	header := webhook.SignatureHeader(stale, succeededBody, testSigningSecret)
	resp, body := postWebhook(t, app, succeededBody, header)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid signature", body)
	assert.Empty(t, repo.rows)
}

func TestHandleStripeWebhook_NonJSONBody(t *testing.T) {
	repo := newStubPaymentRepo()
	app := newWebhookApp(repo)

	raw := []byte("this is not json")
	resp, body := postWebhook(t, app, raw, signedHeader(raw))

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid payload", body)
	assert.Empty(t, repo.rows)
}

func TestHandleStripeWebhook_EmptyBody(t *testing.T) {
	repo := newStubPaymentRepo()
	app := newWebhookApp(repo)

	resp, body := postWebhook(t, app, nil, "t=1,v1=00ff")

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid payload", body)
}

func TestHandleStripeWebhook_IgnoredEventType(t *testing.T) {
	repo := newStubPaymentRepo()
	app := newWebhookApp(repo)

	raw := []byte(`{"type":"payment_intent.created","data":{"object":{"id":"pi_2","amount":100,"currency":"usd","status":"requires_payment_method"}}}`)
	resp, body := postWebhook(t, app, raw, signedHeader(raw))

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, body)
	assert.Empty(t, repo.rows)
}

func TestHandleStripeWebhook_UndecodableEventStillAcknowledged(t *testing.T) {
	repo := newStubPaymentRepo()
	app := newWebhookApp(repo)

	// Authenticated but the amount arrives as a string; acknowledged so
	// Stripe does not retry forever.
	raw := []byte(`{"type":"payment_intent.succeeded","data":{"object":{"id":"pi_3","amount":"500","currency":"usd","status":"succeeded"}}}`)
	resp, body := postWebhook(t, app, raw, signedHeader(raw))

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, body)
	assert.Empty(t, repo.rows)
}

func TestHandleStripeWebhook_PersistenceFailureStillAcknowledged(t *testing.T) {
	repo := newStubPaymentRepo()
	repo.err = errors.New("connection refused")
	app := newWebhookApp(repo)

	resp, body := postWebhook(t, app, succeededBody, signedHeader(succeededBody))

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, body)
}
