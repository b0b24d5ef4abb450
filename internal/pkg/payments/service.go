package payments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ManuelReschke/PayFox/app/models"
	"github.com/ManuelReschke/PayFox/internal/pkg/webhook"
	"gorm.io/gorm"
)

// recordTimeout bounds the insert; the webhook acknowledgment to Stripe must
// not hang on a stuck database connection.
const recordTimeout = 10 * time.Second

var ErrInvalidIntent = errors.New("payments: payment intent is missing required fields")

// Service records succeeded payment intents exactly once.
type Service struct {
	repo Repository
}

// NewService creates a recorder from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a recorder from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// RecordSucceededPayment persists intent idempotently, keyed by the processor
// id. created is false when the row already existed. The returned error is
// local bookkeeping state for the caller to log; it must never decide the
// HTTP response to the processor.
func (s *Service) RecordSucceededPayment(ctx context.Context, intent webhook.PaymentIntent) (created bool, err error) {
	if strings.TrimSpace(intent.ID) == "" || intent.Amount <= 0 || intent.Currency == "" || intent.Status == "" {
		return false, ErrInvalidIntent
	}

	ctx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()

	return s.repo.CreatePaymentIfNotExists(ctx, &models.Payment{
		ID:       intent.ID,
		Amount:   intent.Amount,
		Currency: intent.Currency,
		Status:   intent.Status,
	})
}
