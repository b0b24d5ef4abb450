package payments

import (
	"context"

	"github.com/ManuelReschke/PayFox/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository owns the write path to the payments table; no other component
// reads or writes it.
type Repository interface {
	CreatePaymentIfNotExists(ctx context.Context, payment *models.Payment) (bool, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a payments repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// CreatePaymentIfNotExists inserts the payment keyed by its processor id.
// Redelivered events hit the primary key and are dropped without touching the
// stored row, which keeps concurrent duplicate deliveries order independent.
func (r *gormRepository) CreatePaymentIfNotExists(ctx context.Context, payment *models.Payment) (bool, error) {
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(payment)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
