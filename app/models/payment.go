package models

// Payment is one durably recorded Stripe payment intent. The row is created
// exactly once, when a verified payment_intent.succeeded event is first
// processed, and is never updated or deleted afterwards. Duplicate webhook
// deliveries are absorbed by the primary key on the processor-assigned id.
type Payment struct {
	ID       string `gorm:"type:varchar(191);primaryKey" json:"id"`
	Amount   int64  `gorm:"not null" json:"amount"`
	Currency string `gorm:"type:varchar(10);not null" json:"currency"`
	Status   string `gorm:"type:varchar(50);not null" json:"status"`
}

func (Payment) TableName() string {
	return "payments"
}
