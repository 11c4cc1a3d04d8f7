package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestLine is one product/quantity pairing inside a purchase request.
// QuantityRequested is immutable after creation; QuantityReceived, once
// committed, is final — corrections happen through new ledger entries.
type RequestLine struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RequestID uuid.UUID `gorm:"column:request_id;type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`

	QuantityRequested int  `gorm:"column:quantity_requested;not null"`
	QuantityApproved  *int `gorm:"column:quantity_approved"`
	QuantityReceived  *int `gorm:"column:quantity_received"`

	EstimatedPrice *decimal.Decimal `gorm:"column:estimated_price;type:numeric(10,2)"`
	ActualPrice    *decimal.Decimal `gorm:"column:actual_price;type:numeric(10,2)"`

	Notes *string `gorm:"column:notes"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
