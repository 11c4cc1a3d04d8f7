package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paintdepot/inkstock-backend/pkg/enums"
)

// StockLedgerEntry is an immutable record of one stock mutation. Sequence is
// monotonically increasing per kind. Entries are never edited or deleted;
// corrections are new entries.
type StockLedgerEntry struct {
	ID       uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Kind     enums.LedgerKind `gorm:"column:kind;type:text;not null;uniqueIndex:idx_ledger_kind_sequence"`
	Sequence int64            `gorm:"column:sequence;not null;uniqueIndex:idx_ledger_kind_sequence"`

	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`

	// Quantity is the delta for receipts and consumptions (always > 0).
	// For adjustments it is the absolute quantity the product was set to,
	// with PreviousQuantity preserving the value it replaced.
	Quantity         int  `gorm:"column:quantity;not null"`
	PreviousQuantity *int `gorm:"column:previous_quantity"`

	UnitPrice *decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2)"`
	Discount1 decimal.Decimal  `gorm:"column:discount1;type:numeric(5,2);not null;default:0"`
	Discount2 decimal.Decimal  `gorm:"column:discount2;type:numeric(5,2);not null;default:0"`

	// RequestID links receipts generated through the purchase workflow.
	RequestID *uuid.UUID `gorm:"column:request_id;type:uuid;index"`

	// Destination is the free-text target of a manual consumption.
	Destination *string `gorm:"column:destination"`

	DeliveryNote *string `gorm:"column:delivery_note"`
	InvoiceRef   *string `gorm:"column:invoice_ref"`

	ActorID   uuid.UUID `gorm:"column:actor_id;type:uuid;not null"`
	ActorName string    `gorm:"column:actor_name;not null"`

	Notes *string `gorm:"column:notes"`

	OccurredAt time.Time `gorm:"column:occurred_at;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Total values the entry at its unit price with both chained discounts
// applied, rounded to two decimal places.
func (e StockLedgerEntry) Total() decimal.Decimal {
	if e.UnitPrice == nil {
		return decimal.Zero
	}
	hundred := decimal.NewFromInt(100)
	total := e.UnitPrice.Mul(decimal.NewFromInt(int64(e.Quantity)))
	if !e.Discount1.IsZero() {
		total = total.Sub(total.Mul(e.Discount1).Div(hundred))
	}
	if !e.Discount2.IsZero() {
		total = total.Sub(total.Mul(e.Discount2).Div(hundred))
	}
	return total.Round(2)
}
