package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a paint/ink container SKU. Master data is managed elsewhere; the
// core only reads attributes and mutates quantity_on_hand through the stock
// ledger primitives.
type Product struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code         string    `gorm:"column:code;not null;uniqueIndex"`
	SupplierCode *string   `gorm:"column:supplier_code"`
	Name         string    `gorm:"column:name;not null"`
	Color        *string   `gorm:"column:color"`

	UnitWeightKg *decimal.Decimal `gorm:"column:unit_weight_kg;type:numeric(10,3)"`

	QuantityOnHand  int `gorm:"column:quantity_on_hand;not null;default:0"`
	MinimumQuantity int `gorm:"column:minimum_quantity;not null;default:0"`

	UnitCost  decimal.Decimal `gorm:"column:unit_cost;type:numeric(10,2);not null;default:0"`
	Discount1 decimal.Decimal `gorm:"column:discount1;type:numeric(5,2);not null;default:0"`
	Discount2 decimal.Decimal `gorm:"column:discount2;type:numeric(5,2);not null;default:0"`

	SupplierID *uuid.UUID `gorm:"column:supplier_id;type:uuid"`

	// Active must not carry a gorm default tag: gorm omits zero-value fields
	// that have one, so an Active:false insert would persist as true.
	Active       bool `gorm:"column:active;not null"`
	Discontinued bool `gorm:"column:discontinued;not null;default:false"`

	LastReceivedAt *time.Time `gorm:"column:last_received_at"`
	LastConsumedAt *time.Time `gorm:"column:last_consumed_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// BelowMinimum reports whether the product needs replenishing.
func (p Product) BelowMinimum() bool {
	return p.QuantityOnHand <= p.MinimumQuantity
}

// InventoryValue is the current stock valued at the last purchase cost.
func (p Product) InventoryValue() decimal.Decimal {
	return p.UnitCost.Mul(decimal.NewFromInt(int64(p.QuantityOnHand)))
}
