package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is the vendor a product is purchased from. Read-only for the core.
type Supplier struct {
	ID    uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name  string    `gorm:"column:name;not null"`
	TaxID *string   `gorm:"column:tax_id;uniqueIndex"`

	Email *string `gorm:"column:email"`
	Phone *string `gorm:"column:phone"`

	ContactName *string `gorm:"column:contact_name"`
	Notes       *string `gorm:"column:notes"`

	Active bool `gorm:"column:active;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
