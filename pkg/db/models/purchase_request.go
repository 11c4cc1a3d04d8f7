package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/paintdepot/inkstock-backend/pkg/enums"
)

// PurchaseRequest is the workflow aggregate that governs inbound stock.
// Requests are never physically deleted; terminal states are received,
// rejected and cancelled.
type PurchaseRequest struct {
	ID     uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Number string             `gorm:"column:number;not null;uniqueIndex"`
	State  enums.RequestState `gorm:"column:state;type:text;not null;default:'pending';index"`

	Priority enums.RequestPriority `gorm:"column:priority;type:text;not null;default:'normal'"`

	SupplierID *uuid.UUID `gorm:"column:supplier_id;type:uuid"`

	CreatedByID   uuid.UUID `gorm:"column:created_by_id;type:uuid;not null"`
	CreatedByName string    `gorm:"column:created_by_name;not null"`
	Rationale     *string   `gorm:"column:rationale"`

	ApprovedByID  *uuid.UUID `gorm:"column:approved_by_id;type:uuid"`
	ApprovedAt    *time.Time `gorm:"column:approved_at"`
	ApprovalNotes *string    `gorm:"column:approval_notes"`

	OrderedAt           *time.Time `gorm:"column:ordered_at"`
	SupplierOrderRef    *string    `gorm:"column:supplier_order_ref"`
	EstimatedDeliveryAt *time.Time `gorm:"column:estimated_delivery_at"`

	ShippedAt   *time.Time `gorm:"column:shipped_at"`
	TrackingRef *string    `gorm:"column:tracking_ref"`

	ReceivedAt   *time.Time `gorm:"column:received_at"`
	ReceivedByID *uuid.UUID `gorm:"column:received_by_id;type:uuid"`
	ReceiptNotes *string    `gorm:"column:receipt_notes"`

	CancelledAt *time.Time `gorm:"column:cancelled_at"`

	Lines    []RequestLine `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
	AuditLog []AuditEntry  `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
