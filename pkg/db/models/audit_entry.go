package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/paintdepot/inkstock-backend/pkg/enums"
)

// AuditEntry records one workflow state transition. Strictly append-only.
// StateBefore is empty for the creation event.
type AuditEntry struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RequestID uuid.UUID `gorm:"column:request_id;type:uuid;not null;index"`

	StateBefore enums.RequestState `gorm:"column:state_before;type:text;not null;default:''"`
	StateAfter  enums.RequestState `gorm:"column:state_after;type:text;not null"`

	ActorID   uuid.UUID `gorm:"column:actor_id;type:uuid;not null"`
	ActorName string    `gorm:"column:actor_name;not null"`

	Action string  `gorm:"column:action;not null"`
	Notes  *string `gorm:"column:notes"`

	OccurredAt time.Time `gorm:"column:occurred_at;autoCreateTime"`
}
