package auth

import (
	"github.com/google/uuid"

	"github.com/paintdepot/inkstock-backend/pkg/enums"
)

// Capability names one guarded operation group. Every workflow transition and
// ledger primitive resolves its actor through this single table.
type Capability string

const (
	// CapabilityApproveRequests guards approve, reject and mark-ordered.
	CapabilityApproveRequests Capability = "approve_requests"
	// CapabilityCreateRequests guards request creation.
	CapabilityCreateRequests Capability = "create_requests"
	// CapabilityReceiveStock guards receive and mark-shipped.
	CapabilityReceiveStock Capability = "receive_stock"
	// CapabilityRecordMovements guards manual ledger entries and exits.
	CapabilityRecordMovements Capability = "record_movements"
	// CapabilityAdjustStock guards out-of-band quantity corrections.
	CapabilityAdjustStock Capability = "adjust_stock"
)

var capabilitiesByRole = map[enums.ActorRole]map[Capability]bool{
	enums.ActorRoleAdmin: {
		CapabilityApproveRequests: true,
		CapabilityCreateRequests:  true,
		CapabilityReceiveStock:    true,
		CapabilityRecordMovements: true,
		CapabilityAdjustStock:     true,
	},
	enums.ActorRoleOffice: {
		CapabilityApproveRequests: true,
		CapabilityCreateRequests:  true,
		CapabilityReceiveStock:    true,
		CapabilityRecordMovements: true,
	},
	enums.ActorRoleWarehouse: {
		CapabilityCreateRequests:  true,
		CapabilityReceiveStock:    true,
		CapabilityRecordMovements: true,
	},
	enums.ActorRoleViewer: {},
}

// Can resolves whether the actor's role grants the capability.
func (a Actor) Can(capability Capability) bool {
	grants, ok := capabilitiesByRole[a.Role]
	if !ok {
		return false
	}
	return grants[capability]
}

// CanCancel reports whether the actor may cancel a request created by
// createdBy. Cancellation is restricted to the creator and admins.
func (a Actor) CanCancel(createdBy uuid.UUID) bool {
	if a.Role == enums.ActorRoleAdmin {
		return true
	}
	return a.UserID != uuid.Nil && a.UserID == createdBy
}
