package auth

import (
	"testing"

	"github.com/google/uuid"

	"github.com/paintdepot/inkstock-backend/pkg/enums"
)

func TestCapabilityResolution(t *testing.T) {
	tests := []struct {
		role       enums.ActorRole
		capability Capability
		allowed    bool
	}{
		{enums.ActorRoleAdmin, CapabilityApproveRequests, true},
		{enums.ActorRoleAdmin, CapabilityAdjustStock, true},
		{enums.ActorRoleOffice, CapabilityApproveRequests, true},
		{enums.ActorRoleOffice, CapabilityReceiveStock, true},
		{enums.ActorRoleOffice, CapabilityAdjustStock, false},
		{enums.ActorRoleWarehouse, CapabilityCreateRequests, true},
		{enums.ActorRoleWarehouse, CapabilityReceiveStock, true},
		{enums.ActorRoleWarehouse, CapabilityRecordMovements, true},
		{enums.ActorRoleWarehouse, CapabilityApproveRequests, false},
		{enums.ActorRoleViewer, CapabilityCreateRequests, false},
		{enums.ActorRoleViewer, CapabilityRecordMovements, false},
	}

	for _, tt := range tests {
		actor := Actor{UserID: uuid.New(), Name: "t", Role: tt.role}
		if got := actor.Can(tt.capability); got != tt.allowed {
			t.Fatalf("%s / %s: expected %v, got %v", tt.role, tt.capability, tt.allowed, got)
		}
	}
}

func TestCanCancel(t *testing.T) {
	creator := uuid.New()

	admin := Actor{UserID: uuid.New(), Role: enums.ActorRoleAdmin}
	if !admin.CanCancel(creator) {
		t.Fatalf("admin should cancel any request")
	}

	owner := Actor{UserID: creator, Role: enums.ActorRoleWarehouse}
	if !owner.CanCancel(creator) {
		t.Fatalf("creator should cancel own request")
	}

	other := Actor{UserID: uuid.New(), Role: enums.ActorRoleOffice}
	if other.CanCancel(creator) {
		t.Fatalf("non-creator office user must not cancel")
	}
}
