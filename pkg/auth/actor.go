package auth

import (
	"github.com/google/uuid"

	"github.com/paintdepot/inkstock-backend/pkg/enums"
)

// Actor is the authenticated identity performing an operation. Authentication
// happens outside the core; every workflow and ledger call takes the actor as
// an explicit parameter, never ambient state.
type Actor struct {
	UserID uuid.UUID
	Name   string
	Role   enums.ActorRole
}

// IsValid reports whether the actor carries a usable identity.
func (a Actor) IsValid() bool {
	return a.UserID != uuid.Nil && a.Role.IsValid()
}
