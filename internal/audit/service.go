package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/paintdepot/inkstock-backend/pkg/auth"
	"github.com/paintdepot/inkstock-backend/pkg/db/models"
	"github.com/paintdepot/inkstock-backend/pkg/enums"
)

// Service records and reads the append-only trail of workflow transitions.
type Service interface {
	// AppendInTx writes one audit entry inside the caller's transaction so
	// the entry commits or rolls back with the transition it describes.
	AppendInTx(ctx context.Context, tx *gorm.DB, input AppendInput) (*models.AuditEntry, error)
	// History returns a request's entries in reverse-chronological order.
	History(ctx context.Context, requestID uuid.UUID) ([]models.AuditEntry, error)
}

type service struct {
	repo Repository
}

// AppendInput captures the immutable data an audit entry requires.
// StateBefore is empty for the creation event.
type AppendInput struct {
	RequestID   uuid.UUID
	StateBefore enums.RequestState
	StateAfter  enums.RequestState
	Actor       auth.Actor
	Action      string
	Notes       *string
}

// NewService wires an audit service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) AppendInTx(ctx context.Context, tx *gorm.DB, input AppendInput) (*models.AuditEntry, error) {
	if input.RequestID == uuid.Nil {
		return nil, fmt.Errorf("request id is required")
	}
	if !input.StateAfter.IsValid() {
		return nil, fmt.Errorf("invalid state_after %q", input.StateAfter)
	}
	if input.StateBefore != "" && !input.StateBefore.IsValid() {
		return nil, fmt.Errorf("invalid state_before %q", input.StateBefore)
	}
	if !input.Actor.IsValid() {
		return nil, fmt.Errorf("actor identity required")
	}
	if input.Action == "" {
		return nil, fmt.Errorf("action label is required")
	}

	entry := &models.AuditEntry{
		ID:          uuid.New(),
		RequestID:   input.RequestID,
		StateBefore: input.StateBefore,
		StateAfter:  input.StateAfter,
		ActorID:     input.Actor.UserID,
		ActorName:   input.Actor.Name,
		Action:      input.Action,
		Notes:       input.Notes,
	}

	if err := s.repo.WithTx(tx).Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) History(ctx context.Context, requestID uuid.UUID) ([]models.AuditEntry, error) {
	if requestID == uuid.Nil {
		return nil, fmt.Errorf("request id is required")
	}
	return s.repo.ListByRequest(ctx, requestID)
}
