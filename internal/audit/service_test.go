package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/paintdepot/inkstock-backend/pkg/auth"
	"github.com/paintdepot/inkstock-backend/pkg/db/models"
	"github.com/paintdepot/inkstock-backend/pkg/enums"
)

type fakeRepository struct {
	createFn func(ctx context.Context, entry *models.AuditEntry) error
	listFn   func(ctx context.Context, requestID uuid.UUID) ([]models.AuditEntry, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	if f.createFn != nil {
		return f.createFn(ctx, entry)
	}
	return nil
}

func (f *fakeRepository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]models.AuditEntry, error) {
	if f.listFn != nil {
		return f.listFn(ctx, requestID)
	}
	return nil, nil
}

func testActor() auth.Actor {
	return auth.Actor{UserID: uuid.New(), Name: "Marta", Role: enums.ActorRoleOffice}
}

func TestService_AppendInTx(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	actor := testActor()
	notes := "cleared by purchasing"
	input := AppendInput{
		RequestID:   uuid.New(),
		StateBefore: enums.RequestStatePending,
		StateAfter:  enums.RequestStateApproved,
		Actor:       actor,
		Action:      "approve",
		Notes:       &notes,
	}

	var created *models.AuditEntry
	repo.createFn = func(ctx context.Context, entry *models.AuditEntry) error {
		created = entry
		return nil
	}

	got, err := svc.AppendInTx(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("AppendInTx error: %v", err)
	}
	if created == nil {
		t.Fatal("expected audit entry to be created")
	}
	if created.RequestID != input.RequestID || created.StateBefore != input.StateBefore || created.StateAfter != input.StateAfter {
		t.Fatalf("unexpected transition data: %+v", created)
	}
	if created.ActorID != actor.UserID || created.ActorName != actor.Name {
		t.Fatalf("missing actor metadata: %+v", created)
	}
	if created.Action != "approve" || created.Notes == nil || *created.Notes != notes {
		t.Fatalf("unexpected action/notes: %+v", created)
	}
	if got != created {
		t.Fatalf("service should return created entry")
	}
}

func TestService_AppendInTxCreationEvent(t *testing.T) {
	repo := &fakeRepository{}
	svc, _ := NewService(repo)

	var created *models.AuditEntry
	repo.createFn = func(ctx context.Context, entry *models.AuditEntry) error {
		created = entry
		return nil
	}

	_, err := svc.AppendInTx(context.Background(), nil, AppendInput{
		RequestID:  uuid.New(),
		StateAfter: enums.RequestStatePending,
		Actor:      testActor(),
		Action:     "create",
	})
	if err != nil {
		t.Fatalf("AppendInTx error: %v", err)
	}
	if created.StateBefore != "" {
		t.Fatalf("creation event must carry empty state_before, got %q", created.StateBefore)
	}
}

func TestService_AppendInTxValidation(t *testing.T) {
	repo := &fakeRepository{}
	svc, _ := NewService(repo)

	cases := []struct {
		name  string
		input AppendInput
	}{
		{"missing request id", AppendInput{StateAfter: enums.RequestStatePending, Actor: testActor(), Action: "create"}},
		{"invalid state after", AppendInput{RequestID: uuid.New(), StateAfter: "limbo", Actor: testActor(), Action: "create"}},
		{"invalid state before", AppendInput{RequestID: uuid.New(), StateBefore: "limbo", StateAfter: enums.RequestStateApproved, Actor: testActor(), Action: "approve"}},
		{"missing actor", AppendInput{RequestID: uuid.New(), StateAfter: enums.RequestStatePending, Action: "create"}},
		{"missing action", AppendInput{RequestID: uuid.New(), StateAfter: enums.RequestStatePending, Actor: testActor()}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.AppendInTx(context.Background(), nil, tc.input); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestService_AppendInTxRepoError(t *testing.T) {
	repo := &fakeRepository{
		createFn: func(ctx context.Context, entry *models.AuditEntry) error {
			return errors.New("write failed")
		},
	}
	svc, _ := NewService(repo)

	_, err := svc.AppendInTx(context.Background(), nil, AppendInput{
		RequestID:  uuid.New(),
		StateAfter: enums.RequestStatePending,
		Actor:      testActor(),
		Action:     "create",
	})
	if err == nil {
		t.Fatalf("expected repository error to surface")
	}
}

func TestService_History(t *testing.T) {
	requestID := uuid.New()
	repo := &fakeRepository{
		listFn: func(ctx context.Context, gotID uuid.UUID) ([]models.AuditEntry, error) {
			if gotID != requestID {
				t.Fatalf("unexpected request id: %s", gotID)
			}
			return []models.AuditEntry{{Action: "approve"}, {Action: "create"}}, nil
		},
	}
	svc, _ := NewService(repo)

	entries, err := svc.History(context.Background(), requestID)
	if err != nil {
		t.Fatalf("History error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	if _, err := svc.History(context.Background(), uuid.Nil); err == nil {
		t.Fatalf("expected validation error for nil id")
	}
}
