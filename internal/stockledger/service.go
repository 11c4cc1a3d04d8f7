package stockledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/paintdepot/inkstock-backend/pkg/auth"
	"github.com/paintdepot/inkstock-backend/pkg/db/models"
	"github.com/paintdepot/inkstock-backend/pkg/enums"
	pkgerrors "github.com/paintdepot/inkstock-backend/pkg/errors"
	"github.com/paintdepot/inkstock-backend/pkg/metrics"
	"github.com/paintdepot/inkstock-backend/pkg/sequence"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns every stock mutation. All writes go through here so each one
// leaves a ledger entry with an allocated sequence number, atomically with the
// quantity change.
type Service interface {
	Receive(ctx context.Context, actor auth.Actor, input ReceiveInput) (*models.StockLedgerEntry, error)
	// ReceiveInTx runs the receipt inside the caller's transaction. The
	// purchase workflow uses it so receiving a request commits the state
	// transition and the stock entries together.
	ReceiveInTx(ctx context.Context, tx *gorm.DB, actor auth.Actor, input ReceiveInput) (*models.StockLedgerEntry, error)
	Consume(ctx context.Context, actor auth.Actor, input ConsumeInput) (*models.StockLedgerEntry, error)
	Adjust(ctx context.Context, actor auth.Actor, input AdjustInput) (*models.StockLedgerEntry, error)
	Entries(ctx context.Context, filter EntryFilter) ([]models.StockLedgerEntry, error)
}

// ReceiveInput records stock arriving, either from a purchase request or a
// manual delivery.
type ReceiveInput struct {
	ProductID    uuid.UUID
	Quantity     int
	UnitPrice    *decimal.Decimal
	Discount1    decimal.Decimal
	Discount2    decimal.Decimal
	RequestID    *uuid.UUID
	DeliveryNote *string
	InvoiceRef   *string
	Notes        *string
	OccurredAt   time.Time
}

// ConsumeInput records stock leaving for production or another destination.
type ConsumeInput struct {
	ProductID   uuid.UUID
	Quantity    int
	Destination *string
	Notes       *string
	OccurredAt  time.Time
}

// AdjustInput sets the on-hand quantity to an absolute value, for example
// after a physical count. Notes carry the mandatory rationale.
type AdjustInput struct {
	ProductID   uuid.UUID
	NewQuantity int
	Notes       *string
	OccurredAt  time.Time
}

type service struct {
	repo    Repository
	tx      txRunner
	metrics *metrics.WorkflowMetrics
}

// NewService builds a stock ledger service with the required dependencies.
// Metrics may be nil.
func NewService(repo Repository, tx txRunner, workflowMetrics *metrics.WorkflowMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stock ledger repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, metrics: workflowMetrics}, nil
}

func (s *service) Receive(ctx context.Context, actor auth.Actor, input ReceiveInput) (*models.StockLedgerEntry, error) {
	var entry *models.StockLedgerEntry
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.ReceiveInTx(ctx, tx, actor, input)
		if err != nil {
			return err
		}
		entry = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) ReceiveInTx(ctx context.Context, tx *gorm.DB, actor auth.Actor, input ReceiveInput) (*models.StockLedgerEntry, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock receipt")
	}
	if !actor.Can(auth.CapabilityReceiveStock) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "actor cannot receive stock")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "receipt quantity must be positive")
	}
	if err := validateDiscount(input.Discount1); err != nil {
		return nil, err
	}
	if err := validateDiscount(input.Discount2); err != nil {
		return nil, err
	}
	if input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	repo := s.repo.WithTx(tx)
	if _, err := repo.FindProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}

	seq, err := sequence.Next(ctx, tx, sequence.ScopeReceipt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate receipt sequence")
	}

	entry := &models.StockLedgerEntry{
		ID:           uuid.New(),
		Kind:         enums.LedgerKindReceipt,
		Sequence:     seq,
		ProductID:    input.ProductID,
		Quantity:     input.Quantity,
		UnitPrice:    input.UnitPrice,
		Discount1:    input.Discount1,
		Discount2:    input.Discount2,
		RequestID:    input.RequestID,
		DeliveryNote: input.DeliveryNote,
		InvoiceRef:   input.InvoiceRef,
		ActorID:      actor.UserID,
		ActorName:    actor.Name,
		Notes:        input.Notes,
		OccurredAt:   occurredAtOrNow(input.OccurredAt),
	}
	if err := repo.CreateEntry(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create receipt entry")
	}
	if err := repo.AddQuantity(ctx, input.ProductID, input.Quantity); err != nil {
		return nil, err
	}
	if input.UnitPrice != nil {
		if err := repo.UpdateCost(ctx, input.ProductID, *input.UnitPrice, input.Discount1, input.Discount2); err != nil {
			return nil, err
		}
	}

	s.metrics.IncLedgerEntry(enums.LedgerKindReceipt.String())
	return entry, nil
}

func (s *service) Consume(ctx context.Context, actor auth.Actor, input ConsumeInput) (*models.StockLedgerEntry, error) {
	if !actor.Can(auth.CapabilityRecordMovements) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "actor cannot record stock movements")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "consumption quantity must be positive")
	}

	var entry *models.StockLedgerEntry
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		product, err := repo.FindProduct(ctx, input.ProductID)
		if err != nil {
			return err
		}

		deducted, err := repo.DeductQuantity(ctx, input.ProductID, input.Quantity)
		if err != nil {
			return err
		}
		if !deducted {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock on hand").
				WithDetails(map[string]int{
					"available": product.QuantityOnHand,
					"requested": input.Quantity,
				})
		}

		seq, err := sequence.Next(ctx, tx, sequence.ScopeConsumption)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate consumption sequence")
		}

		entry = &models.StockLedgerEntry{
			ID:          uuid.New(),
			Kind:        enums.LedgerKindConsumption,
			Sequence:    seq,
			ProductID:   input.ProductID,
			Quantity:    input.Quantity,
			Destination: input.Destination,
			ActorID:     actor.UserID,
			ActorName:   actor.Name,
			Notes:       input.Notes,
			OccurredAt:  occurredAtOrNow(input.OccurredAt),
		}
		if err := repo.CreateEntry(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create consumption entry")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncLedgerEntry(enums.LedgerKindConsumption.String())
	return entry, nil
}

func (s *service) Adjust(ctx context.Context, actor auth.Actor, input AdjustInput) (*models.StockLedgerEntry, error) {
	if !actor.Can(auth.CapabilityAdjustStock) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "actor cannot adjust stock")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.NewQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "adjusted quantity cannot be negative")
	}
	if input.Notes == nil || *input.Notes == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "adjustment rationale is required")
	}

	var entry *models.StockLedgerEntry
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		product, err := repo.FindProduct(ctx, input.ProductID)
		if err != nil {
			return err
		}
		previous := product.QuantityOnHand

		if err := repo.SetQuantity(ctx, input.ProductID, input.NewQuantity); err != nil {
			return err
		}

		seq, err := sequence.Next(ctx, tx, sequence.ScopeAdjustment)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate adjustment sequence")
		}

		entry = &models.StockLedgerEntry{
			ID:               uuid.New(),
			Kind:             enums.LedgerKindAdjustment,
			Sequence:         seq,
			ProductID:        input.ProductID,
			Quantity:         input.NewQuantity,
			PreviousQuantity: &previous,
			ActorID:          actor.UserID,
			ActorName:        actor.Name,
			Notes:            input.Notes,
			OccurredAt:       occurredAtOrNow(input.OccurredAt),
		}
		if err := repo.CreateEntry(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create adjustment entry")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncLedgerEntry(enums.LedgerKindAdjustment.String())
	return entry, nil
}

func (s *service) Entries(ctx context.Context, filter EntryFilter) ([]models.StockLedgerEntry, error) {
	return s.repo.ListEntries(ctx, filter)
}

func validateDiscount(value decimal.Decimal) error {
	if value.IsNegative() || value.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount must be between 0 and 100")
	}
	return nil
}

func occurredAtOrNow(value time.Time) time.Time {
	if value.IsZero() {
		return time.Now().UTC()
	}
	return value
}
