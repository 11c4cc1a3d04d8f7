package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/paintdepot/inkstock-backend/internal/audit"
	"github.com/paintdepot/inkstock-backend/internal/catalog"
	"github.com/paintdepot/inkstock-backend/internal/stockledger"
	"github.com/paintdepot/inkstock-backend/pkg/auth"
	"github.com/paintdepot/inkstock-backend/pkg/config"
	"github.com/paintdepot/inkstock-backend/pkg/db/models"
	"github.com/paintdepot/inkstock-backend/pkg/enums"
	pkgerrors "github.com/paintdepot/inkstock-backend/pkg/errors"
	"github.com/paintdepot/inkstock-backend/pkg/metrics"
	"github.com/paintdepot/inkstock-backend/pkg/sequence"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// StockReceiver books received goods into the stock ledger inside the
// workflow's transaction.
type StockReceiver interface {
	ReceiveInTx(ctx context.Context, tx *gorm.DB, actor auth.Actor, input stockledger.ReceiveInput) (*models.StockLedgerEntry, error)
}

// Service drives the purchase request workflow. Every transition validates the
// actor's capability, wins the state row under guard, and appends an audit
// entry in the same transaction.
type Service interface {
	Create(ctx context.Context, actor auth.Actor, input CreateInput) (*models.PurchaseRequest, error)
	QuickCreate(ctx context.Context, actor auth.Actor, input QuickCreateInput) (*models.PurchaseRequest, error)
	Approve(ctx context.Context, actor auth.Actor, input ApproveInput) (*models.PurchaseRequest, error)
	Reject(ctx context.Context, actor auth.Actor, input RejectInput) (*models.PurchaseRequest, error)
	MarkOrdered(ctx context.Context, actor auth.Actor, input MarkOrderedInput) (*models.PurchaseRequest, error)
	MarkShipped(ctx context.Context, actor auth.Actor, input MarkShippedInput) (*models.PurchaseRequest, error)
	Receive(ctx context.Context, actor auth.Actor, input ReceiveInput) (*models.PurchaseRequest, error)
	Cancel(ctx context.Context, actor auth.Actor, input CancelInput) (*models.PurchaseRequest, error)
	Get(ctx context.Context, requestID uuid.UUID) (*models.PurchaseRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]models.PurchaseRequest, error)
	History(ctx context.Context, requestID uuid.UUID) ([]models.AuditEntry, error)
}

// LineInput is one product/quantity pairing on a new request.
type LineInput struct {
	ProductID      uuid.UUID
	Quantity       int
	EstimatedPrice *decimal.Decimal
	Notes          *string
}

// CreateInput opens a new purchase request in the pending state.
type CreateInput struct {
	Lines      []LineInput
	SupplierID *uuid.UUID
	Priority   enums.RequestPriority
	Rationale  *string
}

// QuickCreateInput opens a single-line request for a low-stock product with a
// suggested quantity.
type QuickCreateInput struct {
	ProductID uuid.UUID
	Priority  enums.RequestPriority
	Rationale *string
}

// ApproveInput moves a pending request to approved. LineQuantities overrides
// approved quantities per line; untouched lines approve the requested amount.
type ApproveInput struct {
	RequestID      uuid.UUID
	Notes          *string
	LineQuantities map[uuid.UUID]int
}

// RejectInput declines a pending request. The rationale is mandatory.
type RejectInput struct {
	RequestID uuid.UUID
	Notes     string
}

// MarkOrderedInput records that the order was placed with the supplier.
type MarkOrderedInput struct {
	RequestID           uuid.UUID
	SupplierOrderRef    *string
	EstimatedDeliveryAt *time.Time
	Notes               *string
}

// MarkShippedInput records that the supplier dispatched the goods.
type MarkShippedInput struct {
	RequestID   uuid.UUID
	TrackingRef *string
	Notes       *string
}

// ReceiveLineInput reports how many units of one line actually arrived.
type ReceiveLineInput struct {
	LineID      uuid.UUID
	Quantity    int
	ActualPrice *decimal.Decimal
}

// ReceiveInput closes the request and books the arrived goods into stock.
// Lines not listed are treated as not delivered. The request still ends in
// the received state even when quantities fall short; shortfalls are visible
// on the lines.
type ReceiveInput struct {
	RequestID    uuid.UUID
	Lines        []ReceiveLineInput
	DeliveryNote *string
	InvoiceRef   *string
	Notes        *string
}

// CancelInput aborts a request from any non-terminal state.
type CancelInput struct {
	RequestID uuid.UUID
	Notes     *string
}

type service struct {
	repo    Repository
	tx      txRunner
	audit   audit.Service
	stock   StockReceiver
	catalog catalog.Repository
	metrics *metrics.WorkflowMetrics
	cfg     config.PurchasingConfig
	now     func() time.Time
}

// NewService builds the purchase workflow service. Metrics may be nil.
func NewService(
	repo Repository,
	tx txRunner,
	auditSvc audit.Service,
	stock StockReceiver,
	catalogRepo catalog.Repository,
	workflowMetrics *metrics.WorkflowMetrics,
	cfg config.PurchasingConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchasing repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if auditSvc == nil {
		return nil, fmt.Errorf("audit service required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock receiver required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if cfg.NumberPrefix == "" {
		cfg.NumberPrefix = "PO"
	}
	return &service{
		repo:    repo,
		tx:      tx,
		audit:   auditSvc,
		stock:   stock,
		catalog: catalogRepo,
		metrics: workflowMetrics,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Create(ctx context.Context, actor auth.Actor, input CreateInput) (*models.PurchaseRequest, error) {
	started := s.now()
	request, err := s.create(ctx, actor, input)
	s.metrics.ObserveTransition("create", err, s.now().Sub(started))
	return request, err
}

func (s *service) create(ctx context.Context, actor auth.Actor, input CreateInput) (*models.PurchaseRequest, error) {
	if !actor.Can(auth.CapabilityCreateRequests) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "actor cannot create purchase requests")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line is required")
	}
	priority := input.Priority
	if priority == "" {
		priority = enums.RequestPriorityNormal
	}
	if !priority.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid priority %q", priority))
	}
	for _, line := range input.Lines {
		if line.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line product id is required")
		}
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		if line.EstimatedPrice != nil && line.EstimatedPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "estimated price cannot be negative")
		}
	}

	supplierID, err := s.resolveSupplier(ctx, input.Lines, input.SupplierID)
	if err != nil {
		return nil, err
	}

	var request *models.PurchaseRequest
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		seq, err := sequence.Next(ctx, tx, sequence.ScopePurchaseRequest)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate request number")
		}

		requestID := uuid.New()
		lines := make([]models.RequestLine, 0, len(input.Lines))
		for _, line := range input.Lines {
			lines = append(lines, models.RequestLine{
				ID:                uuid.New(),
				RequestID:         requestID,
				ProductID:         line.ProductID,
				QuantityRequested: line.Quantity,
				EstimatedPrice:    line.EstimatedPrice,
				Notes:             line.Notes,
			})
		}

		request = &models.PurchaseRequest{
			ID:            requestID,
			Number:        s.formatNumber(seq),
			State:         enums.RequestStatePending,
			Priority:      priority,
			SupplierID:    supplierID,
			CreatedByID:   actor.UserID,
			CreatedByName: actor.Name,
			Rationale:     input.Rationale,
			Lines:         lines,
		}
		if err := s.repo.WithTx(tx).Create(ctx, request); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create purchase request")
		}

		_, err = s.audit.AppendInTx(ctx, tx, audit.AppendInput{
			RequestID:  requestID,
			StateAfter: enums.RequestStatePending,
			Actor:      actor,
			Action:     "create",
			Notes:      input.Rationale,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (s *service) QuickCreate(ctx context.Context, actor auth.Actor, input QuickCreateInput) (*models.PurchaseRequest, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.catalog.FindProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	return s.Create(ctx, actor, CreateInput{
		Lines: []LineInput{{
			ProductID: product.ID,
			Quantity:  catalog.SuggestedOrderQuantity(*product),
		}},
		SupplierID: product.SupplierID,
		Priority:   input.Priority,
		Rationale:  input.Rationale,
	})
}

func (s *service) Approve(ctx context.Context, actor auth.Actor, input ApproveInput) (*models.PurchaseRequest, error) {
	started := s.now()
	request, err := s.approve(ctx, actor, input)
	s.metrics.ObserveTransition("approve", err, s.now().Sub(started))
	return request, err
}

func (s *service) approve(ctx context.Context, actor auth.Actor, input ApproveInput) (*models.PurchaseRequest, error) {
	if !actor.Can(auth.CapabilityApproveRequests) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "actor cannot approve purchase requests")
	}
	for _, quantity := range input.LineQuantities {
		if quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "approved quantity must be positive")
		}
	}

	return s.transition(ctx, actor, input.RequestID, enums.RequestStateApproved, "approve", input.Notes, func(tx *gorm.DB, request *models.PurchaseRequest) (map[string]any, error) {
		repo := s.repo.WithTx(tx)
		now := s.now()

		for i := range request.Lines {
			line := &request.Lines[i]
			approved := line.QuantityRequested
			if override, ok := input.LineQuantities[line.ID]; ok {
				approved = override
			}
			line.QuantityApproved = &approved
			if err := repo.UpdateLine(ctx, line); err != nil {
				return nil, err
			}
		}

		return map[string]any{
			"state":          enums.RequestStateApproved,
			"approved_by_id": actor.UserID,
			"approved_at":    now,
			"approval_notes": input.Notes,
			"updated_at":     now,
		}, nil
	})
}

func (s *service) Reject(ctx context.Context, actor auth.Actor, input RejectInput) (*models.PurchaseRequest, error) {
	started := s.now()
	request, err := s.reject(ctx, actor, input)
	s.metrics.ObserveTransition("reject", err, s.now().Sub(started))
	return request, err
}

func (s *service) reject(ctx context.Context, actor auth.Actor, input RejectInput) (*models.PurchaseRequest, error) {
	if !actor.Can(auth.CapabilityApproveRequests) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "actor cannot reject purchase requests")
	}
	if input.Notes == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejection rationale is required")
	}

	notes := input.Notes
	return s.transition(ctx, actor, input.RequestID, enums.RequestStateRejected, "reject", &notes, func(tx *gorm.DB, request *models.PurchaseRequest) (map[string]any, error) {
		now := s.now()
		return map[string]any{
			"state":          enums.RequestStateRejected,
			"approved_by_id": actor.UserID,
			"approved_at":    now,
			"approval_notes": notes,
			"updated_at":     now,
		}, nil
	})
}

func (s *service) MarkOrdered(ctx context.Context, actor auth.Actor, input MarkOrderedInput) (*models.PurchaseRequest, error) {
	started := s.now()
	request, err := s.markOrdered(ctx, actor, input)
	s.metrics.ObserveTransition("mark_ordered", err, s.now().Sub(started))
	return request, err
}

func (s *service) markOrdered(ctx context.Context, actor auth.Actor, input MarkOrderedInput) (*models.PurchaseRequest, error) {
	if !actor.Can(auth.CapabilityApproveRequests) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "actor cannot mark requests ordered")
	}

	return s.transition(ctx, actor, input.RequestID, enums.RequestStateOrdered, "mark_ordered", input.Notes, func(tx *gorm.DB, request *models.PurchaseRequest) (map[string]any, error) {
		now := s.now()
		return map[string]any{
			"state":                 enums.RequestStateOrdered,
			"ordered_at":            now,
			"supplier_order_ref":    input.SupplierOrderRef,
			"estimated_delivery_at": input.EstimatedDeliveryAt,
			"updated_at":            now,
		}, nil
	})
}

func (s *service) MarkShipped(ctx context.Context, actor auth.Actor, input MarkShippedInput) (*models.PurchaseRequest, error) {
	started := s.now()
	request, err := s.markShipped(ctx, actor, input)
	s.metrics.ObserveTransition("mark_shipped", err, s.now().Sub(started))
	return request, err
}

func (s *service) markShipped(ctx context.Context, actor auth.Actor, input MarkShippedInput) (*models.PurchaseRequest, error) {
	if !actor.Can(auth.CapabilityReceiveStock) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "actor cannot mark requests shipped")
	}

	return s.transition(ctx, actor, input.RequestID, enums.RequestStateInTransit, "mark_shipped", input.Notes, func(tx *gorm.DB, request *models.PurchaseRequest) (map[string]any, error) {
		now := s.now()
		return map[string]any{
			"state":        enums.RequestStateInTransit,
			"shipped_at":   now,
			"tracking_ref": input.TrackingRef,
			"updated_at":   now,
		}, nil
	})
}

func (s *service) Receive(ctx context.Context, actor auth.Actor, input ReceiveInput) (*models.PurchaseRequest, error) {
	started := s.now()
	request, err := s.receive(ctx, actor, input)
	s.metrics.ObserveTransition("receive", err, s.now().Sub(started))
	return request, err
}

func (s *service) receive(ctx context.Context, actor auth.Actor, input ReceiveInput) (*models.PurchaseRequest, error) {
	if !actor.Can(auth.CapabilityReceiveStock) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "actor cannot receive purchase requests")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one received line is required")
	}
	received := make(map[uuid.UUID]ReceiveLineInput, len(input.Lines))
	for _, line := range input.Lines {
		if line.LineID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line id is required")
		}
		if line.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "received quantity cannot be negative")
		}
		if line.ActualPrice != nil && line.ActualPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "actual price cannot be negative")
		}
		if _, dup := received[line.LineID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate line in receipt")
		}
		received[line.LineID] = line
	}

	return s.transition(ctx, actor, input.RequestID, enums.RequestStateReceived, "receive", input.Notes, func(tx *gorm.DB, request *models.PurchaseRequest) (map[string]any, error) {
		repo := s.repo.WithTx(tx)
		now := s.now()

		lineByID := make(map[uuid.UUID]*models.RequestLine, len(request.Lines))
		for i := range request.Lines {
			lineByID[request.Lines[i].ID] = &request.Lines[i]
		}

		for lineID, arrival := range received {
			line, ok := lineByID[lineID]
			if !ok {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "line does not belong to this request")
			}

			quantity := arrival.Quantity
			line.QuantityReceived = &quantity
			line.ActualPrice = arrival.ActualPrice
			if err := repo.UpdateLine(ctx, line); err != nil {
				return nil, err
			}
			if quantity == 0 {
				continue
			}

			price := arrival.ActualPrice
			if price == nil {
				price = line.EstimatedPrice
			}
			product, err := s.catalog.WithTx(tx).FindProduct(ctx, line.ProductID)
			if err != nil {
				return nil, err
			}
			requestID := request.ID
			_, err = s.stock.ReceiveInTx(ctx, tx, actor, stockledger.ReceiveInput{
				ProductID:    line.ProductID,
				Quantity:     quantity,
				UnitPrice:    price,
				Discount1:    product.Discount1,
				Discount2:    product.Discount2,
				RequestID:    &requestID,
				DeliveryNote: input.DeliveryNote,
				InvoiceRef:   input.InvoiceRef,
				Notes:        input.Notes,
				OccurredAt:   now,
			})
			if err != nil {
				return nil, err
			}
		}

		return map[string]any{
			"state":          enums.RequestStateReceived,
			"received_at":    now,
			"received_by_id": actor.UserID,
			"receipt_notes":  input.Notes,
			"updated_at":     now,
		}, nil
	})
}

func (s *service) Cancel(ctx context.Context, actor auth.Actor, input CancelInput) (*models.PurchaseRequest, error) {
	started := s.now()
	request, err := s.cancel(ctx, actor, input)
	s.metrics.ObserveTransition("cancel", err, s.now().Sub(started))
	return request, err
}

func (s *service) cancel(ctx context.Context, actor auth.Actor, input CancelInput) (*models.PurchaseRequest, error) {
	var request *models.PurchaseRequest
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.FindByID(ctx, input.RequestID)
		if err != nil {
			return err
		}
		if !actor.CanCancel(current.CreatedByID) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the creator or an admin can cancel a request")
		}
		if !current.State.CanTransitionTo(enums.RequestStateCancelled) {
			return invalidTransition(current.State, enums.RequestStateCancelled)
		}

		now := s.now()
		won, err := repo.UpdateStateGuarded(ctx, current.ID, current.State, map[string]any{
			"state":        enums.RequestStateCancelled,
			"cancelled_at": now,
			"updated_at":   now,
		})
		if err != nil {
			return err
		}
		if !won {
			return pkgerrors.New(pkgerrors.CodeConflict, "request was modified concurrently")
		}

		if _, err := s.audit.AppendInTx(ctx, tx, audit.AppendInput{
			RequestID:   current.ID,
			StateBefore: current.State,
			StateAfter:  enums.RequestStateCancelled,
			Actor:       actor,
			Action:      "cancel",
			Notes:       input.Notes,
		}); err != nil {
			return err
		}

		request, err = repo.FindByID(ctx, current.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (s *service) Get(ctx context.Context, requestID uuid.UUID) (*models.PurchaseRequest, error) {
	return s.repo.FindByID(ctx, requestID)
}

func (s *service) List(ctx context.Context, filter RequestFilter) ([]models.PurchaseRequest, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) History(ctx context.Context, requestID uuid.UUID) ([]models.AuditEntry, error) {
	if _, err := s.repo.FindByID(ctx, requestID); err != nil {
		return nil, err
	}
	return s.audit.History(ctx, requestID)
}

// transition runs the shared skeleton of a workflow step: load, check the
// edge, apply step-specific updates, win the guarded state row, audit.
func (s *service) transition(
	ctx context.Context,
	actor auth.Actor,
	requestID uuid.UUID,
	target enums.RequestState,
	action string,
	notes *string,
	apply func(tx *gorm.DB, request *models.PurchaseRequest) (map[string]any, error),
) (*models.PurchaseRequest, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id is required")
	}

	var request *models.PurchaseRequest
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		if !current.State.CanTransitionTo(target) {
			return invalidTransition(current.State, target)
		}

		updates, err := apply(tx, current)
		if err != nil {
			return err
		}

		won, err := repo.UpdateStateGuarded(ctx, current.ID, current.State, updates)
		if err != nil {
			return err
		}
		if !won {
			return pkgerrors.New(pkgerrors.CodeConflict, "request was modified concurrently")
		}

		if _, err := s.audit.AppendInTx(ctx, tx, audit.AppendInput{
			RequestID:   current.ID,
			StateBefore: current.State,
			StateAfter:  target,
			Actor:       actor,
			Action:      action,
			Notes:       notes,
		}); err != nil {
			return err
		}

		request, err = repo.FindByID(ctx, current.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (s *service) resolveSupplier(ctx context.Context, lines []LineInput, requested *uuid.UUID) (*uuid.UUID, error) {
	supplierID := requested
	for _, line := range lines {
		product, err := s.catalog.FindProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product.SupplierID == nil {
			continue
		}
		if supplierID == nil {
			id := *product.SupplierID
			supplierID = &id
			continue
		}
		if *supplierID != *product.SupplierID {
			return nil, pkgerrors.New(pkgerrors.CodeSupplierMismatch, "all lines must share one supplier").
				WithDetails(map[string]string{
					"request_supplier": supplierID.String(),
					"product_supplier": product.SupplierID.String(),
					"product_id":       product.ID.String(),
				})
		}
	}
	return supplierID, nil
}

func (s *service) formatNumber(seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", s.cfg.NumberPrefix, s.now().Format("200601"), seq)
}

func invalidTransition(from, to enums.RequestState) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("cannot move request from %s to %s", from, to)).
		WithDetails(map[string]string{"from": from.String(), "to": to.String()})
}
