package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paintdepot/inkstock-backend/api/responses"
	"github.com/paintdepot/inkstock-backend/api/validators"
	"github.com/paintdepot/inkstock-backend/internal/purchasing"
	"github.com/paintdepot/inkstock-backend/pkg/enums"
	pkgerrors "github.com/paintdepot/inkstock-backend/pkg/errors"
	"github.com/paintdepot/inkstock-backend/pkg/logger"
)

type requestLinePayload struct {
	ProductID      uuid.UUID        `json:"product_id" validate:"required"`
	Quantity       int              `json:"quantity" validate:"required,min=1"`
	EstimatedPrice *decimal.Decimal `json:"estimated_price,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
}

type createRequestPayload struct {
	Lines      []requestLinePayload `json:"lines" validate:"required,min=1,dive"`
	SupplierID *uuid.UUID           `json:"supplier_id,omitempty"`
	Priority   string               `json:"priority,omitempty"`
	Rationale  *string              `json:"rationale,omitempty"`
}

// CreatePurchaseRequest opens a new request in the pending state.
func CreatePurchaseRequest(svc purchasing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createRequestPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		priority := enums.RequestPriority(payload.Priority)
		lines := make([]purchasing.LineInput, 0, len(payload.Lines))
		for _, line := range payload.Lines {
			lines = append(lines, purchasing.LineInput{
				ProductID:      line.ProductID,
				Quantity:       line.Quantity,
				EstimatedPrice: line.EstimatedPrice,
				Notes:          line.Notes,
			})
		}

		request, err := svc.Create(r.Context(), actor, purchasing.CreateInput{
			Lines:      lines,
			SupplierID: payload.SupplierID,
			Priority:   priority,
			Rationale:  sanitizeNotes(payload.Rationale),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, request)
	}
}

type quickCreatePayload struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Priority  string    `json:"priority,omitempty"`
	Rationale *string   `json:"rationale,omitempty"`
}

// QuickCreatePurchaseRequest opens a single-line request for a low-stock
// product with a suggested quantity.
func QuickCreatePurchaseRequest(svc purchasing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload quickCreatePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.QuickCreate(r.Context(), actor, purchasing.QuickCreateInput{
			ProductID: payload.ProductID,
			Priority:  enums.RequestPriority(payload.Priority),
			Rationale: sanitizeNotes(payload.Rationale),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, request)
	}
}

// ListPurchaseRequests returns a page of requests, optionally filtered.
func ListPurchaseRequests(svc purchasing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := purchasing.RequestFilter{Params: params}
		if raw := strings.TrimSpace(r.URL.Query().Get("state")); raw != "" {
			state, err := enums.ParseRequestState(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid state filter"))
				return
			}
			filter.State = &state
		}
		if filter.SupplierID, err = parseUUIDQuery(r, "supplier_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter.CreatedByID, err = parseUUIDQuery(r, "created_by"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requests, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, requests)
	}
}

// GetPurchaseRequest returns one request with its lines.
func GetPurchaseRequest(svc purchasing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := parseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Get(r.Context(), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

// PurchaseRequestHistory returns the audit trail, newest first.
func PurchaseRequestHistory(svc purchasing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := parseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.History(r.Context(), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}

type approvePayload struct {
	Notes          *string           `json:"notes,omitempty"`
	LineQuantities map[uuid.UUID]int `json:"line_quantities,omitempty"`
}

// ApprovePurchaseRequest moves a pending request to approved.
func ApprovePurchaseRequest(svc purchasing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		requestID, err := parseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload approvePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Approve(r.Context(), actor, purchasing.ApproveInput{
			RequestID:      requestID,
			Notes:          sanitizeNotes(payload.Notes),
			LineQuantities: payload.LineQuantities,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

type rejectPayload struct {
	Notes string `json:"notes" validate:"required"`
}

// RejectPurchaseRequest declines a pending request.
func RejectPurchaseRequest(svc purchasing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		requestID, err := parseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload rejectPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Reject(r.Context(), actor, purchasing.RejectInput{
			RequestID: requestID,
			Notes:     payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

type markOrderedPayload struct {
	SupplierOrderRef    *string    `json:"supplier_order_ref,omitempty"`
	EstimatedDeliveryAt *time.Time `json:"estimated_delivery_at,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
}

// MarkPurchaseRequestOrdered records that the order was placed.
func MarkPurchaseRequestOrdered(svc purchasing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		requestID, err := parseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload markOrderedPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.MarkOrdered(r.Context(), actor, purchasing.MarkOrderedInput{
			RequestID:           requestID,
			SupplierOrderRef:    payload.SupplierOrderRef,
			EstimatedDeliveryAt: payload.EstimatedDeliveryAt,
			Notes:               payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

type markShippedPayload struct {
	TrackingRef *string `json:"tracking_ref,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// MarkPurchaseRequestShipped records that the supplier dispatched the goods.
func MarkPurchaseRequestShipped(svc purchasing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		requestID, err := parseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload markShippedPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.MarkShipped(r.Context(), actor, purchasing.MarkShippedInput{
			RequestID:   requestID,
			TrackingRef: payload.TrackingRef,
			Notes:       payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

type receiveLinePayload struct {
	LineID      uuid.UUID        `json:"line_id" validate:"required"`
	Quantity    int              `json:"quantity" validate:"min=0"`
	ActualPrice *decimal.Decimal `json:"actual_price,omitempty"`
}

type receiveRequestPayload struct {
	Lines        []receiveLinePayload `json:"lines" validate:"required,min=1,dive"`
	DeliveryNote *string              `json:"delivery_note,omitempty"`
	InvoiceRef   *string              `json:"invoice_ref,omitempty"`
	Notes        *string              `json:"notes,omitempty"`
}

// ReceivePurchaseRequest closes the request and books arrived stock.
func ReceivePurchaseRequest(svc purchasing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		requestID, err := parseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload receiveRequestPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]purchasing.ReceiveLineInput, 0, len(payload.Lines))
		for _, line := range payload.Lines {
			lines = append(lines, purchasing.ReceiveLineInput{
				LineID:      line.LineID,
				Quantity:    line.Quantity,
				ActualPrice: line.ActualPrice,
			})
		}

		request, err := svc.Receive(r.Context(), actor, purchasing.ReceiveInput{
			RequestID:    requestID,
			Lines:        lines,
			DeliveryNote: payload.DeliveryNote,
			InvoiceRef:   payload.InvoiceRef,
			Notes:        payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

type cancelPayload struct {
	Notes *string `json:"notes,omitempty"`
}

// CancelPurchaseRequest aborts a request from any non-terminal state.
func CancelPurchaseRequest(svc purchasing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		requestID, err := parseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cancelPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Cancel(r.Context(), actor, purchasing.CancelInput{
			RequestID: requestID,
			Notes:     sanitizeNotes(payload.Notes),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}
