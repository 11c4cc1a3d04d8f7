package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paintdepot/inkstock-backend/api/responses"
	"github.com/paintdepot/inkstock-backend/api/validators"
	"github.com/paintdepot/inkstock-backend/internal/stockledger"
	"github.com/paintdepot/inkstock-backend/pkg/enums"
	pkgerrors "github.com/paintdepot/inkstock-backend/pkg/errors"
	"github.com/paintdepot/inkstock-backend/pkg/logger"
)

type receiptPayload struct {
	ProductID    uuid.UUID        `json:"product_id" validate:"required"`
	Quantity     int              `json:"quantity" validate:"required,min=1"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	Discount1    *decimal.Decimal `json:"discount1,omitempty"`
	Discount2    *decimal.Decimal `json:"discount2,omitempty"`
	DeliveryNote *string          `json:"delivery_note,omitempty"`
	InvoiceRef   *string          `json:"invoice_ref,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
	OccurredAt   *time.Time       `json:"occurred_at,omitempty"`
}

// RecordReceipt books an ad-hoc stock arrival outside the purchase workflow.
func RecordReceipt(svc stockledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload receiptPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := stockledger.ReceiveInput{
			ProductID:    payload.ProductID,
			Quantity:     payload.Quantity,
			UnitPrice:    payload.UnitPrice,
			DeliveryNote: payload.DeliveryNote,
			InvoiceRef:   payload.InvoiceRef,
			Notes:        payload.Notes,
		}
		if payload.Discount1 != nil {
			input.Discount1 = *payload.Discount1
		}
		if payload.Discount2 != nil {
			input.Discount2 = *payload.Discount2
		}
		if payload.OccurredAt != nil {
			input.OccurredAt = *payload.OccurredAt
		}

		entry, err := svc.Receive(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

type consumptionPayload struct {
	ProductID   uuid.UUID  `json:"product_id" validate:"required"`
	Quantity    int        `json:"quantity" validate:"required,min=1"`
	Destination *string    `json:"destination,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
}

// RecordConsumption deducts stock handed out to production.
func RecordConsumption(svc stockledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload consumptionPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := stockledger.ConsumeInput{
			ProductID:   payload.ProductID,
			Quantity:    payload.Quantity,
			Destination: sanitizeNotes(payload.Destination),
			Notes:       sanitizeNotes(payload.Notes),
		}
		if payload.OccurredAt != nil {
			input.OccurredAt = *payload.OccurredAt
		}

		entry, err := svc.Consume(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

type adjustmentPayload struct {
	ProductID   uuid.UUID  `json:"product_id" validate:"required"`
	NewQuantity int        `json:"new_quantity" validate:"min=0"`
	Notes       *string    `json:"notes" validate:"required"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
}

// RecordAdjustment corrects the on-hand quantity after a physical count.
func RecordAdjustment(svc stockledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adjustmentPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := stockledger.AdjustInput{
			ProductID:   payload.ProductID,
			NewQuantity: payload.NewQuantity,
			Notes:       sanitizeNotes(payload.Notes),
		}
		if payload.OccurredAt != nil {
			input.OccurredAt = *payload.OccurredAt
		}

		entry, err := svc.Adjust(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

// ListLedgerEntries returns a page of ledger entries, optionally filtered.
func ListLedgerEntries(svc stockledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := stockledger.EntryFilter{Params: params}
		if filter.ProductID, err = parseUUIDQuery(r, "product_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter.RequestID, err = parseUUIDQuery(r, "request_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("kind")); raw != "" {
			kind, err := enums.ParseLedgerKind(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid kind filter"))
				return
			}
			filter.Kind = &kind
		}

		entries, err := svc.Entries(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}
