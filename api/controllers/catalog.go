package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/paintdepot/inkstock-backend/api/responses"
	"github.com/paintdepot/inkstock-backend/internal/catalog"
	"github.com/paintdepot/inkstock-backend/pkg/logger"
)

// ListProducts returns catalog products, optionally filtered by supplier,
// active flag, or a code/name search term.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := catalog.ProductFilter{
			Search: strings.TrimSpace(r.URL.Query().Get("search")),
		}

		supplierID, err := parseUUIDQuery(r, "supplier_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.SupplierID = supplierID

		if raw := r.URL.Query().Get("active"); raw != "" {
			filter.ActiveOnly, _ = strconv.ParseBool(raw)
		}

		products, err := svc.Products(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// GetProduct returns one product by id.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Product(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ListReplenishmentCandidates returns products at or below their minimum
// with a suggested reorder quantity for each.
func ListReplenishmentCandidates(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		candidates, err := svc.ReplenishmentCandidates(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, candidates)
	}
}
