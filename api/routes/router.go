package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paintdepot/inkstock-backend/api/controllers"
	"github.com/paintdepot/inkstock-backend/api/middleware"
	"github.com/paintdepot/inkstock-backend/internal/catalog"
	"github.com/paintdepot/inkstock-backend/internal/purchasing"
	"github.com/paintdepot/inkstock-backend/internal/stockledger"
	pkgAuth "github.com/paintdepot/inkstock-backend/pkg/auth"
	"github.com/paintdepot/inkstock-backend/pkg/config"
	"github.com/paintdepot/inkstock-backend/pkg/db"
	"github.com/paintdepot/inkstock-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	registry *prometheus.Registry,
	purchasingService purchasing.Service,
	ledgerService stockledger.Service,
	catalogService catalog.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/purchase-requests", func(r chi.Router) {
			r.Get("/", controllers.ListPurchaseRequests(purchasingService, logg))
			r.Get("/{requestId}", controllers.GetPurchaseRequest(purchasingService, logg))
			r.Get("/{requestId}/history", controllers.PurchaseRequestHistory(purchasingService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(pkgAuth.CapabilityCreateRequests, logg))
				r.Post("/", controllers.CreatePurchaseRequest(purchasingService, logg))
				r.Post("/quick", controllers.QuickCreatePurchaseRequest(purchasingService, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(pkgAuth.CapabilityApproveRequests, logg))
				r.Post("/{requestId}/approve", controllers.ApprovePurchaseRequest(purchasingService, logg))
				r.Post("/{requestId}/reject", controllers.RejectPurchaseRequest(purchasingService, logg))
				r.Post("/{requestId}/mark-ordered", controllers.MarkPurchaseRequestOrdered(purchasingService, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(pkgAuth.CapabilityReceiveStock, logg))
				r.Post("/{requestId}/mark-shipped", controllers.MarkPurchaseRequestShipped(purchasingService, logg))
				r.Post("/{requestId}/receive", controllers.ReceivePurchaseRequest(purchasingService, logg))
			})

			// Cancellation is creator-or-admin, enforced in the service.
			r.Post("/{requestId}/cancel", controllers.CancelPurchaseRequest(purchasingService, logg))
		})

		r.Route("/stock", func(r chi.Router) {
			r.Get("/ledger", controllers.ListLedgerEntries(ledgerService, logg))
			r.With(middleware.RequireCapability(pkgAuth.CapabilityReceiveStock, logg)).
				Post("/receipts", controllers.RecordReceipt(ledgerService, logg))
			r.With(middleware.RequireCapability(pkgAuth.CapabilityRecordMovements, logg)).
				Post("/consumptions", controllers.RecordConsumption(ledgerService, logg))
			r.With(middleware.RequireCapability(pkgAuth.CapabilityAdjustStock, logg)).
				Post("/adjustments", controllers.RecordAdjustment(ledgerService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(catalogService, logg))
			r.Get("/replenishment", controllers.ListReplenishmentCandidates(catalogService, logg))
			r.Get("/{productId}", controllers.GetProduct(catalogService, logg))
		})
	})

	return r
}
