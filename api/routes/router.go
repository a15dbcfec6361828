package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solidmarket/marketplace-backend/api/controllers"
	"github.com/solidmarket/marketplace-backend/api/middleware"
	"github.com/solidmarket/marketplace-backend/internal/catalog"
	"github.com/solidmarket/marketplace-backend/internal/notifications"
	"github.com/solidmarket/marketplace-backend/internal/shipments"
	"github.com/solidmarket/marketplace-backend/internal/stocklocations"
	"github.com/solidmarket/marketplace-backend/internal/suppliers"
	"github.com/solidmarket/marketplace-backend/pkg/config"
	"github.com/solidmarket/marketplace-backend/pkg/db"
	"github.com/solidmarket/marketplace-backend/pkg/enums"
	pkgerrors "github.com/solidmarket/marketplace-backend/pkg/errors"
	"github.com/solidmarket/marketplace-backend/pkg/logger"
	"github.com/solidmarket/marketplace-backend/pkg/redis"
	"github.com/solidmarket/marketplace-backend/pkg/settings"
)

const readyTimeout = 2 * time.Second

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          redis.Pinger
	Settings       settings.Provider
	Suppliers      suppliers.Service
	StockLocations *stocklocations.Repository
	Shipments      shipments.Service
	Notifications  notifications.Service
	Catalog        *catalog.Repository
}

// NewRouter assembles the chi router with the full middleware stack.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readinessCheck(deps)))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		// Supplier-scoped routes rely on the active supplier claim.
		r.Group(func(r chi.Router) {
			r.Get("/ping", controllers.PrivatePing())

			r.Route("/v1/shipments", func(r chi.Router) {
				r.Get("/", controllers.ShipmentList(deps.Shipments, logg))
				r.Post("/", controllers.ShipmentCreate(deps.Shipments, logg))
				r.Post("/{shipmentID}/ship", controllers.ShipmentMarkShipped(deps.Shipments, logg))
			})

			r.Route("/v1/notifications", func(r chi.Router) {
				r.Get("/", controllers.NotificationList(deps.Notifications, logg))
				r.Post("/{notificationID}/read", controllers.NotificationMarkRead(deps.Notifications, logg))
				r.Post("/read-all", controllers.NotificationMarkAllRead(deps.Notifications, logg))
			})
		})

		// Management routes are admin only.
		r.Route("/admin/v1", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

			r.Get("/ping", controllers.AdminPing())

			r.Route("/suppliers", func(r chi.Router) {
				r.Post("/", controllers.SupplierCreate(deps.Suppliers, logg))
				r.Get("/", controllers.SupplierList(deps.Suppliers, logg))
				r.Route("/{supplierID}", func(r chi.Router) {
					r.Get("/", controllers.SupplierGet(deps.Suppliers, logg))
					r.Patch("/", controllers.SupplierUpdate(deps.Suppliers, logg))
					r.Delete("/", controllers.SupplierDelete(deps.Suppliers, logg))
					r.Get("/users", controllers.SupplierUsers(deps.Suppliers, logg))
					r.Post("/users", controllers.SupplierAttachUser(deps.Suppliers, logg))
					r.Get("/stock-locations", controllers.StockLocationList(deps.StockLocations, logg))
					r.Post("/stock-locations", controllers.StockLocationCreate(deps.StockLocations, logg))
					r.Get("/products", controllers.SupplierProducts(deps.Catalog, logg))
					r.Get("/variants", controllers.SupplierVariants(deps.Catalog, logg))
					r.Post("/variants", controllers.SupplierLinkVariant(deps.Catalog, logg))
				})
			})

			r.Patch("/stock-locations/{locationID}/active", controllers.StockLocationSetActive(deps.StockLocations, logg))

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", controllers.SettingsGet(deps.Settings, logg))
				r.Put("/", controllers.SettingsPut(deps.Settings, logg))
			})
		})
	})

	return r
}

func readinessCheck(deps Deps) func() error {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), readyTimeout)
		defer cancel()

		if deps.DB != nil {
			if err := deps.DB.Ping(ctx); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable")
			}
		}
		if deps.Redis != nil {
			if err := deps.Redis.Ping(ctx); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable")
			}
		}
		return nil
	}
}
