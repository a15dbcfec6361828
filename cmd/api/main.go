package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/solidmarket/marketplace-backend/api/routes"
	"github.com/solidmarket/marketplace-backend/internal/catalog"
	"github.com/solidmarket/marketplace-backend/internal/notifications"
	"github.com/solidmarket/marketplace-backend/internal/shipments"
	"github.com/solidmarket/marketplace-backend/internal/stocklocations"
	"github.com/solidmarket/marketplace-backend/internal/suppliers"
	"github.com/solidmarket/marketplace-backend/internal/users"
	"github.com/solidmarket/marketplace-backend/pkg/config"
	"github.com/solidmarket/marketplace-backend/pkg/db"
	"github.com/solidmarket/marketplace-backend/pkg/logger"
	"github.com/solidmarket/marketplace-backend/pkg/metrics"
	"github.com/solidmarket/marketplace-backend/pkg/migrate"
	"github.com/solidmarket/marketplace-backend/pkg/outbox"
	"github.com/solidmarket/marketplace-backend/pkg/redis"
	"github.com/solidmarket/marketplace-backend/pkg/settings"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	settingsStore, err := settings.NewRedisStore(redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings store", err)
		os.Exit(1)
	}
	if err := settingsStore.Seed(context.Background(), cfg.Marketplace); err != nil {
		logg.Error(context.Background(), "failed to seed marketplace settings", err)
		os.Exit(1)
	}

	domainMetrics := metrics.NewDomainMetrics(prometheus.DefaultRegisterer)

	gormDB := dbClient.DB()
	supplierRepo := suppliers.NewRepository(gormDB)
	userRepo := users.NewRepository(gormDB)
	locationRepo := stocklocations.NewRepository(gormDB)
	shipmentRepo := shipments.NewRepository(gormDB)
	notificationRepo := notifications.NewRepository(gormDB)
	catalogRepo := catalog.NewRepository(gormDB)
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	notificationService, err := notifications.NewService(notificationRepo, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}

	supplierService, err := suppliers.NewService(
		supplierRepo,
		userRepo,
		locationRepo,
		notificationService,
		outboxService,
		dbClient,
		settingsStore,
		cfg.Password,
		domainMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create supplier service", err)
		os.Exit(1)
	}

	shipmentService, err := shipments.NewService(shipmentRepo, locationRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipment service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			Settings:       settingsStore,
			Suppliers:      supplierService,
			StockLocations: locationRepo,
			Shipments:      shipmentService,
			Notifications:  notificationService,
			Catalog:        catalogRepo,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
