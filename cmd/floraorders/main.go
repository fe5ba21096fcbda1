package main

import (
	"context"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/floraworks/floraorders/config"
	"github.com/floraworks/floraorders/internal/auth"
	"github.com/floraworks/floraorders/internal/geo"
	handler "github.com/floraworks/floraorders/internal/handler/http"
	"github.com/floraworks/floraorders/internal/logger"
	"github.com/floraworks/floraorders/internal/middleware"
	"github.com/floraworks/floraorders/internal/repository"
	"github.com/floraworks/floraorders/internal/repository/postgres"
	"github.com/floraworks/floraorders/internal/service"
	"github.com/floraworks/floraorders/internal/worker"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const authTokenKey = "9c1185a5c5e9fc54612808977ee8f548"

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	// create context canceled on shutdown signals
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		logger.Log.Fatal("Error migrating database", zap.Error(err))
	}

	tokenKey, err := hex.DecodeString(authTokenKey)
	if err != nil {
		logger.Log.Fatal("Error extracting token key", zap.Error(err))
	}
	token := auth.NewAuthToken(tokenKey)

	retention, err := time.ParseDuration(cfg.LocationRetention)
	if err != nil {
		logger.Log.Fatal("Error parsing location retention", zap.Error(err))
	}

	var geocoder service.Geocoder
	if cfg.GeocoderAddr != "" {
		geocoder = geo.NewClient(cfg.GeocoderAddr)
	}

	// dependency injection
	// user
	userRepo := repository.NewUserRepository(db)
	userService := service.NewUserService(userRepo, token)
	userHandler := handler.NewUserHandler(userService)

	// order
	orderRepo := repository.NewOrderRepository(db)
	orderService := service.NewOrderService(orderRepo, userRepo, geocoder)
	orderHandler := handler.NewOrderHandler(orderService)

	// expense
	expenseRepo := repository.NewExpenseRepository(db)
	expenseService := service.NewExpenseService(expenseRepo)
	expenseHandler := handler.NewExpenseHandler(expenseService)

	// report
	reportService := service.NewReportService(orderRepo, expenseRepo)
	reportHandler := handler.NewReportHandler(reportService)

	// courier locations
	locationRepo := repository.NewLocationRepository(db)
	locationService := service.NewLocationService(locationRepo, retention)
	locationHandler := handler.NewLocationHandler(locationService)

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger.Log))

	router.Post("/api/auth/register", userHandler.Register())
	router.Post("/api/auth/login", userHandler.Login())

	// routes that require authentication
	router.Group(func(group chi.Router) {
		group.Use(handler.AuthMiddleware(token))
		group.Post("/api/staff", userHandler.CreateStaff())
		group.Post("/api/orders", orderHandler.CreateOrder())
		group.Get("/api/orders", orderHandler.ListOrders())
		group.Get("/api/orders/available", orderHandler.ListAvailableOrders())
		group.Get("/api/orders/{id}", orderHandler.GetOrder())
		group.Patch("/api/orders/{id}/status", orderHandler.UpdateStatus())
		group.Post("/api/orders/{id}/assign", orderHandler.AssignStaff())
		group.Post("/api/orders/{id}/assign-self", orderHandler.AssignSelf())
		group.Post("/api/orders/batch-assign", orderHandler.BatchAssign())
		group.Post("/api/expenses", expenseHandler.CreateExpense())
		group.Get("/api/expenses", expenseHandler.ListExpenses())
		group.Get("/api/reports/summary", reportHandler.Summary())
		group.Post("/api/couriers/location", locationHandler.RecordLocation())
		group.Get("/api/couriers/locations", locationHandler.ListLatestLocations())
	})

	server := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: router,
	}

	pruner := worker.NewLocationPruner(locationService)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		pruner.Run(groupCtx)
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Log.Fatal("Error running server", zap.Error(err))
	}
}
