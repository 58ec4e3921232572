package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/aayush1303/Estatesync/internal/config"
	"github.com/aayush1303/Estatesync/internal/database"
	"github.com/aayush1303/Estatesync/internal/handlers"
	"github.com/aayush1303/Estatesync/internal/logger"
	"github.com/aayush1303/Estatesync/internal/repository"
	"github.com/aayush1303/Estatesync/internal/services"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info(ctx, "API server starting", logrus.Fields{
		"host":         cfg.API.Host,
		"port":         cfg.API.Port,
		"auth_enabled": cfg.Auth.Enabled,
	})

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	logger.Info(ctx, "Database connection established", nil)

	if err := database.RunMigrations(db, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	logger.Info(ctx, "Database migrations completed", nil)

	leadRepo := repository.NewLeadRepository(db.DB)
	validator := services.NewValidator()
	importer := services.NewImporter(validator)

	leadHandler := handlers.NewLeadHandler(leadRepo, validator)
	importHandler := handlers.NewImportHandler(leadRepo, importer, cfg.Import)
	healthHandler := handlers.NewHealthHandler(db)
	auth := handlers.NewAuthMiddleware(cfg)

	router := mux.NewRouter()
	router.Use(handlers.CorrelationMiddleware)
	router.Use(handlers.RecoveryMiddleware)

	router.HandleFunc("/health", healthHandler.HandleHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/leads").Subrouter()
	api.Use(auth.Authenticate)
	api.HandleFunc("", leadHandler.HandleCreateLead).Methods(http.MethodPost)
	api.HandleFunc("", leadHandler.HandleListLeads).Methods(http.MethodGet)
	api.HandleFunc("/import", importHandler.HandleImportLeads).Methods(http.MethodPost)
	api.HandleFunc("/export", importHandler.HandleExportLeads).Methods(http.MethodGet)
	api.HandleFunc("/stats", leadHandler.HandleLeadStats).Methods(http.MethodGet)
	api.HandleFunc("/{id}", leadHandler.HandleGetLead).Methods(http.MethodGet)
	api.HandleFunc("/{id}", leadHandler.HandleUpdateLead).Methods(http.MethodPut)
	api.HandleFunc("/{id}", leadHandler.HandleDeleteLead).Methods(http.MethodDelete)
	api.HandleFunc("/{id}/history", leadHandler.HandleLeadHistory).Methods(http.MethodGet)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.API.Host, cfg.API.Port),
		Handler: router,
	}

	// Serve until interrupted, then drain in-flight requests.
	shutdownCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info(ctx, "Listening", logrus.Fields{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError(ctx, "Server error", err, nil)
			os.Exit(1)
		}
	}()

	<-shutdownCtx.Done()
	logger.Info(ctx, "Shutting down", nil)

	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(drainCtx); err != nil {
		logger.LogError(ctx, "Graceful shutdown failed", err, nil)
	}
}
