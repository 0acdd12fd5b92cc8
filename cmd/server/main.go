package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"table-gateway/internal/app"
	"table-gateway/internal/config"
	"table-gateway/internal/handlers"
	"table-gateway/internal/logger"
	"table-gateway/internal/middleware"

	configLoader "github.com/andiksetyawan/config"
)

func main() {
	cfg := &config.AppConfig{}
	loader := configLoader.New(
		configLoader.WithEnvPath(".env"),
	)

	if err := loader.Load(cfg); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.InitGlobal(os.Stdout, logger.ParseLevel(cfg.Log.Level))
	logger.Info("Configuration loaded (Server Port: %s, Driver: %s)", cfg.Server.Port, cfg.Database.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Refuse to serve without a working database.
	db, d, err := config.InitDatabase(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	application := app.NewApplication(cfg, db, d)
	defer application.Close()

	if cfg.Schema.ApplyOnStart {
		if err := application.SchemaSyncService.SyncAll(ctx); err != nil {
			logger.Warn("Schema file not applied: %v", err)
		}
	}

	if cfg.Schema.SyncSchedule != "" {
		if err := application.SchemaSyncService.StartSync(); err != nil {
			logger.Fatal("Failed to schedule schema sync: %v", err)
		}
	}

	handler := handlers.NewHandler(
		application.SchemaService,
		application.RecordService,
		application.SchemaSyncService,
		cfg.Gateway.AllowZeroID,
	)

	srv := &http.Server{
		Addr: ":" + cfg.Server.Port,
		Handler: middleware.Chain(handlers.NewRouter(handler),
			middleware.RequestID,
			middleware.Logging,
			middleware.Recover,
			middleware.CORS,
		),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed: %v", err)
		}
	}()

	logger.Info("Server is running on http://localhost:%s", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server: %v", err)
	}

	<-shutdownDone
}
