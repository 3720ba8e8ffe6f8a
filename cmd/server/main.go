package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	httpadapter "github.com/tokelab/vaultyield-backend/internal/adapter/http"
	"github.com/tokelab/vaultyield-backend/internal/adapter/repository/postgres"
	"github.com/tokelab/vaultyield-backend/internal/config"
	"github.com/tokelab/vaultyield-backend/internal/usecase/reporting"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.JSONFormatter{})

	// 2. Setup database and run migrations
	db, err := postgres.NewDB(cfg.DSN())
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(cfg.Migrations.Path); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}
	log.Info("Database migrations completed")

	// 3. Initialize repositories and services
	investmentRepo := postgres.NewInvestmentRepository(db)
	performanceRepo := postgres.NewMonthlyPerformanceRepository(db)
	reportingService := reporting.NewService(investmentRepo, performanceRepo)

	// 4. Start HTTP server
	handler := httpadapter.NewHandler(reportingService)
	router := httpadapter.NewRouter(handler, cfg.Server.APIToken)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to serve HTTP")
		}
	}()

	waitForShutdown(server)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.WithField("signal", sig.String()).Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}
	log.Info("HTTP server stopped")
}
