package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/api"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/calendar"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/config"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/database"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/jobs"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/pricing"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/rebuild"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/repository"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	tradeRepo := repository.NewTradeRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	jobRepo := repository.NewJobRepository(db)

	// Select the trade-history adapter
	var trades rebuild.TradeSource = tradeRepo
	if cfg.Trades.Backend == "csv" {
		trades = repository.NewCSVTradeSource(cfg.Trades.CSVPath)
		log.Printf("Reading trade history from %s", cfg.Trades.CSVPath)
	}

	// Select the price adapter; both go through the in-memory cache so a
	// rebuild fetches each ticker's range at most once
	var priceSource pricing.Source = priceRepo
	if cfg.Prices.Backend == "chart" {
		priceSource = pricing.NewChartClient("")
	}
	prices := pricing.NewCachingSource(priceSource)

	driver := rebuild.NewDriver(trades, prices, calendar.Default(), snapshotRepo)
	runner := jobs.NewRunner(driver, jobRepo)

	if cfg.Scheduler.Enabled {
		sched, err := scheduler.New(runner, tradeRepo, cfg.Scheduler.Spec, cfg.Scheduler.LookbackDays)
		if err != nil {
			log.Fatalf("Failed to create scheduler: %v", err)
		}
		sched.Start()
		defer sched.Stop()
		log.Printf("Scheduled rebuilds enabled: %s", cfg.Scheduler.Spec)
	}

	// Create router
	router := api.NewRouter(db, runner, snapshotRepo, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Let in-flight rebuilds finish before closing the database
	runner.Wait()

	log.Println("Server exited")
}
