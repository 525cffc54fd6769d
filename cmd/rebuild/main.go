// Command rebuild replays a fund's full trade history and rewrites its daily
// position snapshots from the given start date through today.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/calendar"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/config"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/database"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/model"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/pricing"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/rebuild"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/repository"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/validation"
)

func main() {
	fund := flag.String("fund", "", "fund identifier to rebuild (required)")
	startDate := flag.String("start-date", "", "first day to rewrite, YYYY-MM-DD (default: 30 days ago)")
	flag.Parse()

	if *startDate == "" {
		*startDate = time.Now().UTC().AddDate(0, 0, -30).Format("2006-01-02")
	}

	validated, err := validation.ValidateRebuildRequest(*fund, *startDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid arguments: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var trades rebuild.TradeSource = repository.NewTradeRepository(db)
	if cfg.Trades.Backend == "csv" {
		trades = repository.NewCSVTradeSource(cfg.Trades.CSVPath)
	}

	var priceSource pricing.Source = repository.NewPriceRepository(db)
	if cfg.Prices.Backend == "chart" {
		priceSource = pricing.NewChartClient("")
	}

	driver := rebuild.NewDriver(
		trades,
		pricing.NewCachingSource(priceSource),
		calendar.Default(),
		repository.NewSnapshotRepository(db),
	)

	result, err := driver.Rebuild(model.RebuildRequest{
		Fund:      validated.Fund,
		StartDate: validated.StartDate,
	})
	if err != nil {
		log.Fatalf("Rebuild failed after %d days (%d records): %v",
			result.DaysRebuilt, result.RecordsWritten, err)
	}

	fmt.Println(result.Summary())
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s %s %s: %s\n",
			w.Kind, w.Date.Format("2006-01-02"), w.Ticker, w.Message)
	}
}
