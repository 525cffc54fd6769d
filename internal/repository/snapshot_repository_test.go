package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/model"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/testutil"
)

func makeSnapshotRow(fund, ticker string, date time.Time) model.SnapshotRow {
	return model.SnapshotRow{
		ID:           testutil.MakeID(),
		Fund:         fund,
		Date:         date,
		Ticker:       ticker,
		Shares:       decimal.NewFromInt(100),
		AvgPrice:     decimal.NewFromInt(50),
		CostBasis:    decimal.NewFromInt(5000),
		CurrentPrice: decimal.NewFromInt(60),
		MarketValue:  decimal.NewFromInt(6000),
		UnrealizedPL: decimal.NewFromInt(1000),
		RealizedPL:   decimal.Zero,
		Currency:     "USD",
		CalculatedAt: time.Now().UTC(),
	}
}

func countSnapshots(t *testing.T, db *sql.DB, fund string, date time.Time) int {
	t.Helper()

	var n int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM portfolio_snapshot WHERE fund = ? AND date = ?",
		fund, date.Format("2006-01-02"),
	).Scan(&n)
	if err != nil {
		t.Fatalf("Failed to count snapshots: %v", err)
	}
	return n
}

func TestSnapshotRepository_ReplaceDay(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	// WHY: the rebuild rewrites the same days over and over; replacing a day
	// must never accumulate duplicate rows for it.
	t.Run("repeated writes leave exactly one row set", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := NewSnapshotRepository(db)
		fund := testutil.MakeFund("")

		rows := []model.SnapshotRow{
			makeSnapshotRow(fund, "AAPL", day),
			makeSnapshotRow(fund, "VWRL", day),
		}
		for i := 0; i < 3; i++ {
			if err := repo.ReplaceDay(fund, day, rows); err != nil {
				t.Fatalf("ReplaceDay failed: %v", err)
			}
		}

		if got := countSnapshots(t, db, fund, day); got != 2 {
			t.Errorf("Expected 2 rows after repeated writes, got %d", got)
		}
	})

	t.Run("nil rows clears the day", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := NewSnapshotRepository(db)
		fund := testutil.MakeFund("")

		if err := repo.ReplaceDay(fund, day, []model.SnapshotRow{makeSnapshotRow(fund, "AAPL", day)}); err != nil {
			t.Fatalf("ReplaceDay failed: %v", err)
		}
		if err := repo.ReplaceDay(fund, day, nil); err != nil {
			t.Fatalf("ReplaceDay with nil rows failed: %v", err)
		}

		if got := countSnapshots(t, db, fund, day); got != 0 {
			t.Errorf("Expected day to be cleared, got %d rows", got)
		}
	})

	t.Run("does not touch other funds or days", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := NewSnapshotRepository(db)
		fund := testutil.MakeFund("")
		other := testutil.MakeFund("other")
		nextDay := day.AddDate(0, 0, 1)

		if err := repo.ReplaceDay(other, day, []model.SnapshotRow{makeSnapshotRow(other, "AAPL", day)}); err != nil {
			t.Fatalf("ReplaceDay failed: %v", err)
		}
		if err := repo.ReplaceDay(fund, nextDay, []model.SnapshotRow{makeSnapshotRow(fund, "AAPL", nextDay)}); err != nil {
			t.Fatalf("ReplaceDay failed: %v", err)
		}

		if err := repo.ReplaceDay(fund, day, nil); err != nil {
			t.Fatalf("ReplaceDay failed: %v", err)
		}

		if got := countSnapshots(t, db, other, day); got != 1 {
			t.Errorf("Expected other fund untouched, got %d rows", got)
		}
		if got := countSnapshots(t, db, fund, nextDay); got != 1 {
			t.Errorf("Expected other day untouched, got %d rows", got)
		}
	})
}

func TestSnapshotRepository_GetSnapshots(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSnapshotRepository(db)
	fund := testutil.MakeFund("")

	day1 := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	day3 := day1.AddDate(0, 0, 2)

	if err := repo.ReplaceDay(fund, day2, []model.SnapshotRow{
		makeSnapshotRow(fund, "VWRL", day2),
		makeSnapshotRow(fund, "AAPL", day2),
	}); err != nil {
		t.Fatalf("ReplaceDay failed: %v", err)
	}
	if err := repo.ReplaceDay(fund, day1, []model.SnapshotRow{makeSnapshotRow(fund, "AAPL", day1)}); err != nil {
		t.Fatalf("ReplaceDay failed: %v", err)
	}
	if err := repo.ReplaceDay(fund, day3, []model.SnapshotRow{makeSnapshotRow(fund, "AAPL", day3)}); err != nil {
		t.Fatalf("ReplaceDay failed: %v", err)
	}

	t.Run("orders by date then ticker", func(t *testing.T) {
		rows, err := repo.GetSnapshots(fund, day1, day3)
		if err != nil {
			t.Fatalf("GetSnapshots failed: %v", err)
		}

		if len(rows) != 4 {
			t.Fatalf("Expected 4 rows, got %d", len(rows))
		}

		wantTickers := []string{"AAPL", "AAPL", "VWRL", "AAPL"}
		for i, row := range rows {
			if row.Ticker != wantTickers[i] {
				t.Errorf("Row %d: expected ticker %s, got %s", i, wantTickers[i], row.Ticker)
			}
		}
		if !rows[0].Date.Equal(day1) || !rows[3].Date.Equal(day3) {
			t.Errorf("Expected rows ordered %s..%s, got %s..%s",
				day1.Format("2006-01-02"), day3.Format("2006-01-02"),
				rows[0].Date.Format("2006-01-02"), rows[3].Date.Format("2006-01-02"))
		}
	})

	t.Run("filters by date range", func(t *testing.T) {
		rows, err := repo.GetSnapshots(fund, day2, day2)
		if err != nil {
			t.Fatalf("GetSnapshots failed: %v", err)
		}

		if len(rows) != 2 {
			t.Errorf("Expected 2 rows on %s, got %d", day2.Format("2006-01-02"), len(rows))
		}
	})

	t.Run("preserves decimal values exactly", func(t *testing.T) {
		rows, err := repo.GetSnapshots(fund, day1, day1)
		if err != nil {
			t.Fatalf("GetSnapshots failed: %v", err)
		}

		if len(rows) != 1 {
			t.Fatalf("Expected 1 row, got %d", len(rows))
		}
		if !rows[0].CostBasis.Equal(decimal.NewFromInt(5000)) {
			t.Errorf("Expected cost basis 5000, got %s", rows[0].CostBasis)
		}
		if !rows[0].MarketValue.Equal(decimal.NewFromInt(6000)) {
			t.Errorf("Expected market value 6000, got %s", rows[0].MarketValue)
		}
	})
}

func TestSnapshotRepository_DeleteFrom(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSnapshotRepository(db)
	fund := testutil.MakeFund("")

	day1 := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	for _, d := range []time.Time{day1, day2} {
		if err := repo.ReplaceDay(fund, d, []model.SnapshotRow{makeSnapshotRow(fund, "AAPL", d)}); err != nil {
			t.Fatalf("ReplaceDay failed: %v", err)
		}
	}

	if err := repo.DeleteFrom(fund, day2); err != nil {
		t.Fatalf("DeleteFrom failed: %v", err)
	}

	if got := countSnapshots(t, db, fund, day1); got != 1 {
		t.Errorf("Expected day before cutoff untouched, got %d rows", got)
	}
	if got := countSnapshots(t, db, fund, day2); got != 0 {
		t.Errorf("Expected day at cutoff deleted, got %d rows", got)
	}
}
