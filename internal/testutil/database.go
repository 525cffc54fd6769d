package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the goose migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Trade log
		CREATE TABLE trade (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			fund VARCHAR(100) NOT NULL,
			ticker VARCHAR(12) NOT NULL,
			action VARCHAR(4) NOT NULL,
			shares TEXT NOT NULL,
			price TEXT NOT NULL,
			currency VARCHAR(3) NOT NULL,
			timestamp DATETIME NOT NULL,
			cost_basis_override TEXT,
			realized_pl_override TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX idx_trade_fund_timestamp ON trade (fund, timestamp);

		-- Daily position snapshots
		CREATE TABLE portfolio_snapshot (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			fund VARCHAR(100) NOT NULL,
			date DATE NOT NULL,
			ticker VARCHAR(12) NOT NULL,
			shares TEXT NOT NULL,
			avg_price TEXT NOT NULL,
			cost_basis TEXT NOT NULL,
			current_price TEXT NOT NULL,
			market_value TEXT NOT NULL,
			unrealized_pl TEXT NOT NULL,
			realized_pl TEXT NOT NULL,
			currency VARCHAR(3) NOT NULL,
			calculated_at DATETIME NOT NULL
		);

		CREATE INDEX idx_snapshot_fund_date ON portfolio_snapshot (fund, date);

		-- Locally persisted closing prices
		CREATE TABLE ticker_price (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			ticker VARCHAR(12) NOT NULL,
			date DATE NOT NULL,
			price TEXT NOT NULL,
			CONSTRAINT unique_ticker_date UNIQUE (ticker, date)
		);

		-- Background rebuild jobs
		CREATE TABLE rebuild_job (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			fund VARCHAR(100) NOT NULL,
			start_date DATE NOT NULL,
			status VARCHAR(10) NOT NULL,
			message TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := db.Exec(schema)
	return err
}
