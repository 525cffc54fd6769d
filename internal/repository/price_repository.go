package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceRepository provides data access methods for the ticker_price table.
// It implements pricing.Source, serving as the offline price source when
// prices have been imported locally instead of fetched over HTTP.
type PriceRepository struct {
	db *sql.DB
}

// NewPriceRepository creates a new PriceRepository with the provided database connection.
func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// GetPrices retrieves the stored closing prices for a ticker within the
// inclusive date range, keyed by date (YYYY-MM-DD). Dates without a stored
// price are simply absent from the map.
func (r *PriceRepository) GetPrices(ticker string, start, end time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT date, price
		FROM ticker_price
		WHERE ticker = ?
		AND date >= ?
		AND date <= ?
	`

	rows, err := r.db.Query(query,
		ticker,
		start.UTC().Format("2006-01-02"),
		end.UTC().Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticker_price table: %w", err)
	}
	defer rows.Close()

	prices := make(map[string]decimal.Decimal)
	for rows.Next() {
		var dateStr, priceStr string
		if err := rows.Scan(&dateStr, &priceStr); err != nil {
			return nil, fmt.Errorf("failed to scan price row: %w", err)
		}
		price, err := ParseDecimal(priceStr)
		if err != nil {
			return nil, err
		}
		date, err := ParseTime(dateStr)
		if err != nil {
			return nil, err
		}
		prices[date.Format("2006-01-02")] = price
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticker_price table: %w", err)
	}

	return prices, nil
}

// UpsertPrice stores or replaces the closing price for (ticker, date).
func (r *PriceRepository) UpsertPrice(ticker string, date time.Time, price decimal.Decimal) error {
	query := `
		INSERT INTO ticker_price (id, ticker, date, price)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (ticker, date) DO UPDATE SET price = excluded.price
	`
	_, err := r.db.Exec(query,
		uuid.NewString(),
		ticker,
		date.UTC().Format("2006-01-02"),
		price.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert price: %w", err)
	}
	return nil
}
