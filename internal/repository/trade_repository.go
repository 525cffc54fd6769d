package repository

import (
	"database/sql"
	"fmt"

	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/model"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/validation"
)

// TradeRepository provides data access methods for the trade table. It is the
// SQLite-backed TradeSource used by the rebuild driver.
type TradeRepository struct {
	db *sql.DB
}

// NewTradeRepository creates a new TradeRepository with the provided database connection.
func NewTradeRepository(db *sql.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// GetTradeHistory retrieves the COMPLETE trade history of a fund, oldest
// first. No date cutoff is ever applied here: FIFO lot state on any day
// depends on all prior trades, so partial history would silently corrupt the
// rebuild. Trades sharing a timestamp come back in insertion order.
func (r *TradeRepository) GetTradeHistory(fund string) ([]model.TradeRecord, error) {
	query := `
		SELECT id, fund, ticker, action, shares, price, currency, timestamp,
		       cost_basis_override, realized_pl_override, created_at
		FROM trade
		WHERE fund = ?
		ORDER BY timestamp ASC, created_at ASC
	`

	rows, err := r.db.Query(query, fund)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade table: %w", err)
	}
	defer rows.Close()

	var trades []model.TradeRecord
	for rows.Next() {
		var t model.TradeRecord
		var sharesStr, priceStr, timestampStr, createdAtStr string
		var costOverride, plOverride sql.NullString

		err := rows.Scan(
			&t.ID,
			&t.Fund,
			&t.Ticker,
			&t.Action,
			&sharesStr,
			&priceStr,
			&t.Currency,
			&timestampStr,
			&costOverride,
			&plOverride,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade table results: %w", err)
		}

		if t.Shares, err = ParseDecimal(sharesStr); err != nil {
			return nil, err
		}
		if t.Price, err = ParseDecimal(priceStr); err != nil {
			return nil, err
		}
		if t.Timestamp, err = ParseTime(timestampStr); err != nil {
			return nil, fmt.Errorf("failed to parse timestamp: %w", err)
		}
		if t.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		if costOverride.Valid {
			d, err := ParseDecimal(costOverride.String)
			if err != nil {
				return nil, err
			}
			t.CostBasisOverride = &d
		}
		if plOverride.Valid {
			d, err := ParseDecimal(plOverride.String)
			if err != nil {
				return nil, err
			}
			t.RealizedPLOverride = &d
		}

		trades = append(trades, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade table: %w", err)
	}

	return trades, nil
}

// InsertTrade validates and persists a new trade record. Trades are checked
// here so the table never holds rows the rebuild cannot replay.
func (r *TradeRepository) InsertTrade(t model.TradeRecord) error {
	if err := validation.ValidateTrade(t); err != nil {
		return err
	}

	query := `
		INSERT INTO trade (id, fund, ticker, action, shares, price, currency, timestamp,
		                   cost_basis_override, realized_pl_override)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var costOverride, plOverride any
	if t.CostBasisOverride != nil {
		costOverride = t.CostBasisOverride.String()
	}
	if t.RealizedPLOverride != nil {
		plOverride = t.RealizedPLOverride.String()
	}

	_, err := r.db.Exec(query,
		t.ID,
		t.Fund,
		t.Ticker,
		t.Action,
		t.Shares.String(),
		t.Price.String(),
		t.Currency,
		t.Timestamp.UTC().Format(timeFormat),
		costOverride,
		plOverride,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}
	return nil
}

// DistinctFunds returns the name of every fund with at least one trade,
// sorted. The scheduler uses this to enumerate rebuild targets.
func (r *TradeRepository) DistinctFunds() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT fund FROM trade ORDER BY fund ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct funds: %w", err)
	}
	defer rows.Close()

	var funds []string
	for rows.Next() {
		var fund string
		if err := rows.Scan(&fund); err != nil {
			return nil, fmt.Errorf("failed to scan fund name: %w", err)
		}
		funds = append(funds, fund)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating funds: %w", err)
	}
	return funds, nil
}

// timeFormat is how timestamps are written to SQLite. RFC3339 keeps them
// sortable as text and round-trippable through ParseTime.
const timeFormat = "2006-01-02T15:04:05Z07:00"
