package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/model"
)

// SnapshotRepository provides data access methods for the portfolio_snapshot
// table. It is the SQLite-backed SnapshotStore used by the rebuild driver.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// ReplaceDay atomically replaces all snapshot rows for (fund, date) with the
// given set. Delete-then-insert inside one transaction is deliberate: upserts
// leave orphaned rows behind when the ticker set shrinks between rebuilds,
// which is exactly the duplicate-row corruption this table has suffered
// before. Passing no rows clears the day.
func (r *SnapshotRepository) ReplaceDay(fund string, date time.Time, rows []model.SnapshotRow) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	dateStr := date.UTC().Format("2006-01-02")

	if _, err := tx.Exec(`DELETE FROM portfolio_snapshot WHERE fund = ? AND date = ?`, fund, dateStr); err != nil {
		return fmt.Errorf("failed to delete snapshot rows: %w", err)
	}

	insert := `
		INSERT INTO portfolio_snapshot (id, fund, date, ticker, shares, avg_price, cost_basis,
		                                current_price, market_value, unrealized_pl, realized_pl,
		                                currency, calculated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, row := range rows {
		_, err := tx.Exec(insert,
			row.ID,
			row.Fund,
			dateStr,
			row.Ticker,
			row.Shares.String(),
			row.AvgPrice.String(),
			row.CostBasis.String(),
			row.CurrentPrice.String(),
			row.MarketValue.String(),
			row.UnrealizedPL.String(),
			row.RealizedPL.String(),
			row.Currency,
			row.CalculatedAt.UTC().Format(timeFormat),
		)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot transaction: %w", err)
	}
	return nil
}

// DeleteFrom removes all snapshot rows for the fund dated on or after the
// given date.
func (r *SnapshotRepository) DeleteFrom(fund string, from time.Time) error {
	_, err := r.db.Exec(
		`DELETE FROM portfolio_snapshot WHERE fund = ? AND date >= ?`,
		fund, from.UTC().Format("2006-01-02"),
	)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot rows: %w", err)
	}
	return nil
}

// GetSnapshots retrieves snapshot rows for a fund within the inclusive date
// range, ordered by date then ticker.
func (r *SnapshotRepository) GetSnapshots(fund string, startDate, endDate time.Time) ([]model.SnapshotRow, error) {
	query := `
		SELECT id, fund, date, ticker, shares, avg_price, cost_basis,
		       current_price, market_value, unrealized_pl, realized_pl,
		       currency, calculated_at
		FROM portfolio_snapshot
		WHERE fund = ?
		AND date >= ?
		AND date <= ?
		ORDER BY date ASC, ticker ASC
	`

	rows, err := r.db.Query(query,
		fund,
		startDate.UTC().Format("2006-01-02"),
		endDate.UTC().Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio_snapshot table: %w", err)
	}
	defer rows.Close()

	var result []model.SnapshotRow
	for rows.Next() {
		var row model.SnapshotRow
		var dateStr, sharesStr, avgStr, costStr, priceStr, valueStr, unrealStr, realStr, calcStr string

		err := rows.Scan(
			&row.ID,
			&row.Fund,
			&dateStr,
			&row.Ticker,
			&sharesStr,
			&avgStr,
			&costStr,
			&priceStr,
			&valueStr,
			&unrealStr,
			&realStr,
			&row.Currency,
			&calcStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}

		if row.Date, err = ParseTime(dateStr); err != nil {
			return nil, err
		}
		if row.CalculatedAt, err = ParseTime(calcStr); err != nil {
			return nil, err
		}
		if row.Shares, err = ParseDecimal(sharesStr); err != nil {
			return nil, err
		}
		if row.AvgPrice, err = ParseDecimal(avgStr); err != nil {
			return nil, err
		}
		if row.CostBasis, err = ParseDecimal(costStr); err != nil {
			return nil, err
		}
		if row.CurrentPrice, err = ParseDecimal(priceStr); err != nil {
			return nil, err
		}
		if row.MarketValue, err = ParseDecimal(valueStr); err != nil {
			return nil, err
		}
		if row.UnrealizedPL, err = ParseDecimal(unrealStr); err != nil {
			return nil, err
		}
		if row.RealizedPL, err = ParseDecimal(realStr); err != nil {
			return nil, err
		}

		result = append(result, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio_snapshot table: %w", err)
	}

	return result, nil
}
