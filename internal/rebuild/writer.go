package rebuild

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/model"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/pricing"
)

// MoneyPrecision is the decimal precision of persisted monetary amounts.
// Share counts are never rounded; fractional shares keep full input precision.
const MoneyPrecision = 2

// PriceBook holds prefetched closing prices: ticker -> date (YYYY-MM-DD) -> price.
type PriceBook map[string]map[string]decimal.Decimal

// Lookup returns the price for a ticker on a date, if known.
func (b PriceBook) Lookup(ticker string, date time.Time) (decimal.Decimal, bool) {
	prices, ok := b[ticker]
	if !ok {
		return decimal.Decimal{}, false
	}
	price, ok := prices[date.Format(pricing.DateFormat)]
	return price, ok
}

// SnapshotWriter converts a day's accumulated positions plus fetched prices
// into persisted snapshot rows, replacing whatever rows the day held before.
type SnapshotWriter struct {
	store SnapshotStore
}

// NewSnapshotWriter creates a writer over the given store.
func NewSnapshotWriter(store SnapshotStore) *SnapshotWriter {
	return &SnapshotWriter{store: store}
}

// WriteDay builds and persists the snapshot rows for one trading day.
// Positions without a price for the day are skipped and reported as warnings
// rather than failing the day. Returns the number of rows written.
func (w *SnapshotWriter) WriteDay(
	fund string,
	date time.Time,
	positions []model.PositionState,
	prices PriceBook,
	realized map[string]decimal.Decimal,
) (int, []model.RebuildWarning, error) {

	var warnings []model.RebuildWarning
	rows := make([]model.SnapshotRow, 0, len(positions))
	now := time.Now().UTC()

	for _, pos := range positions {
		price, ok := prices.Lookup(pos.Ticker, date)
		if !ok {
			warnings = append(warnings, model.RebuildWarning{
				Kind:    model.WarningMissingPrice,
				Ticker:  pos.Ticker,
				Date:    date,
				Message: "no price available; ticker skipped for this day",
			})
			continue
		}

		marketValue := pos.Shares.Mul(price)
		rows = append(rows, model.SnapshotRow{
			ID:           uuid.NewString(),
			Fund:         fund,
			Date:         date,
			Ticker:       pos.Ticker,
			Shares:       pos.Shares,
			AvgPrice:     roundMoney(pos.CostBasis.Div(pos.Shares)),
			CostBasis:    roundMoney(pos.CostBasis),
			CurrentPrice: price,
			MarketValue:  roundMoney(marketValue),
			UnrealizedPL: roundMoney(marketValue.Sub(pos.CostBasis)),
			RealizedPL:   roundMoney(realized[pos.Ticker]),
			Currency:     pos.Currency,
			CalculatedAt: now,
		})
	}

	if err := w.store.ReplaceDay(fund, date, rows); err != nil {
		return 0, warnings, err
	}
	return len(rows), warnings, nil
}

// ClearDay removes any persisted rows for (fund, date) without writing new
// ones. Used for non-trading days inside the rebuild range.
func (w *SnapshotWriter) ClearDay(fund string, date time.Time) error {
	return w.store.ReplaceDay(fund, date, nil)
}

// roundMoney rounds a monetary amount to MoneyPrecision decimal places,
// half up.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPrecision)
}
