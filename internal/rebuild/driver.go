package rebuild

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/apperrors"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/ledger"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/model"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/pricing"
)

// Driver orchestrates a rebuild: full-history replay through the lot ledger,
// bulk price prefetch, and per-day snapshot replacement. A Driver is
// stateless across rebuilds; the ledger it replays through is owned by a
// single invocation.
type Driver struct {
	trades   TradeSource
	prices   pricing.Source
	calendar Calendar
	writer   *SnapshotWriter

	// now is injectable so tests can pin the upper bound of the rebuild range.
	now func() time.Time
}

// NewDriver creates a rebuild driver from its collaborators.
func NewDriver(trades TradeSource, prices pricing.Source, calendar Calendar, store SnapshotStore) *Driver {
	return &Driver{
		trades:   trades,
		prices:   prices,
		calendar: calendar,
		writer:   NewSnapshotWriter(store),
		now:      time.Now,
	}
}

// Rebuild recomputes and replaces all snapshots of req.Fund from
// req.StartDate through today.
//
// The replay always starts at the fund's very first trade regardless of the
// requested start date: FIFO lot state on any day is a function of the entire
// prior history. Only days on or after the start date are priced and
// persisted.
//
// Data-quality issues (oversells, missing prices, currency mismatches) are
// collected as warnings on the result and logged; they never abort the
// rebuild. Collaborator failures abort the remaining days and return the
// partial result alongside the error, so the caller can see how far the
// rebuild got. Days already written stay intact because each day is replaced
// in its own transaction.
func (d *Driver) Rebuild(req model.RebuildRequest) (model.RebuildResult, error) {
	result := model.RebuildResult{Fund: req.Fund, StartDate: req.StartDate}

	if req.Fund == "" {
		return result, apperrors.ErrInvalidFund
	}
	if req.StartDate.IsZero() {
		return result, apperrors.ErrInvalidStartDate
	}

	history, err := d.trades.GetTradeHistory(req.Fund)
	if err != nil {
		return result, fmt.Errorf("%w: %v", apperrors.ErrTradeSourceUnavailable, err)
	}
	// A fund with zero trades is a no-op success, not an error.
	if len(history) == 0 {
		return result, nil
	}

	// Chronological replay order. The sort is stable so trades sharing a
	// timestamp keep their original relative order; buy/sell ordering within
	// a day changes FIFO results and must not be disturbed.
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp.Before(history[j].Timestamp)
	})

	start := dateOnly(req.StartDate)
	today := dateOnly(d.now())
	if start.After(today) {
		return result, nil
	}

	priceBook, err := d.prefetchPrices(history, start, today)
	if err != nil {
		return result, fmt.Errorf("%w: %v", apperrors.ErrPriceSourceUnavailable, err)
	}

	book := ledger.New()
	realized := make(map[string]decimal.Decimal)
	idx := d.applyTradesBefore(book, history, 0, start, &result, realized)

	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		idx = d.applyTradesBefore(book, history, idx, day.AddDate(0, 0, 1), &result, realized)

		if !d.calendar.IsTradingDay(day) {
			// Still clear any stale rows: divergent historical rebuilds have
			// left snapshots on non-trading days before.
			if err := d.writer.ClearDay(req.Fund, day); err != nil {
				return result, fmt.Errorf("%w: %v", apperrors.ErrSnapshotStoreUnavailable, err)
			}
			continue
		}

		written, warnings, err := d.writer.WriteDay(req.Fund, day, book.OpenPositions(), priceBook, realized)
		result.Warnings = append(result.Warnings, warnings...)
		if err != nil {
			return result, fmt.Errorf("%w: %v", apperrors.ErrSnapshotStoreUnavailable, err)
		}
		result.DaysRebuilt++
		result.RecordsWritten += written
	}

	for _, w := range result.Warnings {
		log.Printf("rebuild %s: %s %s on %s: %s", req.Fund, w.Kind, w.Ticker, w.Date.Format(pricing.DateFormat), w.Message)
	}

	return result, nil
}

// applyTradesBefore replays trades from history[idx:] whose calendar date is
// strictly before cutoff, returning the index of the first unapplied trade.
// Oversells and currency mismatches surface as warnings on the result.
func (d *Driver) applyTradesBefore(
	book *ledger.Ledger,
	history []model.TradeRecord,
	idx int,
	cutoff time.Time,
	result *model.RebuildResult,
	realized map[string]decimal.Decimal,
) int {
	for idx < len(history) && history[idx].Date().Before(cutoff) {
		tr := history[idx]
		idx++

		switch tr.Action {
		case model.ActionBuy:
			if mismatch := book.ApplyBuy(tr.Ticker, tr.Shares, tr.Price, tr.Currency); mismatch {
				result.Warnings = append(result.Warnings, model.RebuildWarning{
					Kind:    model.WarningCurrencyMismatch,
					Ticker:  tr.Ticker,
					Date:    tr.Date(),
					Message: fmt.Sprintf("buy in %s differs from earlier trades; keeping most recent", tr.Currency),
				})
			}
		case model.ActionSell:
			sell := book.ApplySell(tr.Ticker, tr.Shares)
			if sell.Oversold() {
				result.Warnings = append(result.Warnings, model.RebuildWarning{
					Kind:    model.WarningOversell,
					Ticker:  tr.Ticker,
					Date:    tr.Date(),
					Message: fmt.Sprintf("sell of %s shares exceeds holdings by %s; position clamped to zero", tr.Shares, sell.SharesUnfilled),
				})
			}

			costBasis := sell.CostRemoved
			if tr.CostBasisOverride != nil {
				costBasis = *tr.CostBasisOverride
			}
			gain := tr.Shares.Sub(sell.SharesUnfilled).Mul(tr.Price).Sub(costBasis)
			if tr.RealizedPLOverride != nil {
				gain = *tr.RealizedPLOverride
			}
			realized[tr.Ticker] = realized[tr.Ticker].Add(gain)
		}
	}
	return idx
}

// prefetchPrices loads the closing prices of every ticker in the history for
// the full snapshot range, one bulk request per ticker, fanned out
// concurrently. This keeps the price collaborator at O(tickers) calls instead
// of O(days x tickers).
func (d *Driver) prefetchPrices(history []model.TradeRecord, start, end time.Time) (PriceBook, error) {
	seen := make(map[string]bool)
	tickers := make([]string, 0)
	for _, tr := range history {
		if !seen[tr.Ticker] {
			seen[tr.Ticker] = true
			tickers = append(tickers, tr.Ticker)
		}
	}

	book := make(PriceBook, len(tickers))
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(4)

	for _, ticker := range tickers {
		ticker := ticker
		g.Go(func() error {
			prices, err := d.prices.GetPrices(ticker, start, end)
			if err != nil {
				return fmt.Errorf("prices for %s: %w", ticker, err)
			}
			mu.Lock()
			book[ticker] = prices
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return book, nil
}

// dateOnly truncates a timestamp to its UTC calendar date.
func dateOnly(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
