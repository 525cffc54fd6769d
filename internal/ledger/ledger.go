// Package ledger maintains per-ticker FIFO queues of open lots and derives
// aggregate position state from them. It is the cost-basis engine behind the
// day-by-day snapshot rebuild: buys append lots, sells consume lots oldest
// first, and the position for a ticker is always the sum over its remaining
// lots.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/model"
)

// Lot is a single open purchase lot. It is created by a buy and destroyed
// once sells have consumed all of its shares.
type Lot struct {
	SharesRemaining decimal.Decimal
	UnitCost        decimal.Decimal
}

// Cost returns the cost basis still held in the lot.
func (l Lot) Cost() decimal.Decimal {
	return l.SharesRemaining.Mul(l.UnitCost)
}

// SellResult reports the outcome of applying a sell against the FIFO queue.
type SellResult struct {
	// CostRemoved is the cost basis consumed from the lots, matched oldest
	// first. Callers tracking realized gain/loss subtract this from proceeds.
	CostRemoved decimal.Decimal

	// SharesUnfilled is the portion of the sell that exceeded recorded
	// holdings. Non-zero means the position was clamped to zero instead of
	// going negative; callers should surface it as a data-quality warning.
	SharesUnfilled decimal.Decimal
}

// Oversold reports whether the sell exceeded recorded holdings.
func (r SellResult) Oversold() bool {
	return r.SharesUnfilled.IsPositive()
}

// Ledger holds the FIFO lot queues for every ticker of one fund during a
// replay. A Ledger is owned exclusively by one rebuild invocation and is not
// safe for concurrent use.
type Ledger struct {
	queues     map[string][]Lot
	currencies map[string]string
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		queues:     make(map[string][]Lot),
		currencies: make(map[string]string),
	}
}

// ApplyBuy appends a new lot to the ticker's queue. Shares and price are
// validated upstream (positive, non-zero), so a buy always succeeds.
//
// Currency is sticky: the first buy sets it, and later buys in the same
// currency leave it unchanged. A buy in a different currency wins (most
// recent currency is kept) but returns true so the caller can surface the
// mismatch as a data-quality warning rather than silently overwriting.
func (l *Ledger) ApplyBuy(ticker string, shares, price decimal.Decimal, currency string) (currencyMismatch bool) {
	l.queues[ticker] = append(l.queues[ticker], Lot{
		SharesRemaining: shares,
		UnitCost:        price,
	})

	prev, seen := l.currencies[ticker]
	l.currencies[ticker] = currency
	return seen && prev != currency
}

// ApplySell consumes shares from the front of the ticker's queue, oldest lot
// first. A lot smaller than the remaining sell quantity is removed entirely;
// the final lot touched is decremented in place.
//
// Selling more than the recorded holdings does not error: the queue is
// drained, the position ends at zero shares and zero cost basis, and the
// unfilled remainder is reported so it can be logged.
func (l *Ledger) ApplySell(ticker string, shares decimal.Decimal) SellResult {
	queue := l.queues[ticker]
	costRemoved := decimal.Zero
	toSell := shares

	for len(queue) > 0 && toSell.IsPositive() {
		front := queue[0]
		if front.SharesRemaining.LessThanOrEqual(toSell) {
			costRemoved = costRemoved.Add(front.Cost())
			toSell = toSell.Sub(front.SharesRemaining)
			queue = queue[1:]
			continue
		}
		costRemoved = costRemoved.Add(toSell.Mul(front.UnitCost))
		queue[0].SharesRemaining = front.SharesRemaining.Sub(toSell)
		toSell = decimal.Zero
	}
	l.queues[ticker] = queue

	return SellResult{
		CostRemoved:    costRemoved,
		SharesUnfilled: toSell,
	}
}

// Lots returns a copy of the ticker's open lot queue, oldest first.
func (l *Ledger) Lots(ticker string) []Lot {
	queue := l.queues[ticker]
	out := make([]Lot, len(queue))
	copy(out, queue)
	return out
}

// Position returns the aggregate position for a ticker: shares and cost basis
// summed over the remaining lots. A ticker with no open lots yields a flat
// position with zero cost basis, so rounding residue can never leave a
// negative or dangling cost on an empty position.
func (l *Ledger) Position(ticker string) model.PositionState {
	shares := decimal.Zero
	cost := decimal.Zero
	for _, lot := range l.queues[ticker] {
		shares = shares.Add(lot.SharesRemaining)
		cost = cost.Add(lot.Cost())
	}
	if shares.IsZero() {
		cost = decimal.Zero
	}
	return model.PositionState{
		Ticker:    ticker,
		Shares:    shares,
		CostBasis: cost,
		Currency:  l.currencies[ticker],
	}
}

// OpenPositions returns the positions of every ticker currently holding
// shares, sorted by ticker for deterministic iteration.
func (l *Ledger) OpenPositions() []model.PositionState {
	tickers := make([]string, 0, len(l.queues))
	for ticker, queue := range l.queues {
		if len(queue) > 0 {
			tickers = append(tickers, ticker)
		}
	}
	sort.Strings(tickers)

	positions := make([]model.PositionState, 0, len(tickers))
	for _, ticker := range tickers {
		pos := l.Position(ticker)
		if !pos.IsFlat() {
			positions = append(positions, pos)
		}
	}
	return positions
}

// Tickers returns every ticker the ledger has seen, held or flat, sorted.
func (l *Ledger) Tickers() []string {
	tickers := make([]string, 0, len(l.currencies))
	for ticker := range l.currencies {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)
	return tickers
}
