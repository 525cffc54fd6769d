package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade actions. Only buys and sells affect lot state; the rebuild core
// rejects anything else during validation.
const (
	ActionBuy  = "buy"
	ActionSell = "sell"
)

// TradeRecord represents one executed trade for a fund.
// Records are read-only input to the rebuild core: they are created once when
// a trade is executed or imported and never mutated afterwards.
type TradeRecord struct {
	ID        string          `json:"id"`
	Fund      string          `json:"fund"`
	Ticker    string          `json:"ticker"`
	Action    string          `json:"action"`
	Shares    decimal.Decimal `json:"shares"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Timestamp time.Time       `json:"timestamp"`

	// Optional overrides carried by imported trades. When present on a sell,
	// CostBasisOverride replaces the FIFO-derived cost basis in realized
	// gain/loss reporting. Lot consumption itself is always FIFO.
	CostBasisOverride  *decimal.Decimal `json:"costBasisOverride,omitempty"`
	RealizedPLOverride *decimal.Decimal `json:"realizedPlOverride,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Date returns the calendar date of the trade in UTC, truncated to day
// granularity. All grouping and snapshot boundaries use this date.
func (t TradeRecord) Date() time.Time {
	utc := t.Timestamp.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
