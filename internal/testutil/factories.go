package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/model"
)

// TradeBuilder provides a fluent interface for creating test trades.
//
// Example usage:
//
//	// Simple creation with defaults
//	trade := testutil.NewTrade().Build(t, db)
//
//	// Customized trade
//	trade := testutil.NewTrade().
//	    WithFund("growth").
//	    WithTicker("AAPL").
//	    Sell(25, "190.00").
//	    OnDay("2024-03-05").
//	    Build(t, db)
type TradeBuilder struct {
	ID                 string
	Fund               string
	Ticker             string
	Action             string
	Shares             decimal.Decimal
	Price              decimal.Decimal
	Currency           string
	Timestamp          time.Time
	CostBasisOverride  *decimal.Decimal
	RealizedPLOverride *decimal.Decimal
}

// NewTrade creates a TradeBuilder with sensible defaults: a buy of
// 100 shares at 50 USD on a weekday.
func NewTrade() *TradeBuilder {
	return &TradeBuilder{
		ID:        MakeID(),
		Fund:      "test-fund",
		Ticker:    "VWRL",
		Action:    model.ActionBuy,
		Shares:    decimal.NewFromInt(100),
		Price:     decimal.NewFromInt(50),
		Currency:  "USD",
		Timestamp: time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
	}
}

// WithID sets a custom ID.
func (b *TradeBuilder) WithID(id string) *TradeBuilder {
	b.ID = id
	return b
}

// WithFund sets a custom fund.
func (b *TradeBuilder) WithFund(fund string) *TradeBuilder {
	b.Fund = fund
	return b
}

// WithTicker sets a custom ticker.
func (b *TradeBuilder) WithTicker(ticker string) *TradeBuilder {
	b.Ticker = ticker
	return b
}

// WithCurrency sets a custom currency.
func (b *TradeBuilder) WithCurrency(currency string) *TradeBuilder {
	b.Currency = currency
	return b
}

// Buy makes the trade a buy of the given shares at the given price.
func (b *TradeBuilder) Buy(shares, price string) *TradeBuilder {
	b.Action = model.ActionBuy
	b.Shares = decimal.RequireFromString(shares)
	b.Price = decimal.RequireFromString(price)
	return b
}

// Sell makes the trade a sell of the given shares at the given price.
func (b *TradeBuilder) Sell(shares, price string) *TradeBuilder {
	b.Action = model.ActionSell
	b.Shares = decimal.RequireFromString(shares)
	b.Price = decimal.RequireFromString(price)
	return b
}

// OnDay sets the trade timestamp to 10:00 UTC on the given YYYY-MM-DD day.
func (b *TradeBuilder) OnDay(day string) *TradeBuilder {
	d, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic("testutil: invalid day " + day)
	}
	b.Timestamp = d.Add(10 * time.Hour)
	return b
}

// At sets an exact trade timestamp.
func (b *TradeBuilder) At(ts time.Time) *TradeBuilder {
	b.Timestamp = ts
	return b
}

// WithCostBasisOverride sets an imported cost basis that replaces the
// FIFO-computed value.
func (b *TradeBuilder) WithCostBasisOverride(v string) *TradeBuilder {
	d := decimal.RequireFromString(v)
	b.CostBasisOverride = &d
	return b
}

// WithRealizedPLOverride sets an imported realized gain that replaces the
// FIFO-computed value.
func (b *TradeBuilder) WithRealizedPLOverride(v string) *TradeBuilder {
	d := decimal.RequireFromString(v)
	b.RealizedPLOverride = &d
	return b
}

// Build creates the trade in the database and returns it.
func (b *TradeBuilder) Build(t *testing.T, db *sql.DB) model.TradeRecord {
	t.Helper()

	query := `
		INSERT INTO trade (id, fund, ticker, action, shares, price, currency,
			timestamp, cost_basis_override, realized_pl_override)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var costBasis, realizedPL interface{}
	if b.CostBasisOverride != nil {
		costBasis = b.CostBasisOverride.String()
	}
	if b.RealizedPLOverride != nil {
		realizedPL = b.RealizedPLOverride.String()
	}

	_, err := db.Exec(query, b.ID, b.Fund, b.Ticker, b.Action,
		b.Shares.String(), b.Price.String(), b.Currency,
		b.Timestamp.UTC().Format(time.RFC3339), costBasis, realizedPL)
	if err != nil {
		t.Fatalf("Failed to create test trade: %v", err)
	}

	return model.TradeRecord{
		ID:                 b.ID,
		Fund:               b.Fund,
		Ticker:             b.Ticker,
		Action:             b.Action,
		Shares:             b.Shares,
		Price:              b.Price,
		Currency:           b.Currency,
		Timestamp:          b.Timestamp.UTC(),
		CostBasisOverride:  b.CostBasisOverride,
		RealizedPLOverride: b.RealizedPLOverride,
	}
}

// PriceBuilder provides a fluent interface for creating test closing prices.
//
// Example usage:
//
//	testutil.NewPrice().WithTicker("AAPL").On("2024-03-04", "180.25").Build(t, db)
type PriceBuilder struct {
	ID     string
	Ticker string
	Date   time.Time
	Price  decimal.Decimal
}

// NewPrice creates a PriceBuilder with sensible defaults.
func NewPrice() *PriceBuilder {
	return &PriceBuilder{
		ID:     MakeID(),
		Ticker: "VWRL",
		Date:   time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Price:  decimal.NewFromInt(100),
	}
}

// WithTicker sets a custom ticker.
func (b *PriceBuilder) WithTicker(ticker string) *PriceBuilder {
	b.Ticker = ticker
	return b
}

// On sets the date and closing price.
func (b *PriceBuilder) On(day, price string) *PriceBuilder {
	d, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic("testutil: invalid day " + day)
	}
	b.Date = d
	b.Price = decimal.RequireFromString(price)
	return b
}

// Build creates the price in the database.
func (b *PriceBuilder) Build(t *testing.T, db *sql.DB) {
	t.Helper()

	query := `INSERT INTO ticker_price (id, ticker, date, price) VALUES (?, ?, ?, ?)`

	_, err := db.Exec(query, b.ID, b.Ticker, b.Date.Format("2006-01-02"), b.Price.String())
	if err != nil {
		t.Fatalf("Failed to create test price: %v", err)
	}
}

// Convenience functions

// CreateTrade creates a buy trade for the given fund with default values.
//
// Example usage:
//
//	trade := testutil.CreateTrade(t, db, "my-fund")
func CreateTrade(t *testing.T, db *sql.DB, fund string) model.TradeRecord {
	t.Helper()
	return NewTrade().WithFund(fund).Build(t, db)
}

// CreatePriceRange creates closing prices for a ticker on every day between
// start and end inclusive, all at the same price.
func CreatePriceRange(t *testing.T, db *sql.DB, ticker, start, end, price string) {
	t.Helper()

	from, err := time.Parse("2006-01-02", start)
	if err != nil {
		t.Fatalf("Invalid start day: %v", err)
	}
	to, err := time.Parse("2006-01-02", end)
	if err != nil {
		t.Fatalf("Invalid end day: %v", err)
	}

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		NewPrice().WithTicker(ticker).On(d.Format("2006-01-02"), price).Build(t, db)
	}
}
