package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotRow is one persisted position within a fund's daily snapshot.
// One logical snapshot per (fund, date) owns all rows for that day; a rebuild
// replaces the full set for every affected date so stale rows never survive.
//
// Monetary fields (AvgPrice, CostBasis, MarketValue, UnrealizedPL, RealizedPL)
// are rounded to two decimal places, half up. Shares keep full input
// precision since fractional shares are valid.
type SnapshotRow struct {
	ID           string          `json:"id"`
	Fund         string          `json:"fund"`
	Date         time.Time       `json:"date"`
	Ticker       string          `json:"ticker"`
	Shares       decimal.Decimal `json:"shares"`
	AvgPrice     decimal.Decimal `json:"avgPrice"`
	CostBasis    decimal.Decimal `json:"costBasis"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	MarketValue  decimal.Decimal `json:"marketValue"`
	UnrealizedPL decimal.Decimal `json:"unrealizedPl"`
	RealizedPL   decimal.Decimal `json:"realizedPl"`
	Currency     string          `json:"currency"`
	CalculatedAt time.Time       `json:"calculatedAt"`
}
