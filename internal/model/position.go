package model

import "github.com/shopspring/decimal"

// PositionState is the aggregate per-ticker position implied by the open lots
// at a point in time. It is derived, never stored during replay: shares and
// cost basis always equal the sum over the ticker's remaining lots.
type PositionState struct {
	Ticker     string          `json:"ticker"`
	Shares     decimal.Decimal `json:"shares"`
	CostBasis  decimal.Decimal `json:"costBasis"`
	Currency   string          `json:"currency"`
	RealizedPL decimal.Decimal `json:"realizedPl"` // cumulative realized gain/loss from sells
}

// IsFlat reports whether the position holds no shares.
func (p PositionState) IsFlat() bool {
	return p.Shares.IsZero()
}
