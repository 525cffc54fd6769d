// Package rebuild implements the FIFO position-rebuild engine: it replays a
// fund's full trade history in chronological order, materializes the
// resulting positions at the close of every trading day from a requested
// start date forward, marks them to market, and replaces the persisted
// snapshot rows for those days.
package rebuild

import (
	"time"

	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/model"
)

// TradeSource supplies the complete trade history of a fund, ordered by
// timestamp ascending. It must return every trade, not just those after some
// cutoff: lots held on any day depend on all prior history, which is why the
// rebuild is never incremental.
type TradeSource interface {
	GetTradeHistory(fund string) ([]model.TradeRecord, error)
}

// Calendar answers whether a calendar date is a trading day. Only trading
// days receive snapshots.
type Calendar interface {
	IsTradingDay(date time.Time) bool
}

// SnapshotStore persists daily snapshot rows. ReplaceDay must remove every
// existing row for (fund, date) before inserting the new set, atomically:
// the delete-then-insert pattern is what keeps repeated rebuilds from
// accumulating duplicate rows when ticker sets change between runs. Calling
// ReplaceDay with no rows clears the day.
type SnapshotStore interface {
	ReplaceDay(fund string, date time.Time, rows []model.SnapshotRow) error
}
