package model

import (
	"fmt"
	"time"
)

// RebuildRequest asks for all snapshots of a fund from StartDate forward to be
// recomputed and replaced. Requests are ephemeral: they exist for one rebuild
// invocation and are not persisted (the job row tracking execution is).
type RebuildRequest struct {
	Fund      string    `json:"fund"`
	StartDate time.Time `json:"startDate"`
}

// Warning kinds reported by a rebuild. These are data-quality conditions that
// are recovered locally and logged, never fatal.
const (
	WarningOversell         = "oversell"
	WarningMissingPrice     = "missing_price"
	WarningCurrencyMismatch = "currency_mismatch"
)

// RebuildWarning records one recovered data-quality issue found during a
// rebuild, tied to the ticker and date it occurred on.
type RebuildWarning struct {
	Kind    string    `json:"kind"`
	Ticker  string    `json:"ticker"`
	Date    time.Time `json:"date,omitempty"`
	Message string    `json:"message"`
}

// RebuildResult summarizes a completed (or partially completed) rebuild.
type RebuildResult struct {
	Fund           string           `json:"fund"`
	StartDate      time.Time        `json:"startDate"`
	DaysRebuilt    int              `json:"daysRebuilt"`
	RecordsWritten int              `json:"recordsWritten"`
	Warnings       []RebuildWarning `json:"warnings,omitempty"`
}

// Summary returns the one-line human-readable outcome of a rebuild.
func (r RebuildResult) Summary() string {
	return fmt.Sprintf("Rebuilt %d days, created %d position records", r.DaysRebuilt, r.RecordsWritten)
}
