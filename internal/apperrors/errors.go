package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrFundNotFound indicates that no trades exist for the requested fund.
	ErrFundNotFound = errors.New("fund not found")

	// ErrJobNotFound indicates that a rebuild job with the given ID does not exist.
	ErrJobNotFound = errors.New("rebuild job not found")

	// ErrPriceNotFound indicates no price record for a specific ticker and date combination.
	ErrPriceNotFound = errors.New("price for ticker/date not found")

	// ErrSnapshotNotFound indicates no snapshot rows for the requested fund and date range.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// Invalid input errors represent requests rejected before any work begins.
var (
	// ErrInvalidFund indicates that the fund name is empty or malformed.
	ErrInvalidFund = errors.New("fund name is required")

	// ErrInvalidStartDate indicates that the start date is missing or unparseable.
	ErrInvalidStartDate = errors.New("start date must be in YYYY-MM-DD format")

	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrInvalidTradeAction indicates a trade action other than buy or sell.
	ErrInvalidTradeAction = errors.New("trade action must be buy or sell")

	// ErrNonPositiveShares indicates a trade with zero or negative shares.
	ErrNonPositiveShares = errors.New("shares must be positive")

	// ErrNonPositivePrice indicates a trade with a zero or negative price.
	ErrNonPositivePrice = errors.New("price must be positive")
)

// Business rule errors represent constraint violations on otherwise valid input.
var (
	// ErrRebuildInProgress indicates that a rebuild for the same fund is
	// already running. Rebuilds for one fund are serialized because the
	// delete-then-insert over the fund's snapshot rows must not interleave.
	ErrRebuildInProgress = errors.New("rebuild already in progress for fund")
)

// Collaborator failure errors represent unreachable or failing external
// dependencies. They abort the remaining work of a rebuild; already-written
// days stay intact because each day is replaced in its own transaction.
var (
	// ErrTradeSourceUnavailable indicates the trade history could not be loaded.
	ErrTradeSourceUnavailable = errors.New("trade source unavailable")

	// ErrPriceSourceUnavailable indicates the price source could not be reached.
	ErrPriceSourceUnavailable = errors.New("price source unavailable")

	// ErrSnapshotStoreUnavailable indicates snapshot rows could not be written.
	ErrSnapshotStoreUnavailable = errors.New("snapshot store unavailable")
)
