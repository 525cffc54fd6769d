package validation

import (
	"strings"
	"time"

	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/model"
)

// ValidatedRebuild is the parsed form of a rebuild request after validation.
type ValidatedRebuild struct {
	Fund      string
	StartDate time.Time
}

// ValidateRebuildRequest validates a rebuild submission.
//
// Required fields:
//   - fund: non-empty, at most 100 characters
//   - startDate: YYYY-MM-DD; all snapshots from this date forward are recomputed
//
// Returns a validation Error with field-specific messages if validation fails.
func ValidateRebuildRequest(fund, startDate string) (ValidatedRebuild, error) {
	errors := make(map[string]string)
	result := ValidatedRebuild{Fund: strings.TrimSpace(fund)}

	if result.Fund == "" {
		errors["fund"] = "fund is required"
	} else if len(result.Fund) > 100 {
		errors["fund"] = "fund must be 100 characters or less"
	}

	if strings.TrimSpace(startDate) == "" {
		errors["startDate"] = "startDate is required"
	} else {
		parsed, err := ParseDate(startDate)
		if err != nil {
			errors["startDate"] = err.Error()
		} else {
			result.StartDate = parsed
		}
	}

	if len(errors) > 0 {
		return ValidatedRebuild{}, &Error{Fields: errors}
	}
	return result, nil
}

// ValidateTrade rejects trade records the rebuild core cannot process.
// Trades are validated at the import boundary so the ledger can assume
// positive shares and prices.
func ValidateTrade(t model.TradeRecord) error {
	errors := make(map[string]string)

	if strings.TrimSpace(t.Ticker) == "" {
		errors["ticker"] = "ticker is required"
	}
	if t.Action != model.ActionBuy && t.Action != model.ActionSell {
		errors["action"] = "action must be buy or sell"
	}
	if !t.Shares.IsPositive() {
		errors["shares"] = "shares must be positive"
	}
	if !t.Price.IsPositive() {
		errors["price"] = "price must be positive"
	}
	if t.Timestamp.IsZero() {
		errors["timestamp"] = "timestamp is required"
	}
	if len(t.Currency) != 3 {
		errors["currency"] = "currency must be a 3-letter ISO code"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
