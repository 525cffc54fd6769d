package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/model"
)

func TestValidateRebuildRequest(t *testing.T) {
	t.Run("accepts a valid request", func(t *testing.T) {
		got, err := ValidateRebuildRequest("  growth  ", "2024-03-04")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if got.Fund != "growth" {
			t.Errorf("Expected trimmed fund, got %q", got.Fund)
		}
		want := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
		if !got.StartDate.Equal(want) {
			t.Errorf("Expected %s, got %s", want, got.StartDate)
		}
	})

	t.Run("rejects bad input per field", func(t *testing.T) {
		cases := map[string]struct {
			fund      string
			startDate string
			field     string
		}{
			"missing fund":     {"", "2024-03-04", "fund"},
			"fund too long":    {strings.Repeat("x", 101), "2024-03-04", "fund"},
			"missing date":     {"growth", "", "startDate"},
			"unparseable date": {"growth", "04-03-2024", "startDate"},
			"not a date":       {"growth", "soon", "startDate"},
		}

		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := ValidateRebuildRequest(tc.fund, tc.startDate)
				if err == nil {
					t.Fatal("Expected validation error, got nil")
				}

				var vErr *Error
				if !errors.As(err, &vErr) {
					t.Fatalf("Expected *Error, got %T", err)
				}
				if _, present := vErr.Fields[tc.field]; !present {
					t.Errorf("Expected message for field %s, got %v", tc.field, vErr.Fields)
				}
			})
		}
	})
}

func TestValidateTrade(t *testing.T) {
	validTrade := func() model.TradeRecord {
		return model.TradeRecord{
			Ticker:    "AAPL",
			Action:    model.ActionBuy,
			Shares:    decimal.NewFromInt(100),
			Price:     decimal.RequireFromString("178.25"),
			Currency:  "USD",
			Timestamp: time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
		}
	}

	t.Run("accepts a valid trade", func(t *testing.T) {
		if err := ValidateTrade(validTrade()); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("rejects invalid fields", func(t *testing.T) {
		cases := map[string]func(*model.TradeRecord){
			"empty ticker":    func(tr *model.TradeRecord) { tr.Ticker = " " },
			"unknown action":  func(tr *model.TradeRecord) { tr.Action = "short" },
			"zero shares":     func(tr *model.TradeRecord) { tr.Shares = decimal.Zero },
			"negative shares": func(tr *model.TradeRecord) { tr.Shares = decimal.NewFromInt(-5) },
			"zero price":      func(tr *model.TradeRecord) { tr.Price = decimal.Zero },
			"zero timestamp":  func(tr *model.TradeRecord) { tr.Timestamp = time.Time{} },
			"bad currency":    func(tr *model.TradeRecord) { tr.Currency = "EURO" },
		}

		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				trade := validTrade()
				mutate(&trade)
				if err := ValidateTrade(trade); err == nil {
					t.Error("Expected validation error, got nil")
				}
			})
		}
	})
}
