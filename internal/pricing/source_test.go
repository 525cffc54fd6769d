package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type countingSource struct {
	calls  int
	prices map[string]decimal.Decimal
	err    error
}

func (s *countingSource) GetPrices(ticker string, start, end time.Time) (map[string]decimal.Decimal, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.prices, nil
}

func TestCachingSource_GetPrices(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	t.Run("serves repeated requests from cache", func(t *testing.T) {
		next := &countingSource{prices: map[string]decimal.Decimal{
			"2024-03-04": decimal.RequireFromString("100.25"),
		}}
		source := NewCachingSource(next)

		for i := 0; i < 3; i++ {
			prices, err := source.GetPrices("AAPL", start, end)
			if err != nil {
				t.Fatalf("GetPrices failed: %v", err)
			}
			if !prices["2024-03-04"].Equal(decimal.RequireFromString("100.25")) {
				t.Errorf("Expected 100.25, got %s", prices["2024-03-04"])
			}
		}

		if next.calls != 1 {
			t.Errorf("Expected 1 upstream call, got %d", next.calls)
		}
	})

	t.Run("distinct tickers and ranges miss the cache", func(t *testing.T) {
		next := &countingSource{prices: map[string]decimal.Decimal{}}
		source := NewCachingSource(next)

		if _, err := source.GetPrices("AAPL", start, end); err != nil {
			t.Fatalf("GetPrices failed: %v", err)
		}
		if _, err := source.GetPrices("VWRL", start, end); err != nil {
			t.Fatalf("GetPrices failed: %v", err)
		}
		if _, err := source.GetPrices("AAPL", start, end.AddDate(0, 0, 1)); err != nil {
			t.Fatalf("GetPrices failed: %v", err)
		}

		if next.calls != 3 {
			t.Errorf("Expected 3 upstream calls, got %d", next.calls)
		}
	})

	t.Run("errors are not cached", func(t *testing.T) {
		next := &countingSource{err: errors.New("upstream down")}
		source := NewCachingSource(next)

		if _, err := source.GetPrices("AAPL", start, end); err == nil {
			t.Fatal("Expected error, got nil")
		}

		// Upstream recovers; the next call must go through
		next.err = nil
		next.prices = map[string]decimal.Decimal{}
		if _, err := source.GetPrices("AAPL", start, end); err != nil {
			t.Fatalf("Expected recovery, got %v", err)
		}

		if next.calls != 2 {
			t.Errorf("Expected 2 upstream calls, got %d", next.calls)
		}
	})

	t.Run("InvalidateAll forces a refetch", func(t *testing.T) {
		next := &countingSource{prices: map[string]decimal.Decimal{}}
		source := NewCachingSource(next)

		if _, err := source.GetPrices("AAPL", start, end); err != nil {
			t.Fatalf("GetPrices failed: %v", err)
		}
		source.InvalidateAll()
		if _, err := source.GetPrices("AAPL", start, end); err != nil {
			t.Fatalf("GetPrices failed: %v", err)
		}

		if next.calls != 2 {
			t.Errorf("Expected 2 upstream calls after invalidation, got %d", next.calls)
		}
	})
}
