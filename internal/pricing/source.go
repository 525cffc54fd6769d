// Package pricing defines the price-source contract consumed by the rebuild
// driver and provides the HTTP chart client and caching decorator that
// implement it.
package pricing

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat keys price maps by calendar date.
const DateFormat = "2006-01-02"

// Source supplies closing prices for a ticker over a date range. The driver
// always requests ranges in bulk, one call per ticker per rebuild, never per
// day. The returned map is keyed by date in DateFormat; dates with no price
// (market closed, data gap) are simply absent.
type Source interface {
	GetPrices(ticker string, start, end time.Time) (map[string]decimal.Decimal, error)
}

// CachingSource decorates a Source with an in-process cache so repeated
// rebuilds over the same range do not refetch. The cache is injected into the
// driver, never reached for as ambient state, and can be dropped wholesale
// when fresh prices are required.
type CachingSource struct {
	next Source

	mu    sync.Mutex
	cache map[cacheKey]map[string]decimal.Decimal
}

type cacheKey struct {
	ticker string
	start  string
	end    string
}

// NewCachingSource wraps next with an empty cache.
func NewCachingSource(next Source) *CachingSource {
	return &CachingSource{
		next:  next,
		cache: make(map[cacheKey]map[string]decimal.Decimal),
	}
}

// GetPrices returns the cached range when present, fetching through
// otherwise. Errors are not cached.
func (s *CachingSource) GetPrices(ticker string, start, end time.Time) (map[string]decimal.Decimal, error) {
	key := cacheKey{ticker: ticker, start: start.Format(DateFormat), end: end.Format(DateFormat)}

	s.mu.Lock()
	if cached, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	prices, err := s.next.GetPrices(ticker, start, end)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[key] = prices
	s.mu.Unlock()
	return prices, nil
}

// InvalidateAll drops every cached range.
func (s *CachingSource) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[cacheKey]map[string]decimal.Decimal)
	s.mu.Unlock()
}
