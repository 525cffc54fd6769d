package pricing

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// chartResponse maps the raw JSON response of the finance chart API.
// The structure contains one result per symbol with parallel arrays of Unix
// timestamps and daily quote indicators.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency string `json:"currency"`
				Symbol   string `json:"symbol"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *string `json:"error"`
	} `json:"chart"`
}

// ChartClient fetches daily closing prices from a finance chart API endpoint.
// It implements Source and is the production adapter behind the rebuild
// driver's price lookups.
type ChartClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewChartClient creates a chart API client. An empty baseURL selects the
// public query endpoint; tests point it at an httptest server.
func NewChartClient(baseURL string) *ChartClient {
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	}
	return &ChartClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// GetPrices fetches daily closes for the ticker between start and end
// (inclusive) and keys them by calendar date. Days the API omits (market
// closed, data gaps) are absent from the map rather than zero-filled.
func (c *ChartClient) GetPrices(ticker string, start, end time.Time) (map[string]decimal.Decimal, error) {
	// period2 is exclusive on the API side, so push it past the end of day
	url := fmt.Sprintf(
		"%s/%s?interval=1d&period1=%d&period2=%d",
		c.baseURL,
		ticker,
		start.Unix(),
		end.AddDate(0, 0, 1).Unix(),
	)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query chart API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart API returned status %d for %s", resp.StatusCode, ticker)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart API response: %w", err)
	}

	var parsed chartResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse chart API response: %w", err)
	}
	if parsed.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error for %s: %s", ticker, *parsed.Chart.Error)
	}
	if len(parsed.Chart.Result) == 0 {
		return nil, fmt.Errorf("no results returned for symbol %s", ticker)
	}

	result := parsed.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return map[string]decimal.Decimal{}, nil
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return nil, fmt.Errorf("mismatched data lengths for symbol %s", ticker)
	}

	prices := make(map[string]decimal.Decimal, len(closes))
	for i, ts := range result.Timestamp {
		if closes[i] == 0 {
			continue
		}
		date := time.Unix(ts, 0).UTC().Format(DateFormat)
		prices[date] = decimal.NewFromFloat(closes[i])
	}
	return prices, nil
}
