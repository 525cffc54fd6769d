package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/model"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/validation"
)

// csvHeader is the required column layout of a trade export file.
var csvHeader = []string{"fund", "ticker", "action", "shares", "price", "currency", "timestamp"}

// CSVTradeSource reads trade history from a CSV export file. It implements
// the same TradeSource contract as TradeRepository so the rebuild driver
// never knows which backing store it is replaying from; the adapter is
// selected by configuration at construction time.
type CSVTradeSource struct {
	path string
}

// NewCSVTradeSource creates a trade source over the given CSV file.
func NewCSVTradeSource(path string) *CSVTradeSource {
	return &CSVTradeSource{path: path}
}

// GetTradeHistory reads and parses all trades for the fund from the file.
// Rows for other funds are skipped. A fund with no rows yields an empty
// slice, which the driver treats as a no-op rebuild.
func (s *CSVTradeSource) GetTradeHistory(fund string) ([]model.TradeRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trade file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read trade file header: %w", err)
	}
	if err := validateCSVHeader(header); err != nil {
		return nil, err
	}

	var trades []model.TradeRecord
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read trade file line %d: %w", line+1, err)
		}
		line++

		if record[0] != fund {
			continue
		}

		trade, err := parseCSVTrade(record)
		if err != nil {
			return nil, fmt.Errorf("trade file line %d: %w", line, err)
		}
		// The ledger assumes positive shares and prices; reject bad rows
		// here rather than replaying them.
		if err := validation.ValidateTrade(trade); err != nil {
			return nil, fmt.Errorf("trade file line %d: %w", line, err)
		}
		trades = append(trades, trade)
	}

	return trades, nil
}

func validateCSVHeader(header []string) error {
	if len(header) < len(csvHeader) {
		return fmt.Errorf("trade file has %d columns, want %d", len(header), len(csvHeader))
	}
	for i, want := range csvHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return fmt.Errorf("trade file column %d is %q, want %q", i+1, header[i], want)
		}
	}
	return nil
}

func parseCSVTrade(record []string) (model.TradeRecord, error) {
	var t model.TradeRecord
	var err error

	t.Fund = record[0]
	t.Ticker = strings.ToUpper(strings.TrimSpace(record[1]))
	t.Action = strings.ToLower(strings.TrimSpace(record[2]))

	if t.Shares, err = ParseDecimal(record[3]); err != nil {
		return model.TradeRecord{}, err
	}
	if t.Price, err = ParseDecimal(record[4]); err != nil {
		return model.TradeRecord{}, err
	}
	t.Currency = strings.ToUpper(strings.TrimSpace(record[5]))

	t.Timestamp, err = time.Parse(time.RFC3339, strings.TrimSpace(record[6]))
	if err != nil {
		// date-only exports are valid; treat as midnight UTC
		t.Timestamp, err = time.Parse("2006-01-02", strings.TrimSpace(record[6]))
		if err != nil {
			return model.TradeRecord{}, fmt.Errorf("failed to parse timestamp %q", record[6])
		}
	}

	return t, nil
}
