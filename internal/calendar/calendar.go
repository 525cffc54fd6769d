// Package calendar decides which calendar dates are trading days. Weekends
// are always closed; market holidays are supplied as a fixed-date list so the
// set can be injected per exchange through configuration.
package calendar

import "time"

// Calendar answers whether a given date is a trading day.
type Calendar struct {
	holidays map[string]bool
}

// New creates a calendar closed on weekends and on the given holiday dates.
// Only the year-month-day of each holiday is considered.
func New(holidays ...time.Time) *Calendar {
	c := &Calendar{holidays: make(map[string]bool, len(holidays))}
	for _, h := range holidays {
		c.holidays[h.UTC().Format("2006-01-02")] = true
	}
	return c
}

// Default returns a calendar with the recurring fixed-date US market
// closures. Floating holidays (Thanksgiving, Easter-linked closures) are not
// derived here; funds needing them pass the explicit dates to New.
func Default() *Calendar {
	c := New()
	for year := 2000; year <= time.Now().Year()+1; year++ {
		c.addFixed(year, time.January, 1)   // New Year's Day
		c.addFixed(year, time.July, 4)      // Independence Day
		c.addFixed(year, time.December, 25) // Christmas Day
	}
	return c
}

func (c *Calendar) addFixed(year int, month time.Month, day int) {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	c.holidays[d.Format("2006-01-02")] = true
}

// IsTradingDay reports whether the market is open on the given date.
func (c *Calendar) IsTradingDay(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !c.holidays[date.UTC().Format("2006-01-02")]
}
