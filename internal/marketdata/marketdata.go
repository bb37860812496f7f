package marketdata

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNoData is returned when a provider has nothing for the ticker.
	ErrNoData = errors.New("no market data")
	// ErrUnknownSymbol is returned when the ticker cannot be resolved.
	ErrUnknownSymbol = errors.New("unknown symbol")
)

// PeriodStart resolves a lookback like "1y", "6mo", "2wk", "30d" or "ytd"
// to the first day it covers, relative to now.
func PeriodStart(period string, now time.Time) (time.Time, error) {
	p := strings.ToLower(strings.TrimSpace(period))
	if p == "ytd" {
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), nil
	}
	for _, unit := range []string{"mo", "wk", "d", "y"} {
		if !strings.HasSuffix(p, unit) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(p, unit))
		if err != nil || n <= 0 {
			break
		}
		switch unit {
		case "mo":
			return now.AddDate(0, -n, 0), nil
		case "wk":
			return now.AddDate(0, 0, -7*n), nil
		case "d":
			return now.AddDate(0, 0, -n), nil
		case "y":
			return now.AddDate(-n, 0, 0), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid history period %q", period)
}
