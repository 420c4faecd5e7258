package worktime

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const ClockLayout = "15:04"

var ErrInvalidClock = errors.New("clock time must be in HH:MM format")

// ParseClock returns minutes since midnight.
func ParseClock(value string) (int, error) {
	parsed, err := time.Parse(ClockLayout, strings.TrimSpace(value))
	if err != nil {
		return 0, ErrInvalidClock
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// HoursBetween converts a start/end clock pair into decimal hours rounded to
// two places. An end before the start is read as crossing midnight.
func HoursBetween(start, end string) (float64, error) {
	startMin, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	if endMin < startMin {
		endMin += 24 * 60
	}
	elapsed := endMin - startMin
	if elapsed < 0 {
		elapsed = 0
	}
	return decimal.NewFromInt(int64(elapsed)).
		Div(decimal.NewFromInt(60)).
		Round(2).
		InexactFloat64(), nil
}
