package worktime

import (
	"errors"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

type Kind string

const (
	KindMonth  Kind = "month"
	KindYear   Kind = "year"
	KindWeek   Kind = "week"
	KindCustom Kind = "custom"
)

var ErrInvalidPeriod = errors.New("invalid period")

// Period selects a calendar window. Month, year and week periods derive their
// bounds from Reference; custom periods use Start and End literally.
type Period struct {
	Kind      Kind
	Reference time.Time
	Start     string
	End       string
}

func Month(ref time.Time) Period { return Period{Kind: KindMonth, Reference: ref} }

func Year(ref time.Time) Period { return Period{Kind: KindYear, Reference: ref} }

func Week(ref time.Time) Period { return Period{Kind: KindWeek, Reference: ref} }

func Custom(start, end string) Period {
	return Period{Kind: KindCustom, Start: start, End: end}
}

// Bounds returns the inclusive date range as YYYY-MM-DD strings. ok is false
// when the period selects nothing, which is the case for a custom period with
// a missing or malformed bound.
func (p Period) Bounds() (from, to string, ok bool) {
	switch p.Kind {
	case KindMonth:
		from, to = MonthBounds(p.Reference)
		return from, to, true
	case KindYear:
		from, to = YearBounds(p.Reference)
		return from, to, true
	case KindWeek:
		from, to = WeekBounds(p.Reference)
		return from, to, true
	case KindCustom:
		start, errStart := ParseDate(p.Start)
		end, errEnd := ParseDate(p.End)
		if errStart != nil || errEnd != nil {
			return "", "", false
		}
		return start.Format(DateLayout), end.Format(DateLayout), true
	default:
		return "", "", false
	}
}

// Contains reports whether date falls inside the period.
func (p Period) Contains(date string) bool {
	from, to, ok := p.Bounds()
	if !ok {
		return false
	}
	return InRange(date, from, to)
}

// InRange compares YYYY-MM-DD strings; an empty bound is open.
func InRange(date, from, to string) bool {
	day := NormalizeDate(date)
	if day == "" {
		return false
	}
	if from != "" && day < from {
		return false
	}
	if to != "" && day > to {
		return false
	}
	return true
}

func MonthBounds(ref time.Time) (string, string) {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(DateLayout), last.Format(DateLayout)
}

func YearBounds(ref time.Time) (string, string) {
	first := time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(ref.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	return first.Format(DateLayout), last.Format(DateLayout)
}

// WeekBounds uses Monday as the first day of the week.
func WeekBounds(ref time.Time) (string, string) {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)
	return monday.Format(DateLayout), monday.AddDate(0, 0, 6).Format(DateLayout)
}

// LastMonths returns the first day of each of the n months ending with the
// month of ref, oldest first.
func LastMonths(n int, ref time.Time) []time.Time {
	if n <= 0 {
		return nil
	}
	current := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	months := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		months = append(months, current.AddDate(0, -i, 0))
	}
	return months
}

func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidPeriod
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, ErrInvalidPeriod
	}
	return parsed, nil
}

func ParseMonth(value string) (time.Time, error) {
	parsed, err := time.Parse(MonthLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, ErrInvalidPeriod
	}
	return parsed, nil
}

// NormalizeDate trims timestamps down to their calendar day.
func NormalizeDate(value string) string {
	value = strings.TrimSpace(value)
	if len(value) < len(DateLayout) {
		return ""
	}
	return value[:len(DateLayout)]
}

// ParsePeriod builds a period from query-style values. An empty reference
// falls back to now; custom periods keep whatever bounds were supplied.
func ParsePeriod(kind, reference, start, end string, now time.Time) (Period, error) {
	ref := now
	if strings.TrimSpace(reference) != "" {
		parsed, err := ParseMonth(reference)
		if err != nil {
			parsed, err = ParseDate(reference)
			if err != nil {
				return Period{}, err
			}
		}
		ref = parsed
	}
	switch Kind(strings.ToLower(strings.TrimSpace(kind))) {
	case "", KindMonth:
		return Month(ref), nil
	case KindYear:
		return Year(ref), nil
	case KindWeek:
		return Week(ref), nil
	case KindCustom:
		return Custom(start, end), nil
	default:
		return Period{}, ErrInvalidPeriod
	}
}
