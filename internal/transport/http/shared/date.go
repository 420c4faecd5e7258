package shared

import (
	"net/http"
	"time"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/worktime"
)

// ParsePeriod reads period, ref, startDate and endDate from the query. An
// absent period means the month of ref, or the current month.
func ParsePeriod(r *http.Request, now time.Time) (worktime.Period, error) {
	q := r.URL.Query()
	period, err := worktime.ParsePeriod(q.Get("period"), q.Get("ref"), q.Get("startDate"), q.Get("endDate"), now)
	if err != nil {
		return worktime.Period{}, apperr.Invalid("period", "must be month, year, week or custom with a valid ref")
	}
	return period, nil
}

// ParseMonthRef returns the first day of the month named by the "month"
// query value, or of the current month when it is absent.
func ParseMonthRef(r *http.Request, now time.Time) (time.Time, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		return now, nil
	}
	ref, err := worktime.ParseMonth(raw)
	if err != nil {
		return time.Time{}, apperr.Invalid("month", "must be a month in YYYY-MM format")
	}
	return ref, nil
}
