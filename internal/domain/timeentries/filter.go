package timeentries

import (
	"sort"

	"worklog/internal/domain/payroll"
	"worklog/internal/domain/worktime"
)

// All matches every user or project in a Filter.
const All = "all"

// Filter narrows a list of entries. Every set criterion must match. Period
// and the From/To range may be combined; an empty From or To is open.
type Filter struct {
	Period    *worktime.Period
	From      string
	To        string
	UserID    string
	ProjectID string
}

func (f Filter) matchUser(userID string) bool {
	return f.UserID == "" || f.UserID == All || f.UserID == userID
}

// Apply returns the matching entries as a new slice sorted by date, newest
// first.
func Apply(entries []Entry, f Filter) []Entry {
	var from, to string
	if f.Period != nil {
		var ok bool
		from, to, ok = f.Period.Bounds()
		if !ok {
			return []Entry{}
		}
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !f.matchUser(e.UserID) {
			continue
		}
		if f.ProjectID != "" && f.ProjectID != All && e.ProjectID != f.ProjectID {
			continue
		}
		if f.Period != nil && !worktime.InRange(e.Date, from, to) {
			continue
		}
		if (f.From != "" || f.To != "") && !worktime.InRange(e.Date, f.From, f.To) {
			continue
		}
		out = append(out, e)
	}
	SortByDateDesc(out)
	return out
}

// SortByDateDesc orders entries newest first; same-day entries keep the most
// recently created first.
func SortByDateDesc(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		di := worktime.NormalizeDate(entries[i].Date)
		dj := worktime.NormalizeDate(entries[j].Date)
		if di != dj {
			return di > dj
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}

func TotalHours(entries []Entry) float64 {
	hours := make([]float64, len(entries))
	for i, e := range entries {
		hours[i] = e.HoursWorked
	}
	return payroll.Sum(hours...)
}
