package reports

import (
	"github.com/shopspring/decimal"

	"worklog/internal/domain/payroll"
	"worklog/internal/domain/timeentries"
	"worklog/internal/domain/users"
)

// CostFunc prices hours at an hourly rate. Which formula a view uses is
// part of that view's definition.
type CostFunc func(hours, hourlyRate float64) float64

type Summary struct {
	TotalHours           float64 `json:"totalHours"`
	TotalCost            float64 `json:"totalCost"`
	UniqueEmployees      int     `json:"uniqueEmployees"`
	UniqueProjects       int     `json:"uniqueProjects"`
	EntryCount           int     `json:"entryCount"`
	AverageHoursPerEntry float64 `json:"averageHoursPerEntry"`
}

// Aggregate totals entries. Entries of unknown users count toward hours but
// add no cost. A nil cost function skips costing.
func Aggregate(entries []timeentries.Entry, people map[string]users.User, cost CostFunc) Summary {
	hours := decimal.Zero
	total := decimal.Zero
	employees := map[string]struct{}{}
	projects := map[string]struct{}{}

	for _, e := range entries {
		hours = hours.Add(decimal.NewFromFloat(e.HoursWorked))
		employees[e.UserID] = struct{}{}
		projects[e.ProjectID] = struct{}{}
		if cost == nil {
			continue
		}
		if u, ok := people[e.UserID]; ok {
			total = total.Add(decimal.NewFromFloat(cost(e.HoursWorked, u.HourlyRate)))
		}
	}

	summary := Summary{
		TotalHours:      hours.Round(2).InexactFloat64(),
		TotalCost:       total.Round(2).InexactFloat64(),
		UniqueEmployees: len(employees),
		UniqueProjects:  len(projects),
		EntryCount:      len(entries),
	}
	if len(entries) > 0 {
		summary.AverageHoursPerEntry = hours.Div(decimal.NewFromInt(int64(len(entries)))).Round(2).InexactFloat64()
	}
	return summary
}

// averageRate is the mean hourly rate across entries, rounded to a whole
// unit. Unknown users count as rate 0.
func averageRate(entries []timeentries.Entry, people map[string]users.User) float64 {
	if len(entries) == 0 {
		return 0
	}
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(decimal.NewFromFloat(people[e.UserID].HourlyRate))
	}
	return payroll.Whole(total.Div(decimal.NewFromInt(int64(len(entries)))).InexactFloat64())
}
