package reports

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/payroll"
	"worklog/internal/domain/timeentries"
	"worklog/internal/domain/worktime"
	"worklog/internal/platform/csvexport"
)

// ChartLabelLayout names months in the company report and admin chart.
const ChartLabelLayout = "Jan 2006"

var companyColumns = []string{"Type", "Name", "Value", "Hours", "Cost", "Hourly Rate", "Entries"}

type MonthStat struct {
	Month   string  `json:"month"`
	Hours   float64 `json:"hours"`
	Cost    float64 `json:"cost"`
	Entries int     `json:"entries"`
}

type EmployeeStat struct {
	UserID     string  `json:"userId"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Hours      float64 `json:"hours"`
	Cost       float64 `json:"cost"`
	HourlyRate float64 `json:"hourlyRate"`
	Entries    int     `json:"entries"`
}

type ProjectStat struct {
	ProjectID string  `json:"projectId"`
	Name      string  `json:"name"`
	Hours     float64 `json:"hours"`
	Cost      float64 `json:"cost"`
	Entries   int     `json:"entries"`
}

type CompanyTotals struct {
	TotalHours     float64 `json:"totalHours"`
	TotalCost      float64 `json:"totalCost"`
	TotalEntries   int     `json:"totalEntries"`
	ActiveProjects int     `json:"activeProjects"`
}

type CompanyReport struct {
	Months      int            `json:"months"`
	Currency    string         `json:"currency"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Totals      CompanyTotals  `json:"totals"`
	Monthly     []MonthStat    `json:"monthly"`
	Employees   []EmployeeStat `json:"employees"`
	Projects    []ProjectStat  `json:"projects"`
}

// ValidCompanyMonths lists the supported look-back windows.
var ValidCompanyMonths = []int{3, 6, 12}

// CompanyReport covers the last months calendar months for the monthly
// series. Employee, project and total figures span all recorded entries.
// Costs use the gross-from-hours formula and are rounded to whole units.
func (s *Service) CompanyReport(ctx context.Context, months int) (CompanyReport, error) {
	ctx, span := s.start(ctx, "reports.CompanyReport", attribute.Int("months", months))
	defer span.End()

	if !slices.Contains(ValidCompanyMonths, months) {
		return CompanyReport{}, fail(span, apperr.Invalid("months", "must be one of: 3 6 12"))
	}
	snap, err := s.load(ctx)
	if err != nil {
		return CompanyReport{}, fail(span, err)
	}

	now := s.now()
	report := CompanyReport{
		Months:      months,
		Currency:    snap.settings.Currency,
		GeneratedAt: now,
		Monthly:     snap.monthSeries(months, now),
		Employees:   snap.employeeStats(),
		Projects:    snap.projectStats(),
	}
	summary := Aggregate(snap.entries, snap.userByID, payroll.GrossFromHours)
	report.Totals = CompanyTotals{
		TotalHours:     summary.TotalHours,
		TotalCost:      payroll.Whole(summary.TotalCost),
		TotalEntries:   summary.EntryCount,
		ActiveProjects: summary.UniqueProjects,
	}
	return report, nil
}

func (snap snapshot) monthSeries(months int, ref time.Time) []MonthStat {
	out := make([]MonthStat, 0, months)
	for _, first := range worktime.LastMonths(months, ref) {
		period := worktime.Month(first)
		entries := timeentries.Apply(snap.entries, timeentries.Filter{Period: &period})
		summary := Aggregate(entries, snap.userByID, payroll.GrossFromHours)
		out = append(out, MonthStat{
			Month:   first.Format(ChartLabelLayout),
			Hours:   summary.TotalHours,
			Cost:    payroll.Whole(summary.TotalCost),
			Entries: summary.EntryCount,
		})
	}
	return out
}

// employeeStats prices each employee's total hours in one go, the same way
// the payroll estimate does.
func (snap snapshot) employeeStats() []EmployeeStat {
	employees := snap.employees(false)
	out := make([]EmployeeStat, 0, len(employees))
	for _, u := range employees {
		entries := timeentries.Apply(snap.entries, timeentries.Filter{UserID: u.ID})
		hours := timeentries.TotalHours(entries)
		out = append(out, EmployeeStat{
			UserID:     u.ID,
			FirstName:  u.FirstName,
			LastName:   u.LastName,
			Hours:      hours,
			Cost:       payroll.Whole(payroll.GrossFromHours(hours, u.HourlyRate)),
			HourlyRate: u.HourlyRate,
			Entries:    len(entries),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Cost > out[j].Cost })
	return out
}

// projectStats skips entries whose user no longer resolves.
func (snap snapshot) projectStats() []ProjectStat {
	type acc struct {
		stat  ProjectStat
		hours decimal.Decimal
		cost  decimal.Decimal
	}
	byProject := map[string]*acc{}
	var order []string
	for _, e := range snap.entries {
		u, ok := snap.userByID[e.UserID]
		if !ok {
			continue
		}
		a, seen := byProject[e.ProjectID]
		if !seen {
			name := unknownProject
			if p, ok := snap.projectByID[e.ProjectID]; ok {
				name = p.Name
			}
			a = &acc{stat: ProjectStat{ProjectID: e.ProjectID, Name: name}}
			byProject[e.ProjectID] = a
			order = append(order, e.ProjectID)
		}
		a.hours = a.hours.Add(decimal.NewFromFloat(e.HoursWorked))
		a.cost = a.cost.Add(decimal.NewFromFloat(payroll.GrossFromHours(e.HoursWorked, u.HourlyRate)))
		a.stat.Entries++
	}

	out := make([]ProjectStat, 0, len(order))
	for _, id := range order {
		a := byProject[id]
		a.stat.Hours = a.hours.Round(2).InexactFloat64()
		a.stat.Cost = payroll.Whole(a.cost.InexactFloat64())
		out = append(out, a.stat)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Cost > out[j].Cost })
	return out
}

func (r CompanyReport) Filename() string {
	return csvexport.CompanyReportFilename(r.GeneratedAt)
}

// Records lays the report out as four sections separated by blank rows,
// all sharing one set of columns.
func (r CompanyReport) Records() []*csvexport.Record {
	money := func(v float64) string { return fmt.Sprintf("%s %s", csvexport.FormatValue(v), r.Currency) }

	var records []*csvexport.Record
	add := func(values map[string]any) {
		rec := csvexport.NewRecord()
		for _, col := range companyColumns {
			rec.Set(col, values[col])
		}
		records = append(records, rec)
	}
	blank := func() { add(map[string]any{}) }

	add(map[string]any{"Type": "Summary", "Name": "Total Hours", "Value": r.Totals.TotalHours})
	add(map[string]any{"Type": "Summary", "Name": "Total Cost", "Value": money(r.Totals.TotalCost)})
	add(map[string]any{"Type": "Summary", "Name": "Total Entries", "Value": r.Totals.TotalEntries})
	add(map[string]any{"Type": "Summary", "Name": "Active Projects", "Value": r.Totals.ActiveProjects})
	blank()

	for _, m := range r.Monthly {
		add(map[string]any{"Type": "Monthly", "Name": m.Month, "Hours": m.Hours, "Cost": money(m.Cost), "Entries": m.Entries})
	}
	blank()

	for _, e := range r.Employees {
		add(map[string]any{
			"Type":        "Employee",
			"Name":        e.FirstName + " " + e.LastName,
			"Hours":       e.Hours,
			"Cost":        money(e.Cost),
			"Hourly Rate": money(e.HourlyRate),
			"Entries":     e.Entries,
		})
	}
	blank()

	for _, p := range r.Projects {
		add(map[string]any{"Type": "Project", "Name": p.Name, "Hours": p.Hours, "Cost": money(p.Cost), "Entries": p.Entries})
	}
	return records
}
