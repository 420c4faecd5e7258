package reports

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/payroll"
	"worklog/internal/domain/timeentries"
	"worklog/internal/domain/users"
	"worklog/internal/domain/worktime"
	"worklog/internal/platform/csvexport"
)

// MonthQuery selects one calendar month of entries. Month is YYYY-MM and
// defaults to the current month. EmployeeID only applies to admins;
// employees always see their own entries.
type MonthQuery struct {
	Month      string `json:"month"`
	EmployeeID string `json:"employeeId"`
}

// MonthlyView backs both the time history and the timesheet.
type MonthlyView struct {
	Month             string       `json:"month"`
	EmployeeID        string       `json:"employeeId"`
	Summary           Summary      `json:"summary"`
	AverageHourlyRate float64      `json:"averageHourlyRate"`
	Employees         []users.User `json:"employees,omitempty"`
	Rows              []EntryRow   `json:"rows"`

	selectedFirstName string
}

func (s *Service) monthly(ctx context.Context, viewer users.Actor, q MonthQuery, l labels, activeOnly bool) (MonthlyView, error) {
	month := strings.TrimSpace(q.Month)
	if month == "" {
		month = s.now().Format(worktime.MonthLayout)
	}
	ref, err := worktime.ParseMonth(month)
	if err != nil {
		return MonthlyView{}, apperr.Invalid("month", "must be a month in YYYY-MM format")
	}

	snap, err := s.load(ctx)
	if err != nil {
		return MonthlyView{}, err
	}

	employeeID := strings.TrimSpace(q.EmployeeID)
	if employeeID == "" {
		employeeID = timeentries.All
	}
	if !viewer.IsAdmin() {
		employeeID = viewer.UserID
	}
	if employeeID == "" {
		return MonthlyView{Month: month, Rows: []EntryRow{}}, nil
	}

	period := worktime.Month(ref)
	entries := timeentries.Apply(snap.entries, timeentries.Filter{Period: &period, UserID: employeeID})

	view := MonthlyView{
		Month:             month,
		EmployeeID:        employeeID,
		Summary:           Aggregate(entries, snap.userByID, payroll.LaborCost),
		AverageHourlyRate: averageRate(entries, snap.userByID),
		Rows:              snap.rows(entries, payroll.LaborCost, l),
	}
	if viewer.IsAdmin() {
		view.Employees = snap.employees(activeOnly)
		if employeeID != timeentries.All {
			view.selectedFirstName = "employee"
			if u, ok := snap.userByID[employeeID]; ok && u.FirstName != "" {
				view.selectedFirstName = u.FirstName
			}
		}
	}
	return view, nil
}

// History is the month view priced at plain hours × rate.
func (s *Service) History(ctx context.Context, viewer users.Actor, q MonthQuery) (MonthlyView, error) {
	ctx, span := s.start(ctx, "reports.History", attribute.String("month", q.Month))
	defer span.End()
	view, err := s.monthly(ctx, viewer, q, czechLabels, true)
	if err != nil {
		return MonthlyView{}, fail(span, err)
	}
	return view, nil
}

func (s *Service) Timesheet(ctx context.Context, viewer users.Actor, q MonthQuery) (MonthlyView, error) {
	ctx, span := s.start(ctx, "reports.Timesheet", attribute.String("month", q.Month))
	defer span.End()
	view, err := s.monthly(ctx, viewer, q, englishLabels, false)
	if err != nil {
		return MonthlyView{}, fail(span, err)
	}
	return view, nil
}

func (v MonthlyView) HistoryFilename() string {
	return csvexport.HistoryFilename(v.Month, v.selectedFirstName)
}

func (v MonthlyView) TimesheetFilename() string {
	return csvexport.TimesheetFilename(v.Month)
}

func (v MonthlyView) HistoryRecords() []*csvexport.Record {
	records := make([]*csvexport.Record, 0, len(v.Rows))
	for _, row := range v.Rows {
		records = append(records, csvexport.NewRecord().
			Set("Datum", czechDate(row.Date)).
			Set("Zaměstnanec", row.EmployeeName).
			Set("Email", row.Email).
			Set("Projekt", row.ProjectName).
			Set("Začátek", row.StartTime).
			Set("Konec", row.EndTime).
			Set("Hodiny", row.HoursWorked).
			Set("Hodinová sazba", row.HourlyRate).
			Set("Celková cena", row.Cost).
			Set("Popis", row.Description))
	}
	return records
}

func (v MonthlyView) TimesheetRecords() []*csvexport.Record {
	records := make([]*csvexport.Record, 0, len(v.Rows))
	for _, row := range v.Rows {
		records = append(records, csvexport.NewRecord().
			Set("Date", isoDate(row.Date)).
			Set("Employee", row.EmployeeName).
			Set("Start Time", row.StartTime).
			Set("End Time", row.EndTime).
			Set("Hours Worked", row.HoursWorked).
			Set("Project", row.ProjectName).
			Set("Description", row.Description).
			Set("Hourly Rate", row.HourlyRate).
			Set("Total Cost", row.Cost))
	}
	return records
}
