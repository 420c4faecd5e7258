package reports

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/payroll"
	"worklog/internal/domain/timeentries"
	"worklog/internal/domain/users"
	"worklog/internal/domain/worktime"
	"worklog/internal/platform/csvexport"
)

// AdminFilter narrows the admin report. Empty dates leave that side of the
// range open; EmployeeID "" or "all" selects everyone.
type AdminFilter struct {
	EmployeeID string `json:"employeeId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

type AdminReport struct {
	Filter        AdminFilter           `json:"filter"`
	Summary       Summary               `json:"summary"`
	Contributions payroll.Contributions `json:"contributions"`
	Employees     []users.User          `json:"employees"`
	Rows          []EntryRow            `json:"rows"`
}

func (f AdminFilter) validate() error {
	checker := apperr.NewChecker()
	var start, end string
	if f.StartDate != "" {
		parsed, err := worktime.ParseDate(f.StartDate)
		checker.Check(err == nil, "startDate", "must be a date in YYYY-MM-DD format")
		if err == nil {
			start = parsed.Format(worktime.DateLayout)
		}
	}
	if f.EndDate != "" {
		parsed, err := worktime.ParseDate(f.EndDate)
		checker.Check(err == nil, "endDate", "must be a date in YYYY-MM-DD format")
		if err == nil {
			end = parsed.Format(worktime.DateLayout)
		}
	}
	if start != "" && end != "" {
		checker.Check(start <= end, "endDate", "must not be before startDate")
	}
	return checker.Err()
}

// AdminReport prices every matching entry with the gross-from-hours formula.
func (s *Service) AdminReport(ctx context.Context, f AdminFilter) (AdminReport, error) {
	ctx, span := s.start(ctx, "reports.AdminReport",
		attribute.String("employee_id", f.EmployeeID),
		attribute.String("start_date", f.StartDate),
		attribute.String("end_date", f.EndDate),
	)
	defer span.End()

	if err := f.validate(); err != nil {
		return AdminReport{}, fail(span, err)
	}
	snap, err := s.load(ctx)
	if err != nil {
		return AdminReport{}, fail(span, err)
	}

	entries := timeentries.Apply(snap.entries, timeentries.Filter{
		UserID: f.EmployeeID,
		From:   worktime.NormalizeDate(f.StartDate),
		To:     worktime.NormalizeDate(f.EndDate),
	})
	summary := Aggregate(entries, snap.userByID, payroll.GrossFromHours)
	return AdminReport{
		Filter:        f,
		Summary:       summary,
		Contributions: payroll.EmployerContributions(summary.TotalCost, snap.settings.Rates()),
		Employees:     snap.employees(true),
		Rows:          snap.rows(entries, payroll.GrossFromHours, czechLabels),
	}, nil
}

func (r AdminReport) Filename() string {
	return csvexport.ReportFilename(r.Filter.StartDate, r.Filter.EndDate)
}

func (r AdminReport) Records() []*csvexport.Record {
	records := make([]*csvexport.Record, 0, len(r.Rows))
	for _, row := range r.Rows {
		records = append(records, csvexport.NewRecord().
			Set("Datum", czechDate(row.Date)).
			Set("Zaměstnanec", row.EmployeeName).
			Set("Email", row.Email).
			Set("Projekt", row.ProjectName).
			Set("Hodiny", row.HoursWorked).
			Set("Hodinová sazba", row.HourlyRate).
			Set("Celková cena", row.Cost).
			Set("Popis", row.Description))
	}
	return records
}
