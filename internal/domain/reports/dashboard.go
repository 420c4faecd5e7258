package reports

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/payroll"
	"worklog/internal/domain/timeentries"
	"worklog/internal/domain/users"
	"worklog/internal/domain/worktime"
)

const recentLimit = 5

type PeriodRange struct {
	Kind  worktime.Kind `json:"kind"`
	From  string        `json:"from,omitempty"`
	To    string        `json:"to,omitempty"`
	Valid bool          `json:"valid"`
}

type EmployeeDashboard struct {
	UserID        string              `json:"userId"`
	Period        PeriodRange         `json:"period"`
	TotalHours    float64             `json:"totalHours"`
	Salary        payroll.Breakdown   `json:"salary"`
	EntryCount    int                 `json:"entryCount"`
	RecentEntries []timeentries.Entry `json:"recentEntries"`
}

// EmployeeDashboard summarizes one employee's period with the
// net-then-deductions formula. A custom period without both bounds selects
// nothing.
func (s *Service) EmployeeDashboard(ctx context.Context, userID string, period worktime.Period) (EmployeeDashboard, error) {
	ctx, span := s.start(ctx, "reports.EmployeeDashboard",
		attribute.String("user_id", userID),
		attribute.String("period", string(period.Kind)),
	)
	defer span.End()

	snap, err := s.load(ctx)
	if err != nil {
		return EmployeeDashboard{}, fail(span, err)
	}
	user, ok := snap.userByID[userID]
	if !ok {
		return EmployeeDashboard{}, fail(span, apperr.ErrNotFound)
	}

	from, to, valid := period.Bounds()
	dash := EmployeeDashboard{
		UserID:        userID,
		Period:        PeriodRange{Kind: period.Kind, From: from, To: to, Valid: valid},
		RecentEntries: []timeentries.Entry{},
	}
	if !valid {
		return dash, nil
	}

	entries := timeentries.Apply(snap.entries, timeentries.Filter{Period: &period, UserID: userID})
	dash.TotalHours = timeentries.TotalHours(entries)
	dash.Salary = payroll.NetThenDeductions(dash.TotalHours, user.HourlyRate, user.MonthlyDeductions)
	dash.EntryCount = len(entries)
	dash.RecentEntries = entries[:min(recentLimit, len(entries))]
	return dash, nil
}

type ChartPoint struct {
	Month     string  `json:"month"`
	TotalCost float64 `json:"totalCost"`
	Hours     float64 `json:"hours"`
}

type AdminDashboard struct {
	Month           string       `json:"month"`
	TotalHours      float64      `json:"totalHours"`
	TotalCost       float64      `json:"totalCost"`
	EntryCount      int          `json:"entryCount"`
	ActiveEmployees int          `json:"activeEmployees"`
	ActiveProjects  int          `json:"activeProjects"`
	TotalEmployees  int          `json:"totalEmployees"`
	Chart           []ChartPoint `json:"chart"`
	RecentEntries   []EntryRow   `json:"recentEntries"`
}

// AdminDashboard covers the month of ref plus a six-month cost chart ending
// with it. Costs use the gross-from-hours formula.
func (s *Service) AdminDashboard(ctx context.Context, ref time.Time) (AdminDashboard, error) {
	ctx, span := s.start(ctx, "reports.AdminDashboard", attribute.String("month", ref.Format(worktime.MonthLayout)))
	defer span.End()

	snap, err := s.load(ctx)
	if err != nil {
		return AdminDashboard{}, fail(span, err)
	}

	period := worktime.Month(ref)
	entries := timeentries.Apply(snap.entries, timeentries.Filter{Period: &period})
	summary := Aggregate(entries, snap.userByID, payroll.GrossFromHours)

	chart := make([]ChartPoint, 0, 6)
	for _, m := range snap.monthSeries(6, ref) {
		chart = append(chart, ChartPoint{Month: m.Month, TotalCost: m.Cost, Hours: m.Hours})
	}

	all := timeentries.Apply(snap.entries, timeentries.Filter{})
	return AdminDashboard{
		Month:           ref.Format(worktime.MonthLayout),
		TotalHours:      summary.TotalHours,
		TotalCost:       summary.TotalCost,
		EntryCount:      summary.EntryCount,
		ActiveEmployees: summary.UniqueEmployees,
		ActiveProjects:  summary.UniqueProjects,
		TotalEmployees:  len(snap.employees(true)),
		Chart:           chart,
		RecentEntries:   snap.rows(all[:min(recentLimit, len(all))], payroll.GrossFromHours, czechLabels),
	}, nil
}

type PerformanceDashboard struct {
	UserID        string            `json:"userId"`
	WeeklyHours   float64           `json:"weeklyHours"`
	MonthlyHours  float64           `json:"monthlyHours"`
	Salary        payroll.Breakdown `json:"salary"`
	Currency      string            `json:"currency"`
	TotalProjects int               `json:"totalProjects"`
}

// PerformanceDashboard prices the current month with gross-from-hours and
// derives net through the configured percentages.
func (s *Service) PerformanceDashboard(ctx context.Context, userID string) (PerformanceDashboard, error) {
	ctx, span := s.start(ctx, "reports.PerformanceDashboard", attribute.String("user_id", userID))
	defer span.End()

	snap, err := s.load(ctx)
	if err != nil {
		return PerformanceDashboard{}, fail(span, err)
	}
	user, ok := snap.userByID[userID]
	if !ok {
		return PerformanceDashboard{}, fail(span, apperr.ErrNotFound)
	}

	now := s.now()
	mine := timeentries.Apply(snap.entries, timeentries.Filter{UserID: userID})
	month := worktime.Month(now)
	week := worktime.Week(now)
	monthly := timeentries.TotalHours(timeentries.Apply(mine, timeentries.Filter{Period: &month}))
	weekly := timeentries.TotalHours(timeentries.Apply(mine, timeentries.Filter{Period: &week}))

	projects := map[string]struct{}{}
	for _, e := range mine {
		projects[e.ProjectID] = struct{}{}
	}

	return PerformanceDashboard{
		UserID:        userID,
		WeeklyHours:   weekly,
		MonthlyHours:  monthly,
		Salary:        payroll.PerformanceSummary(monthly, user.HourlyRate, user.MonthlyDeductions, snap.settings.Rates()),
		Currency:      snap.settings.Currency,
		TotalProjects: len(projects),
	}, nil
}

// StatementFor gathers the pay statement of userID for a YYYY-MM month.
func (s *Service) StatementFor(ctx context.Context, viewer users.Actor, userID, month string) (payroll.Statement, error) {
	ctx, span := s.start(ctx, "reports.StatementFor", attribute.String("user_id", userID), attribute.String("month", month))
	defer span.End()

	if !viewer.CanAccess(userID) {
		return payroll.Statement{}, fail(span, apperr.ErrPermissionDenied)
	}
	if month == "" {
		month = s.now().Format(worktime.MonthLayout)
	}
	ref, err := worktime.ParseMonth(month)
	if err != nil {
		return payroll.Statement{}, fail(span, apperr.Invalid("month", "must be a month in YYYY-MM format"))
	}

	snap, err := s.load(ctx)
	if err != nil {
		return payroll.Statement{}, fail(span, err)
	}
	user, ok := snap.userByID[userID]
	if !ok {
		return payroll.Statement{}, fail(span, apperr.ErrNotFound)
	}

	period := worktime.Month(ref)
	entries := timeentries.Apply(snap.entries, timeentries.Filter{Period: &period, UserID: userID})
	hours := timeentries.TotalHours(entries)
	return payroll.Statement{
		CompanyName:  snap.settings.CompanyName,
		EmployeeName: user.FullName(),
		Email:        user.Email,
		Month:        month,
		Currency:     snap.settings.Currency,
		Hours:        hours,
		HourlyRate:   user.HourlyRate,
		Entries:      len(entries),
		Breakdown:    payroll.NetThenDeductions(hours, user.HourlyRate, user.MonthlyDeductions),
	}, nil
}
