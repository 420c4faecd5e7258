package reports

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/projects"
	"worklog/internal/domain/settings"
	"worklog/internal/domain/timeentries"
	"worklog/internal/domain/users"
	"worklog/internal/domain/worktime"
	"worklog/internal/platform/csvexport"
)

type fixture struct {
	users    []users.User
	projects []projects.Project
	entries  []timeentries.Entry
	err      error
}

type userSource struct{ f *fixture }

func (s userSource) List(context.Context) ([]users.User, error) { return s.f.users, s.f.err }

type projectSource struct{ f *fixture }

func (s projectSource) List(context.Context) ([]projects.Project, error) { return s.f.projects, nil }

type entrySource struct{ f *fixture }

func (s entrySource) List(context.Context) ([]timeentries.Entry, error) { return s.f.entries, nil }

type settingsSource struct{}

func (settingsSource) Get(context.Context) (settings.Settings, error) { return settings.Defaults(), nil }

var (
	admin = users.Actor{UserID: "admin-1", Role: users.RoleAdmin}
	jan   = users.Actor{UserID: "emp-1", Role: users.RoleEmployee}
	marie = users.Actor{UserID: "emp-2", Role: users.RoleEmployee}
	now   = time.Date(2024, time.December, 10, 12, 0, 0, 0, time.UTC)
)

func entry(id, userID, date, start, end string, hours float64, projectID string, created time.Time) timeentries.Entry {
	return timeentries.Entry{
		ID: id, UserID: userID, Date: date, StartTime: start, EndTime: end,
		HoursWorked: hours, ProjectID: projectID, Description: "work " + id, CreatedAt: created,
	}
}

func newFixture() *fixture {
	at := func(day int) time.Time { return time.Date(2024, time.December, day, 18, 0, 0, 0, time.UTC) }
	return &fixture{
		users: []users.User{
			{ID: "admin-1", FirstName: "Admin", LastName: "Systému", Email: "admin@firma.cz", Role: users.RoleAdmin, IsActive: true},
			{ID: "emp-1", FirstName: "Jan", LastName: "Novák", Email: "jan.novak@firma.cz", Role: users.RoleEmployee, HourlyRate: 450, MonthlyDeductions: 8500, IsActive: true},
			{ID: "emp-2", FirstName: "Marie", LastName: "Svobodová", Email: "marie.svobodova@firma.cz", Role: users.RoleEmployee, HourlyRate: 520, MonthlyDeductions: 9200, IsActive: true},
			{ID: "emp-3", FirstName: "Petr", LastName: "Dvořák", Email: "petr@firma.cz", Role: users.RoleEmployee, HourlyRate: 400, IsActive: false},
		},
		projects: []projects.Project{
			{ID: "proj-1", Name: "E-commerce platforma", IsActive: true},
			{ID: "proj-2", Name: "CRM systém", IsActive: true},
		},
		entries: []timeentries.Entry{
			entry("e1", "emp-1", "2024-12-01", "09:00", "17:00", 8, "proj-1", at(1)),
			entry("e2", "emp-1", "2024-12-02", "08:30", "16:00", 7.5, "proj-1", at(2)),
			entry("e3", "emp-2", "2024-12-01", "08:00", "16:30", 8.5, "proj-2", at(1).Add(time.Hour)),
			entry("e4", "emp-3", "2024-11-15", "09:00", "13:00", 4, "proj-2", at(1).AddDate(0, 0, -16)),
			entry("e5", "user-gone", "2024-12-03", "10:00", "12:00", 2, "proj-1", at(3)),
			entry("e6", "emp-1", "2024-12-09", "09:00", "13:00", 4, "proj-2", at(9)),
		},
	}
}

func newTestService(f *fixture) *Service {
	svc := NewService(userSource{f}, projectSource{f}, entrySource{f}, settingsSource{})
	svc.now = func() time.Time { return now }
	return svc
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil, nil, nil)
	if got != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", got)
	}
}

func TestAdminReportTotals(t *testing.T) {
	report, err := newTestService(newFixture()).AdminReport(context.Background(), AdminFilter{EmployeeID: "all"})
	if err != nil {
		t.Fatalf("admin report: %v", err)
	}
	want := Summary{TotalHours: 34, TotalCost: 19795.71, UniqueEmployees: 4, UniqueProjects: 2, EntryCount: 6, AverageHoursPerEntry: 5.67}
	if report.Summary != want {
		t.Fatalf("expected %+v, got %+v", want, report.Summary)
	}
	if report.Contributions.Employer != 6690.95 {
		t.Fatalf("expected employer contribution 6690.95, got %v", report.Contributions.Employer)
	}
	if len(report.Employees) != 2 {
		t.Fatalf("expected only active employees in the picker, got %d", len(report.Employees))
	}
	for _, row := range report.Rows {
		if row.UserID == "user-gone" && (row.EmployeeName != "Neznámý" || row.Cost != 0) {
			t.Fatalf("unexpected unknown user row %+v", row)
		}
		if row.UserID == "emp-3" && row.Cost != 2140.8 {
			t.Fatalf("expected deactivated user's entry to keep its cost, got %+v", row)
		}
	}
}

func TestAdminReportFilterAndCSV(t *testing.T) {
	report, err := newTestService(newFixture()).AdminReport(context.Background(), AdminFilter{EmployeeID: "emp-1", StartDate: "2024-12-02"})
	if err != nil {
		t.Fatalf("admin report: %v", err)
	}
	if report.Summary.TotalHours != 11.5 || report.Summary.TotalCost != 6924.15 {
		t.Fatalf("unexpected summary %+v", report.Summary)
	}
	if report.Filename() != "report-2024-12-02-all.csv" {
		t.Fatalf("unexpected filename %s", report.Filename())
	}

	out, err := csvexport.Render(report.Records())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(out, "\n")
	if lines[0] != `"Datum","Zaměstnanec","Email","Projekt","Hodiny","Hodinová sazba","Celková cena","Popis"` {
		t.Fatalf("unexpected header %s", lines[0])
	}
	if lines[1] != `"09.12.2024","Jan Novák","jan.novak@firma.cz","CRM systém","4","450","2408.4","work e6"` {
		t.Fatalf("unexpected first row %s", lines[1])
	}
}

func TestAdminReportRejectsReversedRange(t *testing.T) {
	_, err := newTestService(newFixture()).AdminReport(context.Background(), AdminFilter{StartDate: "2024-12-10", EndDate: "2024-12-01"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHistoryScopesEmployees(t *testing.T) {
	svc := newTestService(newFixture())
	ctx := context.Background()

	view, err := svc.History(ctx, jan, MonthQuery{Month: "2024-12", EmployeeID: "emp-2"})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(view.Rows) != 3 {
		t.Fatalf("expected jan's 3 entries, got %d", len(view.Rows))
	}
	for _, row := range view.Rows {
		if row.UserID != "emp-1" {
			t.Fatalf("employee saw foreign row %+v", row)
		}
	}
	if view.Summary.TotalCost != 8775 || view.AverageHourlyRate != 450 {
		t.Fatalf("unexpected history summary %+v avg=%v", view.Summary, view.AverageHourlyRate)
	}
	if view.HistoryFilename() != "historie-2024-12.csv" {
		t.Fatalf("unexpected filename %s", view.HistoryFilename())
	}
	if view.Employees != nil {
		t.Fatal("expected no employee picker for employees")
	}

	view, err = svc.History(ctx, admin, MonthQuery{Month: "2024-12", EmployeeID: "emp-2"})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if view.HistoryFilename() != "historie-2024-12-Marie.csv" {
		t.Fatalf("unexpected filename %s", view.HistoryFilename())
	}
	records := view.HistoryRecords()
	if got := records[0].Keys(); strings.Join(got, "|") != "Datum|Zaměstnanec|Email|Projekt|Začátek|Konec|Hodiny|Hodinová sazba|Celková cena|Popis" {
		t.Fatalf("unexpected history columns %v", got)
	}

	if _, err := svc.History(ctx, admin, MonthQuery{Month: "12/2024"}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTimesheetForAdmin(t *testing.T) {
	view, err := newTestService(newFixture()).Timesheet(context.Background(), admin, MonthQuery{})
	if err != nil {
		t.Fatalf("timesheet: %v", err)
	}
	if view.Month != "2024-12" {
		t.Fatalf("expected current month default, got %s", view.Month)
	}
	var order []string
	for _, row := range view.Rows {
		order = append(order, row.ID)
	}
	if strings.Join(order, ",") != "e6,e5,e2,e3,e1" {
		t.Fatalf("unexpected order %v", order)
	}
	if len(view.Employees) != 3 {
		t.Fatalf("expected all employees incl. inactive, got %d", len(view.Employees))
	}

	out, err := csvexport.Render(view.TimesheetRecords())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(out, "\n")
	if lines[0] != `"Date","Employee","Start Time","End Time","Hours Worked","Project","Description","Hourly Rate","Total Cost"` {
		t.Fatalf("unexpected header %s", lines[0])
	}
	if lines[2] != `"2024-12-03","Unknown","10:00","12:00","2","E-commerce platforma","work e5","",""` {
		t.Fatalf("unexpected unknown user row %s", lines[2])
	}
	if view.TimesheetFilename() != "timesheet-2024-12.csv" {
		t.Fatalf("unexpected filename %s", view.TimesheetFilename())
	}
}

func TestCompanyReport(t *testing.T) {
	report, err := newTestService(newFixture()).CompanyReport(context.Background(), 3)
	if err != nil {
		t.Fatalf("company report: %v", err)
	}

	wantMonths := []MonthStat{
		{Month: "Oct 2024"},
		{Month: "Nov 2024", Hours: 4, Cost: 2141, Entries: 1},
		{Month: "Dec 2024", Hours: 30, Cost: 17655, Entries: 5},
	}
	if len(report.Monthly) != len(wantMonths) {
		t.Fatalf("expected %d months, got %d", len(wantMonths), len(report.Monthly))
	}
	for i, want := range wantMonths {
		if report.Monthly[i] != want {
			t.Fatalf("month %d: expected %+v, got %+v", i, want, report.Monthly[i])
		}
	}

	if report.Employees[0].UserID != "emp-1" || report.Employees[0].Cost != 11741 {
		t.Fatalf("unexpected top employee %+v", report.Employees[0])
	}
	if len(report.Employees) != 3 || report.Employees[2].UserID != "emp-3" {
		t.Fatalf("expected deactivated employee last, got %+v", report.Employees)
	}
	if report.Projects[0].ProjectID != "proj-2" || report.Projects[0].Cost != 10463 || report.Projects[0].Entries != 3 {
		t.Fatalf("unexpected top project %+v", report.Projects[0])
	}
	if report.Projects[1].Entries != 2 {
		t.Fatalf("expected unknown-user entry skipped, got %+v", report.Projects[1])
	}
	want := CompanyTotals{TotalHours: 34, TotalCost: 19796, TotalEntries: 6, ActiveProjects: 2}
	if report.Totals != want {
		t.Fatalf("expected %+v, got %+v", want, report.Totals)
	}

	records := report.Records()
	if len(records) != 15 {
		t.Fatalf("expected 15 csv rows, got %d", len(records))
	}
	out, _ := csvexport.Render(records)
	lines := strings.Split(out, "\n")
	if lines[0] != `"Type","Name","Value","Hours","Cost","Hourly Rate","Entries"` {
		t.Fatalf("unexpected header %s", lines[0])
	}
	if lines[2] != `"Summary","Total Cost","19796 CZK","","","",""` {
		t.Fatalf("unexpected total cost row %s", lines[2])
	}
	if lines[5] != `"","","","","","",""` {
		t.Fatalf("expected blank separator, got %s", lines[5])
	}
	if report.Filename() != "company-report-2024-12-10.csv" {
		t.Fatalf("unexpected filename %s", report.Filename())
	}

	if _, err := newTestService(newFixture()).CompanyReport(context.Background(), 4); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEmployeeDashboard(t *testing.T) {
	svc := newTestService(newFixture())
	ctx := context.Background()

	dash, err := svc.EmployeeDashboard(ctx, "emp-1", worktime.Month(now))
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.TotalHours != 19.5 || dash.Salary.Net != 8775 || dash.Salary.Gross != 17275 || dash.Salary.Deductions != 8500 {
		t.Fatalf("unexpected dashboard %+v", dash)
	}
	if dash.EntryCount != 3 || dash.RecentEntries[0].ID != "e6" {
		t.Fatalf("unexpected recent entries %+v", dash.RecentEntries)
	}

	dash, err = svc.EmployeeDashboard(ctx, "emp-1", worktime.Custom("2024-12-01", ""))
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.Period.Valid || dash.TotalHours != 0 || len(dash.RecentEntries) != 0 {
		t.Fatalf("expected empty result for open custom period, got %+v", dash)
	}

	if _, err := svc.EmployeeDashboard(ctx, "nobody", worktime.Month(now)); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdminDashboard(t *testing.T) {
	dash, err := newTestService(newFixture()).AdminDashboard(context.Background(), now)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.TotalHours != 30 || dash.TotalCost != 17654.91 || dash.EntryCount != 5 {
		t.Fatalf("unexpected month totals %+v", dash)
	}
	if dash.ActiveEmployees != 3 || dash.ActiveProjects != 2 || dash.TotalEmployees != 2 {
		t.Fatalf("unexpected counts %+v", dash)
	}
	if len(dash.Chart) != 6 || dash.Chart[5].Month != "Dec 2024" || dash.Chart[4].TotalCost != 2141 {
		t.Fatalf("unexpected chart %+v", dash.Chart)
	}
	if len(dash.RecentEntries) != 5 || dash.RecentEntries[0].ID != "e6" {
		t.Fatalf("unexpected recent entries %+v", dash.RecentEntries)
	}
}

func TestPerformanceDashboard(t *testing.T) {
	dash, err := newTestService(newFixture()).PerformanceDashboard(context.Background(), "emp-1")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.WeeklyHours != 4 || dash.MonthlyHours != 19.5 {
		t.Fatalf("unexpected hours %+v", dash)
	}
	if dash.Salary.Gross != 11740.95 || dash.Salary.Net != 188.3 {
		t.Fatalf("unexpected salary %+v", dash.Salary)
	}
	if dash.TotalProjects != 2 || dash.Currency != "CZK" {
		t.Fatalf("unexpected dashboard %+v", dash)
	}
}

func TestStatementFor(t *testing.T) {
	svc := newTestService(newFixture())
	ctx := context.Background()

	if _, err := svc.StatementFor(ctx, marie, "emp-1", "2024-12"); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	st, err := svc.StatementFor(ctx, jan, "emp-1", "2024-12")
	if err != nil {
		t.Fatalf("statement: %v", err)
	}
	if st.Hours != 19.5 || st.Entries != 3 || st.Breakdown.Net != 8775 || st.CompanyName != "Moje Firma" {
		t.Fatalf("unexpected statement %+v", st)
	}
}

func TestLoadFailurePropagates(t *testing.T) {
	f := newFixture()
	f.err = apperr.ErrPermissionDenied
	if _, err := newTestService(f).AdminReport(context.Background(), AdminFilter{}); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("expected load error, got %v", err)
	}
}
