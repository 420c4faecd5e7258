package csvexport

import "time"

const ContentType = "text/csv; charset=utf-8"

func ReportFilename(startDate, endDate string) string {
	return "report-" + orAll(startDate) + "-" + orAll(endDate) + ".csv"
}

// HistoryFilename appends the employee's first name when a single employee
// is selected.
func HistoryFilename(month, firstName string) string {
	name := "historie-" + month
	if firstName != "" {
		name += "-" + firstName
	}
	return name + ".csv"
}

func TimesheetFilename(month string) string {
	return "timesheet-" + month + ".csv"
}

func CompanyReportFilename(day time.Time) string {
	return "company-report-" + day.Format("2006-01-02") + ".csv"
}

func orAll(value string) string {
	if value == "" {
		return "all"
	}
	return value
}
