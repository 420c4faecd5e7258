package reports

import (
	"worklog/internal/domain/timeentries"
	"worklog/internal/domain/worktime"
)

const (
	unknownEmployee   = "Neznámý"
	unknownProject    = "Neznámý projekt"
	unknownEmployeeEN = "Unknown"
)

// EntryRow is a time entry joined with its user and project.
type EntryRow struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime"`
	HoursWorked  float64 `json:"hoursWorked"`
	UserID       string  `json:"userId"`
	EmployeeName string  `json:"employeeName"`
	Email        string  `json:"email"`
	ProjectID    string  `json:"projectId"`
	ProjectName  string  `json:"projectName"`
	Description  string  `json:"description"`
	HourlyRate   float64 `json:"hourlyRate"`
	Cost         float64 `json:"cost"`
}

type labels struct {
	employee string
	project  string
}

var (
	czechLabels   = labels{employee: unknownEmployee, project: unknownProject}
	englishLabels = labels{employee: unknownEmployeeEN}
)

func (snap snapshot) rows(entries []timeentries.Entry, cost CostFunc, l labels) []EntryRow {
	out := make([]EntryRow, 0, len(entries))
	for _, e := range entries {
		row := EntryRow{
			ID:           e.ID,
			Date:         e.Date,
			StartTime:    e.StartTime,
			EndTime:      e.EndTime,
			HoursWorked:  e.HoursWorked,
			UserID:       e.UserID,
			EmployeeName: l.employee,
			ProjectID:    e.ProjectID,
			ProjectName:  l.project,
			Description:  e.Description,
		}
		if u, ok := snap.userByID[e.UserID]; ok {
			row.EmployeeName = u.FullName()
			row.Email = u.Email
			row.HourlyRate = u.HourlyRate
			row.Cost = cost(e.HoursWorked, u.HourlyRate)
		}
		if p, ok := snap.projectByID[e.ProjectID]; ok {
			row.ProjectName = p.Name
		}
		out = append(out, row)
	}
	return out
}

// czechDate renders YYYY-MM-DD as dd.MM.yyyy, leaving unparseable values
// untouched.
func czechDate(value string) string {
	parsed, err := worktime.ParseDate(value)
	if err != nil {
		return value
	}
	return parsed.Format("02.01.2006")
}

func isoDate(value string) string {
	parsed, err := worktime.ParseDate(value)
	if err != nil {
		return value
	}
	return parsed.Format(worktime.DateLayout)
}
