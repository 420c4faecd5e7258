package timeentries

import (
	"time"

	"worklog/internal/domain/lifecycle"
)

// DeletionPolicy removes entries outright; nothing references them.
const DeletionPolicy = lifecycle.HardDelete

const MaxHoursPerEntry = 24

type Entry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Date        string    `json:"date"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	HoursWorked float64   `json:"hoursWorked"`
	ProjectID   string    `json:"projectId"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateInput describes a new work session. HoursWorked overrides the value
// derived from the clock times when set.
type CreateInput struct {
	UserID      string   `json:"userId"`
	Date        string   `json:"date" validate:"required,day"`
	StartTime   string   `json:"startTime" validate:"required,clock"`
	EndTime     string   `json:"endTime" validate:"required,clock"`
	HoursWorked *float64 `json:"hoursWorked,omitempty"`
	ProjectID   string   `json:"projectId" validate:"required"`
	Description string   `json:"description"`
}

type Patch struct {
	Date        *string  `json:"date,omitempty"`
	StartTime   *string  `json:"startTime,omitempty"`
	EndTime     *string  `json:"endTime,omitempty"`
	HoursWorked *float64 `json:"hoursWorked,omitempty"`
	ProjectID   *string  `json:"projectId,omitempty"`
	Description *string  `json:"description,omitempty"`
}

func (p Patch) Apply(e Entry) Entry {
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.StartTime != nil {
		e.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		e.EndTime = *p.EndTime
	}
	if p.HoursWorked != nil {
		e.HoursWorked = *p.HoursWorked
	}
	if p.ProjectID != nil {
		e.ProjectID = *p.ProjectID
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	return e
}
