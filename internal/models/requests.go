package models

import (
	"fmt"
	"strings"
	"time"
)

// Date accepts either a calendar date ("2006-01-02") or an RFC 3339 timestamp
type Date struct {
	time.Time
}

// UnmarshalJSON implements the json.Unmarshaler interface for Date.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}

	if t, err := time.Parse(time.DateOnly, s); err == nil {
		d.Time = t
		return nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("%w: date %q must be YYYY-MM-DD or RFC 3339", ErrInvalidValue, s)
	}
	d.Time = t.UTC()
	return nil
}

// Ptr returns the date as a *time.Time, nil for a missing or zero date
func (d *Date) Ptr() *time.Time {
	if d == nil || d.Time.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// ProjectRequest is the body for creating or replacing a project
type ProjectRequest struct {
	Name      string `json:"name"`
	Location  string `json:"location,omitempty"`
	StartDate *Date  `json:"startDate,omitempty"`
	EndDate   *Date  `json:"endDate,omitempty"`
	Progress  int    `json:"progress"`
}

// Project converts the request to a project record
func (r ProjectRequest) Project() Project {
	return Project{
		Name:      r.Name,
		Location:  r.Location,
		StartDate: r.StartDate.Ptr(),
		EndDate:   r.EndDate.Ptr(),
		Progress:  r.Progress,
	}
}

// TaskRequest is the body for creating a task
type TaskRequest struct {
	Description  string     `json:"description"`
	Category     Category   `json:"category"`
	Status       TaskStatus `json:"status,omitempty"`
	Progress     int        `json:"progress"`
	Priority     Priority   `json:"priority,omitempty"`
	StartDate    *Date      `json:"startDate,omitempty"`
	EndDate      *Date      `json:"endDate,omitempty"`
	AssignedTeam string     `json:"assignedTeam,omitempty"`
	LocationArea string     `json:"locationArea,omitempty"`
	Remark       string     `json:"remark,omitempty"`
	CriticalPath bool       `json:"isCriticalPath,omitempty"`
	Resources    *Resources `json:"resources,omitempty"`
}

// Task converts the request to a task record
func (r TaskRequest) Task() Task {
	return Task{
		Description:  strings.TrimSpace(r.Description),
		Category:     r.Category,
		Status:       r.Status,
		Progress:     r.Progress,
		Priority:     r.Priority,
		StartDate:    r.StartDate.Ptr(),
		EndDate:      r.EndDate.Ptr(),
		AssignedTeam: r.AssignedTeam,
		LocationArea: r.LocationArea,
		Remark:       r.Remark,
		CriticalPath: r.CriticalPath,
		Resources:    r.Resources,
	}
}
