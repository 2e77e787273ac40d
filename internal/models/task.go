package models

import (
	"fmt"
	"time"
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskPending    TaskStatus = "Pending"
	TaskInProgress TaskStatus = "In Progress"
	TaskCompleted  TaskStatus = "Completed"
	TaskDelayed    TaskStatus = "Delayed"
	TaskBlocked    TaskStatus = "Blocked"
)

// IsValid returns true if the status is a known value
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskDelayed, TaskBlocked:
		return true
	default:
		return false
	}
}

// IsStalled returns true for statuses that signal the task is not moving
func (s TaskStatus) IsStalled() bool {
	return s == TaskDelayed || s == TaskBlocked
}

// Category is the trade a task belongs to
type Category string

const (
	CategoryStructural Category = "Structural"
	CategoryElectrical Category = "Electrical"
	CategoryPlumbing   Category = "Plumbing"
	CategoryFinishing  Category = "Finishing"
	CategoryInspection Category = "Inspection"
	CategoryOther      Category = "Other"
)

// IsValid returns true if the category is a known value
func (c Category) IsValid() bool {
	switch c {
	case CategoryStructural, CategoryElectrical, CategoryPlumbing,
		CategoryFinishing, CategoryInspection, CategoryOther:
		return true
	default:
		return false
	}
}

// Priority of a task
type Priority string

const (
	PriorityNormal   Priority = "Normal"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// IsValid returns true if the priority is a known value
func (p Priority) IsValid() bool {
	switch p {
	case PriorityNormal, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// Resources describes the labor, materials and equipment committed to a task.
// It is only ever populated from stored data.
type Resources struct {
	Labor     string `json:"labor"`
	Materials string `json:"materials"`
	Equipment string `json:"equipment"`
}

// Task represents a unit of site work within a project
type Task struct {
	ID           string     `json:"id"`
	ProjectID    string     `json:"projectId"`
	Description  string     `json:"description"`
	Category     Category   `json:"category"`
	Status       TaskStatus `json:"status"`
	Progress     int        `json:"progress"`
	Priority     Priority   `json:"priority"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	AssignedTeam string     `json:"assignedTeam,omitempty"`
	LocationArea string     `json:"locationArea,omitempty"`
	Remark       string     `json:"remark,omitempty"`
	CriticalPath bool       `json:"isCriticalPath"`
	Resources    *Resources `json:"resources,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Validate checks required fields, enum values and ranges
func (t *Task) Validate() error {
	if t.Description == "" {
		return fmt.Errorf("%w: description", ErrMissingField)
	}
	if t.Category == "" {
		return fmt.Errorf("%w: category", ErrMissingField)
	}
	if !t.Category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidValue, t.Category)
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidValue, t.Status)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidValue, t.Priority)
	}
	if err := validateProgress(t.Progress); err != nil {
		return err
	}
	return validateRange(t.StartDate, t.EndDate)
}

// ApplyDefaults fills status and priority when the caller left them empty
func (t *Task) ApplyDefaults() {
	if t.Status == "" {
		t.Status = TaskPending
	}
	if t.Priority == "" {
		t.Priority = PriorityNormal
	}
}

// IsComplete returns true if the task is completed
func (t *Task) IsComplete() bool {
	return t.Status == TaskCompleted || t.Progress >= 100
}

// TaskFilters defines filters for listing tasks of a project
type TaskFilters struct {
	Status   TaskStatus
	Category Category
}

// Match reports whether the task passes the filters
func (f TaskFilters) Match(t *Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	return true
}

// TaskPatch is a partial task update. Nil fields are left untouched.
type TaskPatch struct {
	Progress *int    `json:"progress,omitempty"`
	Duration *int    `json:"duration,omitempty"` // days from startDate
	Remark   *string `json:"remark,omitempty"`
}

// IsEmpty returns true if the patch changes nothing
func (p TaskPatch) IsEmpty() bool {
	return p.Progress == nil && p.Duration == nil && p.Remark == nil
}

// Apply returns a copy of t with the patch applied. t is not modified.
func (p TaskPatch) Apply(t Task) (Task, error) {
	if p.Progress != nil {
		if err := validateProgress(*p.Progress); err != nil {
			return t, err
		}
		t.Progress = *p.Progress
	}

	if p.Duration != nil {
		if *p.Duration < 0 {
			return t, fmt.Errorf("%w: duration must not be negative", ErrInvalidValue)
		}
		if t.StartDate == nil {
			return t, fmt.Errorf("%w: startDate is required to set a duration", ErrMissingField)
		}
		end := t.StartDate.AddDate(0, 0, *p.Duration)
		t.EndDate = &end
	}

	if p.Remark != nil {
		t.Remark = *p.Remark
	}

	return t, nil
}

func validateProgress(progress int) error {
	if progress < 0 || progress > 100 {
		return fmt.Errorf("%w: progress must be within 0-100, got %d", ErrInvalidValue, progress)
	}
	return nil
}

func validateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("%w: end %s is before start %s",
			ErrInvalidDateRange, end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	return nil
}
